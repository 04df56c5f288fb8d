package main

import (
	"strings"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/spf13/cobra"
)

func sensitivityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep one profile input and show how the liability responds",
		Long: `Recompute the federal liability while one input moves across a range,
showing the effective, bracket and marginal rate at each step.

Parameters: ` + strings.Join(domain.SensitivityParameterNames(), ", ") + `

Examples:
  taxgo sensitivity --income 120000 --param ordinary_income --min 80000 --max 220000 --steps 8
  taxgo sensitivity --income 120000 --param itemized_deductions --min 0 --max 40000 --steps 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := newFlagReader(cmd)
			profile, err := readProfile(r)
			if err != nil {
				return err
			}
			param := domain.SensitivityParameter{
				Name:  r.stringFlag("param"),
				Min:   r.money("min"),
				Max:   r.money("max"),
				Steps: r.intFlag("steps"),
			}
			if r.err != nil {
				return r.err
			}
			engine, err := a.engine(0)
			if err != nil {
				return err
			}
			analysis, err := calculation.NewSensitivityAnalyzer(engine).Analyze(cmd.Context(), profile, param)
			if err != nil {
				return err
			}
			return a.write(cmd, output.SensitivityReport(analysis))
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().String("param", domain.ParamOrdinaryIncome, "Input to sweep")
	cmd.Flags().String("min", "0", "Start of the range")
	cmd.Flags().String("max", "200000", "End of the range")
	cmd.Flags().Int("steps", 11, "Number of points, including both ends")
	return cmd
}
