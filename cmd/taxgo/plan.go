package main

import (
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/rgehrsitz/taxgo/internal/planner"
	"github.com/spf13/cobra"
)

func planCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan HSA, credits and Traditional vs Roth contributions",
		Long: `Compute this year's liability with the HSA deduction and compare
Traditional and Roth contributions of the same budget up to retirement.

Examples:
  taxgo plan --income 120000 --age 35 --retirement-age 65 --budget 15000 --hsa
  taxgo plan --income 60000 --age 30 --budget 6000 --growth 0.06 --withdrawal-rate 0.15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := newFlagReader(cmd)
			in := domain.PlannerInput{
				FilingStatus:      r.status("status"),
				CurrentAge:        r.intFlag("age"),
				RetirementAge:     r.intFlag("retirement-age"),
				GrossIncome:       r.money("income"),
				HSAEligible:       r.boolFlag("hsa"),
				OtherCredit:       r.money("credit"),
				InvestmentBudget:  r.money("budget"),
				GrowthRate:        r.optionalRate("growth"),
				WithdrawalTaxRate: r.optionalRate("withdrawal-rate"),
			}
			if r.err != nil {
				return r.err
			}
			engine, err := a.engine(0)
			if err != nil {
				return err
			}
			plan, err := planner.NewPlanner(engine).Plan(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.write(cmd, output.PlanReport(plan))
		},
	}
	f := cmd.Flags()
	f.String("status", "single", "Filing status (single, married_joint)")
	f.Int("age", 40, "Current age")
	f.Int("retirement-age", 65, "Retirement age")
	f.String("income", "0", "Gross income")
	f.Bool("hsa", false, "HSA eligible")
	f.String("credit", "0", "Other credit, e.g. the EV credit")
	f.String("budget", "0", "Yearly investment budget")
	f.String("growth", "", "Yearly growth rate as a fraction (default 0.08)")
	f.String("withdrawal-rate", "", "Tax rate on Traditional withdrawals (default 0.20)")
	return cmd
}
