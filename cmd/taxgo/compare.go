package main

import (
	"fmt"
	"io"

	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/spf13/cobra"
)

func compareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [scenario.yaml]",
		Short: "Compare a baseline against strategy elections",
		Long: `Compare a baseline profile against the same profile with tax-loss
harvesting, a charitable gift and retirement deferral applied.

The profile and elections come from flags, or from a scenario file when one
is given (itemized and trading sections are folded into the baseline).

Examples:
  taxgo compare --income 150000 --ltcg 20000 --harvest 25000 --charitable 5000 --deferral 10000
  taxgo compare scenario.yaml --format csv
  taxgo compare scenario.yaml --compact`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cs  *compare.ComparisonSet
				err error
			)
			if len(args) == 1 {
				cs, err = compareScenario(cmd, a, args[0])
			} else {
				cs, err = compareFlags(cmd, a)
			}
			if err != nil {
				return err
			}
			compact, _ := cmd.Flags().GetBool("compact")
			return writeComparison(cmd.OutOrStdout(), a, cs, compact)
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().String("harvest", "0", "Harvested capital loss")
	cmd.Flags().String("charitable", "0", "Charitable gift")
	cmd.Flags().String("deferral", "0", "Retirement plan deferral")
	cmd.Flags().Bool("compact", false, "One-line summary (table format only)")
	return cmd
}

func compareFlags(cmd *cobra.Command, a *app) (*compare.ComparisonSet, error) {
	r := newFlagReader(cmd)
	profile, err := readProfile(r)
	if err != nil {
		return nil, err
	}
	elections := domain.StrategyElections{
		HarvestedLoss: r.money("harvest"),
		Charitable:    r.money("charitable"),
		Deferral:      r.money("deferral"),
	}
	if r.err != nil {
		return nil, r.err
	}
	engine, err := a.engine(0)
	if err != nil {
		return nil, err
	}
	return compare.NewCompareEngine(engine).Compare(cmd.Context(), profile, elections)
}

func compareScenario(cmd *cobra.Command, a *app, file string) (*compare.ComparisonSet, error) {
	scenario, err := loadScenario(a, file)
	if err != nil {
		return nil, err
	}
	engine, err := a.engine(scenario.TaxYear)
	if err != nil {
		return nil, err
	}
	return compare.NewCompareEngine(engine).CompareScenario(cmd.Context(), *scenario)
}

// writeComparison uses the comparison's own formatters for table, csv and
// json; yaml and html go through the generic report.
func writeComparison(w io.Writer, a *app, cs *compare.ComparisonSet, compact bool) error {
	switch a.settings.Format {
	case "table":
		tf := &compare.TableFormatter{}
		if compact {
			_, err := fmt.Fprintln(w, tf.FormatCompact(cs))
			return err
		}
		_, err := fmt.Fprint(w, tf.Format(cs))
		return err
	case "csv":
		out, err := (&compare.CSVFormatter{}).Format(cs)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, out)
		return err
	case "json":
		return (&compare.JSONFormatter{Pretty: true}).Write(w, cs)
	default:
		f := output.GetFormatterByName(a.settings.Format)
		if f == nil {
			return fmt.Errorf("unsupported format %q", a.settings.Format)
		}
		return output.WriteFormatted(w, f, output.ComparisonReport(cs))
	}
}
