package main

import (
	"fmt"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/config"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/rgehrsitz/taxgo/internal/planner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func loadScenario(a *app, file string) (*domain.Scenario, error) {
	scenario, err := config.NewInputParser(a.registry).LoadFromFile(file)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("scenario loaded", zap.String("file", file), zap.String("name", scenario.Name), zap.Int("tax_year", scenario.TaxYear))
	return scenario, nil
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario.yaml]",
		Short: "Validate a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadScenario(a, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scenario file %s is valid\n", args[0])
			return nil
		},
	}
}

// scenarioResult is everything `run` computes for one scenario file
type scenarioResult struct {
	Name       string                  `json:"name,omitempty"`
	TaxYear    int                     `json:"taxYear"`
	Profile    domain.TaxProfile       `json:"profile"`
	ScheduleD  *domain.ScheduleDResult `json:"scheduleD,omitempty"`
	Liability  domain.LiabilityResult  `json:"liability"`
	State      domain.StateTaxResult   `json:"state"`
	Comparison *compare.ComparisonSet  `json:"comparison,omitempty"`
	Plan       *planner.Plan           `json:"plan,omitempty"`
}

func runCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "Run every calculation a scenario file asks for",
		Long: `Run a scenario file: federal liability (with Schedule D netting when a
trading section is present), the state estimate, the strategy comparison
when strategies are elected, and the retirement plan when a planner section
is present.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := loadScenario(a, args[0])
			if err != nil {
				return err
			}
			engine, err := a.engine(scenario.TaxYear)
			if err != nil {
				return err
			}

			res := scenarioResult{Name: scenario.Name, TaxYear: scenario.TaxYear}
			res.Profile, res.ScheduleD = engine.ScenarioProfile(*scenario)
			res.Liability = engine.Liability(res.Profile)
			res.State, err = engine.StateEstimate(calculation.StateTaxBase(res.Profile, res.Liability),
				res.Profile.FilingStatus, scenario.State, scenario.CustomStateRate)
			if err != nil {
				return err
			}

			if !scenario.Strategies.IsZero() {
				res.Comparison, err = compare.NewCompareEngine(engine).CompareScenario(cmd.Context(), *scenario)
				if err != nil {
					return err
				}
			}
			if in, ok := scenario.PlannerInput(); ok {
				res.Plan, err = planner.NewPlanner(engine).Plan(cmd.Context(), in)
				if err != nil {
					return err
				}
			}
			return a.write(cmd, scenarioReport(res))
		},
	}
}

func scenarioReport(res scenarioResult) *output.Report {
	title := "SCENARIO"
	if res.Name != "" {
		title += ": " + res.Name
	}
	report := &output.Report{Title: fmt.Sprintf("%s (%d)", title, res.TaxYear), Payload: res}

	report.Sections = append(report.Sections, output.LiabilityReport(res.Profile, res.Liability).Sections...)
	if res.ScheduleD != nil {
		report.Sections = append(report.Sections, output.Section{Heading: "Schedule D", Rows: []output.Row{
			{Label: "Final Short-Term", Value: output.FormatCurrency(res.ScheduleD.FinalShortTerm)},
			{Label: "Final Long-Term", Value: output.FormatCurrency(res.ScheduleD.FinalLongTerm)},
			{Label: "Deductible Loss", Value: output.FormatCurrency(res.ScheduleD.DeductibleLoss)},
		}})
	}
	report.Sections = append(report.Sections, output.StateTaxReport(res.State).Sections...)
	if res.Comparison != nil {
		report.Sections = append(report.Sections, output.ComparisonReport(res.Comparison).Sections...)
	}
	if res.Plan != nil {
		report.Sections = append(report.Sections, output.PlanReport(res.Plan).Sections...)
	}
	return report
}

func rulesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the rules for a tax year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool("list"); list {
				for _, y := range a.registry.Years() {
					fmt.Fprintln(cmd.OutOrStdout(), y)
				}
				return nil
			}
			year, _ := cmd.Flags().GetInt("year")
			engine, err := a.engine(year)
			if err != nil {
				return err
			}
			return a.write(cmd, output.RulesReport(engine.Rules))
		},
	}
	cmd.Flags().Int("year", 0, "Tax year (default: --tax-year)")
	cmd.Flags().Bool("list", false, "List the available tax years")
	return cmd
}
