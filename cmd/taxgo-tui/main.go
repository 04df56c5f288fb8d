package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/config"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/logging"
	"github.com/rgehrsitz/taxgo/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxgo-tui [scenario.yaml]",
		Short: "Interactive tax planner",
		Long: `Interactive tax planner with a standard household mode and an advanced
strategy mode. A scenario file, when given, seeds both screens.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rulesFile, _ := cmd.Flags().GetString("rules")
			year, _ := cmd.Flags().GetInt("tax-year")
			logFile, _ := cmd.Flags().GetString("log-file")
			logLevel, _ := cmd.Flags().GetString("log-level")

			// zap writes only to a file; the terminal belongs to the TUI
			logger := zap.NewNop()
			if logFile != "" {
				l, err := logging.New(logging.Config{Level: logLevel, Format: "json", OutputPaths: []string{logFile}})
				if err != nil {
					return err
				}
				logger = l
			}
			defer func() { _ = logger.Sync() }()

			registry, err := config.LoadRegistry(rulesFile)
			if err != nil {
				return err
			}

			var scenario *domain.Scenario
			if len(args) == 1 {
				scenario, err = config.NewInputParser(registry).LoadFromFile(args[0])
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("tax-year") {
					year = scenario.TaxYear
				}
			}

			rules, err := registry.Rules(year)
			if err != nil {
				return err
			}
			engine := calculation.NewCalculationEngine(rules)
			engine.SetLogger(logging.Engine(logger))

			logger.Info("starting tui", zap.Int("tax_year", year), zap.Bool("scenario", scenario != nil))
			p := tea.NewProgram(tui.NewModel(engine, scenario), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("rules", "", "Rules file overlaying the embedded tax years")
	cmd.Flags().Int("tax-year", config.DefaultTaxYear, "Tax year of the rules to apply")
	cmd.Flags().String("log-file", "", "Write logs to this file")
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
