package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/config"
	"github.com/rgehrsitz/taxgo/internal/logging"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every subcommand needs once the persistent flags and
// the config file have been read.
type app struct {
	v        *viper.Viper
	settings *config.Settings
	registry *config.RulesRegistry
	logger   *zap.Logger
}

// setup loads settings, the rules registry and the logger
func (a *app) setup(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	settings, err := config.LoadSettings(a.v, configFile)
	if err != nil {
		return err
	}
	a.settings = settings

	logger, err := logging.New(logging.Config{Level: settings.Log.Level, Format: settings.Log.Format})
	if err != nil {
		return err
	}
	a.logger = logger

	registry, err := config.LoadRegistry(settings.RulesFile)
	if err != nil {
		return err
	}
	a.registry = registry
	a.logger.Debug("settings loaded",
		zap.Int("tax_year", settings.TaxYear),
		zap.String("rules", settings.RulesFile),
		zap.Ints("years", registry.Years()))
	return nil
}

// engine returns a calculation engine for year, or for the configured
// year when year is 0.
func (a *app) engine(year int) (*calculation.CalculationEngine, error) {
	if year == 0 {
		year = a.settings.TaxYear
	}
	rules, err := a.registry.Rules(year)
	if err != nil {
		return nil, err
	}
	engine := calculation.NewCalculationEngine(rules)
	engine.SetLogger(logging.Engine(a.logger))
	return engine, nil
}

// write renders r in the configured format to the command's output
func (a *app) write(cmd *cobra.Command, r *output.Report) error {
	f := output.GetFormatterByName(a.settings.Format)
	if f == nil {
		return fmt.Errorf("unsupported format %q (valid: %v)", a.settings.Format, output.FormatNames())
	}
	return output.WriteFormatted(cmd.OutOrStdout(), f, r)
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "taxgo",
		Short: "US federal and state income tax estimator",
		Long: `Estimate federal income tax (ordinary, long-term gains, NIIT and the
Additional Medicare surtax), a simplified state tax, and the savings from
loss harvesting, charitable giving and retirement deferral.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Settings file (YAML)")
	pf.Int("tax-year", config.DefaultTaxYear, "Tax year of the rules to apply")
	pf.String("rules", "", "Rules file overlaying the embedded tax years")
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.String("log-format", "console", "Log format (console, json)")
	pf.StringP("format", "f", "table", "Output format (table, json, csv, yaml, html)")

	for key, flag := range map[string]string{
		"tax_year":   "tax-year",
		"rules":      "rules",
		"log.level":  "log-level",
		"log.format": "log-format",
		"format":     "format",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		liabilityCmd(a),
		compareCmd(a),
		scheduleDCmd(a),
		stateTaxCmd(a),
		projectCmd(a),
		planCmd(a),
		sensitivityCmd(a),
		validateCmd(a),
		runCmd(a),
		rulesCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// no settings or rules needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
