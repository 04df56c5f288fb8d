package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for process settings
const envPrefix = "TAXGO"

// Settings are the process-level options shared by the CLI, server and TUI.
// They are distinct from the tax rules and from scenario files.
type Settings struct {
	TaxYear   int    `mapstructure:"tax_year"`
	RulesFile string `mapstructure:"rules"`
	Format    string `mapstructure:"format"`

	Log    LogSettings    `mapstructure:"log"`
	Server ServerSettings `mapstructure:"server"`
}

// LogSettings selects the zap level and encoding
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerSettings configures the HTTP API
type ServerSettings struct {
	Addr          string `mapstructure:"addr"`
	EnableMetrics bool   `mapstructure:"enable_metrics"`
}

// NewViper builds a viper instance with defaults, YAML config type and
// TAXGO_* environment overrides (nested keys use "_", e.g. TAXGO_LOG_LEVEL).
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("tax_year", DefaultTaxYear)
	v.SetDefault("rules", "")
	v.SetDefault("format", "table")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.enable_metrics", true)
	return v
}

// LoadSettings reads configFile (optional) into v and returns the result
func LoadSettings(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return &s, nil
}

// Validate checks the enumerated settings
func (s *Settings) Validate() error {
	if s.TaxYear <= 0 {
		return fmt.Errorf("tax_year must be positive")
	}
	switch s.Format {
	case "table", "json", "csv", "yaml", "html":
	default:
		return fmt.Errorf("unsupported format: %s", s.Format)
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", s.Log.Level)
	}
	switch s.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", s.Log.Format)
	}
	return nil
}
