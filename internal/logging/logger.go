// Package logging builds the zap loggers used by the CLI, the HTTP server
// and the TUI. The engine only sees calculation.Logger, which a
// *zap.SugaredLogger satisfies.
package logging

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config carries the logger construction parameters
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `mapstructure:"level" yaml:"level" json:"level"`
	// Format is console or json. Defaults to console.
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	// OutputPaths defaults to stderr so reports on stdout stay clean.
	OutputPaths []string `mapstructure:"output_paths" yaml:"output_paths" json:"outputPaths"`
}

// ParseLevel converts a level name to a zapcore.Level. Unknown values
// fall back to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoderConfig(format string) zapcore.EncoderConfig {
	var encCfg zapcore.EncoderConfig
	if format == "json" {
		encCfg = zap.NewProductionEncoderConfig()
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return encCfg
}

// New builds a zap logger from cfg
func New(cfg Config) (*zap.Logger, error) {
	if len(cfg.OutputPaths) == 0 {
		cfg.OutputPaths = []string{"stderr"}
	}
	encoding := "console"
	if cfg.Format == "json" {
		encoding = "json"
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
		Development:      encoding == "console",
		Encoding:         encoding,
		EncoderConfig:    encoderConfig(encoding),
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	z, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: failed to build zap logger: %w", err)
	}
	return z, nil
}

// NewWithCore wraps an existing core, mainly for tests using zaptest/observer
func NewWithCore(core zapcore.Core) *zap.Logger {
	return zap.New(core)
}

// Engine adapts z to the engine's printf-style logger
func Engine(z *zap.Logger) calculation.Logger {
	if z == nil {
		return calculation.NopLogger{}
	}
	return z.Sugar()
}
