package config

import (
	"fmt"
	"strings"

	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
)

// RunValidator implements validation for run configurations
type RunValidator struct{}

// NewRunValidator creates a new run validator
func NewRunValidator() *RunValidator {
	return &RunValidator{}
}

// Validate checks the evolution parameters and the outer surfaces
func (v *RunValidator) Validate(cfg *RunConfig) error {
	if cfg == nil {
		return validationError("configuration is nil")
	}
	if err := cfg.Evolution.Validate(); err != nil {
		return err
	}

	switch cfg.Reporting.Console {
	case ConsoleTable, ConsoleCompact, ConsoleOff:
	default:
		return validationError(fmt.Sprintf("console mode must be one of table, compact, off, got: %q", cfg.Reporting.Console))
	}

	if (cfg.Reporting.Excel || cfg.Reporting.JSON || cfg.Reporting.CSV) && strings.TrimSpace(cfg.Reporting.OutputDir) == "" {
		return validationError("output directory is required when excel, json or csv reports are enabled")
	}

	if cfg.Reporting.NATSURL != "" && strings.TrimSpace(cfg.Reporting.NATSSubject) == "" {
		return validationError("nats subject is required when a nats url is set")
	}

	switch strings.ToLower(cfg.Monitoring.LogLevel) {
	case "error", "warn", "warning", "info", "debug":
	default:
		return validationError(fmt.Sprintf("unknown log level %q", cfg.Monitoring.LogLevel))
	}

	if cfg.Monitoring.FileLog && strings.TrimSpace(cfg.Monitoring.LogDir) == "" {
		return validationError("log directory is required when file logging is enabled")
	}

	return nil
}

func validationError(message string) error {
	return everr.NewConfigurationError("config", "Validate", message)
}
