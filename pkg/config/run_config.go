package config

import (
	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

// ConsoleMode selects how generations are printed
type ConsoleMode string

const (
	ConsoleTable   ConsoleMode = "table"
	ConsoleCompact ConsoleMode = "compact"
	ConsoleOff     ConsoleMode = "off"
)

// Defaults for the outer surfaces
const (
	DefaultOutputDir   = "results"
	DefaultNATSSubject = "evolver.generations"
	DefaultLogDir      = "logs"
	DefaultLogLevel    = "info"
)

// ReportingConfig selects the sinks a run reports to
type ReportingConfig struct {
	OutputDir   string      `json:"output_dir"`
	Console     ConsoleMode `json:"console"`
	Excel       bool        `json:"excel"`
	JSON        bool        `json:"json"`
	CSV         bool        `json:"csv"`
	NATSURL     string      `json:"nats_url,omitempty"`
	NATSSubject string      `json:"nats_subject"`
}

// MonitoringConfig controls logging and the status server
type MonitoringConfig struct {
	// MetricsAddr enables the status server when set, e.g. ":9090"
	MetricsAddr string `json:"metrics_addr,omitempty"`
	LogLevel    string `json:"log_level"`
	LogDir      string `json:"log_dir"`
	FileLog     bool   `json:"file_log"`
}

// RunConfig is the complete configuration of one evolver run
type RunConfig struct {
	Evolution  evolution.Config `json:"evolution"`
	Reporting  ReportingConfig  `json:"reporting"`
	Monitoring MonitoringConfig `json:"monitoring"`
}

// NewDefaultRunConfig returns the defaults every other source is layered over
func NewDefaultRunConfig() *RunConfig {
	return &RunConfig{
		Evolution: evolution.DefaultConfig(),
		Reporting: ReportingConfig{
			OutputDir:   DefaultOutputDir,
			Console:     ConsoleTable,
			Excel:       true,
			JSON:        true,
			NATSSubject: DefaultNATSSubject,
		},
		Monitoring: MonitoringConfig{
			LogLevel: DefaultLogLevel,
			LogDir:   DefaultLogDir,
			FileLog:  true,
		},
	}
}
