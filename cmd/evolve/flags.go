package main

import (
	"flag"
	"strings"

	"github.com/ducminhle1904/genome-evolver/cmd/common"
	"github.com/ducminhle1904/genome-evolver/pkg/config"
	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

// EvolveFlags holds the command line flags of the evolve command. Only flags
// given explicitly override the file and environment layers.
type EvolveFlags struct {
	ConfigFile *string

	// Problem
	Target   *string
	Alphabet *string

	// Population and stopping
	Population  *int
	Generations *int
	Threshold   *uint64

	// Operators
	MutationRate *int
	MaxShift     *int
	Clamp        *bool
	Survivors    *int
	Breed        *int
	Immigrants   *int
	Report       *int
	Seed         *int64
	Workers      *int

	// Output
	Console     *string
	OutputDir   *string
	NoExcel     *bool
	NoJSON      *bool
	CSV         *bool
	NATSURL     *string
	NATSSubject *string

	// Monitoring
	MetricsAddr *string
	LogLevel    *string
	LogDir      *string
	NoFileLog   *bool
}

// RegisterEvolveFlags registers the evolve flags on fs
func RegisterEvolveFlags(fs *flag.FlagSet) *EvolveFlags {
	d := evolution.DefaultConfig()
	return &EvolveFlags{
		ConfigFile: fs.String("config", "", "JSON configuration file"),

		Target:   fs.String("target", d.Target, "Target string to evolve towards"),
		Alphabet: fs.String("alphabet", d.Alphabet, "Characters random genomes are drawn from"),

		Population:  fs.Int("population", d.PopulationSize, "Initial population size"),
		Generations: fs.Int("generations", d.MaxGenerations, "Maximum generations (0 = until threshold or interrupt)"),
		Threshold:   fs.Uint64("threshold", 0, "Stop once the best error is at or below this value"),

		MutationRate: fs.Int("mutation-rate", d.MutationRate, "Mutation rate denominator (1 in N genes)"),
		MaxShift:     fs.Int("max-shift", d.MaxShift, "Maximum code point shift per mutation"),
		Clamp:        fs.Bool("clamp", false, "Clamp mutated genes to the alphabet range"),
		Survivors:    fs.Int("survivors", d.SurvivorCount, "Organisms kept each generation"),
		Breed:        fs.Int("breed", d.BreedCount, "Children bred from survivors each generation"),
		Immigrants:   fs.Int("immigrants", d.ImmigrantCount, "Fresh random organisms each generation"),
		Report:       fs.Int("report", d.ReportCount, "Organisms reported each generation"),
		Seed:         fs.Int64("seed", 0, "Random seed (0 = time based)"),
		Workers:      fs.Int("workers", d.Workers, "Parallel workers for evaluation and mutation"),

		Console:     fs.String("console", string(config.ConsoleTable), "Console output: table, compact or off"),
		OutputDir:   fs.String("output", config.DefaultOutputDir, "Output directory for run artifacts"),
		NoExcel:     fs.Bool("no-excel", false, "Do not write the Excel history workbook"),
		NoJSON:      fs.Bool("no-json", false, "Do not write best.json"),
		CSV:         fs.Bool("csv", false, "Stream generations to a CSV file"),
		NATSURL:     fs.String("nats-url", "", "Publish generations to this NATS server"),
		NATSSubject: fs.String("nats-subject", config.DefaultNATSSubject, "NATS subject for generation reports"),

		MetricsAddr: fs.String("metrics-addr", "", "Serve /health, /status and /metrics on this address"),
		LogLevel:    fs.String("log-level", config.DefaultLogLevel, "Log level: error, warn, info, debug"),
		LogDir:      fs.String("log-dir", config.DefaultLogDir, "Directory for run log files"),
		NoFileLog:   fs.Bool("no-file-log", false, "Disable the run log file"),
	}
}

// Validate checks flag values that can be rejected before loading anything
func (f *EvolveFlags) Validate(fs *flag.FlagSet) error {
	v := common.NewFlagValidator()
	v.ValidateChoice("console", *f.Console, []string{string(config.ConsoleTable), string(config.ConsoleCompact), string(config.ConsoleOff)})
	v.ValidateChoice("log-level", strings.ToLower(*f.LogLevel), []string{"error", "warn", "warning", "info", "debug"})
	v.ValidateFile("config", *f.ConfigFile, false)
	if common.FlagWasSet(fs, "workers") {
		v.ValidateInt("workers", *f.Workers, 0, 1024)
	}
	if *f.NATSURL != "" && strings.TrimSpace(*f.NATSSubject) == "" {
		v.AddError("nats-subject must not be empty when nats-url is set")
	}
	return v.GetError()
}

// Overrides returns a config override applying every explicitly set flag
func (f *EvolveFlags) Overrides(fs *flag.FlagSet) config.Override {
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	return func(cfg *config.RunConfig) {
		ev := &cfg.Evolution
		if set["target"] {
			ev.Target = *f.Target
		}
		if set["alphabet"] {
			ev.Alphabet = *f.Alphabet
		}
		if set["population"] {
			ev.PopulationSize = *f.Population
		}
		if set["generations"] {
			ev.MaxGenerations = *f.Generations
		}
		if set["threshold"] {
			threshold := *f.Threshold
			ev.FitnessThreshold = &threshold
		}
		if set["mutation-rate"] {
			ev.MutationRate = *f.MutationRate
		}
		if set["max-shift"] {
			ev.MaxShift = *f.MaxShift
		}
		if set["clamp"] {
			if *f.Clamp {
				ev.MutationPolicy = evolution.MutationClampToAlphabet
			} else {
				ev.MutationPolicy = evolution.MutationUnclamped
			}
		}
		if set["survivors"] {
			ev.SurvivorCount = *f.Survivors
		}
		if set["breed"] {
			ev.BreedCount = *f.Breed
		}
		if set["immigrants"] {
			ev.ImmigrantCount = *f.Immigrants
		}
		if set["report"] {
			ev.ReportCount = *f.Report
		}
		if set["seed"] {
			ev.Seed = *f.Seed
		}
		if set["workers"] {
			ev.Workers = *f.Workers
		}

		if set["console"] {
			cfg.Reporting.Console = config.ConsoleMode(*f.Console)
		}
		if set["output"] {
			cfg.Reporting.OutputDir = *f.OutputDir
		}
		if set["no-excel"] {
			cfg.Reporting.Excel = !*f.NoExcel
		}
		if set["no-json"] {
			cfg.Reporting.JSON = !*f.NoJSON
		}
		if set["csv"] {
			cfg.Reporting.CSV = *f.CSV
		}
		if set["nats-url"] {
			cfg.Reporting.NATSURL = *f.NATSURL
		}
		if set["nats-subject"] {
			cfg.Reporting.NATSSubject = *f.NATSSubject
		}

		if set["metrics-addr"] {
			cfg.Monitoring.MetricsAddr = *f.MetricsAddr
		}
		if set["log-level"] {
			cfg.Monitoring.LogLevel = *f.LogLevel
		}
		if set["log-dir"] {
			cfg.Monitoring.LogDir = *f.LogDir
		}
		if set["no-file-log"] {
			cfg.Monitoring.FileLog = !*f.NoFileLog
		}
		if set["verbose"] && fs.Lookup("verbose").Value.String() == "true" {
			cfg.Monitoring.LogLevel = "debug"
		}
	}
}
