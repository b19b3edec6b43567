package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

// Environment keys
const (
	EnvTarget           = "EVOLVE_TARGET"
	EnvAlphabet         = "EVOLVE_ALPHABET"
	EnvPopulationSize   = "EVOLVE_POPULATION_SIZE"
	EnvMaxGenerations   = "EVOLVE_MAX_GENERATIONS"
	EnvFitnessThreshold = "EVOLVE_FITNESS_THRESHOLD"
	EnvMutationRate     = "EVOLVE_MUTATION_RATE"
	EnvMaxShift         = "EVOLVE_MAX_SHIFT"
	EnvClampMutations   = "EVOLVE_CLAMP_MUTATIONS"
	EnvSurvivorCount    = "EVOLVE_SURVIVOR_COUNT"
	EnvBreedCount       = "EVOLVE_BREED_COUNT"
	EnvImmigrantCount   = "EVOLVE_IMMIGRANT_COUNT"
	EnvReportCount      = "EVOLVE_REPORT_COUNT"
	EnvSeed             = "EVOLVE_SEED"
	EnvWorkers          = "EVOLVE_WORKERS"
	EnvNATSURL          = "EVOLVE_NATS_URL"
	EnvNATSSubject      = "EVOLVE_NATS_SUBJECT"
	EnvMetricsAddr      = "EVOLVE_METRICS_ADDR"
	EnvOutputDir        = "EVOLVE_OUTPUT_DIR"
	EnvLogLevel         = "EVOLVE_LOG_LEVEL"
)

// LoadEnvFile loads variables from a .env file without overriding variables
// already set. A missing file is not an error; the bool reports whether a
// file was loaded.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, everr.NewIOError("config", "LoadEnvFile", err).WithContext("path", path)
	}
	return true, nil
}

// ApplyEnv layers EVOLVE_* variables from the process environment over cfg
func ApplyEnv(cfg *RunConfig) error {
	return applyEnv(cfg, os.LookupEnv)
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *RunConfig, lookup lookupFunc) error {
	env := envReader{lookup: lookup}
	ev := &cfg.Evolution

	env.str(EnvTarget, &ev.Target)
	env.str(EnvAlphabet, &ev.Alphabet)
	env.integer(EnvPopulationSize, &ev.PopulationSize)
	env.integer(EnvMaxGenerations, &ev.MaxGenerations)
	env.integer(EnvMutationRate, &ev.MutationRate)
	env.integer(EnvMaxShift, &ev.MaxShift)
	env.integer(EnvSurvivorCount, &ev.SurvivorCount)
	env.integer(EnvBreedCount, &ev.BreedCount)
	env.integer(EnvImmigrantCount, &ev.ImmigrantCount)
	env.integer(EnvReportCount, &ev.ReportCount)
	env.integer(EnvWorkers, &ev.Workers)

	if v, ok := env.get(EnvSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		env.fail(EnvSeed, v, err)
		if err == nil {
			ev.Seed = seed
		}
	}
	if v, ok := env.get(EnvFitnessThreshold); ok {
		threshold, err := strconv.ParseUint(v, 10, 64)
		env.fail(EnvFitnessThreshold, v, err)
		if err == nil {
			ev.FitnessThreshold = &threshold
		}
	}
	if v, ok := env.get(EnvClampMutations); ok {
		clamp, err := strconv.ParseBool(v)
		env.fail(EnvClampMutations, v, err)
		switch {
		case err != nil:
		case clamp:
			ev.MutationPolicy = evolution.MutationClampToAlphabet
		default:
			ev.MutationPolicy = evolution.MutationUnclamped
		}
	}

	env.str(EnvNATSURL, &cfg.Reporting.NATSURL)
	env.str(EnvNATSSubject, &cfg.Reporting.NATSSubject)
	env.str(EnvOutputDir, &cfg.Reporting.OutputDir)
	env.str(EnvMetricsAddr, &cfg.Monitoring.MetricsAddr)
	env.str(EnvLogLevel, &cfg.Monitoring.LogLevel)

	return env.err
}

// envReader collects the first parse failure so every key can be read in
// sequence without repeated error checks
type envReader struct {
	lookup lookupFunc
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e *envReader) fail(key, value string, err error) {
	if err == nil || e.err != nil {
		return
	}
	e.err = everr.NewConfigurationError("config", "ApplyEnv",
		fmt.Sprintf("invalid value %q for %s", value, key)).WithContext("key", key)
}

// str keeps the value untrimmed; targets may carry meaningful spaces
func (e *envReader) str(key string, dst *string) {
	if v, ok := e.lookup(key); ok && v != "" {
		*dst = v
	}
}

func (e *envReader) integer(key string, dst *int) {
	if v, ok := e.get(key); ok {
		n, err := strconv.Atoi(v)
		e.fail(key, v, err)
		if err == nil {
			*dst = n
		}
	}
}
