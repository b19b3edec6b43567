package evolution

import (
	"fmt"
	"unicode/utf8"

	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
)

// Defaults for a run evolving the classic demo sentence
const (
	DefaultTarget         = "I WAS DISCOVERED BY A GENETIC ALGORITHM"
	DefaultAlphabet       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultPopulationSize = 1000
	DefaultMaxGenerations = 1000
	DefaultMutationRate   = 80 // one gene in 80 mutates
	DefaultMaxShift       = 3
	DefaultSurvivorCount  = 50
	DefaultBreedCount     = 20
	DefaultImmigrantCount = 10
	DefaultReportCount    = 2
	DefaultRandomMinLen   = 5
	DefaultRandomMaxLen   = 55 // exclusive
	DefaultWorkers        = 1

	// LengthPenalty is charged per character of length mismatch
	LengthPenalty uint64 = 9999
)

// MutationPolicy decides what happens to a shifted code point
type MutationPolicy string

const (
	// MutationUnclamped lets genes drift outside the alphabet; code points
	// are only kept inside [0, utf8.MaxRune].
	MutationUnclamped MutationPolicy = "unclamped"
	// MutationClampToAlphabet keeps genes inside [min(alphabet), max(alphabet)]
	MutationClampToAlphabet MutationPolicy = "clamp"
)

// Config holds every tunable of a run. Target and alphabet are fixed for the
// lifetime of a Driver.
type Config struct {
	Target   string `json:"target"`
	Alphabet string `json:"alphabet"`

	PopulationSize int `json:"population_size"`
	// MaxGenerations of 0 runs until another stop condition fires
	MaxGenerations int `json:"max_generations"`
	// FitnessThreshold stops the run once the best cost is <= the value
	FitnessThreshold *uint64 `json:"fitness_threshold,omitempty"`

	MutationRate   int            `json:"mutation_rate"`
	MaxShift       int            `json:"max_shift"`
	MutationPolicy MutationPolicy `json:"mutation_policy"`

	// Absolute counts, not fractions of the population
	SurvivorCount  int `json:"survivor_count"`
	BreedCount     int `json:"breed_count"`
	ImmigrantCount int `json:"immigrant_count"`
	ReportCount    int `json:"report_count"`

	RandomMinLen int `json:"random_min_len"`
	RandomMaxLen int `json:"random_max_len"`

	Workers int   `json:"workers"`
	Seed    int64 `json:"seed"`
}

// DefaultConfig returns the built-in run configuration
func DefaultConfig() Config {
	return Config{
		Target:         DefaultTarget,
		Alphabet:       DefaultAlphabet,
		PopulationSize: DefaultPopulationSize,
		MaxGenerations: DefaultMaxGenerations,
		MutationRate:   DefaultMutationRate,
		MaxShift:       DefaultMaxShift,
		MutationPolicy: MutationUnclamped,
		SurvivorCount:  DefaultSurvivorCount,
		BreedCount:     DefaultBreedCount,
		ImmigrantCount: DefaultImmigrantCount,
		ReportCount:    DefaultReportCount,
		RandomMinLen:   DefaultRandomMinLen,
		RandomMaxLen:   DefaultRandomMaxLen,
		Workers:        DefaultWorkers,
	}
}

// NextGenerationSize is the size of every population after the first
func (c Config) NextGenerationSize() int {
	return c.SurvivorCount + c.BreedCount + c.ImmigrantCount
}

// MutationOptions builds the per-gene mutation parameters for this config
func (c Config) MutationOptions() MutationOptions {
	opts := MutationOptions{Rate: c.MutationRate, MaxShift: c.MaxShift}
	if c.MutationPolicy == MutationClampToAlphabet {
		bounds := AlphabetBounds([]rune(c.Alphabet))
		opts.Bounds = &bounds
	}
	return opts
}

// Validate checks the configuration before any state is created
func (c Config) Validate() error {
	if c.Target == "" {
		return configError("target must not be empty")
	}
	if !utf8.ValidString(c.Target) {
		return configError("target must be valid UTF-8")
	}
	if c.Alphabet == "" {
		return configError("alphabet must not be empty")
	}
	if !utf8.ValidString(c.Alphabet) {
		return configError("alphabet must be valid UTF-8")
	}
	if c.PopulationSize <= 0 {
		return configError(fmt.Sprintf("population size must be positive, got: %d", c.PopulationSize))
	}
	if c.MaxGenerations < 0 {
		return configError(fmt.Sprintf("max generations must be non-negative, got: %d", c.MaxGenerations))
	}
	if c.MutationRate < 1 {
		return configError(fmt.Sprintf("mutation rate denominator must be at least 1, got: %d", c.MutationRate))
	}
	if c.MaxShift < 0 {
		return configError(fmt.Sprintf("max shift must be non-negative, got: %d", c.MaxShift))
	}
	switch c.MutationPolicy {
	case MutationUnclamped, MutationClampToAlphabet:
	default:
		return configError(fmt.Sprintf("unknown mutation policy %q", c.MutationPolicy))
	}
	if c.SurvivorCount < 0 || c.BreedCount < 0 || c.ImmigrantCount < 0 || c.ReportCount < 0 {
		return configError("survivor, breed, immigrant and report counts must be non-negative")
	}
	if c.SurvivorCount > c.PopulationSize {
		return configError(fmt.Sprintf("survivor count %d exceeds population size %d", c.SurvivorCount, c.PopulationSize))
	}
	if c.NextGenerationSize() == 0 {
		return configError("survivor, breed and immigrant counts sum to zero; the population would collapse")
	}
	if c.BreedCount > c.SurvivorCount {
		return configError(fmt.Sprintf("breed count %d exceeds survivor count %d", c.BreedCount, c.SurvivorCount))
	}
	if c.ReportCount > c.SurvivorCount {
		return configError(fmt.Sprintf("report count %d exceeds survivor count %d", c.ReportCount, c.SurvivorCount))
	}
	if c.RandomMinLen < 0 || c.RandomMinLen >= c.RandomMaxLen {
		return configError(fmt.Sprintf("random genome length range [%d, %d) is empty or negative", c.RandomMinLen, c.RandomMaxLen))
	}
	if c.Workers < 0 {
		return configError(fmt.Sprintf("workers must be non-negative, got: %d", c.Workers))
	}
	return nil
}

func configError(message string) error {
	return everr.NewConfigurationError("evolution", "Config.Validate", message)
}
