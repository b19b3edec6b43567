package evolution

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
)

const (
	progressLogInterval = 25 // generations between progress lines
	maxRecentErrors     = 16
)

// Driver runs the generational loop. It owns the current population
// exclusively; a Driver is not safe for concurrent use.
type Driver struct {
	config   Config
	alphabet []rune
	rng      RandomSource
	reporter Reporter
	logger   Logger

	runID      string
	population *Population
	generation uint64
	errorStats *everr.ErrorStats
}

// NewDriver validates cfg and spawns the initial random population.
// reporter may be nil.
func NewDriver(cfg Config, rng RandomSource, reporter Reporter) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, everr.NewConfigurationError("driver", "NewDriver", "random source is required")
	}

	population, err := SpawnRandomPool(cfg.PopulationSize, cfg, rng)
	if err != nil {
		return nil, err
	}

	return &Driver{
		config:     cfg,
		alphabet:   []rune(cfg.Alphabet),
		rng:        rng,
		reporter:   reporter,
		logger:     nopLogger{},
		runID:      uuid.NewString(),
		population: population,
		errorStats: everr.NewErrorStats(maxRecentErrors),
	}, nil
}

// SetLogger replaces the driver logger
func (d *Driver) SetLogger(logger Logger) {
	if logger == nil {
		logger = nopLogger{}
	}
	d.logger = logger
}

// SetRunID overrides the generated run identifier
func (d *Driver) SetRunID(runID string) {
	d.runID = runID
}

// RunID returns the identifier attached to every report
func (d *Driver) RunID() string {
	return d.runID
}

// Generation returns the index of the next generation to be stepped
func (d *Driver) Generation() uint64 {
	return d.generation
}

// Population returns the current population
func (d *Driver) Population() *Population {
	return d.population
}

// Config returns the run configuration
func (d *Driver) Config() Config {
	return d.config
}

// ErrorStats returns the non-fatal errors recorded so far
func (d *Driver) ErrorStats() *everr.ErrorStats {
	return d.errorStats
}

// Step advances one generation: evaluate, select survivors, breed children,
// add immigrants, report, mutate and replace.
func (d *Driver) Step(ctx context.Context) (GenerationReport, error) {
	start := time.Now()
	cfg := d.config

	// 1. evaluate
	if err := d.population.EvaluateFitnessParallel(ctx, cfg.Target, cfg.Workers); err != nil {
		return GenerationReport{}, err
	}
	stats, err := ComputeStats(d.population)
	if err != nil {
		return GenerationReport{}, err
	}

	// 2-3. survivors seed the next population
	survivors, err := d.population.Top(cfg.SurvivorCount)
	if err != nil {
		return GenerationReport{}, err
	}
	next := NewPopulation(make([]*Organism, 0, cfg.NextGenerationSize()))
	next.Add(survivors...)

	// 4. children from consecutive survivors, wrapping at BreedCount
	for i := 0; i < cfg.BreedCount; i++ {
		parent := survivors[i]
		partner := survivors[(i+1)%cfg.BreedCount]
		next.Add(parent.BreedWith(partner, d.rng))
	}

	// 5. immigrants
	for i := 0; i < cfg.ImmigrantCount; i++ {
		next.Add(NewRandomOrganism(d.alphabet, cfg.RandomMinLen, cfg.RandomMaxLen, d.rng))
	}

	// 6. report before mutation touches the survivors
	report := GenerationReport{
		RunID:      d.runID,
		Generation: d.generation,
		Target:     cfg.Target,
		Entries:    make([]ReportEntry, cfg.ReportCount),
		Stats:      stats,
		Timestamp:  time.Now(),
	}
	for i := range report.Entries {
		fitness, _ := survivors[i].Fitness()
		report.Entries[i] = ReportEntry{Rank: i + 1, Genome: survivors[i].Genome(), Fitness: fitness}
	}
	if len(survivors) > 0 {
		fitness, _ := survivors[0].Fitness()
		report.Best = ReportEntry{Rank: 1, Genome: survivors[0].Genome(), Fitness: fitness}
	} else {
		best, err := d.population.Best()
		if err != nil {
			return GenerationReport{}, err
		}
		fitness, _ := best.Fitness()
		report.Best = ReportEntry{Rank: 1, Genome: best.Genome(), Fitness: fitness}
	}
	report.StepDuration = time.Since(start)
	d.dispatch(ctx, report)

	// 7. mutate
	opts := cfg.MutationOptions()
	if splittable, ok := d.rng.(SplittableSource); ok && cfg.Workers > 1 {
		next.ApplyMutationsParallel(opts, splittable, cfg.Workers)
	} else {
		next.ApplyMutations(opts, d.rng)
	}

	// 8. replace
	d.population = next
	d.generation++

	return report, nil
}

// dispatch hands the report to the reporter. Reporting failures are recorded
// and logged; they never stop the run.
func (d *Driver) dispatch(ctx context.Context, report GenerationReport) {
	if d.reporter == nil {
		return
	}
	if err := d.reporter.ReportGeneration(ctx, report); err != nil {
		evErr := everr.NewReportingError("driver", "ReportGeneration", err).
			WithContext("generation", report.Generation)
		d.errorStats.RecordError(evErr)
		d.logger.Warn("reporting failed for generation %d: %v", report.Generation, err)
	}
}

// Run steps until MaxGenerations is reached, the best cost falls to
// FitnessThreshold, or ctx is cancelled. Cancellation is checked between
// steps and is not an error. When a step fails, Run returns the partial
// result with StopFailed alongside the error.
func (d *Driver) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	cfg := d.config

	result := &RunResult{RunID: d.runID, Target: cfg.Target}
	haveBest := false

	d.logger.Info("starting run %s: population=%d survivors=%d breed=%d immigrants=%d mutation=1/%d shift=±%d",
		d.runID, d.population.Size(), cfg.SurvivorCount, cfg.BreedCount, cfg.ImmigrantCount, cfg.MutationRate, cfg.MaxShift)

	for {
		if ctx.Err() != nil {
			result.Reason = StopCancelled
			break
		}

		report, err := d.Step(ctx)
		if err != nil {
			if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				result.Reason = StopCancelled
				break
			}
			result.Reason = StopFailed
			d.finish(result, start)
			return result, err
		}

		best := report.Best
		if !haveBest || best.Fitness < result.Best.Fitness {
			result.Best = best
			haveBest = true
		}

		if report.Generation%progressLogInterval == 0 {
			d.logger.Info("generation %d: best=%d mean=%.1f genome=%q",
				report.Generation, report.Stats.Best, report.Stats.Mean, best.Genome)
		} else {
			d.logger.Debug("generation %d: best=%d", report.Generation, report.Stats.Best)
		}

		if cfg.FitnessThreshold != nil && report.Stats.Best <= *cfg.FitnessThreshold {
			result.Reason = StopFitnessThreshold
			break
		}
		if cfg.MaxGenerations > 0 && d.generation >= uint64(cfg.MaxGenerations) {
			result.Reason = StopMaxGenerations
			break
		}
	}

	d.finish(result, start)

	d.logger.Info("run %s stopped (%s) after %d generations: best=%d genome=%q",
		d.runID, result.Reason, result.Generations, result.Best.Fitness, result.Best.Genome)
	return result, nil
}

func (d *Driver) finish(result *RunResult, start time.Time) {
	result.Generations = d.generation
	result.Elapsed = time.Since(start)
	result.ReportingErrors = d.errorStats.TotalErrors
}
