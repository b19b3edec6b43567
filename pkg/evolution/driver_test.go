package evolution

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
)

type recordingReporter struct {
	reports []GenerationReport
	err     error
}

func (r *recordingReporter) ReportGeneration(_ context.Context, report GenerationReport) error {
	r.reports = append(r.reports, report)
	return r.err
}

func TestNewDriver_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BreedCount = cfg.SurvivorCount + 1

	_, err := NewDriver(cfg, NewRandomSource(1), nil)
	require.Error(t, err)
	assert.True(t, everr.IsCategory(err, everr.ErrorCategoryConfiguration))

	_, err = NewDriver(testConfig(), nil, nil)
	require.Error(t, err)
	assert.True(t, everr.IsCategory(err, everr.ErrorCategoryConfiguration))
}

func TestNewDriver_InitialPopulation(t *testing.T) {
	cfg := testConfig()
	d, err := NewDriver(cfg, NewRandomSource(cfg.Seed), nil)
	require.NoError(t, err)

	assert.Equal(t, cfg.PopulationSize, d.Population().Size())
	assert.Equal(t, uint64(0), d.Generation())
	assert.NotEmpty(t, d.RunID())
}

func TestDriver_Step(t *testing.T) {
	cfg := testConfig()
	reporter := &recordingReporter{}
	d, err := NewDriver(cfg, NewRandomSource(cfg.Seed), reporter)
	require.NoError(t, err)
	d.SetRunID("run-1")

	for gen := uint64(0); gen < 3; gen++ {
		report, err := d.Step(context.Background())
		require.NoError(t, err)

		assert.Equal(t, gen, report.Generation)
		assert.Equal(t, "run-1", report.RunID)
		assert.Equal(t, cfg.Target, report.Target)
		require.Len(t, report.Entries, cfg.ReportCount)

		costs := make([]uint64, len(report.Entries))
		for i, e := range report.Entries {
			assert.Equal(t, i+1, e.Rank)
			costs[i] = e.Fitness
		}
		assert.True(t, isSortedAscending(costs))
		assert.Equal(t, report.Entries[0], report.Best)
		assert.Equal(t, report.Stats.Best, report.Best.Fitness)

		assert.Equal(t, cfg.NextGenerationSize(), d.Population().Size())
		assert.Equal(t, gen+1, d.Generation())
	}
	assert.Len(t, reporter.reports, 3)
}

// survivorsBeforeStep evaluates the current population and returns the
// organisms Step will keep
func survivorsBeforeStep(t *testing.T, d *Driver) []*Organism {
	t.Helper()
	require.NoError(t, d.Population().EvaluateFitness(d.Config().Target))
	survivors, err := d.Population().Top(d.Config().SurvivorCount)
	require.NoError(t, err)
	return survivors
}

func TestDriver_StepBuildsNextPopulationInOrder(t *testing.T) {
	cfg := testConfig()
	cfg.MutationRate = 1
	cfg.MaxShift = 0
	d, err := NewDriver(cfg, NewRandomSource(cfg.Seed), nil)
	require.NoError(t, err)

	s, b := cfg.SurvivorCount, cfg.BreedCount
	for gen := 0; gen < 3; gen++ {
		survivors := survivorsBeforeStep(t, d)

		_, err := d.Step(context.Background())
		require.NoError(t, err)

		next := d.Population().Organisms()
		require.Len(t, next, cfg.NextGenerationSize())

		for i, survivor := range survivors {
			assert.Equal(t, survivor.Genome(), next[i].Genome(), "survivor %d", i)
		}

		for i := 0; i < b; i++ {
			parentA := []rune(survivors[i].Genome())
			parentB := []rune(survivors[(i+1)%b].Genome())
			child := []rune(next[s+i].Genome())
			require.Len(t, child, min(len(parentA), len(parentB)), "child %d", i)
			for j, r := range child {
				assert.True(t, r == parentA[j] || r == parentB[j], "gene %d of child %d comes from neither parent", j, i)
			}
		}

		for _, immigrant := range next[s+b:] {
			assert.GreaterOrEqual(t, immigrant.Len(), cfg.RandomMinLen)
			assert.Less(t, immigrant.Len(), cfg.RandomMaxLen)
			for _, r := range immigrant.Genome() {
				assert.True(t, strings.ContainsRune(cfg.Alphabet, r), "unexpected immigrant gene %q", r)
			}
		}
	}
}

func TestDriver_StepReportsBeforeMutation(t *testing.T) {
	cfg := testConfig()
	cfg.MutationRate = 1
	cfg.MaxShift = 3
	cfg.ReportCount = cfg.SurvivorCount
	d, err := NewDriver(cfg, NewRandomSource(cfg.Seed), nil)
	require.NoError(t, err)

	survivors := survivorsBeforeStep(t, d)
	report, err := d.Step(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Entries, len(survivors))
	mutated := 0
	for i, entry := range report.Entries {
		fitness, _ := survivors[i].Fitness()
		assert.Equal(t, survivors[i].Genome(), entry.Genome)
		assert.Equal(t, fitness, entry.Fitness)
		if d.Population().Organisms()[i].Genome() != entry.Genome {
			mutated++
		}
	}
	assert.Positive(t, mutated, "every gene mutates, so reported survivors must differ from the next population")
}

func TestDriver_StepParallelIsDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 4

	run := func() []string {
		d, err := NewDriver(cfg, NewRandomSource(cfg.Seed), nil)
		require.NoError(t, err)
		var genomes []string
		for i := 0; i < 4; i++ {
			report, err := d.Step(context.Background())
			require.NoError(t, err)
			genomes = append(genomes, report.Best.Genome)
		}
		return genomes
	}

	assert.Equal(t, run(), run())
}

func TestDriver_RunStopsAtMaxGenerations(t *testing.T) {
	cfg := testConfig()
	reporter := &recordingReporter{}
	d, err := NewDriver(cfg, NewRandomSource(cfg.Seed), reporter)
	require.NoError(t, err)

	result, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StopMaxGenerations, result.Reason)
	assert.Equal(t, uint64(cfg.MaxGenerations), result.Generations)
	require.Len(t, reporter.reports, cfg.MaxGenerations)
	for i, r := range reporter.reports {
		assert.Equal(t, uint64(i), r.Generation)
		assert.LessOrEqual(t, result.Best.Fitness, r.Best.Fitness)
	}
}

func TestDriver_RunStopsAtFitnessThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.Target = "AB"
	cfg.Alphabet = "AB"
	cfg.RandomMinLen, cfg.RandomMaxLen = 2, 3
	cfg.MaxGenerations = 500
	threshold := uint64(0)
	cfg.FitnessThreshold = &threshold

	d, err := NewDriver(cfg, NewRandomSource(cfg.Seed), nil)
	require.NoError(t, err)

	result, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StopFitnessThreshold, result.Reason)
	assert.Equal(t, "AB", result.Best.Genome)
	assert.Equal(t, uint64(0), result.Best.Fitness)
	assert.Less(t, result.Generations, uint64(cfg.MaxGenerations))
}

func TestDriver_RunCancelled(t *testing.T) {
	cfg := testConfig()
	cfg.MaxGenerations = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reporter := ReporterFunc(func(_ context.Context, report GenerationReport) error {
		if report.Generation == 2 {
			cancel()
		}
		return nil
	})
	d, err := NewDriver(cfg, NewRandomSource(cfg.Seed), reporter)
	require.NoError(t, err)

	result, err := d.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, StopCancelled, result.Reason)
	assert.Equal(t, uint64(3), result.Generations)
}

func TestDriver_RunCancelledBeforeStart(t *testing.T) {
	d, err := NewDriver(testConfig(), NewRandomSource(1), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := d.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, StopCancelled, result.Reason)
	assert.Equal(t, uint64(0), result.Generations)
}

func TestDriver_ReportingErrorsAreNotFatal(t *testing.T) {
	cfg := testConfig()
	reporter := &recordingReporter{err: errors.New("sink unavailable")}
	d, err := NewDriver(cfg, NewRandomSource(cfg.Seed), reporter)
	require.NoError(t, err)

	result, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StopMaxGenerations, result.Reason)
	assert.Equal(t, cfg.MaxGenerations, result.ReportingErrors)
	require.NotEmpty(t, d.ErrorStats().RecentErrors)
	assert.True(t, everr.IsCategory(d.ErrorStats().RecentErrors[0], everr.ErrorCategoryReporting))
}

func TestDriver_ZeroReportCount(t *testing.T) {
	cfg := testConfig()
	cfg.ReportCount = 0
	reporter := &recordingReporter{}
	d, err := NewDriver(cfg, NewRandomSource(cfg.Seed), reporter)
	require.NoError(t, err)

	report, err := d.Step(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
	assert.NotEmpty(t, report.Best.Genome)
}

func TestDriver_ImmigrantsOnly(t *testing.T) {
	cfg := testConfig()
	cfg.SurvivorCount, cfg.BreedCount, cfg.ReportCount = 0, 0, 0
	cfg.ImmigrantCount = 7

	d, err := NewDriver(cfg, NewRandomSource(cfg.Seed), nil)
	require.NoError(t, err)

	report, err := d.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, d.Population().Size())
	assert.Equal(t, report.Stats.Best, report.Best.Fitness)
}

// Over many seeds the best cost after some generations should not be worse
// than the best of the random starting pool.
func TestDriver_BestImprovesOnAverage(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}

	cfg := DefaultConfig()
	cfg.Target = "AB"
	cfg.PopulationSize = 200
	cfg.MaxGenerations = 40

	var first, last float64
	const trials = 5
	for seed := int64(1); seed <= trials; seed++ {
		reporter := &recordingReporter{}
		d, err := NewDriver(cfg, NewRandomSource(seed), reporter)
		require.NoError(t, err)

		_, err = d.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, reporter.reports, cfg.MaxGenerations)

		first += float64(reporter.reports[0].Stats.Best)
		last += float64(reporter.reports[len(reporter.reports)-1].Stats.Best)
	}

	assert.LessOrEqual(t, last/trials, first/trials)
}
