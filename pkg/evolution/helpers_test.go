package evolution

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// edgeSource always returns one end of the requested range
type edgeSource struct {
	high bool
}

func (s edgeSource) IntRange(lo, hi int) int {
	if s.high {
		return hi - 1
	}
	return lo
}

// evaluated builds an evaluated population from genomes
func evaluated(t *testing.T, target string, genomes ...string) *Population {
	t.Helper()
	organisms := make([]*Organism, len(genomes))
	for i, g := range genomes {
		organisms[i] = NewOrganism(g)
	}
	p := NewPopulation(organisms)
	require.NoError(t, p.EvaluateFitness(target))
	return p
}

func fitnessesOf(t *testing.T, organisms []*Organism) []uint64 {
	t.Helper()
	out := make([]uint64, len(organisms))
	for i, o := range organisms {
		f, ok := o.Fitness()
		require.True(t, ok, "organism %d is not evaluated", i)
		out[i] = f
	}
	return out
}

func isSortedAscending(values []uint64) bool {
	return sort.SliceIsSorted(values, func(i, j int) bool { return values[i] < values[j] })
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 100
	cfg.SurvivorCount = 10
	cfg.BreedCount = 6
	cfg.ImmigrantCount = 4
	cfg.ReportCount = 2
	cfg.MaxGenerations = 5
	cfg.Seed = 7
	return cfg
}
