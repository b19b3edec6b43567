package evolution

import (
	"context"
	"fmt"
	"sort"
	"sync"

	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
)

// Population is an ordered collection of organisms (one generation)
type Population struct {
	organisms []*Organism
}

// NewPopulation creates a population with the given organisms
func NewPopulation(organisms []*Organism) *Population {
	return &Population{organisms: organisms}
}

// SpawnRandomPool creates size independent random organisms
func SpawnRandomPool(size int, cfg Config, rng RandomSource) (*Population, error) {
	if size < 0 {
		return nil, everr.NewConfigurationError("population", "SpawnRandomPool",
			fmt.Sprintf("pool size must be non-negative, got: %d", size))
	}
	alphabet := []rune(cfg.Alphabet)
	if len(alphabet) == 0 {
		return nil, everr.NewConfigurationError("population", "SpawnRandomPool", "alphabet must not be empty")
	}

	organisms := make([]*Organism, size)
	for i := range organisms {
		organisms[i] = NewRandomOrganism(alphabet, cfg.RandomMinLen, cfg.RandomMaxLen, rng)
	}
	return NewPopulation(organisms), nil
}

// Organisms returns the organisms in insertion order
func (p *Population) Organisms() []*Organism {
	return p.organisms
}

// Size returns the number of organisms in the population
func (p *Population) Size() int {
	return len(p.organisms)
}

// Add appends organisms to the population
func (p *Population) Add(organisms ...*Organism) {
	p.organisms = append(p.organisms, organisms...)
}

// EvaluateFitness evaluates every organism in place
func (p *Population) EvaluateFitness(target string) error {
	t := []rune(target)
	for i, o := range p.organisms {
		if _, err := o.testFitness(t); err != nil {
			return everr.WrapError(err, everr.ErrorCategoryArithmeticOverflow, "population", "EvaluateFitness").
				WithContext("index", i)
		}
	}
	return nil
}

// EvaluateFitnessParallel evaluates every organism using at most workers
// goroutines. Each organism is only ever touched by one goroutine.
func (p *Population) EvaluateFitnessParallel(ctx context.Context, target string, workers int) error {
	if workers <= 1 {
		return p.EvaluateFitness(target)
	}

	t := []rune(target)
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	workerChan := make(chan struct{}, workers)

	for i := range p.organisms {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(idx int, organism *Organism) {
			defer wg.Done()

			workerChan <- struct{}{}
			defer func() { <-workerChan }()

			if _, err := organism.testFitness(t); err != nil {
				once.Do(func() {
					firstErr = everr.WrapError(err, everr.ErrorCategoryArithmeticOverflow, "population", "EvaluateFitnessParallel").
						WithContext("index", idx)
				})
			}
		}(i, p.organisms[i])
	}

	wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// Top returns deep copies of the k cheapest organisms, sorted ascending by
// cost. Ties keep insertion order.
func (p *Population) Top(k int) ([]*Organism, error) {
	if k < 0 || k > len(p.organisms) {
		return nil, everr.NewOutOfRangeError("population", "Top", k, len(p.organisms))
	}
	for i, o := range p.organisms {
		if !o.evaluated {
			return nil, everr.NewEvaluationPreconditionError("population", "Top",
				"every organism must be evaluated before selection").WithContext("index", i)
		}
	}

	sorted := make([]*Organism, len(p.organisms))
	copy(sorted, p.organisms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].fitness < sorted[j].fitness
	})

	top := make([]*Organism, k)
	for i := range top {
		top[i] = sorted[i].Clone()
	}
	return top, nil
}

// Best returns the cheapest organism without copying the population
func (p *Population) Best() (*Organism, error) {
	if len(p.organisms) == 0 {
		return nil, everr.NewOutOfRangeError("population", "Best", 1, 0)
	}
	var best *Organism
	for i, o := range p.organisms {
		if !o.evaluated {
			return nil, everr.NewEvaluationPreconditionError("population", "Best",
				"every organism must be evaluated before selection").WithContext("index", i)
		}
		if best == nil || o.fitness < best.fitness {
			best = o
		}
	}
	return best, nil
}

// ApplyMutations mutates every organism in place and returns how many changed
func (p *Population) ApplyMutations(opts MutationOptions, rng RandomSource) int {
	changed := 0
	for _, o := range p.organisms {
		if o.Mutate(opts, rng) {
			changed++
		}
	}
	return changed
}

// ApplyMutationsParallel splits the population into contiguous chunks, one per
// worker, each with its own random stream derived from rng. For a fixed seed
// and worker count the result is deterministic.
func (p *Population) ApplyMutationsParallel(opts MutationOptions, rng SplittableSource, workers int) int {
	if workers <= 1 || len(p.organisms) < 2 {
		return p.ApplyMutations(opts, rng)
	}
	workers = min(workers, len(p.organisms))
	chunk := (len(p.organisms) + workers - 1) / workers

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		changed int
	)
	for start := 0; start < len(p.organisms); start += chunk {
		end := min(start+chunk, len(p.organisms))
		stream := rng.Split()

		wg.Add(1)
		go func(part []*Organism, stream RandomSource) {
			defer wg.Done()
			n := 0
			for _, o := range part {
				if o.Mutate(opts, stream) {
					n++
				}
			}
			mu.Lock()
			changed += n
			mu.Unlock()
		}(p.organisms[start:end], stream)
	}
	wg.Wait()
	return changed
}
