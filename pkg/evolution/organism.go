package evolution

import (
	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
)

// Organism is one candidate solution: a genome and its cost once evaluated
type Organism struct {
	genome    []rune
	fitness   uint64
	evaluated bool
}

// NewOrganism creates an unevaluated organism with the given genome
func NewOrganism(genome string) *Organism {
	return &Organism{genome: []rune(genome)}
}

// NewRandomOrganism draws a genome length uniformly from [minLen, maxLen) and
// every gene uniformly from alphabet
func NewRandomOrganism(alphabet []rune, minLen, maxLen int, rng RandomSource) *Organism {
	genome := make([]rune, rng.IntRange(minLen, maxLen))
	for i := range genome {
		genome[i] = alphabet[rng.IntRange(0, len(alphabet))]
	}
	return &Organism{genome: genome}
}

// Genome returns the genome as a string
func (o *Organism) Genome() string {
	return string(o.genome)
}

// Len returns the genome length in code points
func (o *Organism) Len() int {
	return len(o.genome)
}

// Fitness returns the cost and whether the organism has been evaluated
func (o *Organism) Fitness() (uint64, bool) {
	return o.fitness, o.evaluated
}

// Evaluated reports whether TestFitness has succeeded since the last change
func (o *Organism) Evaluated() bool {
	return o.evaluated
}

// TestFitness computes and stores the cost of this organism against target
func (o *Organism) TestFitness(target string) (uint64, error) {
	return o.testFitness([]rune(target))
}

func (o *Organism) testFitness(target []rune) (uint64, error) {
	fitness, err := computeFitness(o.genome, target)
	if err != nil {
		return 0, err
	}
	o.fitness = fitness
	o.evaluated = true
	return fitness, nil
}

// BreedWith produces an unevaluated child by uniform crossover
func (o *Organism) BreedWith(other *Organism, rng RandomSource) *Organism {
	return &Organism{genome: Crossover(o.genome, other.genome, rng)}
}

// Mutate perturbs genes in place. A genome that changed must be evaluated
// again before it can be ranked.
func (o *Organism) Mutate(opts MutationOptions, rng RandomSource) bool {
	mutated, changed := MutateGenome(o.genome, opts, rng)
	if changed {
		o.genome = mutated
		o.evaluated = false
		o.fitness = 0
	}
	return changed
}

// Clone returns a deep copy
func (o *Organism) Clone() *Organism {
	genome := make([]rune, len(o.genome))
	copy(genome, o.genome)
	return &Organism{genome: genome, fitness: o.fitness, evaluated: o.evaluated}
}

// Compare orders two organisms by cost, cheapest first. It fails when either
// side has not been evaluated.
func Compare(a, b *Organism) (int, error) {
	if !a.evaluated || !b.evaluated {
		return 0, everr.NewEvaluationPreconditionError("organism", "Compare",
			"cannot compare organisms before their fitness is computed")
	}
	switch {
	case a.fitness < b.fitness:
		return -1, nil
	case a.fitness > b.fitness:
		return 1, nil
	default:
		return 0, nil
	}
}
