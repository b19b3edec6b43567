package evolution

import (
	"math/rand"
	"time"
)

// RandomSource supplies uniform integers. It is the only source of
// randomness used by the genetic operators.
type RandomSource interface {
	// IntRange returns a uniform integer in [lo, hi). It panics if hi <= lo.
	IntRange(lo, hi int) int
}

// SplittableSource can derive independent streams, one per worker.
type SplittableSource interface {
	RandomSource
	Split() RandomSource
}

// MathRandSource is a RandomSource backed by math/rand. It is not safe for
// concurrent use; give each goroutine its own stream via Split.
type MathRandSource struct {
	rng *rand.Rand
}

// NewRandomSource creates a source from seed; a zero seed uses the clock
func NewRandomSource(seed int64) *MathRandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MathRandSource{rng: rand.New(rand.NewSource(seed))}
}

// IntRange returns a uniform integer in [lo, hi)
func (s *MathRandSource) IntRange(lo, hi int) int {
	if hi <= lo {
		panic("evolution: IntRange called with empty range")
	}
	return lo + s.rng.Intn(hi-lo)
}

// Split derives a new independent stream seeded from this one. Splitting
// is deterministic for a fixed parent seed.
func (s *MathRandSource) Split() RandomSource {
	return &MathRandSource{rng: rand.New(rand.NewSource(s.rng.Int63() | 1))}
}
