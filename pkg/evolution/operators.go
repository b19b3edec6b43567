package evolution

import (
	"unicode/utf8"
)

// MutationOptions holds the per-gene mutation parameters
type MutationOptions struct {
	// Rate is the denominator of the per-gene mutation probability (1/Rate)
	Rate int
	// MaxShift bounds the code point delta; deltas are uniform in [-MaxShift, MaxShift].
	// The upper bound is inclusive, unlike the classic half-open [-3, 3) draw,
	// so shifts stay symmetric around zero.
	MaxShift int
	// Bounds clamps mutated genes when set
	Bounds *RuneBounds
}

// RuneBounds is an inclusive code point range
type RuneBounds struct {
	Min rune
	Max rune
}

// AlphabetBounds returns the smallest range covering every rune of alphabet
func AlphabetBounds(alphabet []rune) RuneBounds {
	if len(alphabet) == 0 {
		return RuneBounds{Min: 0, Max: utf8.MaxRune}
	}
	b := RuneBounds{Min: alphabet[0], Max: alphabet[0]}
	for _, r := range alphabet[1:] {
		b.Min = min(b.Min, r)
		b.Max = max(b.Max, r)
	}
	return b
}

// Crossover builds a child gene by gene from two parents. The child is as long
// as the shorter parent; each gene is taken from either parent with equal odds.
func Crossover(a, b []rune, rng RandomSource) []rune {
	child := make([]rune, min(len(a), len(b)))
	for i := range child {
		if rng.IntRange(0, 2) == 0 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
	return child
}

// MutateGenome returns a mutated copy of genome and whether any gene changed
func MutateGenome(genome []rune, opts MutationOptions, rng RandomSource) ([]rune, bool) {
	out := make([]rune, len(genome))
	copy(out, genome)

	changed := false
	for i, gene := range out {
		if rng.IntRange(0, opts.Rate) != 0 {
			continue
		}
		shift := rng.IntRange(-opts.MaxShift, opts.MaxShift+1)
		mutated := shiftRune(gene, shift, opts.Bounds)
		if mutated != gene {
			out[i] = mutated
			changed = true
		}
	}
	return out, changed
}

func shiftRune(r rune, shift int, bounds *RuneBounds) rune {
	v := int64(r) + int64(shift)
	lo, hi := int64(0), int64(utf8.MaxRune)
	if bounds != nil {
		lo, hi = int64(bounds.Min), int64(bounds.Max)
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return rune(v)
}
