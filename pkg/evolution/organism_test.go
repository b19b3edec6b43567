package evolution

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
)

func TestOrganism_TestFitness(t *testing.T) {
	tests := []struct {
		name    string
		genome  string
		target  string
		fitness uint64
	}{
		{"exact match", "AB", "AB", 0},
		{"one step off", "AC", "AB", 1},
		{"too short", "A", "AB", 9999},
		{"too long", "ABCD", "AB", 2 * 9999},
		{"length and characters", "BA", "ABC", 9999 + 1 + 1},
		{"empty genome", "", "AB", 2 * 9999},
		{"default target against itself", DefaultTarget, DefaultTarget, 0},
		{"multibyte runes", "é", "e", uint64(('é' - 'e') * ('é' - 'e'))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrganism(tt.genome)
			_, ok := o.Fitness()
			assert.False(t, ok)

			got, err := o.TestFitness(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.fitness, got)

			stored, ok := o.Fitness()
			assert.True(t, ok)
			assert.Equal(t, tt.fitness, stored)
		})
	}
}

func TestNewRandomOrganism_LengthAndAlphabet(t *testing.T) {
	rng := NewRandomSource(42)
	alphabet := []rune(DefaultAlphabet)

	seenShort, seenLong := false, false
	for i := 0; i < 2000; i++ {
		o := NewRandomOrganism(alphabet, DefaultRandomMinLen, DefaultRandomMaxLen, rng)
		assert.False(t, o.Evaluated())
		require.GreaterOrEqual(t, o.Len(), 5)
		require.Less(t, o.Len(), 55)
		for _, r := range o.Genome() {
			require.True(t, strings.ContainsRune(DefaultAlphabet, r), "unexpected gene %q", r)
		}
		seenShort = seenShort || o.Len() == 5
		seenLong = seenLong || o.Len() == 54
	}
	assert.True(t, seenShort, "length 5 should be reachable")
	assert.True(t, seenLong, "length 54 should be reachable")
}

func TestOrganism_BreedWith(t *testing.T) {
	rng := NewRandomSource(3)
	alphabet := []rune(DefaultAlphabet)

	for i := 0; i < 200; i++ {
		a := NewRandomOrganism(alphabet, 5, 55, rng)
		b := NewRandomOrganism(alphabet, 5, 55, rng)

		child := a.BreedWith(b, rng)
		assert.False(t, child.Evaluated())
		require.Equal(t, min(a.Len(), b.Len()), child.Len())

		ag, bg, cg := []rune(a.Genome()), []rune(b.Genome()), []rune(child.Genome())
		for j, r := range cg {
			assert.True(t, r == ag[j] || r == bg[j], "gene %d of child comes from neither parent", j)
		}
	}
}

func TestOrganism_BreedWithTakesFromBothParents(t *testing.T) {
	a := NewOrganism(strings.Repeat("a", 64))
	b := NewOrganism(strings.Repeat("b", 64))

	child := a.BreedWith(b, NewRandomSource(11)).Genome()
	assert.Contains(t, child, "a")
	assert.Contains(t, child, "b")
}

func TestOrganism_MutateZeroShiftIsIdentity(t *testing.T) {
	o := NewOrganism("HELLO world")
	_, err := o.TestFitness("HELLO WORLD")
	require.NoError(t, err)
	before, _ := o.Fitness()

	rng := NewRandomSource(5)
	for i := 0; i < 10; i++ {
		changed := o.Mutate(MutationOptions{Rate: 1, MaxShift: 0}, rng)
		assert.False(t, changed)
	}

	assert.Equal(t, "HELLO world", o.Genome())
	after, ok := o.Fitness()
	assert.True(t, ok)
	assert.Equal(t, before, after)
}

func TestOrganism_MutateShiftsAndResetsFitness(t *testing.T) {
	o := NewOrganism("AB")
	_, err := o.TestFitness("AB")
	require.NoError(t, err)

	changed := o.Mutate(MutationOptions{Rate: 1, MaxShift: 3}, edgeSource{high: true})
	assert.True(t, changed)
	assert.Equal(t, "DE", o.Genome())
	assert.False(t, o.Evaluated())
}

func TestOrganism_MutateRespectsBounds(t *testing.T) {
	bounds := AlphabetBounds([]rune("abcxyz"))
	assert.Equal(t, RuneBounds{Min: 'a', Max: 'z'}, bounds)

	o := NewOrganism("zy")
	o.Mutate(MutationOptions{Rate: 1, MaxShift: 3, Bounds: &bounds}, edgeSource{high: true})
	assert.Equal(t, "zz", o.Genome())

	low := NewOrganism("ab")
	low.Mutate(MutationOptions{Rate: 1, MaxShift: 3, Bounds: &bounds}, edgeSource{})
	assert.Equal(t, "aa", low.Genome())
}

func TestOrganism_MutateUnclampedStaysValidCodePoint(t *testing.T) {
	o := NewOrganism("\x01")
	o.Mutate(MutationOptions{Rate: 1, MaxShift: 3}, edgeSource{})
	assert.Equal(t, "\x00", o.Genome())
}

func TestCompare(t *testing.T) {
	a := NewOrganism("AB")
	b := NewOrganism("AC")

	_, err := Compare(a, b)
	require.Error(t, err)
	assert.True(t, everr.IsCategory(err, everr.ErrorCategoryEvaluationPrecondition))

	_, err = a.TestFitness("AB")
	require.NoError(t, err)
	_, err = b.TestFitness("AB")
	require.NoError(t, err)

	cmp, err := Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = Compare(b, a)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)

	cmp, err = Compare(a, a.Clone())
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

func TestOrganism_CloneIsDeep(t *testing.T) {
	o := NewOrganism("AB")
	clone := o.Clone()
	clone.Mutate(MutationOptions{Rate: 1, MaxShift: 1}, edgeSource{high: true})

	assert.Equal(t, "AB", o.Genome())
	assert.Equal(t, "BC", clone.Genome())
}

func TestMutateGenome_ShiftRangeIsInclusive(t *testing.T) {
	genome := []rune(strings.Repeat("M", 2000))
	out, changed := MutateGenome(genome, MutationOptions{Rate: 1, MaxShift: 3}, NewRandomSource(17))
	require.True(t, changed)

	seen := make(map[int]bool)
	for _, r := range out {
		seen[int(r-'M')] = true
	}
	for shift := -3; shift <= 3; shift++ {
		assert.True(t, seen[shift], "shift %d never drawn", shift)
	}
	assert.Len(t, seen, 7)
}
