package evolution

import (
	"fmt"
	"math/bits"

	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
)

// ComputeFitness returns the cost of genome against target. Lower is better
// and an exact match costs 0.
//
// The cost is LengthPenalty per character of length difference plus the
// squared code point difference at every position both strings share.
// Positions past the shorter string only pay through the length term.
func ComputeFitness(genome, target string) (uint64, error) {
	return computeFitness([]rune(genome), []rune(target))
}

func computeFitness(genome, target []rune) (uint64, error) {
	shared := min(len(genome), len(target))
	lengthDiff := uint64(max(len(genome), len(target)) - shared)

	hi, cost := bits.Mul64(lengthDiff, LengthPenalty)
	if hi != 0 {
		return 0, overflowError("length penalty", lengthDiff)
	}

	for i := 0; i < shared; i++ {
		d := int64(genome[i]) - int64(target[i])
		if d < 0 {
			d = -d
		}
		hi, sq := bits.Mul64(uint64(d), uint64(d))
		if hi != 0 {
			return 0, overflowError("squared difference", i)
		}
		var carry uint64
		cost, carry = bits.Add64(cost, sq, 0)
		if carry != 0 {
			return 0, overflowError("running sum", i)
		}
	}
	return cost, nil
}

func overflowError(term string, at interface{}) error {
	return everr.NewArithmeticOverflowError("fitness", "ComputeFitness",
		fmt.Sprintf("%s overflows uint64", term)).WithContext("at", at)
}
