package memutils

import (
	"math/bits"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer
}

func CheckPow2[T Number](number T, name string) error {
	if number <= 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

// AlignUp rounds value up to the next multiple of alignment, which must be a power of two.
// An alignment of 0 leaves the value untouched.
func AlignUp[T Number](value T, alignment T) T {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) & ^(alignment - 1)
}

// AlignDown rounds value down to a multiple of alignment, which must be a power of two.
func AlignDown[T Number](value T, alignment T) T {
	if alignment == 0 {
		return value
	}
	return value & ^(alignment - 1)
}

// DivideRoundingUp returns ceil(value / divisor)
func DivideRoundingUp[T Number](value T, divisor T) T {
	return (value + divisor - 1) / divisor
}

// Log2Floor returns floor(log2(value)) for value > 0
func Log2Floor(value uint64) int {
	return 63 - bits.LeadingZeros64(value)
}

// Log2Ceil returns ceil(log2(value)) for value > 0. Log2Ceil(1) is 0.
func Log2Ceil(value uint64) int {
	if value <= 1 {
		return 0
	}
	return 64 - bits.LeadingZeros64(value-1)
}
