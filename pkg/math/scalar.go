package math

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp returns f limited to [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Abs returns the absolute value of x.
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Radians converts degrees to radians.
func Radians(degrees float32) float32 {
	return degrees * math.Pi / 180
}

// NearlyEqual reports whether a and b differ by at most eps.
func NearlyEqual(a, b, eps float32) bool {
	return Abs(a-b) <= eps
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo[T constraints.Integer](n T) bool {
	return n > 0 && n&(n-1) == 0
}
