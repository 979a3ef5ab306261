package utils

import "math"

// DefaultEpsilon is the tolerance used by the AlmostEqual helpers.
const DefaultEpsilon = 1e-8

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Clamp returns x limited to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}

// FloorInt returns the largest integer less than or equal to x.
func FloorInt(x float64) int {
	return int(math.Floor(x))
}

// AbsInt returns the absolute value of n.
func AbsInt(n int) int {
	if n < 0 {
		return -1 * n
	}
	return n
}
