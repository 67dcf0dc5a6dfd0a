package grid

import "math"

// eps is the tolerance for width comparisons.
const eps = 1e-9

// clamp bounds v to [lo, hi]. When lo > hi the lower bound wins.
func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// sanitize maps NaN, ±Inf and negative values to zero.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func sameValue(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

func greater(a, b float64) bool { return a-b > eps }

func isZero(v float64) bool { return math.Abs(v) <= eps }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
