// Package utils contains small math helpers shared across the module.
package utils

// Clamp forces value into the interval [min, max]. When the interval is
// empty (min > max), min wins.
func Clamp(value, min, max float64) float64 {
	if value > max {
		value = max
	}
	if value < min {
		value = min
	}
	return value
}

// ClampInt is Clamp for ints.
func ClampInt(value, min, max int) int {
	return MaxInt(min, MinInt(value, max))
}

func MaxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func AbsInt(n int) int {
	if n < 0 {
		return -1 * n
	}
	return n
}
