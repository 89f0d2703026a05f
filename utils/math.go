// utils/math.go
package utils

import "math"

// SaturatingSub returns a-b, clamped at zero instead of wrapping.
func SaturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

// SaturatingAdd returns a+b, clamped at the uint64 ceiling instead of
// wrapping.
func SaturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
