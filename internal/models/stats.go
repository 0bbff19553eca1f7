package models

import "math"

// ReductionPercentage returns round((1 − optimized/original) × 100), or 0
// when there were no original transactions.
func ReductionPercentage(original, optimized int) int {
	if original == 0 {
		return 0
	}
	return int(math.Round((1 - float64(optimized)/float64(original)) * 100))
}
