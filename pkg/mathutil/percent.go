// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/anvil-calc/pkg/constants"
)

// Clamp limits value to the closed interval [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// ClampPercent limits a percentage to [0, 100].
func ClampPercent(value float64) float64 {
	return Clamp(value, constants.MinPercent, constants.MaxPercent)
}

// InRange reports whether value lies in [lo, hi], widened by tolerance on
// both ends.
func InRange(value, lo, hi, tolerance float64) bool {
	return value >= lo-tolerance && value <= hi+tolerance
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// Round1 rounds a value to one decimal, the precision percentages are
// displayed with.
func Round1(val float64) float64 {
	return math.Round(val*10) / 10
}
