package shared

import "math"

// Round2 rounds a monetary or percentage value to 2 decimal places.
// All report fields are rounded at the output boundary, never during
// intermediate accumulation, so components that must sum to the same
// total stay consistent.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage returns part/total*100 rounded to 2 decimals, guarding
// against a zero total.
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return Round2(part / total * 100)
}
