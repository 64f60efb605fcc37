package utils

import "math"

// Round2 rounds a monetary value to two decimal places, half up (halves move
// away from zero, not banker's rounding). It is idempotent and is the single
// rounding rule for every monetary output in the system.
func Round2(val float64) float64 {
	return math.Round(val*100) / 100
}

// RoundFloat rounds a float64 to a specified number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
