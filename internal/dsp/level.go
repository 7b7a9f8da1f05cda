// internal/dsp/level.go
package dsp

import "math"

// AmpToDB converts a linear amplitude to decibels: 20·log10(|value|).
// Returns -Inf for zero, which callers typically display as silence.
func AmpToDB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20.0 * math.Log10(a)
}
