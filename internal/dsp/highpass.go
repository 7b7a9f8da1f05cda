// internal/dsp/highpass.go
package dsp

import "math"

// FilterState is the one-pole filter memory carried from sample to sample.
// It belongs to exactly one processing chain and persists across blocks.
type FilterState struct {
	// PrevInput is the previous raw (post-gate) input sample.
	PrevInput float64
	// PrevOutput is the previous high-pass estimate, not the blended output.
	PrevOutput float64
}

// Alpha returns the one-pole filter coefficient for the given cutoff and
// sample rate: alpha = dt / (rc + dt), with rc = 1/(2π·cutoff) and
// dt = 1/sampleRate. Both arguments must be positive.
func Alpha(cutoffHz, sampleRateHz float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoffHz)
	dt := 1.0 / sampleRateHz
	return dt / (rc + dt)
}

// HighPass runs one step of the rumble-suppression stage and returns the
// filtered sample together with the next filter state.
//
// The stage estimates the high-frequency content with a one-pole recursion
// and subtracts that estimate from the raw sample, scaled by strength:
//
//	highpass = alpha · (prevOutput + raw − prevInput)
//	filtered = raw − highpass · strength
//
// Note this is a spectral-subtraction style blend, not a textbook high-pass
// output. The next state is built from the raw input and the just-computed
// highpass estimate; feeding the blended output back instead changes the
// filter dynamics.
func HighPass(raw float64, state FilterState, cutoffHz, sampleRateHz, strength float64) (float64, FilterState) {
	return Step(raw, state, Alpha(cutoffHz, sampleRateHz), strength)
}

// Step is the coefficient-level form of HighPass for callers that cache
// alpha across samples. The cached alpha must come from Alpha with the same
// cutoff and sample rate, so results are bit-identical to recomputing it
// every sample.
func Step(raw float64, state FilterState, alpha, strength float64) (float64, FilterState) {
	highpass := alpha * (state.PrevOutput + raw - state.PrevInput)
	filtered := raw - highpass*strength
	return filtered, FilterState{PrevInput: raw, PrevOutput: highpass}
}
