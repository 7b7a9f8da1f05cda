// internal/dsp/gate.go
package dsp

import "math"

// Gate attenuates samples whose magnitude falls below threshold.
// Sub-threshold samples are scaled by (1 - strength); everything at or above
// the threshold passes unchanged. A threshold of 0 disables gating entirely
// (no magnitude is ever below it), strength 0 makes the gate a no-op, and
// strength 1 fully silences sub-threshold samples.
// Pure function of its three inputs.
func Gate(sample, threshold, strength float64) float64 {
	if math.Abs(sample) < threshold {
		return sample * (1.0 - strength)
	}
	return sample
}
