// internal/engine/params.go
package engine

import (
	"math"
	"sync/atomic"
)

// MinCutoffHz is the floor a non-positive cutoff frequency is clamped to.
// A 1 Hz cutoff leaves the audible band untouched while keeping the filter
// coefficient well defined.
const MinCutoffHz = 1.0

// params holds the engine's tunable values. Each field lives in its own
// atomic slot so the control thread posts updates without ever blocking the
// audio thread. Readers see per-field last-write-wins values; cross-field
// consistency is not guaranteed and not required.
type params struct {
	threshold atomicFloat64
	strength  atomicFloat64
	cutoff    atomicFloat64
}

// atomicFloat64 is a lock-free float64 slot built on atomic.Uint64.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (f *atomicFloat64) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

func (f *atomicFloat64) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// clampThreshold maps a noise threshold onto [0, +Inf).
func clampThreshold(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// clampStrength maps a reduction strength onto [0, 1].
func clampStrength(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}

// clampCutoff maps a cutoff frequency onto [MinCutoffHz, +Inf).
func clampCutoff(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return MinCutoffHz
	}
	return v
}
