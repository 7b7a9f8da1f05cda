// internal/engine/engine.go

// Package engine implements the real-time microphone enhancement core: a
// per-sample noise gate followed by an adaptive high-pass stage, with
// windowed RMS/peak telemetry posted to a control-side consumer.
//
// Exactly one real-time context may call ProcessBlock. Configure and the
// Set* methods may be called concurrently from a single control context;
// updates become visible to the audio thread no later than the next block.
package engine

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/recordlab/micfx/internal/dsp"
)

var (
	// ErrInvalidQueueDepth indicates the telemetry queue depth must be positive.
	ErrInvalidQueueDepth = errors.New("telemetry queue depth must be positive")
)

// Config holds construction-time engine settings. Parameter values pass
// through the same clamping as Configure, so any float is accepted.
type Config struct {
	// WindowSize is the number of samples per analysis window (from config: window_size)
	WindowSize int
	// TelemetryQueue is the maximum number of undelivered analysis events (from config: telemetry_queue)
	TelemetryQueue int
	// NoiseThreshold is the initial gate threshold (from config: noise_threshold)
	NoiseThreshold float64
	// ReductionStrength is the initial attenuation strength 0..1 (from config: reduction_strength)
	ReductionStrength float64
	// CutoffHz is the initial high-pass cutoff frequency (from config: cutoff_frequency)
	CutoffHz float64
}

// DefaultConfig returns settings suitable for voice capture.
func DefaultConfig() Config {
	return Config{
		WindowSize:        dsp.DefaultWindowSize,
		TelemetryQueue:    16,
		NoiseThreshold:    0.015,
		ReductionStrength: 0.5,
		CutoffHz:          80,
	}
}

// AnalysisCallback receives telemetry events off the real-time thread.
type AnalysisCallback func(AnalysisEvent)

// Engine composes the gate and high-pass stage over incoming blocks and
// emits one AnalysisEvent per completed analysis window.
type Engine struct {
	params params

	// Real-time state, touched only from ProcessBlock.
	state     dsp.FilterState
	window    *dsp.Window
	processed uint64 // total samples processed, drives event timestamps

	// Cached filter coefficient, recomputed when cutoff or rate changes.
	// Identical to per-sample recomputation since Alpha is deterministic.
	alphaCutoff float64
	alphaRate   float64
	alpha       float64

	tel         *telemetry
	callbackPtr atomic.Pointer[AnalysisCallback]

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates an engine and starts its telemetry dispatch goroutine.
func New(cfg Config) (*Engine, error) {
	if cfg.TelemetryQueue <= 0 {
		return nil, ErrInvalidQueueDepth
	}
	window, err := dsp.NewWindow(cfg.WindowSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		window: window,
		tel:    newTelemetry(cfg.TelemetryQueue),
		done:   make(chan struct{}),
	}
	e.Configure(cfg.NoiseThreshold, cfg.ReductionStrength, cfg.CutoffHz)

	e.wg.Add(1)
	go e.dispatchLoop()

	return e, nil
}

// Configure posts a full parameter set through the control slots. Values
// outside their valid ranges are clamped silently; no error ever crosses
// back to the caller. Updates issued between two blocks affect only the
// later one.
func (e *Engine) Configure(noiseThreshold, reductionStrength, cutoffHz float64) {
	e.SetNoiseThreshold(noiseThreshold)
	e.SetReductionStrength(reductionStrength)
	e.SetCutoffFrequency(cutoffHz)
}

// SetNoiseThreshold posts a gate threshold update (clamped to >= 0).
func (e *Engine) SetNoiseThreshold(v float64) {
	e.params.threshold.Store(clampThreshold(v))
}

// SetReductionStrength posts an attenuation strength update (clamped to 0..1).
func (e *Engine) SetReductionStrength(v float64) {
	e.params.strength.Store(clampStrength(v))
}

// SetCutoffFrequency posts a cutoff frequency update (clamped to >= MinCutoffHz).
func (e *Engine) SetCutoffFrequency(v float64) {
	e.params.cutoff.Store(clampCutoff(v))
}

// Parameters returns the currently effective parameter values (for testing
// and monitoring).
func (e *Engine) Parameters() (noiseThreshold, reductionStrength, cutoffHz float64) {
	return e.params.threshold.Load(), e.params.strength.Load(), e.params.cutoff.Load()
}

// Subscribe registers the telemetry consumer. The callback runs on the
// dispatch goroutine, never on the audio thread, and must not block for long
// or events will be dropped.
func (e *Engine) Subscribe(cb AnalysisCallback) {
	if cb == nil {
		e.callbackPtr.Store(nil)
		return
	}
	e.callbackPtr.Store(&cb)
}

// ProcessBlock runs the enhancement chain over one block of samples in place
// and returns the same slice. The output always has the input's length, and
// processing is deterministic given identical samples, parameters, and
// starting state. Must only be called from the real-time context; it
// performs no allocation and takes no locks.
func (e *Engine) ProcessBlock(samples []float32, sampleRateHz float64) []float32 {
	threshold := e.params.threshold.Load()
	strength := e.params.strength.Load()
	cutoff := e.params.cutoff.Load()

	alpha := e.coefficient(cutoff, sampleRateHz)

	for i, s := range samples {
		gated := dsp.Gate(float64(s), threshold, strength)
		filtered, next := dsp.Step(gated, e.state, alpha, strength)
		e.state = next
		samples[i] = float32(filtered)

		e.processed++
		if e.window.Push(filtered) {
			rms, peak := e.window.Analyze()
			e.tel.post(AnalysisEvent{
				RMS:       rms,
				Peak:      peak,
				Timestamp: e.streamTime(sampleRateHz),
			})
		}
	}

	return samples
}

// coefficient returns the filter alpha for the given cutoff and rate,
// reusing the cached value when both inputs are unchanged. A non-positive
// sample rate yields alpha 0, turning the filter stage into a pass-through.
func (e *Engine) coefficient(cutoffHz, sampleRateHz float64) float64 {
	if sampleRateHz <= 0 {
		return 0
	}
	if cutoffHz != e.alphaCutoff || sampleRateHz != e.alphaRate {
		e.alphaCutoff = cutoffHz
		e.alphaRate = sampleRateHz
		e.alpha = dsp.Alpha(cutoffHz, sampleRateHz)
	}
	return e.alpha
}

// streamTime converts the processed-sample count into seconds.
func (e *Engine) streamTime(sampleRateHz float64) float64 {
	if sampleRateHz <= 0 {
		return 0
	}
	return float64(e.processed) / sampleRateHz
}

// dispatchLoop delivers telemetry events to the subscribed callback.
func (e *Engine) dispatchLoop() {
	defer e.wg.Done()
	for {
		select {
		case <-e.done:
			return
		case ev := <-e.tel.events:
			if cb := e.callbackPtr.Load(); cb != nil {
				(*cb)(ev)
			}
		}
	}
}

// Close stops telemetry dispatch. The caller is responsible for stopping
// ProcessBlock invocations first; blocks already returned remain valid and
// no partial block is ever exposed.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.done)
	})
	e.wg.Wait()
	return nil
}
