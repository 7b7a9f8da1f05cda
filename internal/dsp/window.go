// internal/dsp/window.go
package dsp

import (
	"errors"
	"math"
)

// ErrInvalidCapacity indicates the analysis window capacity must be positive.
var ErrInvalidCapacity = errors.New("analysis window capacity must be positive")

// DefaultWindowSize is the number of samples per analysis window.
const DefaultWindowSize = 1024

// Window is a fixed-capacity circular store of filtered samples used for
// windowed loudness analysis. The write cursor wraps modulo capacity; the
// wrap back to index 0 marks the completion of one full window and is the
// sole trigger for analysis. Capacity never changes after construction, so
// indexing is structurally safe without runtime checks.
type Window struct {
	buf    []float64
	cursor int
}

// NewWindow creates an analysis window with the given capacity.
func NewWindow(capacity int) (*Window, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Window{buf: make([]float64, capacity)}, nil
}

// Push stores one sample at the current cursor and advances it. It reports
// whether the cursor wrapped, i.e. whether a full window of capacity
// consecutive samples has just completed.
func (w *Window) Push(sample float64) bool {
	w.buf[w.cursor] = sample
	w.cursor++
	if w.cursor == len(w.buf) {
		w.cursor = 0
		return true
	}
	return false
}

// Analyze computes RMS and peak magnitude over the entire window contents.
// It is meant to be called when Push reports a wrap, so the window holds the
// last capacity consecutive samples.
func (w *Window) Analyze() (rms, peak float64) {
	var sumSq float64
	for _, x := range w.buf {
		sumSq += x * x
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}
	rms = math.Sqrt(sumSq / float64(len(w.buf)))
	return rms, peak
}

// Capacity returns the fixed window capacity.
func (w *Window) Capacity() int {
	return len(w.buf)
}

// Cursor returns the current write position (for testing and inspection).
func (w *Window) Cursor() int {
	return w.cursor
}
