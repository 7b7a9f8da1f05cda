// internal/engine/telemetry.go
package engine

// AnalysisEvent is an immutable loudness snapshot taken once per completed
// analysis window. RMS and Peak are linear magnitudes over the window;
// Timestamp is stream time in seconds since the engine started processing.
type AnalysisEvent struct {
	RMS       float64
	Peak      float64
	Timestamp float64
}

// telemetry is the bounded engine-to-control handoff for analysis events.
// Events arrive at the consumer in emission order. The producer side never
// blocks: when the queue is full the oldest pending event is dropped to make
// room for the new one.
type telemetry struct {
	events chan AnalysisEvent
}

func newTelemetry(depth int) *telemetry {
	return &telemetry{events: make(chan AnalysisEvent, depth)}
}

// post enqueues an event without blocking. Called from the audio thread.
func (t *telemetry) post(ev AnalysisEvent) {
	select {
	case t.events <- ev:
	default:
		// Queue full: evict the oldest pending event and retry once. If a
		// concurrent receive races the eviction the retry can still find the
		// queue full, in which case the new event is dropped instead.
		select {
		case <-t.events:
		default:
		}
		select {
		case t.events <- ev:
		default:
		}
	}
}

// pending returns the number of undelivered events (for testing).
func (t *telemetry) pending() int {
	return len(t.events)
}
