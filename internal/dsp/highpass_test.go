package dsp

import (
	"math"
	"testing"
)

const (
	testSampleRate = 48000.0
	testCutoff     = 80.0
)

func TestAlpha_Formula(t *testing.T) {
	tests := []struct {
		name       string
		cutoff     float64
		sampleRate float64
	}{
		{"voice rumble cutoff", 80, 48000},
		{"low cutoff", 20, 44100},
		{"high cutoff", 1000, 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := 1.0 / (2.0 * math.Pi * tt.cutoff)
			dt := 1.0 / tt.sampleRate
			want := dt / (rc + dt)

			got := Alpha(tt.cutoff, tt.sampleRate)
			if got != want {
				t.Errorf("Alpha(%v, %v) = %v, want %v", tt.cutoff, tt.sampleRate, got, want)
			}
			if got <= 0 || got >= 1 {
				t.Errorf("Alpha(%v, %v) = %v, want value in (0, 1)", tt.cutoff, tt.sampleRate, got)
			}
		})
	}
}

func TestHighPass_SingleStep(t *testing.T) {
	// Hand-computed first step from zero state: highpass = alpha·raw.
	raw := 0.5
	alpha := Alpha(testCutoff, testSampleRate)
	strength := 0.8

	filtered, next := HighPass(raw, FilterState{}, testCutoff, testSampleRate, strength)

	wantHighpass := alpha * raw
	wantFiltered := raw - wantHighpass*strength

	if filtered != wantFiltered {
		t.Errorf("filtered = %v, want %v", filtered, wantFiltered)
	}
	if next.PrevInput != raw {
		t.Errorf("PrevInput = %v, want raw input %v", next.PrevInput, raw)
	}
	if next.PrevOutput != wantHighpass {
		t.Errorf("PrevOutput = %v, want highpass estimate %v", next.PrevOutput, wantHighpass)
	}
}

func TestHighPass_StateCarriesHighpassEstimate(t *testing.T) {
	// The committed state must hold the highpass estimate, never the blended
	// output. With strength 1 those two values differ, which exposes a wrong
	// state update.
	state := FilterState{}
	var filtered float64
	filtered, state = HighPass(1.0, state, testCutoff, testSampleRate, 1.0)

	if state.PrevOutput == filtered {
		t.Fatal("PrevOutput equals the blended output; it must be the highpass estimate")
	}

	alpha := Alpha(testCutoff, testSampleRate)
	if state.PrevOutput != alpha*1.0 {
		t.Errorf("PrevOutput = %v, want %v", state.PrevOutput, alpha)
	}
}

func TestHighPass_ZeroStrengthIsIdentity(t *testing.T) {
	state := FilterState{}
	inputs := []float64{0.1, -0.5, 0.9, 0.0, -0.001, 1.0}

	for i, raw := range inputs {
		var got float64
		got, state = HighPass(raw, state, testCutoff, testSampleRate, 0)
		if got != raw {
			t.Errorf("sample %d: output = %v, want input %v", i, got, raw)
		}
	}
}

func TestHighPass_ConstantInputEstimateDecays(t *testing.T) {
	// With a constant input the highpass estimate shrinks geometrically by
	// alpha each step, so the blended output converges to the input.
	const v = 0.75
	state := FilterState{}
	prevEstimate := math.Inf(1)

	for i := 0; i < 64; i++ {
		_, state = HighPass(v, state, testCutoff, testSampleRate, 0.5)
		if est := math.Abs(state.PrevOutput); i > 0 && est >= prevEstimate {
			t.Fatalf("step %d: estimate %v did not shrink from %v", i, est, prevEstimate)
		} else {
			prevEstimate = est
		}
	}

	filtered, _ := HighPass(v, state, testCutoff, testSampleRate, 0.5)
	if math.Abs(filtered-v) > 1e-6 {
		t.Errorf("after decay, filtered = %v, want close to %v", filtered, v)
	}
}

func TestHighPass_BoundedForBoundedInput(t *testing.T) {
	// alpha in (0,1) makes the estimate recursion a contraction, so bounded
	// input must give bounded output.
	const amplitude = 1.0
	state := FilterState{}

	for i := 0; i < 10000; i++ {
		// Deterministic wide-band input in [-1, 1].
		raw := math.Sin(float64(i)*7919.0) * amplitude
		var filtered float64
		filtered, state = HighPass(raw, state, testCutoff, testSampleRate, 1.0)
		if math.Abs(filtered) > 4*amplitude {
			t.Fatalf("sample %d: output %v exceeds bound %v", i, filtered, 4*amplitude)
		}
	}
}

func TestStep_MatchesHighPass(t *testing.T) {
	// Caching alpha must be bit-identical to recomputing it per sample.
	alpha := Alpha(testCutoff, testSampleRate)
	stateA := FilterState{}
	stateB := FilterState{}

	for i := 0; i < 256; i++ {
		raw := math.Sin(2 * math.Pi * 440 * float64(i) / testSampleRate)
		outA, nextA := HighPass(raw, stateA, testCutoff, testSampleRate, 0.5)
		outB, nextB := Step(raw, stateB, alpha, 0.5)
		if outA != outB || nextA != nextB {
			t.Fatalf("sample %d: Step diverged from HighPass (%v vs %v)", i, outA, outB)
		}
		stateA, stateB = nextA, nextB
	}
}
