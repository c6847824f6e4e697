package graph

import (
	"errors"
	"math"
	"testing"
)

func newTestParam(t *testing.T, d ParamDescriptor) (*Context, *Param) {
	t.Helper()
	ctx := newTestContext(t, WithSampleRate(48000))
	return ctx, newParam(ctx, d)
}

func TestParamSetValueClamps(t *testing.T) {
	_, p := newTestParam(t, ParamDescriptor{Name: "gain", Default: 1, Min: 0, Max: 2})

	tests := []struct {
		set  float64
		want float64
	}{
		{1.5, 1.5},
		{-3, 0},
		{99, 2},
	}
	for _, test := range tests {
		p.SetValue(test.set)
		if got := p.Value(); got != test.want {
			t.Errorf("SetValue(%g): Value() = %g, want %g", test.set, got, test.want)
		}
	}
}

func TestParamSmoothing(t *testing.T) {
	_, p := newTestParam(t, ParamDescriptor{Name: "gain", Default: 0, Min: 0, Max: 1})
	p.SetValue(1)

	prev := 0.0
	for q := 0; q < 4000; q++ {
		v := p.SmoothedValue()
		if v < prev {
			t.Fatalf("quantum %d: smoother moved backwards (%g -> %g)", q, prev, v)
		}
		if v > 1 {
			t.Fatalf("quantum %d: smoother overshot to %g", q, v)
		}
		prev = v
	}
	if prev != 1 {
		t.Errorf("smoother did not converge: %g", prev)
	}
}

func TestParamSmootherSnapsAfterReset(t *testing.T) {
	_, p := newTestParam(t, ParamDescriptor{Name: "gain", Default: 0, Min: 0, Max: 1})
	p.SetValue(1)
	p.ResetSmoother()
	if got := p.SmoothedValue(); got != 1 {
		t.Errorf("SmoothedValue() after reset = %g, want 1", got)
	}
}

func TestParamAutomation(t *testing.T) {
	const sr = 48000.0

	t.Run("SetValueAtTime", func(t *testing.T) {
		_, p := newTestParam(t, ParamDescriptor{Name: "f", Default: 1, Min: 0, Max: 10})
		if err := p.SetValueAtTime(5, 64/sr); err != nil {
			t.Fatal(err)
		}
		vals := p.SampleAccurateValues(0, RenderQuantumFrames)
		if vals[0] != 1 {
			t.Errorf("value before step = %g, want 1", vals[0])
		}
		if vals[63] != 1 || vals[64] != 5 {
			t.Errorf("step edge = %g/%g, want 1/5", vals[63], vals[64])
		}
		if got := p.Value(); got != 5 {
			t.Errorf("published Value() = %g, want 5", got)
		}
	})

	t.Run("LinearRamp", func(t *testing.T) {
		_, p := newTestParam(t, ParamDescriptor{Name: "f", Default: 0, Min: 0, Max: 10})
		if err := p.SetValueAtTime(0, 0); err != nil {
			t.Fatal(err)
		}
		if err := p.LinearRampToValueAtTime(10, 128/sr); err != nil {
			t.Fatal(err)
		}
		vals := p.SampleAccurateValues(0, RenderQuantumFrames)
		if got, want := float64(vals[64]), 5.0; math.Abs(got-want) > 1e-3 {
			t.Errorf("ramp midpoint = %g, want %g", got, want)
		}
	})

	t.Run("ExponentialRamp", func(t *testing.T) {
		_, p := newTestParam(t, ParamDescriptor{Name: "f", Default: 100, Min: 1, Max: 1000})
		if err := p.SetValueAtTime(100, 0); err != nil {
			t.Fatal(err)
		}
		if err := p.ExponentialRampToValueAtTime(400, 128/sr); err != nil {
			t.Fatal(err)
		}
		vals := p.SampleAccurateValues(0, RenderQuantumFrames)
		// Geometric midpoint of 100 and 400.
		if got, want := float64(vals[64]), 200.0; math.Abs(got-want) > 0.5 {
			t.Errorf("exponential midpoint = %g, want %g", got, want)
		}
	})

	t.Run("SetTarget", func(t *testing.T) {
		_, p := newTestParam(t, ParamDescriptor{Name: "f", Default: 1, Min: 0, Max: 1})
		tc := 64 / sr
		if err := p.SetValueAtTime(1, 0); err != nil {
			t.Fatal(err)
		}
		if err := p.SetTargetAtTime(0, 0, tc); err != nil {
			t.Fatal(err)
		}
		vals := p.SampleAccurateValues(0, RenderQuantumFrames)
		// One time constant in: 1/e of the way remaining.
		if got, want := float64(vals[64]), math.Exp(-1); math.Abs(got-want) > 1e-3 {
			t.Errorf("value after one time constant = %g, want %g", got, want)
		}
		if vals[127] >= vals[64] {
			t.Errorf("decay not monotonic: %g then %g", vals[64], vals[127])
		}
	})

	t.Run("ValueCurve", func(t *testing.T) {
		_, p := newTestParam(t, ParamDescriptor{Name: "f", Default: 0, Min: 0, Max: 10})
		if err := p.SetValueCurveAtTime([]float64{0, 10, 0}, 0, 128/sr); err != nil {
			t.Fatal(err)
		}
		vals := p.SampleAccurateValues(0, RenderQuantumFrames)
		if got, want := float64(vals[64]), 10.0; math.Abs(got-want) > 0.2 {
			t.Errorf("curve midpoint = %g, want %g", got, want)
		}
		if got := float64(vals[0]); math.Abs(got) > 1e-6 {
			t.Errorf("curve start = %g, want 0", got)
		}
	})

	t.Run("HoldsFinalValue", func(t *testing.T) {
		_, p := newTestParam(t, ParamDescriptor{Name: "f", Default: 0, Min: 0, Max: 10})
		if err := p.LinearRampToValueAtTime(10, 64/sr); err != nil {
			t.Fatal(err)
		}
		p.SampleAccurateValues(0, RenderQuantumFrames)
		vals := p.SampleAccurateValues(10*RenderQuantumFrames, RenderQuantumFrames)
		if vals[0] != 10 || vals[127] != 10 {
			t.Errorf("post-automation values = %g..%g, want 10", vals[0], vals[127])
		}
	})

	t.Run("Cancel", func(t *testing.T) {
		_, p := newTestParam(t, ParamDescriptor{Name: "f", Default: 1, Min: 0, Max: 10})
		if err := p.SetValueAtTime(2, 0.1); err != nil {
			t.Fatal(err)
		}
		if err := p.SetValueAtTime(3, 0.2); err != nil {
			t.Fatal(err)
		}
		p.CancelScheduledValues(0.15)
		if !p.HasSampleAccurateValues() {
			t.Fatal("earlier event should survive the cancel")
		}
		vals := p.SampleAccurateValues(int64(0.3*sr), RenderQuantumFrames)
		if vals[0] != 2 {
			t.Errorf("value after cancel = %g, want 2", vals[0])
		}
		p.CancelScheduledValues(0)
		if p.HasSampleAccurateValues() {
			t.Error("timeline not empty after cancelling everything")
		}
	})
}

func TestParamAutomationErrors(t *testing.T) {
	_, p := newTestParam(t, ParamDescriptor{Name: "f", Default: 1, Min: 0, Max: 10})

	if err := p.SetValueAtTime(1, -0.5); !errors.Is(err, ErrBadScheduleTime) {
		t.Errorf("negative time error = %v, want ErrBadScheduleTime", err)
	}
	if err := p.ExponentialRampToValueAtTime(0, 1); !errors.Is(err, ErrBadParamValue) {
		t.Errorf("zero exponential target error = %v, want ErrBadParamValue", err)
	}
	if err := p.SetTargetAtTime(1, 0, 0); !errors.Is(err, ErrBadParamValue) {
		t.Errorf("zero time constant error = %v, want ErrBadParamValue", err)
	}
	if err := p.SetValueCurveAtTime([]float64{1}, 0, 1); !errors.Is(err, ErrBadCurve) {
		t.Errorf("single point curve error = %v, want ErrBadCurve", err)
	}
	if err := p.SetValueCurveAtTime([]float64{1, 2}, 0, 0); !errors.Is(err, ErrBadCurve) {
		t.Errorf("zero duration curve error = %v, want ErrBadCurve", err)
	}
}

func TestParamAutomationClampsToRange(t *testing.T) {
	_, p := newTestParam(t, ParamDescriptor{Name: "f", Default: 0, Min: 0, Max: 5})
	if err := p.SetValueAtTime(50, 0); err != nil {
		t.Fatal(err)
	}
	vals := p.SampleAccurateValues(0, RenderQuantumFrames)
	if vals[0] != 5 {
		t.Errorf("clamped automation value = %g, want 5", vals[0])
	}
}
