package nodes

import (
	"math"
	"testing"

	"github.com/justyntemme/soundgraph/pkg/graph"
	"github.com/justyntemme/soundgraph/pkg/sample"
)

func newGatedADSR(t *testing.T, ctx *graph.Context) (*ConstantSource, *ADSR) {
	t.Helper()
	src := NewConstantSource(ctx)
	env := NewADSR(ctx)
	connect(t, ctx, src, env, ctx.Destination())
	if err := src.Offset().SetValueAtTime(1, 0); err != nil {
		t.Fatal(err)
	}
	start(t, src, 0)
	// One quantum per segment, so the stage boundaries land on exact frames.
	qd := graph.RenderQuantumFrames / testSampleRate
	env.Set(qd, 1, qd, qd, 0.5, qd)
	return src, env
}

func TestADSRGatedCycle(t *testing.T) {
	ctx := newTestContext(t)
	_, env := newGatedADSR(t, ctx)
	env.OneShot().SetBool(false)

	qd := graph.RenderQuantumFrames / testSampleRate
	if err := env.Gate().SetValueAtTime(1, 0); err != nil {
		t.Fatal(err)
	}
	if err := env.Gate().SetValueAtTime(0, 4*qd); err != nil {
		t.Fatal(err)
	}

	out := renderMono(ctx, 8*graph.RenderQuantumFrames)

	// Attack over quantum 0, decay over quantum 1, sustain until the gate
	// falls at frame 512, release over one quantum, then silence.
	tests := []struct {
		frame int
		want  float64
	}{
		{0, 0},
		{64, 0.5},
		{128, 1},
		{192, 0.75},
		{300, 0.5},
		{500, 0.5},
		{512, 0.5},
		{576, 0.25},
		{700, 0},
		{1000, 0},
	}
	for _, test := range tests {
		if got := float64(out[test.frame]); math.Abs(got-test.want) > 1e-4 {
			t.Errorf("frame %d = %g, want %g", test.frame, got, test.want)
		}
	}
	if !env.ReleaseCompleted() {
		t.Error("ReleaseCompleted() = false after the release ran out, want true")
	}
}

func TestADSROneShot(t *testing.T) {
	ctx := newTestContext(t)
	_, env := newGatedADSR(t, ctx)

	// One-shot is the default: the gate only rises, sustain and release run
	// on the configured times.
	if err := env.Gate().SetValueAtTime(1, 0); err != nil {
		t.Fatal(err)
	}

	out := renderMono(ctx, 8*graph.RenderQuantumFrames)

	tests := []struct {
		frame int
		want  float64
	}{
		{0, 0},
		{128, 1},
		{320, 0.5},
		{448, 0.25},
		{600, 0},
	}
	for _, test := range tests {
		if got := float64(out[test.frame]); math.Abs(got-test.want) > 1e-4 {
			t.Errorf("frame %d = %g, want %g", test.frame, got, test.want)
		}
	}
	if !env.ReleaseCompleted() {
		t.Error("ReleaseCompleted() = false after one-shot ran out, want true")
	}
}

func TestADSRIdleWithoutGate(t *testing.T) {
	ctx := newTestContext(t)
	_, env := newGatedADSR(t, ctx)

	out := renderMono(ctx, 2*graph.RenderQuantumFrames)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("frame %d = %g, want 0 with the gate low", i, v)
		}
	}
	if !env.ReleaseCompleted() {
		t.Error("ReleaseCompleted() = false before first trigger, want true")
	}
}

func TestADSRFollowsInputWidth(t *testing.T) {
	ctx := newTestContext(t)
	src := NewBufferSource(ctx)
	src.SetBuffer(sample.New(testSampleRate, 2, 256))
	env := NewADSR(ctx)
	connect(t, ctx, src, env)

	if got := env.Output(0).NumChannels(); got != 2 {
		t.Errorf("envelope output channels = %d, want 2 after stereo connect", got)
	}
}

func TestADSRReset(t *testing.T) {
	ctx := newTestContext(t)
	_, env := newGatedADSR(t, ctx)
	if err := env.Gate().SetValueAtTime(1, 0); err != nil {
		t.Fatal(err)
	}
	renderMono(ctx, graph.RenderQuantumFrames)

	ctx.ResetNode(env)

	if !env.ReleaseCompleted() {
		t.Error("ReleaseCompleted() = false after reset, want true")
	}
	if got := env.Gate().Value(); got != 0 {
		t.Errorf("gate value after reset = %g, want 0", got)
	}
}
