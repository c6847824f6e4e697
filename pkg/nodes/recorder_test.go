package nodes

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/justyntemme/soundgraph/pkg/graph"
	"github.com/justyntemme/soundgraph/pkg/sample"
)

func TestRecorderCapturesPassthrough(t *testing.T) {
	ctx := newTestContext(t)
	src := NewBufferSource(ctx)
	src.SetBuffer(rampBuffer(4 * graph.RenderQuantumFrames))
	rec := NewRecorder(ctx)
	connect(t, ctx, src, rec, ctx.Destination())
	rec.SetRecording(true)
	start(t, src, 0)

	out := renderMono(ctx, 2*graph.RenderQuantumFrames)
	rec.SetRecording(false)

	if got := rec.Frames(); got != 2*graph.RenderQuantumFrames {
		t.Fatalf("Frames() = %d, want %d", got, 2*graph.RenderQuantumFrames)
	}
	data := rec.Data()
	for i := 0; i < data.Frames(); i++ {
		if got := data.Channel(0)[i]; got != out[i] {
			t.Fatalf("captured frame %d = %g, passthrough was %g", i, got, out[i])
		}
	}
}

func TestRecorderDisarmedCapturesNothing(t *testing.T) {
	ctx := newTestContext(t)
	src := NewBufferSource(ctx)
	src.SetBuffer(rampBuffer(graph.RenderQuantumFrames))
	rec := NewRecorder(ctx)
	connect(t, ctx, src, rec, ctx.Destination())
	start(t, src, 0)

	renderMono(ctx, graph.RenderQuantumFrames)

	if got := rec.Frames(); got != 0 {
		t.Errorf("disarmed recorder captured %d frames, want 0", got)
	}
}

func TestRecorderCapacityClamp(t *testing.T) {
	ctx := newTestContext(t)
	src := NewBufferSource(ctx)
	src.SetBuffer(rampBuffer(4 * graph.RenderQuantumFrames))
	rec := NewRecorderSeconds(ctx, 100/testSampleRate)
	connect(t, ctx, src, rec, ctx.Destination())
	rec.SetRecording(true)
	start(t, src, 0)

	renderMono(ctx, 3 * graph.RenderQuantumFrames)

	if got := rec.Frames(); got != 100 {
		t.Errorf("Frames() = %d, want capture clamped at 100", got)
	}
}

func TestRecorderClear(t *testing.T) {
	ctx := newTestContext(t)
	src := NewBufferSource(ctx)
	src.SetBuffer(rampBuffer(graph.RenderQuantumFrames))
	rec := NewRecorder(ctx)
	connect(t, ctx, src, rec, ctx.Destination())
	rec.SetRecording(true)
	start(t, src, 0)
	renderMono(ctx, graph.RenderQuantumFrames)
	rec.SetRecording(false)

	rec.Clear()
	if got := rec.Frames(); got != 0 {
		t.Errorf("Frames() after Clear() = %d, want 0", got)
	}
}

func TestRecorderWriteWAV(t *testing.T) {
	ctx := newTestContext(t)
	src := NewOscillator(ctx)
	rec := NewRecorder(ctx)
	connect(t, ctx, src, rec, ctx.Destination())
	rec.SetRecording(true)
	start(t, src, 0)
	renderMono(ctx, 8*graph.RenderQuantumFrames)
	rec.SetRecording(false)

	path := filepath.Join(t.TempDir(), "capture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.WriteWAV(f); err != nil {
		t.Fatalf("WriteWAV() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	decoded, err := sample.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := decoded.Frames(); got != rec.Frames() {
		t.Fatalf("decoded frames = %d, want %d", got, rec.Frames())
	}
	orig := rec.Data()
	for i := 0; i < decoded.Frames(); i += 37 {
		want := float64(orig.Channel(0)[i])
		got := float64(decoded.Channel(0)[i])
		if math.Abs(got-want) > 1e-3 {
			t.Fatalf("decoded frame %d = %g, want %g within 16-bit tolerance", i, got, want)
		}
	}
}
