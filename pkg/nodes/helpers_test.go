package nodes

import (
	"testing"

	"github.com/justyntemme/soundgraph/pkg/graph"
)

const testSampleRate = 48000.0

func newTestContext(t *testing.T) *graph.Context {
	t.Helper()
	ctx := graph.New(graph.WithSampleRate(testSampleRate), graph.WithChannels(1))
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

func renderMono(ctx *graph.Context, frames int) []float32 {
	out := make([]float32, frames)
	ctx.Render([][]float32{out})
	return out
}

func connect(t *testing.T, ctx *graph.Context, chain ...graph.Node) {
	t.Helper()
	for i := 0; i+1 < len(chain); i++ {
		if err := ctx.Connect(chain[i], 0, chain[i+1], 0); err != nil {
			t.Fatalf("Connect(%s -> %s) error: %v", chain[i].Name(), chain[i+1].Name(), err)
		}
	}
}

func start(t *testing.T, s graph.Source, when float64) {
	t.Helper()
	if err := s.Start(when); err != nil {
		t.Fatalf("Start(%g) error: %v", when, err)
	}
}
