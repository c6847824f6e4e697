package nodes

import "github.com/justyntemme/soundgraph/pkg/graph"

// resolved is one parameter's values for the current quantum: a per-frame
// curve when automation is active, otherwise a single smoothed scalar.
type resolved struct {
	curve  []float32
	scalar float32
}

// resolveParam evaluates a parameter for the quantum. Render thread only.
func resolveParam(p *graph.Param, r *graph.RenderScope, frames int) resolved {
	if p.HasSampleAccurateValues() {
		return resolved{curve: p.SampleAccurateValues(r.QuantumStart(), frames)}
	}
	return resolved{scalar: float32(p.SmoothedValue())}
}

// at returns the value for frame i of the quantum.
func (v resolved) at(i int) float32 {
	if v.curve != nil {
		return v.curve[i]
	}
	return v.scalar
}
