package nodes

import "github.com/justyntemme/soundgraph/pkg/graph"

var gainDescriptor = &graph.Descriptor{
	Name: "Gain",
	Params: []graph.ParamDescriptor{
		{Name: "gain", ShortName: "GAIN", Default: 1, Min: -1000, Max: 1000},
	},
}

// A Gain scales its summed input by the gain parameter, sample-accurately
// when automation is active. Its output width follows the input.
type Gain struct {
	*graph.BaseNode
	gain *graph.Param
}

// NewGain creates a gain node.
func NewGain(ctx *graph.Context) *Gain {
	g := &Gain{}
	g.BaseNode = graph.NewBaseNode(ctx, g, gainDescriptor)
	g.gain = g.Param("gain")
	g.AddInput()
	g.AddOutput(1)
	g.Initialize()
	return g
}

// Gain returns the gain parameter (linear amplitude).
func (g *Gain) Gain() *graph.Param { return g.gain }

// InputChannelsChanged resizes the output to match the summing junction.
func (g *Gain) InputChannelsChanged(input, channels int) {
	g.Output(0).SetChannelCount(channels)
}

// Process applies the gain to one quantum.
func (g *Gain) Process(r *graph.RenderScope, frames int) {
	in := g.Input(0).Bus()
	out := g.Output(0).Bus()
	if in.IsSilent() {
		out.SetSilent()
		return
	}
	if g.gain.HasSampleAccurateValues() {
		curve := g.gain.SampleAccurateValues(r.QuantumStart(), frames)
		for ch := 0; ch < out.NumChannels(); ch++ {
			src := in.Channel(min(ch, in.NumChannels()-1))
			dst := out.Channel(ch)
			for i := 0; i < frames; i++ {
				dst[i] = src[i] * curve[i]
			}
		}
		out.ClearSilent()
		return
	}
	out.CopyFrom(in)
	out.Scale(float32(g.gain.SmoothedValue()))
}
