package nodes

import (
	"github.com/justyntemme/soundgraph/pkg/dsp"
	"github.com/justyntemme/soundgraph/pkg/graph"
)

// DefaultMaxDelay is the delay line capacity used when none is given.
const DefaultMaxDelay = 2.0

// A Delay feeds its input through an interpolated delay line per channel.
// The delayTime parameter may change per sample. The node declares its
// maximum delay as tail time, so it keeps draining after the input goes
// silent instead of truncating the delayed signal.
type Delay struct {
	*graph.BaseNode
	delayTime *graph.Param
	maxDelay  float64
	lines     []*dsp.Line
}

// NewDelay creates a delay node with the given line capacity in seconds
// (DefaultMaxDelay when <= 0).
func NewDelay(ctx *graph.Context, maxDelay float64) *Delay {
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	d := &Delay{maxDelay: maxDelay}
	desc := &graph.Descriptor{
		Name: "Delay",
		Params: []graph.ParamDescriptor{
			{Name: "delayTime", ShortName: "DELAY", Default: 0, Min: 0, Max: maxDelay},
		},
	}
	d.BaseNode = graph.NewBaseNode(ctx, d, desc)
	d.delayTime = d.Param("delayTime")
	d.AddInput()
	d.AddOutput(1)
	d.lines = []*dsp.Line{dsp.NewLine(maxDelay, ctx.SampleRate())}
	d.Initialize()
	return d
}

// DelayTime returns the delay parameter in seconds.
func (d *Delay) DelayTime() *graph.Param { return d.delayTime }

// MaxDelay returns the line capacity in seconds.
func (d *Delay) MaxDelay() float64 { return d.maxDelay }

// TailTime declares the line capacity as drain time.
func (d *Delay) TailTime() float64 { return d.maxDelay }

// InputChannelsChanged resizes the output and the per-channel delay lines.
func (d *Delay) InputChannelsChanged(input, channels int) {
	d.Output(0).SetChannelCount(channels)
	for len(d.lines) < channels {
		d.lines = append(d.lines, dsp.NewLine(d.maxDelay, d.Context().SampleRate()))
	}
	d.lines = d.lines[:channels]
}

// Reset clears the delay memory.
func (d *Delay) Reset() {
	for _, l := range d.lines {
		l.Reset()
	}
}

// Process runs one quantum through the delay lines. During tail drain the
// summing bus holds real zeros, which flush the lines.
func (d *Delay) Process(r *graph.RenderScope, frames int) {
	in := d.Input(0).Bus()
	out := d.Output(0).Bus()
	sr := r.SampleRate()
	dt := resolveParam(d.delayTime, r, frames)
	for ch := 0; ch < out.NumChannels(); ch++ {
		line := d.lines[ch]
		src := in.Channel(min(ch, in.NumChannels()-1))
		dst := out.Channel(ch)
		for i := 0; i < frames; i++ {
			dst[i] = line.Process(src[i], float64(dt.at(i))*sr)
		}
	}
	out.ClearSilent()
}
