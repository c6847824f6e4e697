package nodes

import "github.com/justyntemme/soundgraph/pkg/graph"

var constantDescriptor = &graph.Descriptor{
	Name: "ConstantSource",
	Params: []graph.ParamDescriptor{
		{Name: "offset", ShortName: "OFFSET", Default: 1, Min: -20000, Max: 20000},
	},
}

// A ConstantSource emits its offset parameter as a signal, typically to
// drive other nodes' parameters with a single automatable value.
type ConstantSource struct {
	*graph.SourceBase
	offset *graph.Param
}

// NewConstantSource creates a mono constant source.
func NewConstantSource(ctx *graph.Context) *ConstantSource {
	c := &ConstantSource{}
	c.SourceBase = graph.NewSourceBase(ctx, c, constantDescriptor)
	c.offset = c.Param("offset")
	c.AddOutput(1)
	c.Initialize()
	return c
}

// Offset returns the emitted value parameter.
func (c *ConstantSource) Offset() *graph.Param { return c.offset }

// Process renders the scheduled sub-range of the quantum.
func (c *ConstantSource) Process(r *graph.RenderScope, frames int) {
	out := c.Output(0).Bus()
	offset, count := c.ScheduledRange(r, frames)
	if count == 0 {
		out.SetSilent()
		return
	}
	ch := out.Channel(0)
	for i := 0; i < offset; i++ {
		ch[i] = 0
	}
	for i := offset + count; i < frames; i++ {
		ch[i] = 0
	}
	v := resolveParam(c.offset, r, frames)
	for i := offset; i < offset+count; i++ {
		ch[i] = v.at(i)
	}
	out.ClearSilent()
}
