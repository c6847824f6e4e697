package graph

var destinationDescriptor = &Descriptor{Name: "Destination"}

// Destination is the terminal node of the graph. Everything audible is
// reachable from its single input; its rendered quantum is what the device
// backend receives, unmodified.
type Destination struct {
	*BaseNode
}

func newDestination(ctx *Context) *Destination {
	d := &Destination{}
	d.BaseNode = NewBaseNode(ctx, d, destinationDescriptor)
	d.AddInput()
	d.Initialize()
	return d
}

// NumChannels returns the destination channel count handed to the backend.
func (d *Destination) NumChannels() int { return d.ctx.channels }

// PropagatesSilence is false: the destination always refreshes the carry
// bus, silent or not.
func (d *Destination) PropagatesSilence() bool { return false }

// Process hands the summed input quantum to the context's carry bus.
func (d *Destination) Process(r *RenderScope, frames int) {
	r.ctx.carry.CopyFrom(d.Input(0).Bus())
}
