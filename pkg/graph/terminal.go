package graph

// ChannelAware is implemented by nodes whose output width follows their
// input: the engine invokes it under the graph lock whenever a connection
// change resizes an input's summing junction, so the node can resize its
// own outputs (and any per-channel state) before the next quantum.
type ChannelAware interface {
	InputChannelsChanged(input, channels int)
}

// An Input is a summing junction: every connected upstream output is pulled
// and added into the input's summing bus once per quantum. The upstream
// references express connection existence, not lifetime ownership.
type Input struct {
	node    Node
	sources []*Output
	summing *Bus
}

// NumConnections returns the number of connected upstream outputs.
func (in *Input) NumConnections() int { return len(in.sources) }

// Bus returns the summing bus holding this quantum's mixed input.
func (in *Input) Bus() *Bus { return in.summing }

// pull processes every connected source for this quantum and sums its
// output into the summing bus. A source already being processed higher up
// the call chain is a feedback edge; its bus still holds the previous
// quantum's samples, which is exactly what gets summed.
func (in *Input) pull(r *RenderScope) {
	in.summing.Zero()
	for _, out := range in.sources {
		processIfNecessary(r, out.node)
		in.summing.SumFrom(out.bus)
	}
}

// updateChannelCount resizes the summing bus to the widest connected
// source and reports whether the width changed. Graph lock only.
func (in *Input) updateChannelCount() bool {
	width := 1
	for _, out := range in.sources {
		if n := out.bus.NumChannels(); n > width {
			width = n
		}
	}
	if width == in.summing.NumChannels() {
		return false
	}
	in.summing.setChannelCount(width)
	return true
}

func (in *Input) removeSource(out *Output) bool {
	for i, s := range in.sources {
		if s == out {
			in.sources = append(in.sources[:i], in.sources[i+1:]...)
			return true
		}
	}
	return false
}

// An Output owns its bus and tracks the inputs it feeds. The connection
// count is restored exactly by a connect/disconnect round trip.
type Output struct {
	node         Node
	bus          *Bus
	destinations []*Input
}

// NumConnections returns the number of inputs this output feeds.
func (out *Output) NumConnections() int { return len(out.destinations) }

// Bus returns the output bus the node renders into.
func (out *Output) Bus() *Bus { return out.bus }

// NumChannels returns the output channel count.
func (out *Output) NumChannels() int { return out.bus.NumChannels() }

// SetChannelCount reallocates the output bus and resizes the summing buses
// of every connected input, notifying width-following destinations the same
// way a connection change does. An unchanged junction width stops the
// propagation, so width-following cycles settle. Control thread only, under
// the graph lock (Context.Synchronize, or a ChannelAware callback which
// already holds it).
func (out *Output) SetChannelCount(channels int) {
	out.bus.setChannelCount(channels)
	for _, in := range out.destinations {
		if in.updateChannelCount() {
			notifyChannelsChanged(in.node, in.node.base().inputIndex(in), in)
		}
	}
}

func (out *Output) removeDestination(in *Input) bool {
	for i, d := range out.destinations {
		if d == in {
			out.destinations = append(out.destinations[:i], out.destinations[i+1:]...)
			return true
		}
	}
	return false
}
