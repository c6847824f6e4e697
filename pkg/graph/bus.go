package graph

import (
	"github.com/viterin/vek/vek32"
)

// RenderQuantumFrames is the fixed number of frames processed per render pass.
const RenderQuantumFrames = 128

// A Bus is a block of multichannel sample storage for one render quantum.
// Every bus in a render pass has the same frame length; the channel count
// varies per node. A bus carries a silent flag so a node can declare its
// output all-zero without touching the samples, letting downstream nodes
// skip computation.
//
// Buses are only ever (re)allocated under the graph lock, never on the
// render thread.
type Bus struct {
	channels [][]float32
	frames   int
	silent   bool
}

// NewBus allocates a bus with the given channel count. Channel data starts
// zeroed and the bus starts silent.
func NewBus(channels, frames int) *Bus {
	if channels < 1 {
		channels = 1
	}
	b := &Bus{frames: frames, silent: true}
	b.channels = make([][]float32, channels)
	for i := range b.channels {
		b.channels[i] = make([]float32, frames)
	}
	return b
}

// NumChannels returns the channel count.
func (b *Bus) NumChannels() int { return len(b.channels) }

// Frames returns the per-channel frame count.
func (b *Bus) Frames() int { return b.frames }

// Channel returns the sample storage for one channel.
func (b *Bus) Channel(i int) []float32 { return b.channels[i] }

// IsSilent reports whether the bus is flagged all-zero. When the flag is
// set the channel data may be stale; consumers must treat it as zeros.
func (b *Bus) IsSilent() bool { return b.silent }

// SetSilent flags the bus as all-zero without writing samples.
func (b *Bus) SetSilent() { b.silent = true }

// ClearSilent marks the bus as carrying live samples.
func (b *Bus) ClearSilent() { b.silent = false }

// Zero writes zeros to every channel and sets the silent flag.
func (b *Bus) Zero() {
	for i := range b.channels {
		vek32.Zeros_Into(b.channels[i], b.frames)
	}
	b.silent = true
}

// CopyFrom replaces the contents of b with src, fanning a mono source out
// to every destination channel and dropping source channels beyond the
// destination's count. A silent source silences b without copying.
func (b *Bus) CopyFrom(src *Bus) {
	if src.silent {
		b.Zero()
		return
	}
	if src.NumChannels() == 1 {
		for i := range b.channels {
			copy(b.channels[i], src.channels[0])
		}
	} else {
		n := min(len(b.channels), len(src.channels))
		for i := 0; i < n; i++ {
			copy(b.channels[i], src.channels[i])
		}
		for i := n; i < len(b.channels); i++ {
			vek32.Zeros_Into(b.channels[i], b.frames)
		}
	}
	b.silent = false
}

// SumFrom adds src into b. A mono source fans out to every channel of b;
// otherwise channels are summed pairwise and extra source channels are
// dropped. Silent sources contribute nothing.
func (b *Bus) SumFrom(src *Bus) {
	if src.silent {
		return
	}
	if src.NumChannels() == 1 {
		for i := range b.channels {
			vek32.Add_Inplace(b.channels[i], src.channels[0])
		}
	} else {
		n := min(len(b.channels), len(src.channels))
		for i := 0; i < n; i++ {
			vek32.Add_Inplace(b.channels[i], src.channels[i])
		}
	}
	b.silent = false
}

// Scale multiplies every channel by gain in place.
func (b *Bus) Scale(gain float32) {
	if b.silent {
		return
	}
	for i := range b.channels {
		vek32.MulNumber_Inplace(b.channels[i], gain)
	}
}

// setChannelCount reallocates channel storage. Graph lock only.
func (b *Bus) setChannelCount(channels int) {
	if channels < 1 {
		channels = 1
	}
	if channels == len(b.channels) {
		return
	}
	next := make([][]float32, channels)
	for i := range next {
		if i < len(b.channels) {
			next[i] = b.channels[i]
		} else {
			next[i] = make([]float32, b.frames)
		}
	}
	b.channels = next
	b.silent = true
}
