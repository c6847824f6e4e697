package nodes

import (
	"github.com/justyntemme/soundgraph/pkg/graph"
	"github.com/justyntemme/soundgraph/pkg/sample"
)

var bufferSourceDescriptor = &graph.Descriptor{
	Name: "BufferSource",
	Params: []graph.ParamDescriptor{
		{Name: "playbackRate", ShortName: "RATE", Default: 1, Min: 0, Max: 16},
	},
	Settings: []graph.SettingDescriptor{
		{Name: "loop", Kind: graph.SettingBool},
	},
}

// A BufferSource plays an in-memory sample buffer, resampling with linear
// interpolation when the playback rate or the buffer's native rate differ
// from the context rate. A non-looping source finishes itself when the
// material runs out, even before its scheduled stop.
type BufferSource struct {
	*graph.SourceBase
	rate   *graph.Param
	loop   *graph.Setting
	buffer *sample.Buffer
	pos    float64
}

// NewBufferSource creates a buffer player without material; call SetBuffer
// before starting it.
func NewBufferSource(ctx *graph.Context) *BufferSource {
	b := &BufferSource{}
	b.SourceBase = graph.NewSourceBase(ctx, b, bufferSourceDescriptor)
	b.rate = b.Param("playbackRate")
	b.loop = b.Setting("loop")
	b.AddOutput(1)
	b.Initialize()
	return b
}

// PlaybackRate returns the rate parameter (1 = native speed).
func (b *BufferSource) PlaybackRate() *graph.Param { return b.rate }

// SetLoop makes playback wrap at the buffer end instead of finishing.
func (b *BufferSource) SetLoop(loop bool) { b.loop.SetBool(loop) }

// SetBuffer installs the material and sizes the output to its channel
// count. Safe while the graph is running.
func (b *BufferSource) SetBuffer(buf *sample.Buffer) {
	b.Context().Synchronize(func() {
		b.buffer = buf
		b.pos = 0
		if buf != nil {
			b.Output(0).SetChannelCount(buf.NumChannels())
		}
	})
}

// Reset rewinds playback to the buffer start.
func (b *BufferSource) Reset() { b.pos = 0 }

// Process renders the scheduled sub-range of the quantum from the buffer.
func (b *BufferSource) Process(r *graph.RenderScope, frames int) {
	out := b.Output(0).Bus()
	offset, count := b.ScheduledRange(r, frames)
	if count == 0 || b.buffer == nil || b.buffer.Frames() == 0 {
		out.SetSilent()
		return
	}
	for ch := 0; ch < out.NumChannels(); ch++ {
		dst := out.Channel(ch)
		for i := 0; i < offset; i++ {
			dst[i] = 0
		}
		for i := offset + count; i < frames; i++ {
			dst[i] = 0
		}
	}

	buf := b.buffer
	total := float64(buf.Frames())
	step0 := buf.SampleRate() / r.SampleRate()
	rate := resolveParam(b.rate, r, frames)
	looping := b.loop.Bool()

	for i := offset; i < offset+count; i++ {
		if b.pos >= total {
			if !looping {
				for ch := 0; ch < out.NumChannels(); ch++ {
					dst := out.Channel(ch)
					for j := i; j < offset+count; j++ {
						dst[j] = 0
					}
				}
				b.Finish()
				break
			}
			for b.pos >= total {
				b.pos -= total
			}
		}
		for ch := 0; ch < out.NumChannels(); ch++ {
			src := buf.Channel(min(ch, buf.NumChannels()-1))
			out.Channel(ch)[i] = lerpSample(src, b.pos, looping)
		}
		b.pos += step0 * float64(rate.at(i))
	}
	out.ClearSilent()
}

// lerpSample reads a fractional position with linear interpolation. For
// looping sources the final frame interpolates toward the first.
func lerpSample(src []float32, pos float64, looping bool) float32 {
	i := int(pos)
	if i >= len(src)-1 {
		if looping && len(src) > 1 {
			frac := float32(pos - float64(i))
			return src[len(src)-1]*(1-frac) + src[0]*frac
		}
		return src[len(src)-1]
	}
	frac := float32(pos - float64(i))
	return src[i]*(1-frac) + src[i+1]*frac
}
