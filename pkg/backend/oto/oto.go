// Package oto plays a graph context through ebitengine/oto. Unlike the
// PortAudio backend the device pulls interleaved byte frames through an
// io.Reader, so the player renders into a planar scratch buffer and
// interleaves to 32-bit float little-endian on the way out.
package oto

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/justyntemme/soundgraph/pkg/graph"
)

const bytesPerSample = 4

// A Player owns an oto context and player backed by a graph context.
type Player struct {
	ctx     *graph.Context
	oto     *oto.Context
	player  *oto.Player
	scratch [][]float32
}

// NewPlayer opens the default audio device at the context's sample rate and
// channel count. It blocks until the device is ready.
func NewPlayer(ctx *graph.Context) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(ctx.SampleRate()),
		ChannelCount: ctx.NumChannels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}
	octx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	p := &Player{ctx: ctx, oto: octx}
	p.scratch = make([][]float32, ctx.NumChannels())
	p.player = octx.NewPlayer(p)
	return p, nil
}

// Read renders graph audio and interleaves it for the device. Called from
// oto's playback goroutine, which is the graph's render thread.
func (p *Player) Read(b []byte) (int, error) {
	channels := len(p.scratch)
	frames := len(b) / (bytesPerSample * channels)
	for i := range p.scratch {
		if cap(p.scratch[i]) < frames {
			p.scratch[i] = make([]float32, frames)
		}
		p.scratch[i] = p.scratch[i][:frames]
	}
	p.ctx.Render(p.scratch)
	n := 0
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			binary.LittleEndian.PutUint32(b[n:], math.Float32bits(p.scratch[ch][i]))
			n += bytesPerSample
		}
	}
	return n, nil
}

// Start begins playback.
func (p *Player) Start() { p.player.Play() }

// Close stops playback and releases the device player.
func (p *Player) Close() error { return p.player.Close() }
