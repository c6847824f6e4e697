// Package portaudio drives a graph context from a PortAudio output stream.
// The device callback pulls rendered audio directly, so the graph's render
// thread is PortAudio's callback thread.
package portaudio

import (
	"github.com/gordonklaus/portaudio"

	"github.com/justyntemme/soundgraph/pkg/graph"
)

// A Sink owns a PortAudio output stream feeding from a context.
type Sink struct {
	ctx    *graph.Context
	stream *portaudio.Stream
}

// NewSink initializes PortAudio and opens the default output device at the
// context's sample rate and channel count.
func NewSink(ctx *graph.Context) (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	s := &Sink{ctx: ctx}
	stream, err := portaudio.OpenDefaultStream(
		0, ctx.NumChannels(), ctx.SampleRate(), graph.RenderQuantumFrames, s.process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	s.stream = stream
	return s, nil
}

func (s *Sink) process(out [][]float32) {
	s.ctx.Render(out)
}

// Start begins playback.
func (s *Sink) Start() error { return s.stream.Start() }

// Stop halts playback without releasing the device.
func (s *Sink) Stop() error { return s.stream.Stop() }

// Close releases the stream and terminates PortAudio.
func (s *Sink) Close() error {
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}
