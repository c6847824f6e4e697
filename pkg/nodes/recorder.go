package nodes

import (
	"io"
	"sync/atomic"

	"github.com/justyntemme/soundgraph/pkg/graph"
	"github.com/justyntemme/soundgraph/pkg/sample"
)

// DefaultRecordSeconds is the capture capacity preallocated by NewRecorder.
const DefaultRecordSeconds = 10.0

var recorderDescriptor = &graph.Descriptor{Name: "Recorder"}

// A Recorder is a passthrough tap that captures its input into a
// preallocated buffer while armed. Capture stops when the buffer is full.
// The stored audio can be copied out or written as a 16-bit WAV file.
type Recorder struct {
	*graph.BaseNode
	recording atomic.Bool
	data      [][]float32
	written   int64
	capacity  int
}

// NewRecorder creates a recorder with the default capture capacity.
func NewRecorder(ctx *graph.Context) *Recorder {
	return NewRecorderSeconds(ctx, DefaultRecordSeconds)
}

// NewRecorderSeconds creates a recorder able to hold the given duration.
func NewRecorderSeconds(ctx *graph.Context, seconds float64) *Recorder {
	n := &Recorder{}
	n.BaseNode = graph.NewBaseNode(ctx, n, recorderDescriptor)
	n.AddInput()
	n.AddOutput(1)
	n.capacity = int(seconds * ctx.SampleRate())
	n.resize(1)
	n.Initialize()
	return n
}

func (n *Recorder) resize(channels int) {
	n.data = make([][]float32, channels)
	for i := range n.data {
		n.data[i] = make([]float32, n.capacity)
	}
	atomic.StoreInt64(&n.written, 0)
}

// InputChannelsChanged resizes the tap and its capture storage. Graph lock
// held; any captured audio is discarded.
func (n *Recorder) InputChannelsChanged(input, channels int) {
	n.Output(0).SetChannelCount(channels)
	n.resize(channels)
}

// PropagatesSilence is false: the tap keeps pulling so capture covers
// silent stretches too.
func (n *Recorder) PropagatesSilence() bool { return false }

// SetRecording arms or disarms capture.
func (n *Recorder) SetRecording(on bool) { n.recording.Store(on) }

// IsRecording reports whether capture is armed.
func (n *Recorder) IsRecording() bool { return n.recording.Load() }

// Clear discards captured audio.
func (n *Recorder) Clear() { atomic.StoreInt64(&n.written, 0) }

// Frames returns the number of captured frames.
func (n *Recorder) Frames() int { return int(atomic.LoadInt64(&n.written)) }

// Process copies input to output and appends to the capture buffer while
// armed.
func (n *Recorder) Process(r *graph.RenderScope, frames int) {
	in := n.Input(0).Bus()
	out := n.Output(0).Bus()
	out.CopyFrom(in)

	if !n.recording.Load() {
		return
	}
	w := int(atomic.LoadInt64(&n.written))
	count := frames
	if w+count > n.capacity {
		count = n.capacity - w
	}
	if count <= 0 {
		return
	}
	for ch := 0; ch < len(n.data); ch++ {
		src := in.Channel(min(ch, in.NumChannels()-1))
		copy(n.data[ch][w:w+count], src[:count])
	}
	atomic.StoreInt64(&n.written, int64(w+count))
}

// Data copies the captured audio into a sample buffer. Call with capture
// disarmed, or under Context.Synchronize.
func (n *Recorder) Data() *sample.Buffer {
	frames := n.Frames()
	buf := sample.New(n.Context().SampleRate(), len(n.data), frames)
	for ch := range n.data {
		copy(buf.Channel(ch), n.data[ch][:frames])
	}
	return buf
}

// WriteWAV writes the captured audio as 16-bit PCM WAV.
func (n *Recorder) WriteWAV(w io.WriteSeeker) error {
	return sample.WriteWAV(w, n.Data())
}
