package nodes

import (
	"math"
	"math/cmplx"
	"sync/atomic"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/viterin/vek/vek32"

	"github.com/justyntemme/soundgraph/pkg/dsp"
	"github.com/justyntemme/soundgraph/pkg/graph"
)

// maxAnalyserFrames is the time-domain ring capacity and the largest
// supported FFT size.
const maxAnalyserFrames = 32768

var analyserDescriptor = &graph.Descriptor{
	Name: "Analyser",
	Settings: []graph.SettingDescriptor{
		{Name: "fftSize", Kind: graph.SettingInt, DefaultInt: 2048},
	},
}

// An Analyser is a passthrough tap that keeps a mono mix of recent input in
// a ring buffer for inspection from control threads: time-domain level
// measurements and a windowed magnitude spectrum. The FFT plan is rebuilt
// when the fftSize setting changes; sizes must be powers of two up to
// 32768, other values fall back to 2048.
type Analyser struct {
	*graph.BaseNode
	fftSize *graph.Setting

	ring  [maxAnalyserFrames]float32
	write atomic.Int64

	plan   *algofft.Plan[complex128]
	window []float64
	fin    []complex128
	fout   []complex128

	scratch [graph.RenderQuantumFrames]float32
}

// NewAnalyser creates an analyser tap with the default FFT size of 2048.
func NewAnalyser(ctx *graph.Context) *Analyser {
	n := &Analyser{}
	n.BaseNode = graph.NewBaseNode(ctx, n, analyserDescriptor)
	n.AddInput()
	n.AddOutput(1)
	n.fftSize = n.Setting("fftSize")
	n.fftSize.SetObserver(func(s *graph.Setting) { n.rebuildPlan(int(s.Int())) })
	n.rebuildPlan(int(n.fftSize.Int()))
	n.Initialize()
	return n
}

func validFFTSize(size int) bool {
	return size >= 32 && size <= maxAnalyserFrames && size&(size-1) == 0
}

func (n *Analyser) rebuildPlan(size int) {
	if !validFFTSize(size) {
		size = 2048
	}
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return
	}
	win := make([]float64, size)
	for i := range win {
		win[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size)))
	}
	n.Context().Synchronize(func() {
		n.plan = plan
		n.window = win
		n.fin = make([]complex128, size)
		n.fout = make([]complex128, size)
	})
}

// FFTSize returns the analysis frame length currently in effect.
func (n *Analyser) FFTSize() int { return len(n.window) }

// SetFFTSize changes the analysis frame length.
func (n *Analyser) SetFFTSize(size int) { n.fftSize.SetInt(int64(size)) }

// InputChannelsChanged mirrors the input width on the passthrough output.
func (n *Analyser) InputChannelsChanged(input, channels int) {
	n.Output(0).SetChannelCount(channels)
}

// PropagatesSilence is false so the ring keeps advancing through silence.
func (n *Analyser) PropagatesSilence() bool { return false }

// Process copies input to output and appends a mono mix to the ring.
func (n *Analyser) Process(r *graph.RenderScope, frames int) {
	in := n.Input(0).Bus()
	out := n.Output(0).Bus()
	out.CopyFrom(in)

	mix := n.scratch[:frames]
	if in.IsSilent() {
		vek32.Zeros_Into(mix, frames)
	} else {
		copy(mix, in.Channel(0)[:frames])
		for ch := 1; ch < in.NumChannels(); ch++ {
			vek32.Add_Inplace(mix, in.Channel(ch)[:frames])
		}
		if in.NumChannels() > 1 {
			vek32.MulNumber_Inplace(mix, 1/float32(in.NumChannels()))
		}
	}

	w := int(n.write.Load()) % maxAnalyserFrames
	for i := 0; i < frames; i++ {
		n.ring[(w+i)%maxAnalyserFrames] = mix[i]
	}
	n.write.Add(int64(frames))
}

// snapshot copies the most recent size frames of the ring, oldest first.
// Caller holds the graph lock via Synchronize.
func (n *Analyser) snapshot(dst []float32) {
	size := len(dst)
	w := int(n.write.Load())
	start := w - size
	for i := 0; i < size; i++ {
		p := start + i
		if p < 0 {
			dst[i] = 0
			continue
		}
		dst[i] = n.ring[p%maxAnalyserFrames]
	}
}

// RMS returns the root-mean-square level of the last fftSize frames.
func (n *Analyser) RMS() float32 {
	var rms float32
	n.Context().Synchronize(func() {
		buf := make([]float32, len(n.window))
		n.snapshot(buf)
		sq := make([]float32, len(buf))
		vek32.Mul_Into(sq, buf, buf)
		rms = float32(math.Sqrt(float64(vek32.Mean(sq))))
	})
	return rms
}

// Peak returns the absolute peak level of the last fftSize frames.
func (n *Analyser) Peak() float32 {
	var peak float32
	n.Context().Synchronize(func() {
		buf := make([]float32, len(n.window))
		n.snapshot(buf)
		vek32.Abs_Inplace(buf)
		peak = vek32.Max(buf)
	})
	return peak
}

// PeakDb returns the peak level in decibels, floored at dsp.MinDB.
func (n *Analyser) PeakDb() float64 { return dsp.LinearToDb(float64(n.Peak())) }

// MagnitudeSpectrum computes a Hann-windowed magnitude spectrum of the
// last fftSize frames. The result has fftSize/2+1 normalized bins.
func (n *Analyser) MagnitudeSpectrum() []float64 {
	var mags []float64
	n.Context().Synchronize(func() {
		size := len(n.window)
		buf := make([]float32, size)
		n.snapshot(buf)
		for i := 0; i < size; i++ {
			n.fin[i] = complex(float64(buf[i])*n.window[i], 0)
		}
		if err := n.plan.Forward(n.fout, n.fin); err != nil {
			return
		}
		mags = make([]float64, size/2+1)
		norm := float64(size) / 2
		for k := range mags {
			mags[k] = cmplx.Abs(n.fout[k]) / norm
		}
	})
	return mags
}
