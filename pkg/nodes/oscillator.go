package nodes

import (
	"github.com/justyntemme/soundgraph/pkg/dsp"
	"github.com/justyntemme/soundgraph/pkg/graph"
	"github.com/justyntemme/soundgraph/pkg/wave"
)

var oscillatorDescriptor = &graph.Descriptor{
	Name: "Oscillator",
	Params: []graph.ParamDescriptor{
		{Name: "frequency", ShortName: "FREQ", Default: 440, Min: 0, Max: 24000},
		{Name: "detune", ShortName: "DETUNE", Default: 0, Min: -4800, Max: 4800},
	},
	Settings: []graph.SettingDescriptor{
		{Name: "type", Kind: graph.SettingEnum, DefaultInt: int64(wave.Sine), EnumValues: wave.ShapeNames()},
	},
}

// An Oscillator is a scheduled source producing a standard waveform from
// the shared wavetable cache. frequency and detune are sample-accurate
// automatable; the shape is a setting.
type Oscillator struct {
	*graph.SourceBase
	phasor    *dsp.Phasor
	frequency *graph.Param
	detune    *graph.Param
	shape     *graph.Setting
}

// NewOscillator creates a mono oscillator.
func NewOscillator(ctx *graph.Context) *Oscillator {
	o := &Oscillator{}
	o.SourceBase = graph.NewSourceBase(ctx, o, oscillatorDescriptor)
	o.phasor = dsp.NewPhasor(ctx.SampleRate())
	o.frequency = o.Param("frequency")
	o.detune = o.Param("detune")
	o.shape = o.Setting("type")
	o.AddOutput(1)
	o.Initialize()
	return o
}

// Frequency returns the frequency parameter in Hz.
func (o *Oscillator) Frequency() *graph.Param { return o.frequency }

// Detune returns the detune parameter in cents.
func (o *Oscillator) Detune() *graph.Param { return o.detune }

// SetShape selects the waveform.
func (o *Oscillator) SetShape(s wave.Shape) { o.shape.SetEnum(int(s)) }

// Shape returns the current waveform.
func (o *Oscillator) Shape() wave.Shape { return wave.Shape(o.shape.Enum()) }

// Reset rewinds the phase.
func (o *Oscillator) Reset() { o.phasor.Reset() }

// Process renders the scheduled sub-range of the quantum.
func (o *Oscillator) Process(r *graph.RenderScope, frames int) {
	out := o.Output(0).Bus()
	offset, count := o.ScheduledRange(r, frames)
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

	table := wave.ForShape(o.Shape())
	freq := resolveParam(o.frequency, r, frames)
	det := resolveParam(o.detune, r, frames)
	for i := offset; i < offset+count; i++ {
		f := float64(freq.at(i) * dsp.DetuneScale(det.at(i)))
		ch[i] = table.Sample(o.phasor.Advance(f))
	}
	out.ClearSilent()
}
