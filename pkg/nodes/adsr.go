package nodes

import (
	"github.com/justyntemme/soundgraph/pkg/dsp"
	"github.com/justyntemme/soundgraph/pkg/graph"
)

var adsrDescriptor = &graph.Descriptor{
	Name: "ADSR",
	Params: []graph.ParamDescriptor{
		{Name: "gate", ShortName: "GATE", Default: 0, Min: 0, Max: 1},
	},
	Settings: []graph.SettingDescriptor{
		{Name: "oneShot", Kind: graph.SettingBool, DefaultInt: 1},
		{Name: "attackTime", Kind: graph.SettingFloat, DefaultFloat: 0.125},
		{Name: "attackLevel", Kind: graph.SettingFloat, DefaultFloat: 1},
		{Name: "decayTime", Kind: graph.SettingFloat, DefaultFloat: 0.125},
		{Name: "sustainTime", Kind: graph.SettingFloat, DefaultFloat: 0.125},
		{Name: "sustainLevel", Kind: graph.SettingFloat, DefaultFloat: 0.5},
		{Name: "releaseTime", Kind: graph.SettingFloat, DefaultFloat: 0.125},
	},
}

// An ADSR shapes its input with a gate-driven envelope. A rising edge on the
// gate parameter starts the attack/decay ramps; in one-shot mode the sustain
// and release phases run on the configured times, otherwise the envelope
// sustains until the gate falls and then releases. The gate may be automated
// for sample-accurate note timing. Output width follows the input.
type ADSR struct {
	*graph.BaseNode
	gate  *graph.Param
	env   *dsp.Envelope
	curve [graph.RenderQuantumFrames]float32
}

// NewADSR creates an envelope node.
func NewADSR(ctx *graph.Context) *ADSR {
	n := &ADSR{env: dsp.NewEnvelope(ctx.SampleRate())}
	n.BaseNode = graph.NewBaseNode(ctx, n, adsrDescriptor)
	n.gate = n.Param("gate")
	n.AddInput()
	n.AddOutput(1)
	n.Initialize()
	return n
}

// Gate returns the gate parameter. Any value above zero counts as on.
func (n *ADSR) Gate() *graph.Param { return n.gate }

// OneShot returns the one-shot setting.
func (n *ADSR) OneShot() *graph.Setting { return n.Setting("oneShot") }

// AttackTime returns the attack time setting in seconds.
func (n *ADSR) AttackTime() *graph.Setting { return n.Setting("attackTime") }

// AttackLevel returns the attack peak level setting.
func (n *ADSR) AttackLevel() *graph.Setting { return n.Setting("attackLevel") }

// DecayTime returns the decay time setting in seconds.
func (n *ADSR) DecayTime() *graph.Setting { return n.Setting("decayTime") }

// SustainTime returns the one-shot sustain time setting in seconds.
func (n *ADSR) SustainTime() *graph.Setting { return n.Setting("sustainTime") }

// SustainLevel returns the sustain level setting.
func (n *ADSR) SustainLevel() *graph.Setting { return n.Setting("sustainLevel") }

// ReleaseTime returns the release time setting in seconds.
func (n *ADSR) ReleaseTime() *graph.Setting { return n.Setting("releaseTime") }

// Set configures all envelope segments at once.
func (n *ADSR) Set(attackTime, attackLevel, decayTime, sustainTime, sustainLevel, releaseTime float64) {
	n.AttackTime().SetFloat(attackTime)
	n.AttackLevel().SetFloat(attackLevel)
	n.DecayTime().SetFloat(decayTime)
	n.SustainTime().SetFloat(sustainTime)
	n.SustainLevel().SetFloat(sustainLevel)
	n.ReleaseTime().SetFloat(releaseTime)
}

// ReleaseCompleted reports whether the envelope has finished its release
// ramp. True before the first trigger.
func (n *ADSR) ReleaseCompleted() bool {
	var done bool
	n.Context().Synchronize(func() { done = n.env.ReleaseCompleted() })
	return done
}

// InputChannelsChanged resizes the output to match the summing junction.
func (n *ADSR) InputChannelsChanged(input, channels int) {
	n.Output(0).SetChannelCount(channels)
}

// PropagatesSilence is false: the envelope clock must keep advancing while
// the input is silent so gate edges are not missed.
func (n *ADSR) PropagatesSilence() bool { return false }

// Reset drops the envelope to idle and the gate to zero.
func (n *ADSR) Reset() {
	n.env.Reset()
	n.gate.SetValue(0)
}

// Process advances the envelope one frame at a time and applies it to the
// input.
func (n *ADSR) Process(r *graph.RenderScope, frames int) {
	cfg := dsp.EnvelopeConfig{
		AttackTime:   n.AttackTime().Float(),
		AttackLevel:  n.AttackLevel().Float(),
		DecayTime:    n.DecayTime().Float(),
		SustainTime:  n.SustainTime().Float(),
		SustainLevel: n.SustainLevel().Float(),
		ReleaseTime:  n.ReleaseTime().Float(),
		OneShot:      n.OneShot().Bool(),
	}
	// The gate is thresholded, so direct writes are read unsmoothed; only
	// automation produces a per-frame curve.
	gate := resolved{scalar: float32(n.gate.Value())}
	if n.gate.HasSampleAccurateValues() {
		gate = resolved{curve: n.gate.SampleAccurateValues(r.QuantumStart(), frames)}
	}
	for i := 0; i < frames; i++ {
		n.curve[i] = float32(n.env.Next(gate.at(i) > 0, cfg))
	}

	in := n.Input(0).Bus()
	out := n.Output(0).Bus()
	if in.IsSilent() {
		out.SetSilent()
		return
	}
	for ch := 0; ch < out.NumChannels(); ch++ {
		src := in.Channel(min(ch, in.NumChannels()-1))
		dst := out.Channel(ch)
		for i := 0; i < frames; i++ {
			dst[i] = src[i] * n.curve[i]
		}
	}
	out.ClearSilent()
}
