// Package dsp provides the small block-processing primitives shared by the
// node implementations: a phase accumulator, an interpolated delay line and
// amplitude helpers. Everything here is allocation-free after construction.
package dsp

import (
	"math"

	"github.com/chewxy/math32"
)

// MinDB is the floor used for dB conversion; values at or below it map to
// zero amplitude.
const MinDB = -200.0

// LinearToDb converts a linear amplitude to decibels.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math.Log10(linear)
}

// DbToLinear converts decibels to linear amplitude.
func DbToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// DetuneScale converts a detune in cents to a frequency multiplier.
func DetuneScale(cents float32) float32 {
	if cents == 0 {
		return 1
	}
	return math32.Exp2(cents / 1200)
}

// A Phasor is a normalized phase accumulator: phase runs in [0, 1) and
// advances by frequency/sampleRate per frame. Phase is kept in float64 so
// long-running oscillators do not drift.
type Phasor struct {
	phase      float64
	sampleRate float64
}

// NewPhasor creates a phase accumulator at the given sample rate.
func NewPhasor(sampleRate float64) *Phasor {
	return &Phasor{sampleRate: sampleRate}
}

// Phase returns the current normalized phase in [0, 1).
func (p *Phasor) Phase() float64 { return p.phase }

// Reset rewinds the phase to zero.
func (p *Phasor) Reset() { p.phase = 0 }

// Advance steps the phase by one frame at the given frequency and returns
// the phase before the step.
func (p *Phasor) Advance(freq float64) float64 {
	ph := p.phase
	p.phase += freq / p.sampleRate
	if p.phase >= 1.0 {
		p.phase -= math.Floor(p.phase)
	} else if p.phase < 0 {
		p.phase -= math.Floor(p.phase)
	}
	return ph
}
