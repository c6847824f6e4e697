package graph

import (
	"fmt"
	"math"
	"sync/atomic"
)

// smoothingTimeConstant is the time constant, in seconds, of the one-pole
// filter applied to direct parameter changes when no automation is active.
const smoothingTimeConstant = 0.02

// A Param is an automatable scalar owned by a node. Its resolved value is
// always clamped to [Min, Max].
//
// Direct writes (SetValue) are visible to the render thread through an
// atomic and are smoothed toward with a one-pole exponential filter, so a
// control thread hammering the value does not produce audible zipper noise.
// Scheduling automation events switches the parameter to sample-accurate
// mode for as long as the timeline holds events; the smoother state is kept
// but not advanced while automation is active.
type Param struct {
	name       string
	min, max   float64
	def        float64
	ctx        *Context
	bits       atomic.Uint64 // target value as math.Float64bits
	smoothed   float64       // render thread only
	smoothCoef float64
	tl         timeline
	curve      [RenderQuantumFrames]float32
}

func newParam(ctx *Context, d ParamDescriptor) *Param {
	p := &Param{
		name: d.Name,
		min:  d.Min,
		max:  d.Max,
		def:  d.Default,
		ctx:  ctx,
	}
	// Smoother advances once per quantum, so the coefficient is computed
	// at quantum rate rather than sample rate.
	quantumDur := RenderQuantumFrames / ctx.SampleRate()
	p.smoothCoef = math.Exp(-quantumDur / smoothingTimeConstant)
	p.bits.Store(math.Float64bits(d.Default))
	p.smoothed = d.Default
	return p
}

// Name returns the parameter name declared by the node's descriptor.
func (p *Param) Name() string { return p.name }

// MinValue returns the lower clamp bound.
func (p *Param) MinValue() float64 { return p.min }

// MaxValue returns the upper clamp bound.
func (p *Param) MaxValue() float64 { return p.max }

// DefaultValue returns the descriptor default.
func (p *Param) DefaultValue() float64 { return p.def }

// Value returns the current target value.
func (p *Param) Value() float64 {
	return math.Float64frombits(p.bits.Load())
}

// SetValue sets the target value, clamped to [Min, Max]. The render thread
// approaches it with the smoothing filter unless automation is active.
func (p *Param) SetValue(v float64) {
	p.bits.Store(math.Float64bits(p.clamp(v)))
}

func (p *Param) clamp(v float64) float64 {
	return math.Min(p.max, math.Max(p.min, v))
}

// SetValueAtTime schedules a step to value at the given context time.
func (p *Param) SetValueAtTime(value, when float64) error {
	return p.schedule(automationEvent{kind: eventSetValue, time: when, value: p.clamp(value)})
}

// LinearRampToValueAtTime schedules a linear ramp from the previous event's
// value ending at the given time.
func (p *Param) LinearRampToValueAtTime(value, when float64) error {
	return p.schedule(automationEvent{kind: eventLinearRamp, time: when, value: p.clamp(value)})
}

// ExponentialRampToValueAtTime schedules an exponential ramp ending at the
// given time. The target must be nonzero and share the sign of the value it
// ramps from.
func (p *Param) ExponentialRampToValueAtTime(value, when float64) error {
	if value == 0 {
		return fmt.Errorf("%w: exponential ramp target must be nonzero", ErrBadParamValue)
	}
	return p.schedule(automationEvent{kind: eventExponentialRamp, time: when, value: p.clamp(value)})
}

// SetTargetAtTime schedules an exponential approach toward target starting
// at the given time with the given time constant in seconds.
func (p *Param) SetTargetAtTime(target, when, timeConstant float64) error {
	if timeConstant <= 0 {
		return fmt.Errorf("%w: time constant must be positive", ErrBadParamValue)
	}
	return p.schedule(automationEvent{
		kind: eventSetTarget, time: when, value: p.clamp(target), timeConstant: timeConstant,
	})
}

// SetValueCurveAtTime schedules interpolation through curve over duration
// seconds starting at the given time. The curve must hold at least two
// points and is copied.
func (p *Param) SetValueCurveAtTime(curve []float64, when, duration float64) error {
	if len(curve) < 2 || duration <= 0 {
		return fmt.Errorf("%w: need >= 2 points and positive duration", ErrBadCurve)
	}
	c := make([]float64, len(curve))
	for i, v := range curve {
		c[i] = p.clamp(v)
	}
	return p.schedule(automationEvent{
		kind: eventValueCurve, time: when, duration: duration, curve: c,
	})
}

// CancelScheduledValues removes all automation events at or after the given
// time. With an empty timeline the parameter falls back to smoothed direct
// values.
func (p *Param) CancelScheduledValues(when float64) {
	p.ctx.graphMu.Lock()
	defer p.ctx.graphMu.Unlock()
	p.tl.cancelAfter(when)
}

func (p *Param) schedule(e automationEvent) error {
	if e.time < 0 {
		return fmt.Errorf("%w: negative automation time %g", ErrBadScheduleTime, e.time)
	}
	p.ctx.graphMu.Lock()
	defer p.ctx.graphMu.Unlock()
	p.tl.insert(e)
	return nil
}

// HasSampleAccurateValues reports whether an automation timeline is active.
// Render thread, under the render lock.
func (p *Param) HasSampleAccurateValues() bool {
	return !p.tl.empty()
}

// SampleAccurateValues evaluates the automation timeline for frames frames
// starting at absolute frame quantumStart and returns the per-frame values.
// The returned slice is owned by the Param and valid until the next call.
// The final value is published as the new target so control threads observe
// automation progress through Value.
func (p *Param) SampleAccurateValues(quantumStart int64, frames int) []float32 {
	sr := p.ctx.SampleRate()
	fallback := p.Value()
	var v float64
	for i := 0; i < frames; i++ {
		t := float64(quantumStart+int64(i)) / sr
		v = p.clamp(p.tl.valueAt(t, fallback))
		p.curve[i] = float32(v)
	}
	if frames > 0 {
		p.bits.Store(math.Float64bits(v))
		p.smoothed = v
	}
	return p.curve[:frames]
}

// SmoothedValue advances the smoothing filter one quantum toward the target
// and returns the result. The filter converges exponentially and never
// overshoots. Render thread, under the render lock.
func (p *Param) SmoothedValue() float64 {
	target := p.Value()
	p.smoothed = target + (p.smoothed-target)*p.smoothCoef
	if math.Abs(p.smoothed-target) < 1e-7 {
		p.smoothed = target
	}
	return p.smoothed
}

// ResetSmoother snaps the smoothing filter to the current target value. It
// takes the graph lock to exclude the render thread, so it must not be
// called from inside Synchronize.
func (p *Param) ResetSmoother() {
	p.ctx.graphMu.Lock()
	p.smoothed = p.Value()
	p.ctx.graphMu.Unlock()
}
