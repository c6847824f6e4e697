package graph

import "math"

// RenderScope carries the per-quantum clock to node Process methods. It is
// only valid for the duration of one render pass, under the render lock.
type RenderScope struct {
	ctx          *Context
	quantumStart int64
	epoch        int64
	frames       int
}

// Context returns the rendering context.
func (r *RenderScope) Context() *Context { return r.ctx }

// SampleRate returns the render sample rate in Hz.
func (r *RenderScope) SampleRate() float64 { return r.ctx.sampleRate }

// QuantumStart returns the absolute frame index of the quantum's first
// frame.
func (r *RenderScope) QuantumStart() int64 { return r.quantumStart }

// QuantumStartTime returns the quantum's start in seconds.
func (r *RenderScope) QuantumStartTime() float64 {
	return float64(r.quantumStart) / r.ctx.sampleRate
}

// Frames returns the quantum length.
func (r *RenderScope) Frames() int { return r.frames }

// processIfNecessary pulls a node exactly once per quantum. The epoch mark
// is set before the node's inputs are pulled, so an upstream edge that
// leads back here (a feedback connection) short-circuits and reads this
// node's output bus as it was left by the previous quantum: feedback loops
// carry exactly one quantum of latency, always.
func processIfNecessary(r *RenderScope, n Node) {
	b := n.base()
	if b.renderEpoch == r.epoch {
		return
	}
	b.renderEpoch = r.epoch

	silentInputs := true
	for _, in := range b.inputs {
		in.pull(r)
		if !in.summing.IsSilent() {
			silentInputs = false
		}
	}
	if !silentInputs {
		b.lastNonSilent = r.quantumStart + int64(r.frames)
	}

	if !n.IsInitialized() {
		b.SilenceOutputs()
		return
	}
	if silentInputs && n.PropagatesSilence() && tailExpired(b, n, r) {
		// Skip computation entirely; downstream sees flagged silence.
		b.SilenceOutputs()
		return
	}
	n.Process(r, r.frames)
}

// tailExpired reports whether a node's declared tail and latency have
// drained since its input last carried signal. Nodes without tail drain
// immediately.
func tailExpired(b *BaseNode, n Node, r *RenderScope) bool {
	tail := n.TailTime() + n.LatencyTime()
	if tail <= 0 {
		return true
	}
	drainFrames := int64(math.Ceil(tail * r.SampleRate()))
	return r.quantumStart > b.lastNonSilent+drainFrames
}
