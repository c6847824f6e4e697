package graph

import (
	"math"
	"sync/atomic"
)

// Node is the processing contract every graph vertex implements. The engine
// only ever calls Process on the render thread, under the render lock, after
// all non-feedback upstream nodes have been processed for the quantum.
// Process must be real-time safe: no blocking, no allocation.
//
// Leaf implementations embed *BaseNode (or *SourceBase for scheduled
// sources), which supplies everything except Process.
type Node interface {
	// Name returns the node type name from its descriptor.
	Name() string
	// Descriptor returns the static Param/Setting declaration table.
	Descriptor() *Descriptor
	// Context returns the owning context.
	Context() *Context

	NumInputs() int
	NumOutputs() int
	// Input returns the i'th input terminal, or nil when out of range.
	Input(i int) *Input
	// Output returns the i'th output terminal, or nil when out of range.
	Output(i int) *Output

	// Param returns the named parameter, or nil.
	Param(name string) *Param
	// Setting returns the named setting, or nil.
	Setting(name string) *Setting

	// Initialize acquires node-local resources. Uninitialize releases them;
	// an uninitialized node renders silence.
	Initialize()
	Uninitialize()
	IsInitialized() bool

	// Process produces one quantum of output from the current input buses
	// and resolved parameter values. Scheduled sources consult their
	// Scheduler for the sub-range of the quantum they are audible in.
	Process(r *RenderScope, frames int)

	// Reset clears internal processing state (filter history, delay
	// memory) without deallocating. Call it through Context.ResetNode.
	Reset()

	// TailTime declares, in seconds, how long the node keeps producing
	// non-silent output after its input goes silent.
	TailTime() float64
	// LatencyTime declares the node's group delay in seconds.
	LatencyTime() float64
	// PropagatesSilence reports whether silent input guarantees silent
	// output this quantum, letting the engine skip Process entirely.
	PropagatesSilence() bool

	base() *BaseNode
}

// BaseNode carries the state shared by every node implementation: identity,
// terminals, parameters, settings and render bookkeeping. It is created with
// NewBaseNode and embedded by pointer.
type BaseNode struct {
	ctx      *Context
	self     Node
	desc     *Descriptor
	inputs   []*Input
	outputs  []*Output
	params   map[string]*Param
	settings map[string]*Setting

	initialized atomic.Bool
	disposed    atomic.Bool

	// Render-thread bookkeeping, valid only under the render lock.
	renderEpoch   int64
	lastNonSilent int64
}

// NewBaseNode builds the shared node state for self, instantiating the
// parameters and settings the descriptor declares. Node constructors call it
// first, then add terminals:
//
//	n := &Gain{}
//	n.BaseNode = graph.NewBaseNode(ctx, n, gainDescriptor)
//	n.AddInput()
//	n.AddOutput(1)
//	n.Initialize()
func NewBaseNode(ctx *Context, self Node, desc *Descriptor) *BaseNode {
	b := &BaseNode{
		ctx:           ctx,
		self:          self,
		desc:          desc,
		params:        make(map[string]*Param, len(desc.Params)),
		settings:      make(map[string]*Setting, len(desc.Settings)),
		lastNonSilent: math.MinInt64 / 2,
	}
	for _, pd := range desc.Params {
		b.params[pd.Name] = newParam(ctx, pd)
	}
	for _, sd := range desc.Settings {
		b.settings[sd.Name] = newSetting(sd)
	}
	return b
}

func (b *BaseNode) base() *BaseNode { return b }

// Name returns the node type name from its descriptor.
func (b *BaseNode) Name() string { return b.desc.Name }

// Descriptor returns the static declaration table of the node type.
func (b *BaseNode) Descriptor() *Descriptor { return b.desc }

// Context returns the owning context.
func (b *BaseNode) Context() *Context { return b.ctx }

// NumInputs returns the input terminal count.
func (b *BaseNode) NumInputs() int { return len(b.inputs) }

// NumOutputs returns the output terminal count.
func (b *BaseNode) NumOutputs() int { return len(b.outputs) }

// Input returns the i'th input terminal, or nil when out of range.
func (b *BaseNode) Input(i int) *Input {
	if i < 0 || i >= len(b.inputs) {
		return nil
	}
	return b.inputs[i]
}

// Output returns the i'th output terminal, or nil when out of range.
func (b *BaseNode) Output(i int) *Output {
	if i < 0 || i >= len(b.outputs) {
		return nil
	}
	return b.outputs[i]
}

func (b *BaseNode) inputIndex(in *Input) int {
	for i, candidate := range b.inputs {
		if candidate == in {
			return i
		}
	}
	return -1
}

// Param returns the named parameter, or nil.
func (b *BaseNode) Param(name string) *Param { return b.params[name] }

// Setting returns the named setting, or nil.
func (b *BaseNode) Setting(name string) *Setting { return b.settings[name] }

// AddInput appends an input terminal. Constructor use only.
func (b *BaseNode) AddInput() *Input {
	in := &Input{
		node:    b.self,
		summing: NewBus(1, RenderQuantumFrames),
	}
	b.inputs = append(b.inputs, in)
	return in
}

// AddOutput appends an output terminal with the given channel count.
// Constructor use only.
func (b *BaseNode) AddOutput(channels int) *Output {
	out := &Output{
		node: b.self,
		bus:  NewBus(channels, RenderQuantumFrames),
	}
	b.outputs = append(b.outputs, out)
	return out
}

// Initialize marks the node ready to process.
func (b *BaseNode) Initialize() { b.initialized.Store(true) }

// Uninitialize marks the node inactive; it renders silence until
// reinitialized.
func (b *BaseNode) Uninitialize() { b.initialized.Store(false) }

// IsInitialized reports whether the node is ready to process.
func (b *BaseNode) IsInitialized() bool { return b.initialized.Load() }

// Reset is a no-op by default; stateful nodes override it.
func (b *BaseNode) Reset() {}

// TailTime is zero by default.
func (b *BaseNode) TailTime() float64 { return 0 }

// LatencyTime is zero by default.
func (b *BaseNode) LatencyTime() float64 { return 0 }

// PropagatesSilence is true by default: silent input means silent output.
// Sources and nodes with decaying internal state override this.
func (b *BaseNode) PropagatesSilence() bool { return true }

// SilenceOutputs flags every output bus silent without writing samples.
func (b *BaseNode) SilenceOutputs() {
	for _, out := range b.outputs {
		out.bus.SetSilent()
	}
}
