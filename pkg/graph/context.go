package graph

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/justyntemme/soundgraph/pkg/debug"
)

// maintenanceInterval bounds how long a finished source can linger in the
// automatic-pull set when the render thread's wakeup is missed.
const maintenanceInterval = 50 * time.Millisecond

// A Context owns the graph, the render-quantum clock and the dual-lock
// protocol, and renders one quantum at a time when driven by a device
// backend. Topology mutations (Connect, Disconnect, node disposal, source
// scheduling, automation edits) may happen concurrently from any number of
// control threads.
type Context struct {
	sampleRate float64
	channels   int
	log        *debug.Logger

	// graphMu is the single primitive behind both lock modes: control
	// threads Lock (blocking, exclusive), the render thread TryLock once
	// per quantum and emits silence when it fails.
	graphMu sync.Mutex

	destination  *Destination
	currentFrame atomic.Int64
	epoch        int64
	pullNodes    map[Node]struct{}

	// carry holds the destination's most recent quantum; Render slices
	// arbitrary backend buffer sizes out of it.
	carry    *Bus
	carryPos int
	scope    RenderScope

	maintWake chan struct{}
	done      chan struct{}
	closed    atomic.Bool
	wg        sync.WaitGroup
}

type config struct {
	sampleRate float64
	channels   int
	log        *debug.Logger
}

// Option configures a Context at construction.
type Option func(*config)

// WithSampleRate sets the render sample rate in Hz. Default 48000.
func WithSampleRate(sr float64) Option {
	return func(c *config) { c.sampleRate = sr }
}

// WithChannels sets the destination channel count. Default 2.
func WithChannels(n int) Option {
	return func(c *config) { c.channels = n }
}

// WithLogger attaches a logger for control-thread diagnostics.
func WithLogger(l *debug.Logger) Option {
	return func(c *config) { c.log = l }
}

// New creates a context and starts its maintenance goroutine. Call Close
// when done.
func New(opts ...Option) *Context {
	cfg := config{sampleRate: 48000, channels: 2}
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &Context{
		sampleRate: cfg.sampleRate,
		channels:   cfg.channels,
		log:        cfg.log,
		pullNodes:  make(map[Node]struct{}),
		carry:      NewBus(cfg.channels, RenderQuantumFrames),
		carryPos:   RenderQuantumFrames,
		maintWake:  make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	c.scope.ctx = c
	c.destination = newDestination(c)
	c.wg.Add(1)
	go c.maintenanceLoop()
	return c
}

// SampleRate returns the render sample rate in Hz.
func (c *Context) SampleRate() float64 { return c.sampleRate }

// NumChannels returns the destination channel count.
func (c *Context) NumChannels() int { return c.channels }

// Destination returns the terminal node all audible signal flows into.
func (c *Context) Destination() *Destination { return c.destination }

// CurrentFrame returns the number of frames rendered so far.
func (c *Context) CurrentFrame() int64 { return c.currentFrame.Load() }

// CurrentTime returns the context clock in seconds.
func (c *Context) CurrentTime() float64 {
	return float64(c.currentFrame.Load()) / c.sampleRate
}

func (c *Context) frameForTime(t float64) int64 {
	return int64(math.Round(t * c.sampleRate))
}

// Close stops the maintenance goroutine. The context must not be rendered
// or mutated afterwards.
func (c *Context) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(c.done)
	c.wg.Wait()
	return nil
}

// Synchronize runs fn under the graph lock, with the render thread
// excluded. Use it for control-thread access to node-internal state that
// the render thread also touches. fn must not call back into context
// methods that take the lock themselves.
func (c *Context) Synchronize(fn func()) {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()
	fn()
}

// ResetNode clears a node's internal processing state under the graph lock.
func (c *Context) ResetNode(n Node) {
	c.Synchronize(n.Reset)
}

// Connect wires output srcOut of src into input dstIn of dst. Connecting an
// already connected pair is a no-op. Sources feeding one input must all
// have the same channel count or be mono; anything else is rejected with
// ErrChannelCount. Configuration errors are reported synchronously and
// never reach the render thread.
func (c *Context) Connect(src Node, srcOut int, dst Node, dstIn int) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if src.Context() != c || dst.Context() != c {
		return ErrWrongContext
	}
	if src.base().disposed.Load() || dst.base().disposed.Load() {
		return ErrDisposed
	}
	out := src.Output(srcOut)
	if out == nil {
		return fmt.Errorf("%w: output %d of %s", ErrIndexOutOfRange, srcOut, src.Name())
	}
	in := dst.Input(dstIn)
	if in == nil {
		return fmt.Errorf("%w: input %d of %s", ErrIndexOutOfRange, dstIn, dst.Name())
	}

	c.graphMu.Lock()
	defer c.graphMu.Unlock()

	for _, s := range in.sources {
		if s == out {
			return nil
		}
	}
	width := out.bus.NumChannels()
	for _, s := range in.sources {
		if n := s.bus.NumChannels(); n > width {
			width = n
		}
	}
	if n := out.bus.NumChannels(); n != 1 && n != width {
		return fmt.Errorf("%w: %d into %d", ErrChannelCount, out.bus.NumChannels(), width)
	}
	for _, s := range in.sources {
		if n := s.bus.NumChannels(); n != 1 && n != width {
			return fmt.Errorf("%w: existing source has %d channels, junction is %d", ErrChannelCount, n, width)
		}
	}

	in.sources = append(in.sources, out)
	out.destinations = append(out.destinations, in)
	if in.updateChannelCount() {
		notifyChannelsChanged(dst, dstIn, in)
	}
	c.log.Debugf("connect %s[%d] -> %s[%d]", src.Name(), srcOut, dst.Name(), dstIn)
	return nil
}

// notifyChannelsChanged lets width-following nodes resize their outputs.
// Graph lock held.
func notifyChannelsChanged(n Node, input int, in *Input) {
	if ca, ok := n.(ChannelAware); ok {
		ca.InputChannelsChanged(input, in.summing.NumChannels())
	}
}

// Disconnect removes the edge between output srcOut of src and input dstIn
// of dst, restoring both terminals' connection counts.
func (c *Context) Disconnect(src Node, srcOut int, dst Node, dstIn int) error {
	out := src.Output(srcOut)
	if out == nil {
		return fmt.Errorf("%w: output %d of %s", ErrIndexOutOfRange, srcOut, src.Name())
	}
	in := dst.Input(dstIn)
	if in == nil {
		return fmt.Errorf("%w: input %d of %s", ErrIndexOutOfRange, dstIn, dst.Name())
	}

	c.graphMu.Lock()
	defer c.graphMu.Unlock()

	if !in.removeSource(out) {
		return ErrNotConnected
	}
	out.removeDestination(in)
	if in.updateChannelCount() {
		notifyChannelsChanged(dst, dstIn, in)
	}
	c.log.Debugf("disconnect %s[%d] -x- %s[%d]", src.Name(), srcOut, dst.Name(), dstIn)
	return nil
}

// DisconnectNode removes every edge touching n. A still playing source
// stays in the automatic-pull set and keeps rendering until finished.
func (c *Context) DisconnectNode(n Node) {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()
	c.disconnectNodeLocked(n)
}

func (c *Context) disconnectNodeLocked(n Node) {
	b := n.base()
	for _, in := range b.inputs {
		for _, out := range in.sources {
			out.removeDestination(in)
		}
		in.sources = in.sources[:0]
		if in.updateChannelCount() {
			notifyChannelsChanged(n, b.inputIndex(in), in)
		}
	}
	for _, out := range b.outputs {
		for _, in := range out.destinations {
			in.removeSource(out)
			if in.updateChannelCount() {
				notifyChannelsChanged(in.node, in.node.base().inputIndex(in), in)
			}
		}
		out.destinations = out.destinations[:0]
	}
}

// DisposeNode disconnects n, releases its resources and marks it unusable.
// A scheduled source that has not finished is also evicted from the
// automatic-pull set; disposal is an explicit cancellation.
func (c *Context) DisposeNode(n Node) {
	c.graphMu.Lock()
	c.disconnectNodeLocked(n)
	delete(c.pullNodes, n)
	n.base().disposed.Store(true)
	c.graphMu.Unlock()
	n.Uninitialize()
}

// addAutomaticPullNode keeps a scheduled source alive and rendered
// independent of destination reachability.
func (c *Context) addAutomaticPullNode(n Node) {
	c.graphMu.Lock()
	c.pullNodes[n] = struct{}{}
	c.graphMu.Unlock()
}

// AutomaticPullNodeCount reports the size of the automatic-pull set.
func (c *Context) AutomaticPullNodeCount() int {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()
	return len(c.pullNodes)
}

// wakeMaintenance nudges the maintenance goroutine without blocking; the
// render thread calls this when it marks a source finished.
func (c *Context) wakeMaintenance() {
	select {
	case c.maintWake <- struct{}{}:
	default:
	}
}

func (c *Context) maintenanceLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-c.maintWake:
		case <-ticker.C:
		}
		c.collectFinished()
	}
}

// collectFinished sweeps finished sources out of the automatic-pull set
// under the graph lock and fires their OnEnded callbacks outside it.
func (c *Context) collectFinished() {
	var ended []func()
	c.graphMu.Lock()
	for n := range c.pullNodes {
		s, ok := n.(Source)
		if !ok || s.PlaybackState() != PlaybackFinished {
			continue
		}
		delete(c.pullNodes, n)
		if fn := s.sourceBase().onEnded; fn != nil {
			ended = append(ended, fn)
		}
	}
	c.graphMu.Unlock()
	for _, fn := range ended {
		fn()
	}
}

// Render produces len(out[0]) frames into the planar backend buffer. It is
// the device backend's pull entry point and must be driven from a single
// render thread. When a structural edit holds the graph lock, affected
// quanta come out silent; the call itself never blocks and never panics
// across the backend boundary.
func (c *Context) Render(out [][]float32) {
	if len(out) == 0 || len(out[0]) == 0 {
		return
	}
	frames := len(out[0])
	pos := 0
	for pos < frames {
		if c.carryPos == RenderQuantumFrames {
			c.renderQuantum()
			c.carryPos = 0
		}
		n := min(frames-pos, RenderQuantumFrames-c.carryPos)
		c.copyCarry(out, pos, n)
		c.carryPos += n
		pos += n
	}
}

func (c *Context) copyCarry(out [][]float32, pos, n int) {
	for ch := range out {
		dst := out[ch][pos : pos+n]
		if c.carry.IsSilent() {
			for i := range dst {
				dst[i] = 0
			}
			continue
		}
		src := ch
		if src >= c.carry.NumChannels() {
			src = c.carry.NumChannels() - 1
		}
		copy(dst, c.carry.Channel(src)[c.carryPos:c.carryPos+n])
	}
}

// renderQuantum renders one quantum into the carry bus. The clock advances
// whether or not the render lock was won, so scheduled times stay aligned
// with the device stream.
func (c *Context) renderQuantum() {
	if !c.graphMu.TryLock() {
		c.carry.Zero()
		c.currentFrame.Add(RenderQuantumFrames)
		return
	}
	c.epoch++
	c.scope.quantumStart = c.currentFrame.Load()
	c.scope.epoch = c.epoch
	c.scope.frames = RenderQuantumFrames
	processIfNecessary(&c.scope, c.destination)
	for n := range c.pullNodes {
		processIfNecessary(&c.scope, n)
	}
	c.currentFrame.Add(RenderQuantumFrames)
	c.graphMu.Unlock()
}
