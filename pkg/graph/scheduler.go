package graph

import (
	"fmt"
	"math"
	"sync/atomic"
)

// PlaybackState is the lifecycle of a scheduled source node.
type PlaybackState int32

const (
	PlaybackUnscheduled PlaybackState = iota
	PlaybackScheduled
	PlaybackPlaying
	PlaybackFinished
)

func (s PlaybackState) String() string {
	switch s {
	case PlaybackUnscheduled:
		return "unscheduled"
	case PlaybackScheduled:
		return "scheduled"
	case PlaybackPlaying:
		return "playing"
	case PlaybackFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Source is a node with a start/stop timeline: oscillators, buffer players,
// constant sources. While scheduled or playing, a source is kept alive in
// the context's automatic-pull set even if disconnected from the
// destination and unreferenced by the application; it finishes its
// scheduled work before becoming collectable.
type Source interface {
	Node
	Start(when float64) error
	Stop(when float64) error
	PlaybackState() PlaybackState
	sourceBase() *SourceBase
}

// SourceBase extends BaseNode with the scheduling state machine
// UNSCHEDULED -> SCHEDULED -> PLAYING -> FINISHED. Source node
// implementations embed it and derive their audible sub-range of each
// quantum from ScheduledRange.
type SourceBase struct {
	*BaseNode
	state      atomic.Int32
	startFrame atomic.Int64
	stopFrame  atomic.Int64
	onEnded    func()
}

// NewSourceBase builds the shared state for a scheduled source node.
func NewSourceBase(ctx *Context, self Node, desc *Descriptor) *SourceBase {
	s := &SourceBase{BaseNode: NewBaseNode(ctx, self, desc)}
	s.stopFrame.Store(math.MaxInt64)
	return s
}

func (s *SourceBase) sourceBase() *SourceBase { return s }

// PlaybackState returns the current lifecycle state. Safe from any thread.
func (s *SourceBase) PlaybackState() PlaybackState {
	return PlaybackState(s.state.Load())
}

// Finished reports whether the source completed its schedule. Control
// threads may poll this; the render thread sets it.
func (s *SourceBase) Finished() bool {
	return s.PlaybackState() == PlaybackFinished
}

// SetOnEnded registers a callback invoked from the maintenance pass, on a
// control thread, after the source finishes. Set it before Start.
func (s *SourceBase) SetOnEnded(fn func()) { s.onEnded = fn }

// Start schedules playback at the given context time in seconds, quantized
// to the nearest frame. A time in the past starts at the next quantum.
// Starting twice is an error.
func (s *SourceBase) Start(when float64) error {
	if when < 0 {
		return fmt.Errorf("%w: start %g", ErrBadScheduleTime, when)
	}
	if !s.state.CompareAndSwap(int32(PlaybackUnscheduled), int32(PlaybackScheduled)) {
		return fmt.Errorf("%w: source already started (%s)", ErrBadScheduleTime, s.PlaybackState())
	}
	s.startFrame.Store(s.ctx.frameForTime(when))
	s.ctx.addAutomaticPullNode(s.self)
	return nil
}

// Stop schedules the end of playback at the given context time, quantized
// to the nearest frame and never before the start time. The source must
// have been started.
func (s *SourceBase) Stop(when float64) error {
	if when < 0 {
		return fmt.Errorf("%w: stop %g", ErrBadScheduleTime, when)
	}
	st := s.PlaybackState()
	if st == PlaybackUnscheduled || st == PlaybackFinished {
		return fmt.Errorf("%w: cannot stop %s source", ErrBadScheduleTime, st)
	}
	f := s.ctx.frameForTime(when)
	if start := s.startFrame.Load(); f < start {
		f = start
	}
	s.stopFrame.Store(f)
	return nil
}

// ScheduledRange resolves the audible [offset, offset+count) frame range of
// the current quantum and advances the state machine: a scheduled source
// whose start falls inside the quantum becomes playing, a playing source
// whose stop has passed becomes finished. count == 0 means the node emits
// pure silence this quantum. Render thread only.
func (s *SourceBase) ScheduledRange(r *RenderScope, frames int) (offset, count int) {
	st := s.PlaybackState()
	if st == PlaybackUnscheduled || st == PlaybackFinished {
		return 0, 0
	}
	qs := r.QuantumStart()
	qe := qs + int64(frames)
	start := s.startFrame.Load()
	stop := s.stopFrame.Load()
	if qs >= stop {
		s.Finish()
		return 0, 0
	}
	if start >= qe {
		return 0, 0
	}
	if st == PlaybackScheduled {
		s.state.Store(int32(PlaybackPlaying))
	}
	var off int64
	if start > qs {
		off = start - qs
	}
	end := qe
	if stop < qe {
		end = stop
	}
	n := end - qs - off
	if n <= 0 {
		return 0, 0
	}
	return int(off), int(n)
}

// Finish moves the source to FINISHED and wakes the maintenance pass, which
// removes it from the automatic-pull set under the graph lock. Called by
// the scheduler when the stop time passes, or by sources that exhaust their
// material early (a non-looping buffer reaching its end).
func (s *SourceBase) Finish() {
	if s.state.Swap(int32(PlaybackFinished)) != int32(PlaybackFinished) {
		s.ctx.wakeMaintenance()
	}
}

// PropagatesSilence reports silence for sources that are not scheduled or
// already finished.
func (s *SourceBase) PropagatesSilence() bool {
	st := s.PlaybackState()
	return st == PlaybackUnscheduled || st == PlaybackFinished
}
