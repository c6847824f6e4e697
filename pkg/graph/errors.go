package graph

import "errors"

// Configuration errors are rejected synchronously on the control thread and
// never reach the render thread. Render-lock contention is not an error.
var (
	// ErrIndexOutOfRange indicates a terminal index outside a node's
	// declared input or output count.
	ErrIndexOutOfRange = errors.New("terminal index out of range")

	// ErrChannelCount indicates a connection whose source channel count
	// cannot be summed with the other sources of the same input. A summing
	// junction accepts sources that are either mono (fanned out) or match
	// the widest connected source.
	ErrChannelCount = errors.New("incompatible channel count")

	// ErrWrongContext indicates an attempt to connect nodes owned by
	// different contexts.
	ErrWrongContext = errors.New("nodes belong to different contexts")

	// ErrClosed indicates an operation on a closed context.
	ErrClosed = errors.New("context is closed")

	// ErrDisposed indicates an operation on a disposed node.
	ErrDisposed = errors.New("node is disposed")

	// ErrNotConnected indicates a disconnect for an edge that does not exist.
	ErrNotConnected = errors.New("terminals are not connected")

	// ErrBadScheduleTime indicates an invalid start or stop request, such
	// as a negative time, starting a source twice, or stopping a source
	// that was never started.
	ErrBadScheduleTime = errors.New("invalid schedule time")

	// ErrBadParamValue indicates an automation value outside what the
	// event type permits, e.g. a zero target for an exponential ramp.
	ErrBadParamValue = errors.New("invalid parameter automation value")

	// ErrBadCurve indicates a value curve with fewer than two points or a
	// non-positive duration.
	ErrBadCurve = errors.New("invalid automation curve")
)
