package graph

import (
	"math"
	"sort"
)

type eventKind int

const (
	eventSetValue eventKind = iota
	eventLinearRamp
	eventExponentialRamp
	eventSetTarget
	eventValueCurve
)

// automationEvent is one control point or segment generator on a parameter
// timeline. Events are kept sorted by time; evaluation walks the list from
// the beginning so that a value at any absolute time can be recomputed
// deterministically, with no state carried between calls.
type automationEvent struct {
	kind         eventKind
	time         float64
	value        float64
	timeConstant float64 // eventSetTarget
	duration     float64 // eventValueCurve
	curve        []float64
}

// endTime returns the time at which the event stops shaping the value.
func (e *automationEvent) endTime() float64 {
	if e.kind == eventValueCurve {
		return e.time + e.duration
	}
	return e.time
}

// timeline is the ordered automation event list of one Param. Mutations
// happen only under the graph lock; evaluation is pure and may run on the
// render thread.
type timeline struct {
	events []automationEvent
}

func (tl *timeline) insert(e automationEvent) {
	i := sort.Search(len(tl.events), func(i int) bool {
		return tl.events[i].time > e.time
	})
	tl.events = append(tl.events, automationEvent{})
	copy(tl.events[i+1:], tl.events[i:])
	tl.events[i] = e
}

// cancelAfter removes all events scheduled at or after t.
func (tl *timeline) cancelAfter(t float64) {
	i := sort.Search(len(tl.events), func(i int) bool {
		return tl.events[i].time >= t
	})
	tl.events = tl.events[:i]
}

func (tl *timeline) empty() bool { return len(tl.events) == 0 }

// valueAt evaluates the timeline at absolute time t. fallback is the value
// the parameter held before the first event.
func (tl *timeline) valueAt(t, fallback float64) float64 {
	curV, curT := fallback, 0.0
	for i := range tl.events {
		e := &tl.events[i]
		switch e.kind {
		case eventSetValue:
			if t < e.time {
				return curV
			}
			curV, curT = e.value, e.time

		case eventLinearRamp:
			if t < e.time {
				return rampLinear(curV, curT, e.value, e.time, t)
			}
			curV, curT = e.value, e.time

		case eventExponentialRamp:
			if t < e.time {
				return rampExponential(curV, curT, e.value, e.time, t)
			}
			curV, curT = e.value, e.time

		case eventSetTarget:
			if t < e.time {
				return curV
			}
			// The target curve runs from e.time until the next event
			// takes over (or forever).
			end := t
			if i+1 < len(tl.events) && tl.events[i+1].time < t {
				end = tl.events[i+1].time
			}
			v := e.value + (curV-e.value)*math.Exp(-(end-e.time)/e.timeConstant)
			if end == t {
				return v
			}
			curV, curT = v, end

		case eventValueCurve:
			if t < e.time {
				return curV
			}
			if t < e.time+e.duration {
				return curveValue(e.curve, (t-e.time)/e.duration)
			}
			curV, curT = e.curve[len(e.curve)-1], e.time+e.duration
		}
	}
	return curV
}

func rampLinear(v0, t0, v1, t1, t float64) float64 {
	if t1 <= t0 {
		return v1
	}
	return v0 + (v1-v0)*(t-t0)/(t1-t0)
}

func rampExponential(v0, t0, v1, t1, t float64) float64 {
	if t1 <= t0 || v0 == 0 || (v0 < 0) != (v1 < 0) {
		return v1
	}
	return v0 * math.Pow(v1/v0, (t-t0)/(t1-t0))
}

func curveValue(curve []float64, pos float64) float64 {
	x := pos * float64(len(curve)-1)
	i := int(x)
	if i >= len(curve)-1 {
		return curve[len(curve)-1]
	}
	frac := x - float64(i)
	return curve[i] + (curve[i+1]-curve[i])*frac
}
