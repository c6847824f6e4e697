package graph

import (
	"math"
	"sync"
	"sync/atomic"
)

// SettingKind enumerates the value types a Setting can hold.
type SettingKind int

const (
	SettingBool SettingKind = iota
	SettingInt
	SettingFloat
	SettingEnum
)

// A Setting is a non-automated, infrequently changed configuration value
// owned by a node, such as an oscillator shape or an FFT size. Writes
// invoke the registered observer synchronously on the calling (control)
// thread; the new value takes effect at the start of the next quantum,
// which the render thread picks up through an atomic read.
type Setting struct {
	name string
	kind SettingKind
	enum []string

	iv atomic.Int64  // bool, int, enum index
	fv atomic.Uint64 // float bits

	mu       sync.Mutex
	observer func(*Setting)
}

func newSetting(d SettingDescriptor) *Setting {
	s := &Setting{name: d.Name, kind: d.Kind, enum: d.EnumValues}
	switch d.Kind {
	case SettingFloat:
		s.fv.Store(math.Float64bits(d.DefaultFloat))
	default:
		s.iv.Store(d.DefaultInt)
	}
	return s
}

// Name returns the setting name declared by the node's descriptor.
func (s *Setting) Name() string { return s.name }

// Kind returns the value type of the setting.
func (s *Setting) Kind() SettingKind { return s.kind }

// SetObserver registers the single change-notification sink, replacing any
// previous one. The observer runs synchronously on the writing thread.
func (s *Setting) SetObserver(fn func(*Setting)) {
	s.mu.Lock()
	s.observer = fn
	s.mu.Unlock()
}

func (s *Setting) notify() {
	s.mu.Lock()
	fn := s.observer
	s.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// Bool returns the boolean value.
func (s *Setting) Bool() bool { return s.iv.Load() != 0 }

// SetBool stores a boolean value and notifies the observer.
func (s *Setting) SetBool(v bool) {
	var iv int64
	if v {
		iv = 1
	}
	s.iv.Store(iv)
	s.notify()
}

// Int returns the integer value (also the enum index for enum settings).
func (s *Setting) Int() int64 { return s.iv.Load() }

// SetInt stores an integer value and notifies the observer.
func (s *Setting) SetInt(v int64) {
	s.iv.Store(v)
	s.notify()
}

// Float returns the float value.
func (s *Setting) Float() float64 { return math.Float64frombits(s.fv.Load()) }

// SetFloat stores a float value and notifies the observer.
func (s *Setting) SetFloat(v float64) {
	s.fv.Store(math.Float64bits(v))
	s.notify()
}

// Enum returns the current enum index.
func (s *Setting) Enum() int { return int(s.iv.Load()) }

// EnumName returns the name of the current enum value, or "" when out of
// range.
func (s *Setting) EnumName() string {
	i := s.Enum()
	if i < 0 || i >= len(s.enum) {
		return ""
	}
	return s.enum[i]
}

// SetEnum stores an enum index, clamped to the declared set, and notifies
// the observer.
func (s *Setting) SetEnum(i int) {
	if i < 0 {
		i = 0
	}
	if len(s.enum) > 0 && i >= len(s.enum) {
		i = len(s.enum) - 1
	}
	s.iv.Store(int64(i))
	s.notify()
}
