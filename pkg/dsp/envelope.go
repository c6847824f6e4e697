package dsp

// EnvelopeConfig holds the segment times and levels an Envelope shapes its
// output with. Times are in seconds, levels in linear amplitude.
type EnvelopeConfig struct {
	AttackTime   float64
	AttackLevel  float64
	DecayTime    float64
	SustainTime  float64
	SustainLevel float64
	ReleaseTime  float64
	OneShot      bool
}

// envSegment is one linear ramp: remaining frames and per-frame slope.
type envSegment struct {
	remaining float64
	slope     float64
}

// An Envelope is a gate-driven linear ADSR generator. A rising gate edge
// queues attack and decay ramps (plus sustain hold and release in one-shot
// mode); a falling edge replaces the queue with a release ramp from the
// current level. Between edges the front ramp advances one step per frame
// and the level holds once the queue drains. Allocation-free.
type Envelope struct {
	sampleRate float64
	value      float64
	gateHigh   bool
	released   bool
	done       bool

	segs  [4]envSegment
	head  int
	count int
}

// NewEnvelope creates an idle envelope at the given sample rate.
func NewEnvelope(sampleRate float64) *Envelope {
	return &Envelope{sampleRate: sampleRate, done: true}
}

// Value returns the current envelope level.
func (e *Envelope) Value() float64 { return e.value }

// Active reports whether any ramp is still pending.
func (e *Envelope) Active() bool { return e.count > 0 }

// ReleaseCompleted reports whether the last queued release ramp has run to
// its end. True before the first trigger.
func (e *Envelope) ReleaseCompleted() bool { return e.done }

// Reset returns the envelope to idle at level zero.
func (e *Envelope) Reset() {
	e.value = 0
	e.gateHigh = false
	e.released = false
	e.done = true
	e.head, e.count = 0, 0
}

func (e *Envelope) clear() { e.head, e.count = 0, 0 }

func (e *Envelope) push(steps, slope float64) {
	if e.head+e.count >= len(e.segs) {
		return
	}
	e.segs[e.head+e.count] = envSegment{remaining: steps, slope: slope}
	e.count++
}

// steps converts a segment time to a frame count, at least one frame so a
// zero time degenerates to a single-frame jump rather than a division by
// zero.
func (e *Envelope) steps(seconds float64) float64 {
	s := seconds * e.sampleRate
	if s < 1 {
		return 1
	}
	return s
}

// Next advances the envelope one frame under the given gate level and
// returns the new value. Edge frames emit the pre-edge level, matching the
// ramp start.
func (e *Envelope) Next(gate bool, cfg EnvelopeConfig) float64 {
	switch {
	case gate && !e.gateHigh:
		e.gateHigh = true
		e.released = false
		e.done = false
		e.clear()

		attackSteps := e.steps(cfg.AttackTime)
		e.push(attackSteps, (cfg.AttackLevel-e.value)/attackSteps)
		decaySteps := e.steps(cfg.DecayTime)
		e.push(decaySteps, (cfg.SustainLevel-cfg.AttackLevel)/decaySteps)
		if cfg.OneShot {
			e.push(e.steps(cfg.SustainTime), 0)
			releaseSteps := e.steps(cfg.ReleaseTime)
			e.push(releaseSteps, -cfg.SustainLevel/releaseSteps)
			e.released = true
		}
		return e.value

	case !gate && e.gateHigh:
		e.gateHigh = false
		e.clear()
		releaseSteps := e.steps(cfg.ReleaseTime)
		e.push(releaseSteps, -e.value/releaseSteps)
		e.released = true
		return e.value

	default:
		for e.count > 0 {
			s := &e.segs[e.head]
			if s.remaining > 0 {
				e.value += s.slope
				s.remaining--
				return e.value
			}
			e.head++
			e.count--
		}
		if e.released {
			e.done = true
		}
		return e.value
	}
}
