package envelope

import (
	"math"

	"github.com/cwbudde/algo-envelope/dsp/core"
)

// Envelope is an ADSR envelope generator.
//
// Gate(true) starts the attack from the current output, so retriggering a
// sounding note never clicks. Attack ramps to 1, decay ramps to the sustain
// level, and release ramps to 0. Gate(false) forces the release from
// whatever level is current. Whether decay is followed by sustain, and
// whether release loops back into attack, is decided by the sustain and
// retrigger flags at the moment the segment completes.
//
// All parameter setters silently clamp their input; no method of the
// sample-count API can fail.
//
// Envelope is single-threaded and not safe for concurrent use.
type Envelope struct {
	shaper Shaper
	cfg    core.ProcessorConfig

	// Live state
	state  State
	phase  int // samples rendered in the current state
	length int // phase at which the active segment completes
	ramp   Ramp

	// Configured segments
	attack       Segment
	decay        Segment
	release      Segment
	sustainLevel float64

	// Transition policy
	sustain   bool
	retrigger bool

	scratch []float64
}

// New creates an envelope that shapes its segments with shaper.
//
// Lengths are in samples and are raised to 1 when smaller. shape is applied
// to all three ramping segments. Both flags start out false, so a fresh
// envelope runs attack, decay and release once per gate and then idles.
func New(shaper Shaper, attack, decay int, sustain float64, release int, shape float64, opts ...core.ProcessorOption) *Envelope {
	if shaper == nil {
		shaper = Exponential{}
	}

	cfg := core.ApplyProcessorOptions(opts...)

	e := &Envelope{
		shaper:       shaper,
		cfg:          cfg,
		sustainLevel: sanitizeLevel(sustain),
		scratch:      core.EnsureLen(nil, cfg.BlockSize),
	}

	e.beginIdle()
	e.SetAttack(shape, attack)
	e.SetDecay(shape, decay)
	e.SetRelease(shape, release)

	return e
}

// NewLinear creates an envelope with straight-line segments.
func NewLinear(attack, decay int, sustain float64, release int, opts ...core.ProcessorOption) *Envelope {
	return New(Linear{}, attack, decay, sustain, release, DefaultShape, opts...)
}

// NewExponential creates a virtual-analog envelope with the given curve shape
// on all segments.
func NewExponential(attack, decay int, sustain float64, release int, shape float64, opts ...core.ProcessorOption) *Envelope {
	return New(Exponential{}, attack, decay, sustain, release, shape, opts...)
}

// SetAttack configures the attack shape and length in samples.
// If the attack is running, it is re-aimed from the current output.
func (e *Envelope) SetAttack(shape float64, length int) {
	e.attack.configure(e.shaper, shape, length)
	if e.state == StateAttack {
		e.reaim(&e.attack, peakLevel)
	}
}

// SetDecay configures the decay shape and length in samples.
// If the decay is running, it is re-aimed from the current output.
func (e *Envelope) SetDecay(shape float64, length int) {
	e.decay.configure(e.shaper, shape, length)
	if e.state == StateDecay {
		e.reaim(&e.decay, e.sustainLevel)
	}
}

// SetRelease configures the release shape and length in samples.
// If the release is running, it is re-aimed from the current output.
func (e *Envelope) SetRelease(shape float64, length int) {
	e.release.configure(e.shaper, shape, length)
	if e.state == StateRelease {
		e.reaim(&e.release, 0)
	}
}

// SetAttackLength changes the attack length and keeps its shape.
func (e *Envelope) SetAttackLength(length int) { e.SetAttack(e.attack.Shape, length) }

// SetDecayLength changes the decay length and keeps its shape.
func (e *Envelope) SetDecayLength(length int) { e.SetDecay(e.decay.Shape, length) }

// SetReleaseLength changes the release length and keeps its shape.
func (e *Envelope) SetReleaseLength(length int) { e.SetRelease(e.release.Shape, length) }

// SetSustain sets the sustain level. A running decay is re-aimed so it still
// lands on the new level when it completes; a held sustain moves to the new
// level on the next render.
func (e *Envelope) SetSustain(level float64) {
	e.sustainLevel = sanitizeLevel(level)

	switch e.state {
	case StateDecay:
		e.reaim(&e.decay, e.sustainLevel)
	case StateSustain:
		e.ramp.Level = e.sustainLevel
	}
}

// SetShape applies one curve shape to attack, decay and release.
func (e *Envelope) SetShape(shape float64) {
	e.SetAttack(shape, e.attack.Length)
	e.SetDecay(shape, e.decay.Length)
	e.SetRelease(shape, e.release.Length)
}

// SetPeriod splits period samples over attack, decay and release: a third
// each, rounded down for attack, to nearest for decay and up for release.
func (e *Envelope) SetPeriod(period float64) {
	third := period / 3
	if math.IsNaN(third) {
		third = 0
	}

	e.SetAttack(e.attack.Shape, lengthFromFloat(math.Floor(third)))
	e.SetDecay(e.decay.Shape, lengthFromFloat(math.Round(third)))
	e.SetRelease(e.release.Shape, lengthFromFloat(math.Ceil(third)))
}

// SetSustainEnabled selects whether a completed decay holds the sustain
// level (true) or goes straight into release (false).
func (e *Envelope) SetSustainEnabled(enabled bool) { e.sustain = enabled }

// SustainEnabled reports whether decay is followed by sustain.
func (e *Envelope) SustainEnabled() bool { return e.sustain }

// SetRetrigger selects whether a completed release restarts the attack
// (true) or idles (false).
func (e *Envelope) SetRetrigger(enabled bool) { e.retrigger = enabled }

// Retrigger reports whether release loops back into attack.
func (e *Envelope) Retrigger() bool { return e.retrigger }

// Gate starts the attack when high is true and forces the release otherwise.
// Both start from the current output level.
func (e *Envelope) Gate(high bool) {
	if high {
		e.beginAttack()
	} else {
		e.beginRelease()
	}
}

// Reset returns the envelope to idle with zero output. Configuration and
// flags are kept.
func (e *Envelope) Reset() {
	e.beginIdle()
}

// Render advances the envelope by one sample and returns the output.
//
// When a segment completes on this sample, the returned value is still the
// one computed by that segment; the next state takes effect from the
// following call.
func (e *Envelope) Render() float64 {
	if !e.state.Ramping() {
		return e.ramp.Level
	}

	out := e.shaper.Step(&e.ramp)

	e.phase++
	if e.phase >= e.length {
		e.next()
	}

	return out
}

// Output returns the current output level without advancing.
func (e *Envelope) Output() float64 { return e.ramp.Level }

// State returns the current lifecycle state.
func (e *Envelope) State() State { return e.state }

// Phase returns the number of samples rendered in the current state.
func (e *Envelope) Phase() int { return e.phase }

// Attack returns the configured attack segment.
func (e *Envelope) Attack() Segment { return e.attack }

// Decay returns the configured decay segment.
func (e *Envelope) Decay() Segment { return e.decay }

// Release returns the configured release segment.
func (e *Envelope) Release() Segment { return e.release }

// SustainLevel returns the configured sustain level.
func (e *Envelope) SustainLevel() float64 { return e.sustainLevel }

// Shaper returns the curve strategy the envelope was built with.
func (e *Envelope) Shaper() Shaper { return e.shaper }

// reaim restarts the active ramp from the current output so it reaches target
// within the samples left in seg. The completion point stays at seg.Length.
func (e *Envelope) reaim(seg *Segment, target float64) {
	remaining := core.ClampLength(seg.Length - e.phase)
	e.shaper.Begin(&e.ramp, e.ramp.Level, target, seg.Shape, e.shaper.Coefficient(seg.Shape, remaining))
	e.length = seg.Length
}

func (e *Envelope) start(state State, seg *Segment, target float64) {
	e.state = state
	e.shaper.Begin(&e.ramp, e.ramp.Level, target, seg.Shape, seg.Coeff)
	e.length = seg.Length
	e.phase = 0
}

func (e *Envelope) beginIdle() {
	e.state = StateIdle
	e.phase = 0
	e.ramp = Ramp{}
}

func (e *Envelope) beginAttack() { e.start(StateAttack, &e.attack, peakLevel) }

func (e *Envelope) beginDecay() { e.start(StateDecay, &e.decay, e.sustainLevel) }

func (e *Envelope) beginSustain() {
	e.state = StateSustain
	e.phase = 0
	e.ramp.Level = e.sustainLevel
}

func (e *Envelope) beginRelease() { e.start(StateRelease, &e.release, 0) }

func (e *Envelope) next() {
	switch e.state {
	case StateAttack:
		e.beginDecay()
	case StateDecay:
		if e.sustain {
			e.beginSustain()
		} else {
			e.beginRelease()
		}
	case StateRelease:
		if e.retrigger {
			e.beginAttack()
		} else {
			e.beginIdle()
		}
	}
}

func sanitizeLevel(level float64) float64 {
	if !core.IsFinite(level) {
		return 0
	}

	return level
}
