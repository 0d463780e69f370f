package control

import "github.com/cwbudde/algo-envelope/dsp/envelope"

// Kind identifies what an Event changes.
type Kind uint8

const (
	// KindGate opens (Flag true) or closes the gate.
	KindGate Kind = iota
	// KindAttack sets the attack shape and length.
	KindAttack
	// KindDecay sets the decay shape and length.
	KindDecay
	// KindRelease sets the release shape and length.
	KindRelease
	// KindSustain sets the sustain level from Value.
	KindSustain
	// KindPeriod splits Value samples over attack, decay and release.
	KindPeriod
	// KindShape sets one curve shape from Value on all segments.
	KindShape
	// KindSustainEnabled sets the sustain flag.
	KindSustainEnabled
	// KindRetrigger sets the retrigger flag.
	KindRetrigger
	// KindReset returns the envelope to idle.
	KindReset
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindGate:
		return "gate"
	case KindAttack:
		return "attack"
	case KindDecay:
		return "decay"
	case KindRelease:
		return "release"
	case KindSustain:
		return "sustain"
	case KindPeriod:
		return "period"
	case KindShape:
		return "shape"
	case KindSustainEnabled:
		return "sustain-enabled"
	case KindRetrigger:
		return "retrigger"
	case KindReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is one envelope change.
//
// At is the absolute sample position, on the controller's timeline, at which
// the event takes effect; anything at or before the current position
// (including the zero value) applies at the start of the next rendered
// sample. Which of the remaining fields are read depends on Kind:
//
//	KindGate, KindSustainEnabled, KindRetrigger: Flag
//	KindAttack, KindDecay, KindRelease:          Shape, Length
//	KindSustain, KindPeriod, KindShape:          Value
type Event struct {
	At     int64
	Kind   Kind
	Flag   bool
	Shape  float64
	Length int
	Value  float64
}

// Apply performs ev on env.
func Apply(env *envelope.Envelope, ev Event) {
	switch ev.Kind {
	case KindGate:
		env.Gate(ev.Flag)
	case KindAttack:
		env.SetAttack(ev.Shape, ev.Length)
	case KindDecay:
		env.SetDecay(ev.Shape, ev.Length)
	case KindRelease:
		env.SetRelease(ev.Shape, ev.Length)
	case KindSustain:
		env.SetSustain(ev.Value)
	case KindPeriod:
		env.SetPeriod(ev.Value)
	case KindShape:
		env.SetShape(ev.Value)
	case KindSustainEnabled:
		env.SetSustainEnabled(ev.Flag)
	case KindRetrigger:
		env.SetRetrigger(ev.Flag)
	case KindReset:
		env.Reset()
	}
}
