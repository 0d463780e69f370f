package envelope

// State is the lifecycle stage of an envelope.
type State int

const (
	// StateIdle outputs exactly 0 until the next gate.
	StateIdle State = iota
	// StateAttack ramps toward the peak level.
	StateAttack
	// StateDecay ramps toward the sustain level.
	StateDecay
	// StateSustain holds the sustain level.
	StateSustain
	// StateRelease ramps toward 0.
	StateRelease
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAttack:
		return "attack"
	case StateDecay:
		return "decay"
	case StateSustain:
		return "sustain"
	case StateRelease:
		return "release"
	default:
		return "unknown"
	}
}

// Ramping reports whether the state advances a ramp on every render.
func (s State) Ramping() bool {
	return s == StateAttack || s == StateDecay || s == StateRelease
}
