package envelope

import (
	"math"

	"github.com/cwbudde/algo-envelope/dsp/core"
)

const (
	// MinShape is the smallest accepted curve shape. Lower, zero, negative and
	// NaN shapes are raised to it.
	MinShape = 1e-6
	// MaxShape is the largest accepted curve shape.
	MaxShape = 1e6
	// DefaultShape is the shape used by NewLinear and by callers that have no
	// preference.
	DefaultShape = 1.0

	// MaxLength caps segment lengths derived from floating-point input.
	MaxLength = math.MaxInt32

	peakLevel = 1.0
)

// Segment is the configured state of one ramping stage (attack, decay or
// release). Coeff is derived from Shape and Length and is recomputed by
// every setter.
type Segment struct {
	Length int
	Shape  float64
	Coeff  float64
}

func (s *Segment) configure(shaper Shaper, shape float64, length int) {
	s.Length = core.ClampLength(length)
	s.Shape = clampShape(shape)
	s.Coeff = shaper.Coefficient(s.Shape, s.Length)
}

func clampShape(shape float64) float64 {
	if math.IsNaN(shape) || shape <= 0 {
		return MinShape
	}

	return core.Clamp(shape, MinShape, MaxShape)
}

// lengthFromFloat truncates x to a segment length in [1, MaxLength].
func lengthFromFloat(x float64) int {
	if math.IsNaN(x) || x < 1 {
		return 1
	}

	if x > MaxLength {
		return MaxLength
	}

	return int(x)
}
