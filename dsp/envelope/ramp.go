package envelope

import (
	"math"

	"github.com/cwbudde/algo-envelope/dsp/core"
)

// Ramp is the live state of the segment currently being rendered.
//
// The envelope owns exactly one Ramp and overwrites it every time a segment
// starts or is re-aimed. Level is the authoritative current output and is
// carried across segment boundaries; every segment starts from it.
type Ramp struct {
	Start  float64 // level the ramp was (re)started from
	Target float64 // level the curve is heading for; may overshoot the nominal target
	Acc    float64 // shaper-defined accumulator (slope or decaying exponential)
	Coeff  float64 // per-sample coefficient the ramp was started with
	Level  float64 // last rendered output
}

// Shaper evaluates one curve family.
//
// Implementations are stateless; all per-segment state lives in the Ramp
// passed to Begin and Step. Step is called once per sample on the audio
// path and must not allocate.
type Shaper interface {
	// Coefficient derives the per-sample coefficient for a ramp of length
	// samples at the given shape.
	Coefficient(shape float64, length int) float64
	// Begin restarts r from level from toward the nominal target to.
	Begin(r *Ramp, from, to, shape, coeff float64)
	// Step advances r by one sample and returns the new level.
	Step(r *Ramp) float64
}

// Linear moves by a fixed slope per sample. Shape values are stored but have
// no effect on the curve.
type Linear struct{}

// Coefficient returns the reciprocal segment length.
func (Linear) Coefficient(_ float64, length int) float64 {
	return 1 / float64(core.ClampLength(length))
}

// Begin sets the slope so the ramp reaches to after 1/coeff samples.
func (Linear) Begin(r *Ramp, from, to, _, coeff float64) {
	r.Start = from
	r.Target = to
	r.Coeff = coeff
	r.Acc = (to - from) * coeff
	r.Level = from
}

// Step adds one slope increment.
func (Linear) Step(r *Ramp) float64 {
	r.Level += r.Acc
	return r.Level
}

// Exponential models an RC charging curve ("virtual analog").
//
// The shape parameter eps sets how far past the nominal target the curve
// aims: the effective target is to + (to-from)*eps, and the coefficient is
// chosen so the curve crosses the nominal target exactly after length
// samples. Small eps gives a sharply bent curve that gets close to the
// target early. Large eps aims far past the target, so the part actually
// rendered is nearly straight.
type Exponential struct{}

// Coefficient returns (eps/(1+eps))^(1/length).
func (Exponential) Coefficient(shape float64, length int) float64 {
	shape = clampShape(shape)
	return math.Pow(shape/(1+shape), 1/float64(core.ClampLength(length)))
}

// Begin aims the curve at the overshot target and resets the decaying term.
func (Exponential) Begin(r *Ramp, from, to, shape, coeff float64) {
	r.Start = from
	r.Target = to + (to-from)*clampShape(shape)
	r.Coeff = coeff
	r.Acc = 1
	r.Level = from
}

// Step decays the exponential term and blends start and target with it.
func (Exponential) Step(r *Ramp) float64 {
	r.Acc = core.FlushDenormals(r.Acc * r.Coeff)
	r.Level = r.Target*(1-r.Acc) + r.Start*r.Acc
	return r.Level
}

var (
	_ Shaper = Linear{}
	_ Shaper = Exponential{}
)
