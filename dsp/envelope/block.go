package envelope

import (
	"errors"

	"github.com/cwbudde/algo-envelope/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// ErrLengthMismatch is returned by Process when dst and src differ in length.
var ErrLengthMismatch = errors.New("envelope: dst and src must have same length")

// RenderBlock fills dst with successive Render outputs.
func (e *Envelope) RenderBlock(dst []float64) {
	for i := 0; i < len(dst); {
		if !e.state.Ramping() {
			// Idle and sustain hold their level until the next gate.
			core.Fill(dst[i:], e.ramp.Level)
			return
		}

		dst[i] = e.Render()
		i++
	}
}

// ProcessInPlace multiplies buf by the envelope, advancing it len(buf)
// samples. It uses the scratch block allocated at construction and does not
// allocate.
func (e *Envelope) ProcessInPlace(buf []float64) {
	for off := 0; off < len(buf); {
		n := min(len(e.scratch), len(buf)-off)
		env := e.scratch[:n]

		e.RenderBlock(env)
		vecmath.MulBlockInPlace(buf[off:off+n], env)

		off += n
	}
}

// Process writes src multiplied by the envelope into dst.
func (e *Envelope) Process(dst, src []float64) error {
	if len(dst) != len(src) {
		return ErrLengthMismatch
	}

	for off := 0; off < len(src); {
		n := min(len(e.scratch), len(src)-off)
		env := e.scratch[:n]

		e.RenderBlock(env)
		vecmath.MulBlock(dst[off:off+n], src[off:off+n], env)

		off += n
	}

	return nil
}

// BlockSize returns the chunk size used by ProcessInPlace and Process.
func (e *Envelope) BlockSize() int { return len(e.scratch) }
