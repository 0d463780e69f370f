// Package envelope provides a sample-accurate ADSR envelope generator for
// synthesizer and effect control signals.
//
// One state machine drives both curve families. A [Shaper] strategy decides
// how a segment moves from its start level to its target:
//   - [Linear]: constant slope per sample.
//   - [Exponential]: RC-style charging curve with a variable shape. The
//     curve aims past the target and crosses it exactly at the end of the
//     segment.
//
// The generator is driven by two calls: [Envelope.Gate] on note on/off, and
// [Envelope.Render] once per sample. Segment lengths, shapes and the sustain
// level may be changed at any time. Changing the active segment re-aims the
// running ramp from the current output, so the signal never jumps.
//
// An Envelope is not safe for concurrent use. Render, RenderBlock and
// ProcessInPlace never allocate and never block; hosts that change
// parameters from another goroutine should funnel them through the
// control subpackage.
package envelope
