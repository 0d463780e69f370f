// Package control hands envelope parameter changes from a control goroutine
// (UI, MIDI) to the goroutine that renders audio.
//
// An envelope.Envelope has no internal synchronization. A Controller owns
// one envelope and a single-producer/single-consumer Queue: the control side
// enqueues events, and the render side applies them at their scheduled
// sample position while rendering. Neither side takes a lock, and the
// render side never allocates.
package control
