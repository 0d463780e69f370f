package envelope

import (
	"fmt"

	"github.com/cwbudde/algo-envelope/dsp/core"
)

// SampleRate returns the sample rate used by the time-based setters.
func (e *Envelope) SampleRate() float64 { return e.cfg.SampleRate }

// SetSampleRate changes the rate used by later time-based setters. Segment
// lengths already configured in samples are not rescaled.
func (e *Envelope) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return fmt.Errorf("envelope: %w", err)
	}

	e.cfg.SampleRate = sampleRate

	return nil
}

// SetAttackTime sets the attack length in seconds and keeps its shape.
func (e *Envelope) SetAttackTime(seconds float64) error {
	n, err := e.samples(seconds)
	if err != nil {
		return fmt.Errorf("envelope: attack: %w", err)
	}

	e.SetAttackLength(n)

	return nil
}

// SetDecayTime sets the decay length in seconds and keeps its shape.
func (e *Envelope) SetDecayTime(seconds float64) error {
	n, err := e.samples(seconds)
	if err != nil {
		return fmt.Errorf("envelope: decay: %w", err)
	}

	e.SetDecayLength(n)

	return nil
}

// SetReleaseTime sets the release length in seconds and keeps its shape.
func (e *Envelope) SetReleaseTime(seconds float64) error {
	n, err := e.samples(seconds)
	if err != nil {
		return fmt.Errorf("envelope: release: %w", err)
	}

	e.SetReleaseLength(n)

	return nil
}

// SetTimes sets attack, decay and release lengths in seconds. Nothing is
// changed unless all three durations are valid.
func (e *Envelope) SetTimes(attack, decay, release float64) error {
	var lengths [3]int

	for i, seconds := range [3]float64{attack, decay, release} {
		n, err := e.samples(seconds)
		if err != nil {
			return fmt.Errorf("envelope: %w", err)
		}

		lengths[i] = n
	}

	e.SetAttackLength(lengths[0])
	e.SetDecayLength(lengths[1])
	e.SetReleaseLength(lengths[2])

	return nil
}

func (e *Envelope) samples(seconds float64) (int, error) {
	return core.SecondsToSamples(seconds, e.cfg.SampleRate)
}
