package core

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSampleRate is returned when a sample rate is not positive and finite.
	ErrInvalidSampleRate = errors.New("sample rate must be positive and finite")
	// ErrInvalidDuration is returned when a duration is negative or not finite.
	ErrInvalidDuration = errors.New("duration must be non-negative and finite")
)

// ValidateSampleRate checks that sampleRate can be used for time conversion.
func ValidateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !IsFinite(sampleRate) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	return nil
}

// SecondsToSamples converts a duration in seconds to a whole number of samples,
// rounding to the nearest sample. The result is never below one sample.
func SecondsToSamples(seconds, sampleRate float64) (int, error) {
	if err := ValidateSampleRate(sampleRate); err != nil {
		return 0, err
	}

	if seconds < 0 || !IsFinite(seconds) {
		return 0, fmt.Errorf("%w: %f", ErrInvalidDuration, seconds)
	}

	return ClampLength(int(math.Round(seconds * sampleRate))), nil
}

// SamplesToSeconds converts a sample count to seconds at sampleRate.
func SamplesToSeconds(samples int, sampleRate float64) (float64, error) {
	if err := ValidateSampleRate(sampleRate); err != nil {
		return 0, err
	}

	return float64(samples) / sampleRate, nil
}
