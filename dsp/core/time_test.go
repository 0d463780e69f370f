package core

import (
	"errors"
	"math"
	"testing"
)

func TestSecondsToSamples(t *testing.T) {
	tests := []struct {
		name       string
		seconds    float64
		sampleRate float64
		want       int
		wantErr    error
	}{
		{name: "10ms at 48k", seconds: 0.01, sampleRate: 48000, want: 480},
		{name: "rounds", seconds: 0.0000104, sampleRate: 48000, want: 1},
		{name: "zero coerced", seconds: 0, sampleRate: 44100, want: 1},
		{name: "one second", seconds: 1, sampleRate: 44100, want: 44100},
		{name: "negative duration", seconds: -1, sampleRate: 48000, wantErr: ErrInvalidDuration},
		{name: "NaN duration", seconds: math.NaN(), sampleRate: 48000, wantErr: ErrInvalidDuration},
		{name: "zero rate", seconds: 1, sampleRate: 0, wantErr: ErrInvalidSampleRate},
		{name: "Inf rate", seconds: 1, sampleRate: math.Inf(1), wantErr: ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SecondsToSamples(tt.seconds, tt.sampleRate)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("SecondsToSamples() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSamplesToSeconds(t *testing.T) {
	got, err := SamplesToSeconds(24000, 48000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0.5 {
		t.Fatalf("SamplesToSeconds() = %v, want 0.5", got)
	}

	if _, err := SamplesToSeconds(10, -1); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidSampleRate)
	}
}
