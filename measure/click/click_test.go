package click

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-envelope/dsp/envelope"
)

func stepSignal(n, at int) []float64 {
	s := make([]float64, n)
	for i := at; i < n; i++ {
		s[i] = 1
	}

	return s
}

func TestAnalyzeStep(t *testing.T) {
	res, err := Analyze(stepSignal(1024, 100), Config{SampleRate: 48000, CutoffHz: 8000})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if res.MaxStep != 1 || res.MaxStepIndex != 100 {
		t.Fatalf("max step = %v at %d, want 1 at 100", res.MaxStep, res.MaxStepIndex)
	}
	if len(res.Clicks) != 1 || res.Clicks[0] != 100 {
		t.Fatalf("Clicks = %v, want [100]", res.Clicks)
	}

	// An impulse has a flat spectrum: 342 of 513 bins lie at or above
	// ceil(8000 / 46.875) = 171.
	if want := 342.0 / 513; math.Abs(res.HighBandRatio-want) > 1e-9 {
		t.Fatalf("HighBandRatio = %v, want %v", res.HighBandRatio, want)
	}
	if math.Abs(res.TotalEnergy-513) > 1e-6 {
		t.Fatalf("TotalEnergy = %v, want 513", res.TotalEnergy)
	}
}

func TestAnalyzeSmoothEnvelope(t *testing.T) {
	e := envelope.NewLinear(300, 300, 0.5, 300)
	e.Gate(true)

	buf := make([]float64, 1024)
	e.RenderBlock(buf)

	res, err := Analyze(buf, Config{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(res.Clicks) != 0 {
		t.Fatalf("Clicks = %v, want none", res.Clicks)
	}
	if math.Abs(res.MaxStep-1.0/300) > 1e-12 {
		t.Fatalf("MaxStep = %v, want %v", res.MaxStep, 1.0/300)
	}
	if res.HighBandRatio > 0.05 {
		t.Fatalf("HighBandRatio = %v, want < 0.05", res.HighBandRatio)
	}
}

func TestForcedReleaseDoesNotClick(t *testing.T) {
	for _, shape := range []float64{0.01, 1, 10} {
		e := envelope.NewExponential(400, 400, 0.5, 400, shape)
		e.Gate(true)

		buf := make([]float64, 2048)
		e.RenderBlock(buf[:200])
		e.Gate(false)
		e.RenderBlock(buf[200:300])
		e.Gate(true)
		e.RenderBlock(buf[300:])

		res, err := Analyze(buf, Config{StepThreshold: 0.05})
		if err != nil {
			t.Fatal(err)
		}

		if len(res.Clicks) != 0 {
			t.Fatalf("shape %v: clicks at %v", shape, res.Clicks)
		}
	}
}

func TestAnalyzeShortSignal(t *testing.T) {
	for _, s := range [][]float64{nil, {1}} {
		if _, err := Analyze(s, Config{}); !errors.Is(err, ErrShortSignal) {
			t.Fatalf("Analyze(%v) error = %v, want %v", s, err, ErrShortSignal)
		}
	}
}

func TestAnalyzeFlatSignal(t *testing.T) {
	res, err := Analyze([]float64{0.5, 0.5, 0.5, 0.5}, Config{})
	if err != nil {
		t.Fatal(err)
	}

	if res.MaxStep != 0 || res.TotalEnergy != 0 || res.HighBandRatio != 0 || res.Clicks != nil {
		t.Fatalf("flat signal result = %+v", res)
	}
}

func TestAnalyzerReuse(t *testing.T) {
	a := NewAnalyzer(Config{FFTSize: 512})
	sig := stepSignal(300, 10)

	first, err := a.Analyze(sig)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Analyze(stepSignal(2000, 5)); err != nil {
		t.Fatal(err)
	}

	again, err := a.Analyze(sig)
	if err != nil {
		t.Fatal(err)
	}

	if first.HighBandRatio != again.HighBandRatio || first.TotalEnergy != again.TotalEnergy {
		t.Fatalf("results differ after reuse: %+v vs %+v", first, again)
	}
}

func TestClicks(t *testing.T) {
	sig := []float64{0, 0.005, 0.5, 0.495, 0.1, 0.1}

	got := Clicks(sig, 0.01)
	want := []int{2, 4}

	if len(got) != len(want) {
		t.Fatalf("Clicks() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Clicks() = %v, want %v", got, want)
		}
	}
}

func TestClicksThresholdIsExclusive(t *testing.T) {
	// Steps of exactly 0.25 are representable and must not count.
	if got := Clicks([]float64{0, 0.25, 0.5, 0.25}, 0.25); got != nil {
		t.Fatalf("Clicks() = %v, want none", got)
	}
}

func TestMaxStepShort(t *testing.T) {
	if m, i := MaxStep([]float64{3}); m != 0 || i != 0 {
		t.Fatalf("MaxStep() = %v, %d; want 0, 0", m, i)
	}
}

func TestNormalizeConfig(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "defaults",
			in:   Config{},
			want: Config{SampleRate: 48000, CutoffHz: 8000, StepThreshold: 0.01},
		},
		{
			name: "cutoff above nyquist",
			in:   Config{SampleRate: 44100, CutoffHz: 30000, StepThreshold: 0.2, FFTSize: 1024},
			want: Config{SampleRate: 44100, CutoffHz: 22050, StepThreshold: 0.2, FFTSize: 1024},
		},
		{
			name: "invalid values",
			in:   Config{SampleRate: math.NaN(), CutoffHz: -1, StepThreshold: math.NaN(), FFTSize: -8},
			want: Config{SampleRate: 48000, CutoffHz: 8000, StepThreshold: 0.01},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeConfig(tt.in); got != tt.want {
				t.Fatalf("normalizeConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNextPowerOf2(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 2}, {1, 2}, {2, 2}, {3, 4}, {1023, 1024}, {1024, 1024}, {1025, 2048},
	}

	for _, tt := range tests {
		if got := nextPowerOf2(tt.in); got != tt.want {
			t.Errorf("nextPowerOf2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
