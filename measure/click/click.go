package click

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultSampleRate    = 48000.0
	defaultStepThreshold = 0.01
	// defaultCutoffRatio places the cutoff at a sixth of the sample rate
	// (8 kHz at 48 kHz).
	defaultCutoffRatio = 1.0 / 6
)

// ErrShortSignal is returned when fewer than two samples are analyzed.
var ErrShortSignal = errors.New("click: signal needs at least 2 samples")

// Config holds click analysis parameters. Zero values select defaults.
type Config struct {
	SampleRate    float64 // Hz, default 48000
	FFTSize       int     // rounded up to a power of two covering the signal
	CutoffHz      float64 // start of the high band, default SampleRate/6
	StepThreshold float64 // absolute step counted as a click, default 0.01
}

// Result holds click analysis results.
type Result struct {
	MaxStep        float64
	MaxStepIndex   int   // sample index whose step from its predecessor is MaxStep
	Clicks         []int // sample indices with a step above StepThreshold
	HighBandEnergy float64
	TotalEnergy    float64
	HighBandRatio  float64 // HighBandEnergy / TotalEnergy, 0 for a flat signal
}

// Analyzer performs click analysis and reuses its FFT plan and buffers
// between calls of the same size.
type Analyzer struct {
	cfg Config

	plan     *algofft.Plan[complex128]
	in, out  []complex128
	re, im   []float64
	power    []float64
	planSize int
}

// NewAnalyzer creates an analyzer for cfg.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: normalizeConfig(cfg)}
}

// Config returns the normalized configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// Analyze is a one-shot click analysis of signal.
func Analyze(signal []float64, cfg Config) (Result, error) {
	return NewAnalyzer(cfg).Analyze(signal)
}

// Analyze measures signal.
func (a *Analyzer) Analyze(signal []float64) (Result, error) {
	if len(signal) < 2 {
		return Result{}, ErrShortSignal
	}

	res := Result{}
	res.MaxStep, res.MaxStepIndex = MaxStep(signal)
	res.Clicks = Clicks(signal, a.cfg.StepThreshold)

	fftSize := nextPowerOf2(max(a.cfg.FFTSize, len(signal)-1))
	if err := a.ensurePlan(fftSize); err != nil {
		return Result{}, err
	}

	clear(a.in)
	for i := 1; i < len(signal); i++ {
		a.in[i-1] = complex(signal[i]-signal[i-1], 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return Result{}, fmt.Errorf("click: fft: %w", err)
	}

	bins := fftSize/2 + 1
	for k := 0; k < bins; k++ {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	vecmath.Power(a.power, a.re, a.im)

	binHz := a.cfg.SampleRate / float64(fftSize)
	cutoffBin := int(math.Ceil(a.cfg.CutoffHz / binHz))

	for k, p := range a.power {
		res.TotalEnergy += p
		if k >= cutoffBin {
			res.HighBandEnergy += p
		}
	}

	if res.TotalEnergy > 0 {
		res.HighBandRatio = res.HighBandEnergy / res.TotalEnergy
	}

	return res, nil
}

func (a *Analyzer) ensurePlan(fftSize int) error {
	if a.plan != nil && a.planSize == fftSize {
		return nil
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return fmt.Errorf("click: fft plan: %w", err)
	}

	bins := fftSize/2 + 1
	a.plan = plan
	a.planSize = fftSize
	a.in = make([]complex128, fftSize)
	a.out = make([]complex128, fftSize)
	a.re = make([]float64, bins)
	a.im = make([]float64, bins)
	a.power = make([]float64, bins)

	return nil
}

// MaxStep returns the largest absolute difference between neighbouring
// samples and the index of the later sample. It returns (0, 0) for signals
// shorter than two samples.
func MaxStep(signal []float64) (float64, int) {
	maxStep, idx := 0.0, 0
	for i := 1; i < len(signal); i++ {
		if d := math.Abs(signal[i] - signal[i-1]); d > maxStep {
			maxStep, idx = d, i
		}
	}

	return maxStep, idx
}

// Clicks returns the indices of samples whose absolute step from their
// predecessor exceeds threshold.
func Clicks(signal []float64, threshold float64) []int {
	var idx []int
	for i := 1; i < len(signal); i++ {
		if math.Abs(signal[i]-signal[i-1]) > threshold {
			idx = append(idx, i)
		}
	}

	return idx
}

func normalizeConfig(cfg Config) Config {
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		cfg.SampleRate = defaultSampleRate
	}

	nyquist := cfg.SampleRate / 2
	if cfg.CutoffHz <= 0 || math.IsNaN(cfg.CutoffHz) {
		cfg.CutoffHz = cfg.SampleRate * defaultCutoffRatio
	}

	if cfg.CutoffHz > nyquist {
		cfg.CutoffHz = nyquist
	}

	if cfg.StepThreshold <= 0 || math.IsNaN(cfg.StepThreshold) {
		cfg.StepThreshold = defaultStepThreshold
	}

	if cfg.FFTSize < 0 {
		cfg.FFTSize = 0
	}

	return cfg
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 2
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
