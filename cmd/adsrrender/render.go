package main

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-envelope/dsp/core"
	"github.com/cwbudde/algo-envelope/dsp/envelope"
	"github.com/cwbudde/algo-envelope/dsp/envelope/control"
	"github.com/cwbudde/algo-envelope/measure/click"
)

var (
	errUnknownKind = errors.New("unknown shape kind (use linear or exp)")
	errBitDepth    = errors.New("bit depth must be 16, 24 or 32")
	errLength      = errors.New("length must be >= 1")
)

// Preset is the envelope part of a render, as stored in a preset JSON file.
// Segment times are samples, or milliseconds when Millis is set.
type Preset struct {
	Kind           string  `json:"kind"`
	Attack         float64 `json:"attack"`
	Decay          float64 `json:"decay"`
	Sustain        float64 `json:"sustain"`
	Release        float64 `json:"release"`
	Millis         bool    `json:"ms"`
	Shape          float64 `json:"shape"`
	SampleRate     int     `json:"sample_rate"`
	SustainEnabled bool    `json:"sustain_enabled"`
	Retrigger      bool    `json:"retrigger"`
}

// Scenario is the gate script. A negative GateOff keeps the gate high.
type Scenario struct {
	GateOn  int
	GateOff int
	Length  int
}

type options struct {
	preset   Preset
	scenario Scenario
	out      string
	bits     int
	analyze  bool
}

func defaultPreset() Preset {
	return Preset{
		Kind:       "exp",
		Attack:     2400,
		Decay:      4800,
		Sustain:    0.5,
		Release:    9600,
		Shape:      envelope.DefaultShape,
		SampleRate: 48000,
	}
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	p := defaultPreset()

	fs := flag.NewFlagSet("adsrrender", flag.ContinueOnError)
	fs.SetOutput(stderr)

	kind := fs.String("shape-kind", p.Kind, "segment curve: linear|exp")
	attack := fs.Float64("attack", p.Attack, "attack length (samples, or ms with -ms)")
	decay := fs.Float64("decay", p.Decay, "decay length (samples, or ms with -ms)")
	sustain := fs.Float64("sustain", p.Sustain, "sustain level")
	release := fs.Float64("release", p.Release, "release length (samples, or ms with -ms)")
	millis := fs.Bool("ms", p.Millis, "interpret segment lengths as milliseconds")
	shape := fs.Float64("shape", p.Shape, "curve shape for exp segments (larger is straighter)")
	rate := fs.Int("rate", p.SampleRate, "sample rate in Hz")
	hold := fs.Bool("hold", p.SustainEnabled, "hold the sustain level while the gate is high")
	retrigger := fs.Bool("retrigger", p.Retrigger, "loop release back into attack")
	presetPath := fs.String("preset", "", "optional preset JSON; explicit flags override it")

	gateOn := fs.Int("gate-on", 0, "sample at which the gate opens")
	gateOff := fs.Int("gate-off", 24000, "sample at which the gate closes (-1: never)")
	length := fs.Int("length", 48000, "rendered length in samples")
	out := fs.String("out", "adsr.wav", "output WAV path")
	bits := fs.Int("bits", 16, "WAV bit depth: 16|24|32")
	analyze := fs.Bool("analyze", false, "run click analysis on the rendered envelope")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: adsrrender [flags]\n\n")
		fmt.Fprintf(stderr, "Renders an ADSR envelope for a gate script and writes it as mono WAV.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  adsrrender -shape-kind linear -out lin.wav\n")
		fmt.Fprintf(stderr, "  adsrrender -ms -attack 5 -decay 80 -release 300 -hold -analyze\n")
		fmt.Fprintf(stderr, "  adsrrender -preset pad.json -gate-off 96000 -length 192000\n")
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *presetPath != "" {
		loaded, err := loadPreset(*presetPath, p)
		if err != nil {
			return options{}, err
		}

		p = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shape-kind":
			p.Kind = *kind
		case "attack":
			p.Attack = *attack
		case "decay":
			p.Decay = *decay
		case "sustain":
			p.Sustain = *sustain
		case "release":
			p.Release = *release
		case "ms":
			p.Millis = *millis
		case "shape":
			p.Shape = *shape
		case "rate":
			p.SampleRate = *rate
		case "hold":
			p.SustainEnabled = *hold
		case "retrigger":
			p.Retrigger = *retrigger
		}
	})

	opts := options{
		preset:   p,
		scenario: Scenario{GateOn: *gateOn, GateOff: *gateOff, Length: *length},
		out:      *out,
		bits:     *bits,
		analyze:  *analyze,
	}

	return opts, opts.validate()
}

func (o options) validate() error {
	if err := core.ValidateSampleRate(float64(o.preset.SampleRate)); err != nil {
		return err
	}

	if o.scenario.Length < 1 {
		return errLength
	}

	switch o.bits {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d", errBitDepth, o.bits)
	}

	return nil
}

// loadPreset reads a preset JSON file. Fields missing from the file keep
// their value from base.
func loadPreset(path string, base Preset) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}

	p := base
	if err := json.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("parse preset %s: %w", path, err)
	}

	return p, nil
}

func shaperFor(kind string) (envelope.Shaper, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "linear", "lin":
		return envelope.Linear{}, nil
	case "exp", "exponential", "va":
		return envelope.Exponential{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownKind, kind)
	}
}

func buildEnvelope(p Preset) (*envelope.Envelope, error) {
	shaper, err := shaperFor(p.Kind)
	if err != nil {
		return nil, err
	}

	env := envelope.New(shaper,
		int(math.Round(p.Attack)), int(math.Round(p.Decay)), p.Sustain, int(math.Round(p.Release)),
		p.Shape, core.WithSampleRate(float64(p.SampleRate)))

	if p.Millis {
		if err := env.SetTimes(p.Attack/1000, p.Decay/1000, p.Release/1000); err != nil {
			return nil, err
		}
	}

	env.SetSustainEnabled(p.SustainEnabled)
	env.SetRetrigger(p.Retrigger)

	return env, nil
}

// render plays sc through env and returns the rendered envelope.
func render(env *envelope.Envelope, sc Scenario) ([]float64, error) {
	c, err := control.NewController(env, 0)
	if err != nil {
		return nil, err
	}

	events := []control.Event{{At: int64(sc.GateOn), Kind: control.KindGate, Flag: true}}
	if sc.GateOff >= 0 {
		events = append(events, control.Event{At: int64(sc.GateOff), Kind: control.KindGate})
	}

	slices.SortStableFunc(events, func(a, b control.Event) int { return cmp.Compare(a.At, b.At) })

	ctx := context.Background()
	for _, ev := range events {
		if err := c.Schedule(ctx, ev); err != nil {
			return nil, err
		}
	}

	out := make([]float64, sc.Length)
	block := env.BlockSize()

	for off := 0; off < len(out); off += block {
		c.RenderBlock(out[off:min(off+block, len(out))])
	}

	return out, nil
}

// quantize converts samples in [-1, 1] to signed integer PCM of the given
// bit depth. Out-of-range samples are clipped.
func quantize(samples []float64, bits int) []int {
	scale := float64(int64(1)<<(bits-1) - 1)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(math.Round(core.Clamp(s, -1, 1) * scale))
	}

	return data
}

func writeWAV(w io.WriteSeeker, samples []float64, sampleRate, bits int) error {
	enc := wav.NewEncoder(w, sampleRate, bits, 1, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           quantize(samples, bits),
		SourceBitDepth: bits,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav write: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav close: %w", err)
	}

	return nil
}

func writeWAVFile(path string, samples []float64, sampleRate, bits int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := writeWAV(f, samples, sampleRate, bits); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func writeSummary(w io.Writer, env *envelope.Envelope, samples []float64, res *click.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	peak := 0.0
	for _, s := range samples {
		peak = max(peak, math.Abs(s))
	}

	segments := []struct {
		name   string
		length int
	}{
		{"Attack", env.Attack().Length},
		{"Decay", env.Decay().Length},
		{"Release", env.Release().Length},
	}

	rows := [][2]string{{"Samples", fmt.Sprintf("%d", len(samples))}}

	for _, seg := range segments {
		seconds, err := core.SamplesToSeconds(seg.length, env.SampleRate())
		if err != nil {
			return err
		}

		rows = append(rows, [2]string{seg.name, fmt.Sprintf("%d samples (%.2f ms)", seg.length, seconds*1000)})
	}

	rows = append(rows,
		[2]string{"Sustain", fmt.Sprintf("%.4f", env.SustainLevel())},
		[2]string{"Peak", fmt.Sprintf("%.6f", peak)},
		[2]string{"Final state", env.State().String()},
	)

	if res != nil {
		rows = append(rows,
			[2]string{"Max step", fmt.Sprintf("%.6f @ %d", res.MaxStep, res.MaxStepIndex)},
			[2]string{"Clicks", fmt.Sprintf("%d", len(res.Clicks))},
			[2]string{"HF energy ratio", fmt.Sprintf("%.6f", res.HighBandRatio)},
		)
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}

	return tw.Flush()
}
