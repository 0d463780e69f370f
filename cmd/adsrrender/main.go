// Command adsrrender renders an ADSR envelope for a simple gate script and
// writes it as a mono WAV file.
//
// Usage:
//
//	adsrrender [flags]
//
// Examples:
//
//	adsrrender -shape-kind linear -out lin.wav
//	adsrrender -ms -attack 5 -decay 80 -release 300 -hold -analyze
//	adsrrender -preset pad.json -gate-off 96000 -length 192000
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-envelope/measure/click"
)

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		die("%v", err)
	}

	env, err := buildEnvelope(opts.preset)
	if err != nil {
		die("invalid envelope: %v", err)
	}

	samples, err := render(env, opts.scenario)
	if err != nil {
		die("render failed: %v", err)
	}

	if err := writeWAVFile(opts.out, samples, opts.preset.SampleRate, opts.bits); err != nil {
		die("failed to write %s: %v", opts.out, err)
	}

	var res *click.Result
	if opts.analyze {
		r, err := click.Analyze(samples, click.Config{SampleRate: float64(opts.preset.SampleRate)})
		if err != nil {
			die("analysis failed: %v", err)
		}

		res = &r
	}

	if err := writeSummary(os.Stdout, env, samples, res); err != nil {
		die("failed to write summary: %v", err)
	}

	fmt.Printf("Wrote %s\n", opts.out)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
