package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-envelope/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(128),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=44100 blockSize=128
}

func ExampleSecondsToSamples() {
	n, err := core.SecondsToSamples(0.005, 48000)
	if err != nil {
		panic(err)
	}

	fmt.Println(n)

	// Output:
	// 240
}
