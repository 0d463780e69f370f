// Package click measures discontinuities in rendered control signals such as
// envelopes.
//
// Two views are reported:
//
//   - Time domain: the largest sample-to-sample step and every position where
//     the step exceeds a threshold.
//   - Frequency domain: the share of first-difference energy above a cutoff
//     frequency. A jump in the signal becomes an impulse in its first
//     difference and spreads energy over the whole band, while a smooth ramp
//     keeps it near DC.
//
// # Usage
//
//	res, err := click.Analyze(rendered, click.Config{SampleRate: 48000})
//	fmt.Printf("max step %.4f at %d, HF ratio %.3f\n",
//		res.MaxStep, res.MaxStepIndex, res.HighBandRatio)
package click
