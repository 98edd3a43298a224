package dsp

import "math"

// RMS returns the root-mean-square level of a block of samples,
// sqrt(mean(x²)). An empty block reports zero. The accumulation runs in
// float64 to keep precision over long blocks.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0.0
	}

	var sumOfSquares float64
	for _, v := range samples {
		f := float64(v)
		sumOfSquares += f * f
	}

	return math.Sqrt(sumOfSquares / float64(len(samples)))
}
