package dsp

import (
	"fmt"
	"math"
)

// Window holds precomputed symmetric Hann coefficients:
// w[i] = 0.5 * (1 - cos(2π·i/(N-1))). The coefficients are generated once
// at construction and applied in place, so the analysis path does not
// allocate per frame.
type Window struct {
	size   int
	coeffs []float64
}

// NewHannWindow creates a symmetric Hann window of the given size.
func NewHannWindow(size int) *Window {
	w := &Window{
		size:   size,
		coeffs: make([]float64, size),
	}

	denominator := float64(size - 1)
	for i := 0; i < size; i++ {
		w.coeffs[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}

	return w
}

// ApplyInPlace multiplies the signal by the window coefficients.
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != w.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	for i := range signal {
		signal[i] *= w.coeffs[i]
	}

	return nil
}

// Coefficients returns a copy of the window coefficients.
func (w *Window) Coefficients() []float64 {
	coeffs := make([]float64, len(w.coeffs))
	copy(coeffs, w.coeffs)
	return coeffs
}

// Size returns the window size.
func (w *Window) Size() int {
	return w.size
}
