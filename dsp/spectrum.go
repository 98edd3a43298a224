package dsp

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// Spectrum computes the magnitude spectrum of fixed-size analysis frames.
// The Hann window and the scratch buffers are created once at construction;
// Analyze is a pure function of its input frame apart from reusing them.
type Spectrum struct {
	size   int
	window *Window
	frame  []float64 // windowed time-domain scratch
	mags   []float64 // size/2 magnitude bins
}

// NewSpectrum creates an analyzer for frames of the given size, which must
// be a power of two.
func NewSpectrum(size int) (*Spectrum, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("frame size must be a power of two, got %d", size)
	}

	return &Spectrum{
		size:   size,
		window: NewHannWindow(size),
		frame:  make([]float64, size),
		mags:   make([]float64, size/2),
	}, nil
}

// Size returns the frame size.
func (s *Spectrum) Size() int {
	return s.size
}

// Analyze windows the frame and returns its magnitude spectrum,
// sqrt(re²+im²)/N for the first N/2 bins. The returned slice is reused by
// the next call and must not be retained.
func (s *Spectrum) Analyze(samples []float32) ([]float64, error) {
	if len(samples) != s.size {
		return nil, fmt.Errorf("frame length (%d) doesn't match analyzer size (%d)", len(samples), s.size)
	}

	for i, v := range samples {
		s.frame[i] = float64(v)
	}
	if err := s.window.ApplyInPlace(s.frame); err != nil {
		return nil, err
	}

	bins := fft.FFTReal(s.frame)
	for i := range s.mags {
		s.mags[i] = cmplx.Abs(bins[i])
	}
	floats.Scale(1.0/float64(s.size), s.mags)

	return s.mags, nil
}

// RefineBin sharpens a spectral peak's location with a three-point parabolic
// fit: delta = 0.5*(left-right)/(left-2*center+right). Returns the
// fractional bin position, or the unrefined index when the peak sits at a
// spectrum edge or the fit is degenerate.
func RefineBin(mags []float64, bin int) float64 {
	if bin <= 0 || bin >= len(mags)-1 {
		return float64(bin)
	}

	left := mags[bin-1]
	center := mags[bin]
	right := mags[bin+1]

	denominator := left - 2.0*center + right
	if math.Abs(denominator) <= 1e-4 {
		return float64(bin)
	}

	return float64(bin) + 0.5*(left-right)/denominator
}
