package dsp

import (
	"math"
	"testing"
)

// makeSine synthesizes amp*sin(2π*cycles*i/n), i.e. a tone landing exactly
// on bin `cycles` of an n-point transform.
func makeSine(cycles float64, n int, amp float64) []float32 {
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(amp * math.Sin(2*math.Pi*cycles*float64(i)/float64(n)))
	}
	return samples
}

func TestNewSpectrumValidatesSize(t *testing.T) {
	for _, size := range []int{0, -4, 100, 1000} {
		if _, err := NewSpectrum(size); err == nil {
			t.Errorf("expected error for size %d", size)
		}
	}
	if _, err := NewSpectrum(2048); err != nil {
		t.Errorf("unexpected error for size 2048: %v", err)
	}
}

func TestSpectrumSinePeak(t *testing.T) {
	const n = 1024
	s, err := NewSpectrum(n)
	if err != nil {
		t.Fatal(err)
	}

	mags, err := s.Analyze(makeSine(40, n, 1.0))
	if err != nil {
		t.Fatal(err)
	}
	if len(mags) != n/2 {
		t.Fatalf("expected %d bins, got %d", n/2, len(mags))
	}

	peakBin := 0
	for i, m := range mags {
		if m > mags[peakBin] {
			peakBin = i
		}
	}
	if peakBin != 40 {
		t.Errorf("expected peak at bin 40, got %d", peakBin)
	}

	// A full-scale on-bin sine under a Hann window lands near A/4.
	if mags[40] < 0.2 || mags[40] > 0.3 {
		t.Errorf("expected peak magnitude near 0.25, got %v", mags[40])
	}

	// Far-away bins hold only leakage.
	if mags[200] > 0.01 {
		t.Errorf("expected negligible magnitude at bin 200, got %v", mags[200])
	}
}

func TestSpectrumRejectsWrongFrameLength(t *testing.T) {
	s, err := NewSpectrum(512)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Analyze(make([]float32, 256)); err == nil {
		t.Error("expected error for short frame")
	}
}

func TestRefineBin(t *testing.T) {
	t.Run("symmetric peak stays put", func(t *testing.T) {
		mags := []float64{0, 0.5, 1.0, 0.5, 0}
		if got := RefineBin(mags, 2); got != 2.0 {
			t.Errorf("expected 2.0, got %v", got)
		}
	})

	t.Run("asymmetric peak shifts toward larger neighbor", func(t *testing.T) {
		mags := []float64{0, 0.2, 1.0, 0.8, 0}
		got := RefineBin(mags, 2)
		if got <= 2.0 || got >= 3.0 {
			t.Errorf("expected refined index in (2, 3), got %v", got)
		}

		mags = []float64{0, 0.8, 1.0, 0.2, 0}
		got = RefineBin(mags, 2)
		if got >= 2.0 || got <= 1.0 {
			t.Errorf("expected refined index in (1, 2), got %v", got)
		}
	})

	t.Run("degenerate fit falls back to integer bin", func(t *testing.T) {
		mags := []float64{0.5, 0.5, 0.5, 0.5, 0.5}
		if got := RefineBin(mags, 2); got != 2.0 {
			t.Errorf("expected 2.0, got %v", got)
		}
	})

	t.Run("edges are never refined", func(t *testing.T) {
		mags := []float64{1.0, 0.5, 0.2}
		if got := RefineBin(mags, 0); got != 0.0 {
			t.Errorf("expected 0.0, got %v", got)
		}
		if got := RefineBin(mags, 2); got != 2.0 {
			t.Errorf("expected 2.0, got %v", got)
		}
	})
}

func TestRMS(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
		want    float64
	}{
		{"empty", nil, 0.0},
		{"silence", make([]float32, 64), 0.0},
		{"constant half", []float32{0.5, -0.5, 0.5, -0.5}, 0.5},
		{"unit square wave", []float32{1, -1, 1, -1}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RMS(tt.samples); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	// A sine's RMS is amp/sqrt(2).
	got := RMS(makeSine(4, 1024, 0.8))
	want := 0.8 / math.Sqrt2
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("expected %v, got %v", want, got)
	}
}
