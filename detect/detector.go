package detect

import (
	"math"
	"sync/atomic"
)

// Detector is the shared contract of the two detection strategies. The
// block-processing side is driven from the real-time audio callback; the
// query side (DetectedNotes, Active) is safe from any goroutine.
type Detector interface {
	// Prepare configures the sample rate and expected block size before
	// streaming begins. Calling it again resets all internal state.
	Prepare(sampleRate float64, maxBlockSize int)

	// ProcessBlock analyzes one block of mono samples. Must only be
	// called from a single producer goroutine.
	ProcessBlock(samples []float32)

	// DetectedNotes returns a snapshot of the current stabilized notes,
	// sorted by descending magnitude.
	DetectedNotes() []DetectedNote

	// Active reports whether the most recent block cleared the noise gate.
	Active() bool

	// Reset clears buffers, history, and published notes.
	Reset()

	// SetMagnitudeThreshold sets the minimum peak magnitude, clamped to
	// [0, 1].
	SetMagnitudeThreshold(threshold float64)

	// SetNoiseGateThreshold sets the RMS level below which a block counts
	// as silence, clamped to [0, 1].
	SetNoiseGateThreshold(threshold float64)
}

// Config carries the tunable parameters of both detector strategies.
type Config struct {
	FFTSize            int     // analysis window length, power of two
	MagnitudeThreshold float64 // minimum peak magnitude
	NoiseGateThreshold float64 // RMS silence threshold

	// Polyphonic strategy
	MaxPolyphony      int     // peaks retained per frame
	HarmonicTolerance float64 // relative tolerance around 2x/3x/4x multiples
	RelativeFloor     float64 // fraction of the strongest magnitude to keep

	// Monophonic strategy
	StabilityFrames int // consecutive frames before a note is reported
}

// DefaultPolyphonicConfig returns the polyphonic defaults: a 2048-point
// window, up to 4 simultaneous notes, ±10% harmonic tolerance, and a 40%
// relative-magnitude floor.
func DefaultPolyphonicConfig() Config {
	return Config{
		FFTSize:            2048,
		MagnitudeThreshold: 0.02,
		NoiseGateThreshold: 0.001,
		MaxPolyphony:       4,
		HarmonicTolerance:  0.10,
		RelativeFloor:      0.40,
	}
}

// DefaultMonophonicConfig returns the monophonic defaults: a 4096-point
// window and two confirmation frames.
func DefaultMonophonicConfig() Config {
	return Config{
		FFTSize:            4096,
		MagnitudeThreshold: 0.02,
		NoiseGateThreshold: 0.001,
		StabilityFrames:    2,
	}
}

// atomicFloat64 lets the UI thread adjust thresholds while the audio
// thread reads them, without a lock on either side.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (a *atomicFloat64) Store(v float64) {
	a.bits.Store(math.Float64bits(v))
}

func (a *atomicFloat64) Load() float64 {
	return math.Float64frombits(a.bits.Load())
}

// clamp01 bounds a threshold to [0, 1].
func clamp01(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}
