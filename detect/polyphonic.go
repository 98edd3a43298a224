package detect

import (
	"fmt"
	"math"
	"sort"

	"github.com/monolithaudio/maestro/dsp"
	"github.com/monolithaudio/maestro/logging"
	"github.com/monolithaudio/maestro/tonal"
)

// Bins 0-3 carry DC and rectification artifacts and are excluded from the
// peak search.
const polyPeakSearchStart = 4

// Polyphonic detects up to MaxPolyphony simultaneous fundamentals per
// analysis frame. Local spectral maxima are ranked by magnitude, harmonics
// of lower accepted peaks are discarded, surviving peaks are refined with
// parabolic interpolation and mapped to MIDI notes, and notes far below
// the strongest one are dropped as leakage.
type Polyphonic struct {
	cfg        Config
	sampleRate float64

	ring     *dsp.Ring
	spectrum *dsp.Spectrum
	frame    []float32

	magThreshold atomicFloat64
	noiseGate    atomicFloat64

	pub *notePublisher
}

type spectralPeak struct {
	bin int
	mag float64
}

// NewPolyphonic creates a polyphonic detector. Zero config fields fall
// back to DefaultPolyphonicConfig values.
func NewPolyphonic(cfg Config) (*Polyphonic, error) {
	defaults := DefaultPolyphonicConfig()
	if cfg.FFTSize == 0 {
		cfg.FFTSize = defaults.FFTSize
	}
	if cfg.MaxPolyphony == 0 {
		cfg.MaxPolyphony = defaults.MaxPolyphony
	}
	if cfg.HarmonicTolerance == 0 {
		cfg.HarmonicTolerance = defaults.HarmonicTolerance
	}
	if cfg.RelativeFloor == 0 {
		cfg.RelativeFloor = defaults.RelativeFloor
	}

	spectrum, err := dsp.NewSpectrum(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("polyphonic detector: %w", err)
	}

	p := &Polyphonic{
		cfg:        cfg,
		sampleRate: 44100.0,
		ring:       dsp.NewRing(cfg.FFTSize),
		spectrum:   spectrum,
		frame:      make([]float32, cfg.FFTSize),
		pub:        newNotePublisher(),
	}
	p.magThreshold.Store(clamp01(cfg.MagnitudeThreshold))
	p.noiseGate.Store(clamp01(cfg.NoiseGateThreshold))

	return p, nil
}

// Prepare sets the sample rate and resets all state.
func (p *Polyphonic) Prepare(sampleRate float64, maxBlockSize int) {
	p.sampleRate = sampleRate
	p.Reset()

	logging.Debug("polyphonic detector prepared", logging.Fields{
		"sample_rate": sampleRate,
		"block_size":  maxBlockSize,
		"fft_size":    p.cfg.FFTSize,
	})
}

// ProcessBlock ingests one block of mono samples and runs an analysis
// frame once a full window has accumulated.
func (p *Polyphonic) ProcessBlock(samples []float32) {
	if len(samples) == 0 {
		return
	}

	if dsp.RMS(samples) < p.noiseGate.Load() {
		p.pub.setActive(false)
		p.pub.clear()
		return
	}
	p.pub.setActive(true)

	p.ring.Write(samples)

	if p.ring.Available() >= p.cfg.FFTSize {
		p.ring.Read(p.frame)

		mags, err := p.spectrum.Analyze(p.frame)
		if err != nil {
			return
		}
		p.pub.publish(p.resolve(mags))
	}
}

// resolve turns a magnitude spectrum into the frame's detected notes.
func (p *Polyphonic) resolve(mags []float64) []DetectedNote {
	threshold := p.magThreshold.Load()

	var peaks []spectralPeak
	for i := polyPeakSearchStart; i < len(mags)-1; i++ {
		if mags[i] > threshold && mags[i] > mags[i-1] && mags[i] > mags[i+1] {
			peaks = append(peaks, spectralPeak{bin: i, mag: mags[i]})
		}
	}
	if len(peaks) == 0 {
		return nil
	}

	// Strongest candidates first, capped at the polyphony limit.
	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].mag > peaks[j].mag
	})
	if len(peaks) > p.cfg.MaxPolyphony {
		peaks = peaks[:p.cfg.MaxPolyphony]
	}

	// Ascending frequency order guarantees a fundamental is accepted
	// before any of its harmonics come up for evaluation.
	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].bin < peaks[j].bin
	})

	binHz := p.sampleRate / float64(p.cfg.FFTSize)
	var accepted []spectralPeak
	var notes []DetectedNote

	for _, peak := range peaks {
		if p.isHarmonic(peak, accepted, binHz) {
			continue
		}
		accepted = append(accepted, peak)

		frequency := dsp.RefineBin(mags, peak.bin) * binHz
		midiNote := tonal.FrequencyToMIDI(frequency)
		if midiNote < 0 {
			continue
		}

		notes = append(notes, DetectedNote{
			Name:      tonal.NoteNameWithOctave(midiNote),
			Frequency: frequency,
			Magnitude: peak.mag,
			MIDINote:  midiNote,
		})
	}
	if len(notes) == 0 {
		return nil
	}

	sortByMagnitude(notes)

	// Relative gate: leakage that survived harmonic filtering still sits
	// well below a genuinely played note.
	floor := notes[0].Magnitude * p.cfg.RelativeFloor
	kept := notes[:0]
	for _, note := range notes {
		if note.Magnitude >= floor {
			kept = append(kept, note)
		}
	}
	return kept
}

// isHarmonic reports whether the peak lies within the configured tolerance
// of the 2nd-4th multiple of an already accepted lower peak.
func (p *Polyphonic) isHarmonic(peak spectralPeak, accepted []spectralPeak, binHz float64) bool {
	frequency := float64(peak.bin) * binHz

	for _, fundamental := range accepted {
		base := float64(fundamental.bin) * binHz
		for multiple := 2; multiple <= 4; multiple++ {
			target := base * float64(multiple)
			if math.Abs(frequency-target) <= p.cfg.HarmonicTolerance*target {
				return true
			}
		}
	}
	return false
}

// DetectedNotes returns a copy of the current notes, strongest first.
func (p *Polyphonic) DetectedNotes() []DetectedNote {
	return p.pub.Notes()
}

// Active reports the noise-gate state of the last processed block.
func (p *Polyphonic) Active() bool {
	return p.pub.Active()
}

// Reset clears the ring buffer and published notes.
func (p *Polyphonic) Reset() {
	p.ring.Reset()
	p.pub.clear()
	p.pub.setActive(false)
}

// SetMagnitudeThreshold sets the minimum peak magnitude, clamped to [0, 1].
func (p *Polyphonic) SetMagnitudeThreshold(threshold float64) {
	p.magThreshold.Store(clamp01(threshold))
}

// SetNoiseGateThreshold sets the RMS silence threshold, clamped to [0, 1].
func (p *Polyphonic) SetNoiseGateThreshold(threshold float64) {
	p.noiseGate.Store(clamp01(threshold))
}
