package detect

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/monolithaudio/maestro/dsp"
	"github.com/monolithaudio/maestro/logging"
	"github.com/monolithaudio/maestro/tonal"
)

// Bins 0-1 carry DC and sub-audio rumble. With a 4096-point window at
// 44.1 kHz, bin 2 sits near 21 Hz, keeping low bass notes reachable.
const monoPeakSearchStart = 2

// Monophonic reports the single strongest pitch per frame, mapped through
// a fixed frequency-range table and confirmed across consecutive frames.
// One dominant voice is preferred over chord detection; single-frame
// transients never reach the output.
type Monophonic struct {
	cfg        Config
	sampleRate float64

	ring     *dsp.Ring
	spectrum *dsp.Spectrum
	frame    []float32
	table    *tonal.RangeTable

	history map[int]*noteHistory

	magThreshold atomicFloat64
	noiseGate    atomicFloat64

	pub *notePublisher
}

// noteHistory tracks how long one MIDI note has persisted. An entry is
// deleted the moment its note misses a frame.
type noteHistory struct {
	consecutiveFrames int
	totalMagnitude    float64
}

// NewMonophonic creates a monophonic detector. Zero config fields fall
// back to DefaultMonophonicConfig values.
func NewMonophonic(cfg Config) (*Monophonic, error) {
	defaults := DefaultMonophonicConfig()
	if cfg.FFTSize == 0 {
		cfg.FFTSize = defaults.FFTSize
	}
	if cfg.StabilityFrames == 0 {
		cfg.StabilityFrames = defaults.StabilityFrames
	}

	spectrum, err := dsp.NewSpectrum(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("monophonic detector: %w", err)
	}

	m := &Monophonic{
		cfg:        cfg,
		sampleRate: 44100.0,
		ring:       dsp.NewRing(cfg.FFTSize),
		spectrum:   spectrum,
		frame:      make([]float32, cfg.FFTSize),
		table:      tonal.NewRangeTable(),
		history:    make(map[int]*noteHistory),
		pub:        newNotePublisher(),
	}
	m.magThreshold.Store(clamp01(cfg.MagnitudeThreshold))
	m.noiseGate.Store(clamp01(cfg.NoiseGateThreshold))

	return m, nil
}

// Prepare sets the sample rate and resets all state.
func (m *Monophonic) Prepare(sampleRate float64, maxBlockSize int) {
	m.sampleRate = sampleRate
	m.Reset()

	logging.Debug("monophonic detector prepared", logging.Fields{
		"sample_rate": sampleRate,
		"block_size":  maxBlockSize,
		"fft_size":    m.cfg.FFTSize,
	})
}

// ProcessBlock ingests one block of mono samples and runs an analysis
// frame once a full window has accumulated.
func (m *Monophonic) ProcessBlock(samples []float32) {
	if len(samples) == 0 {
		return
	}

	if dsp.RMS(samples) < m.noiseGate.Load() {
		m.pub.setActive(false)
		m.pub.clear()
		return
	}
	m.pub.setActive(true)

	m.ring.Write(samples)

	if m.ring.Available() >= m.cfg.FFTSize {
		m.ring.Read(m.frame)

		mags, err := m.spectrum.Analyze(m.frame)
		if err != nil {
			return
		}
		m.updateStability(m.resolve(mags))
	}
}

// resolve picks the frame's candidate: the globally strongest bin, if it
// clears the threshold and maps into the note table.
func (m *Monophonic) resolve(mags []float64) []DetectedNote {
	strongestBin := floats.MaxIdx(mags[monoPeakSearchStart:]) + monoPeakSearchStart
	if mags[strongestBin] <= m.magThreshold.Load() {
		return nil
	}

	frequency := dsp.RefineBin(mags, strongestBin) * m.sampleRate / float64(m.cfg.FFTSize)

	noteRange, ok := m.table.Find(frequency)
	if !ok {
		return nil
	}

	return []DetectedNote{{
		Name:      noteRange.Name,
		Frequency: frequency,
		Magnitude: mags[strongestBin],
		MIDINote:  noteRange.MIDINote,
	}}
}

// updateStability advances the per-note history and publishes the notes
// that have persisted long enough, using the current frame's magnitude.
func (m *Monophonic) updateStability(candidates []DetectedNote) {
	for _, candidate := range candidates {
		if entry, ok := m.history[candidate.MIDINote]; ok {
			entry.consecutiveFrames++
			entry.totalMagnitude += candidate.Magnitude
		} else {
			m.history[candidate.MIDINote] = &noteHistory{
				consecutiveFrames: 1,
				totalMagnitude:    candidate.Magnitude,
			}
		}
	}

	// Absence is terminal: no decay, no grace period.
	for midiNote := range m.history {
		present := false
		for _, candidate := range candidates {
			if candidate.MIDINote == midiNote {
				present = true
				break
			}
		}
		if !present {
			delete(m.history, midiNote)
		}
	}

	var stable []DetectedNote
	for midiNote, entry := range m.history {
		if entry.consecutiveFrames < m.cfg.StabilityFrames {
			continue
		}
		for _, candidate := range candidates {
			if candidate.MIDINote == midiNote {
				stable = append(stable, candidate)
				break
			}
		}
	}

	sortByMagnitude(stable)
	m.pub.publish(stable)
}

// DetectedNotes returns a copy of the current stabilized notes, strongest
// first.
func (m *Monophonic) DetectedNotes() []DetectedNote {
	return m.pub.Notes()
}

// Active reports the noise-gate state of the last processed block.
func (m *Monophonic) Active() bool {
	return m.pub.Active()
}

// Reset clears the ring buffer, note history, and published notes.
func (m *Monophonic) Reset() {
	m.ring.Reset()
	clear(m.history)
	m.pub.clear()
	m.pub.setActive(false)
}

// SetMagnitudeThreshold sets the minimum peak magnitude, clamped to [0, 1].
func (m *Monophonic) SetMagnitudeThreshold(threshold float64) {
	m.magThreshold.Store(clamp01(threshold))
}

// SetNoiseGateThreshold sets the RMS silence threshold, clamped to [0, 1].
func (m *Monophonic) SetNoiseGateThreshold(threshold float64) {
	m.noiseGate.Store(clamp01(threshold))
}
