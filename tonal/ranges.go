package tonal

import "math"

// Covered note span: C1 (~33 Hz) through C7. Reaches below low E on a
// bass and above the top of most melodic instruments.
const (
	rangeTableLow  = 24
	rangeTableHigh = 96
)

// NoteRange maps a contiguous frequency band to a single note. Boundaries
// are the geometric means with the adjacent semitones, so consecutive
// ranges tile the spectrum without gaps or overlap.
type NoteRange struct {
	MIDINote int
	Name     string
	Center   float64
	Min      float64
	Max      float64
}

// RangeTable is the immutable frequency-to-note lookup used by the
// monophonic detector. Built once at construction.
type RangeTable struct {
	ranges []NoteRange
}

// NewRangeTable builds the table for MIDI notes 24 through 96.
func NewRangeTable() *RangeTable {
	t := &RangeTable{
		ranges: make([]NoteRange, 0, rangeTableHigh-rangeTableLow+1),
	}

	for midiNote := rangeTableLow; midiNote <= rangeTableHigh; midiNote++ {
		center := MIDIToFrequency(midiNote)
		lower := MIDIToFrequency(midiNote - 1)
		upper := MIDIToFrequency(midiNote + 1)

		t.ranges = append(t.ranges, NoteRange{
			MIDINote: midiNote,
			Name:     NoteName(midiNote),
			Center:   center,
			Min:      math.Sqrt(lower * center),
			Max:      math.Sqrt(center * upper),
		})
	}

	return t
}

// Find returns the range whose band contains the frequency
// (min <= f < max). The second return is false when the frequency falls
// outside the table.
func (t *RangeTable) Find(frequency float64) (NoteRange, bool) {
	for _, r := range t.ranges {
		if frequency >= r.Min && frequency < r.Max {
			return r, true
		}
	}
	return NoteRange{}, false
}

// Ranges returns a copy of the table entries, ordered by ascending
// frequency.
func (t *RangeTable) Ranges() []NoteRange {
	ranges := make([]NoteRange, len(t.ranges))
	copy(ranges, t.ranges)
	return ranges
}
