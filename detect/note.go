package detect

import "sort"

// DetectedNote is one pitch found in an analysis frame. Values are built
// fresh every frame and never mutated afterwards.
type DetectedNote struct {
	Name      string  // note name, e.g. "C#" or "A4" depending on detector
	Frequency float64 // detected frequency in Hz
	Magnitude float64 // normalized spectral magnitude
	MIDINote  int     // MIDI note number 0-127, -1 if unmapped
}

// sortByMagnitude orders notes strongest-first.
func sortByMagnitude(notes []DetectedNote) {
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].Magnitude > notes[j].Magnitude
	})
}
