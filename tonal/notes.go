package tonal

import (
	"math"
	"strconv"
)

// Pitch-class names by semitone offset from C. Read-only after init;
// shared freely across goroutines.
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Enharmonic spellings accepted on input (e.g. recorded note logs written
// with flats).
var pitchClasses = map[string]int{
	"C": 0, "C#": 1, "Db": 1, "D": 2, "D#": 3, "Eb": 3,
	"E": 4, "F": 5, "F#": 6, "Gb": 6, "G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10, "B": 11,
}

// MIDIToFrequency converts a MIDI note number to its equal-tempered
// frequency: 440 * 2^((midiNote-69)/12).
func MIDIToFrequency(midiNote int) float64 {
	return 440.0 * math.Pow(2.0, float64(midiNote-69)/12.0)
}

// FrequencyToMIDI converts a frequency in Hz to the nearest MIDI note
// number: round(69 + 12*log2(f/440)). Returns -1 for non-positive
// frequencies or results outside [0, 127].
func FrequencyToMIDI(frequency float64) int {
	if frequency <= 0.0 {
		return -1
	}

	midiNote := int(math.Round(69.0 + 12.0*math.Log2(frequency/440.0)))
	if midiNote < 0 || midiNote > 127 {
		return -1
	}

	return midiNote
}

// NoteName returns the octave-less pitch-class name for a MIDI note
// ("C#"), or the empty string when the note is out of range.
func NoteName(midiNote int) string {
	if midiNote < 0 || midiNote > 127 {
		return ""
	}
	return noteNames[midiNote%12]
}

// NoteNameWithOctave returns the scientific pitch name for a MIDI note
// ("A4" for 69), or the empty string when the note is out of range.
func NoteNameWithOctave(midiNote int) string {
	if midiNote < 0 || midiNote > 127 {
		return ""
	}
	return noteNames[midiNote%12] + strconv.Itoa(midiNote/12-1)
}

// PitchClassName returns the canonical (sharp-spelled) name for a pitch
// class 0-11, or "?" outside that range.
func PitchClassName(pitchClass int) string {
	if pitchClass < 0 || pitchClass > 11 {
		return "?"
	}
	return noteNames[pitchClass]
}

// PitchClass maps a note name to its pitch class 0-11, ignoring any
// trailing octave digits ("F#4" -> 6). Returns -1 for names it cannot
// parse.
func PitchClass(name string) int {
	if name == "" {
		return -1
	}

	end := len(name)
	for i, c := range name {
		if c >= '0' && c <= '9' {
			end = i
			break
		}
	}

	pc, ok := pitchClasses[name[:end]]
	if !ok {
		return -1
	}
	return pc
}
