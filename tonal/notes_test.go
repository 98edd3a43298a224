package tonal

import (
	"math"
	"testing"
)

func TestMIDIToFrequency(t *testing.T) {
	tests := []struct {
		midiNote int
		want     float64
	}{
		{69, 440.0},   // A4, the tuning reference
		{57, 220.0},   // one octave down
		{81, 880.0},   // one octave up
		{60, 261.626}, // middle C
		{24, 32.703},  // C1, bottom of the detector's table
	}

	for _, tt := range tests {
		got := MIDIToFrequency(tt.midiNote)
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("MIDIToFrequency(%d): expected %v, got %v", tt.midiNote, tt.want, got)
		}
	}
}

func TestFrequencyToMIDI(t *testing.T) {
	if got := FrequencyToMIDI(440.0); got != 69 {
		t.Errorf("expected 69 for 440 Hz, got %d", got)
	}

	// Slight detuning still rounds to the nearest semitone.
	if got := FrequencyToMIDI(445.0); got != 69 {
		t.Errorf("expected 69 for 445 Hz, got %d", got)
	}

	for _, freq := range []float64{0, -10, 4.0, 20000.0} {
		if got := FrequencyToMIDI(freq); got != -1 {
			t.Errorf("expected -1 for %v Hz, got %d", freq, got)
		}
	}
}

func TestMIDIFrequencyRoundTrip(t *testing.T) {
	for midiNote := 0; midiNote <= 127; midiNote++ {
		if got := FrequencyToMIDI(MIDIToFrequency(midiNote)); got != midiNote {
			t.Errorf("round trip for %d yielded %d", midiNote, got)
		}
	}
}

func TestNoteNames(t *testing.T) {
	if got := NoteName(69); got != "A" {
		t.Errorf("expected A, got %q", got)
	}
	if got := NoteName(61); got != "C#" {
		t.Errorf("expected C#, got %q", got)
	}
	if got := NoteName(-1); got != "" {
		t.Errorf("expected empty name for invalid note, got %q", got)
	}

	if got := NoteNameWithOctave(69); got != "A4" {
		t.Errorf("expected A4, got %q", got)
	}
	if got := NoteNameWithOctave(24); got != "C1" {
		t.Errorf("expected C1, got %q", got)
	}
	if got := NoteNameWithOctave(128); got != "" {
		t.Errorf("expected empty name for invalid note, got %q", got)
	}
}

func TestPitchClass(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"C", 0},
		{"C#", 1},
		{"Db", 1},
		{"B", 11},
		{"Bb", 10},
		{"F#4", 6},  // octave digits stripped
		{"A440", 9}, // everything after the first digit ignored
		{"", -1},
		{"H", -1},
		{"c", -1},
	}

	for _, tt := range tests {
		if got := PitchClass(tt.name); got != tt.want {
			t.Errorf("PitchClass(%q): expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestPitchClassName(t *testing.T) {
	if got := PitchClassName(0); got != "C" {
		t.Errorf("expected C, got %q", got)
	}
	if got := PitchClassName(10); got != "A#" {
		t.Errorf("expected A#, got %q", got)
	}
	if got := PitchClassName(12); got != "?" {
		t.Errorf("expected ?, got %q", got)
	}
}
