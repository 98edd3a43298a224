package detect

import (
	"sync"
	"sync/atomic"

	"github.com/monolithaudio/maestro/logging"
	"github.com/monolithaudio/maestro/tonal"
)

// NoNotesRecorded is reported by Stop when a session captured nothing.
const NoNotesRecorded = "No notes recorded"

// Session records the strongest stabilized note over time and infers the
// musical key when recording stops. Observe runs on the audio path, so its
// critical section is limited to one string comparison and append; Start
// and Stop run on control threads.
type Session struct {
	recording atomic.Bool

	mu    sync.Mutex
	notes []string
	last  string
	key   string
}

// NewSession creates an idle recording session.
func NewSession() *Session {
	return &Session{}
}

// Start clears any previous capture and begins recording.
func (s *Session) Start() {
	s.mu.Lock()
	s.notes = s.notes[:0]
	s.last = ""
	s.key = ""
	s.mu.Unlock()

	s.recording.Store(true)
	logging.Debug("recording session started")
}

// Recording reports whether a session is currently capturing.
func (s *Session) Recording() bool {
	return s.recording.Load()
}

// Observe records the strongest note's name, skipping consecutive
// duplicates so a sustained note logs once. No-op while not recording or
// when the frame carries no notes.
func (s *Session) Observe(notes []DetectedNote) {
	if !s.recording.Load() || len(notes) == 0 {
		return
	}

	name := notes[0].Name

	s.mu.Lock()
	if name != s.last {
		s.notes = append(s.notes, name)
		s.last = name
	}
	s.mu.Unlock()
}

// Stop ends the capture, estimates the key, and returns the recorded
// note-name sequence together with the key string. An empty capture yields
// the NoNotesRecorded sentinel.
func (s *Session) Stop() ([]string, string) {
	s.recording.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.notes) == 0 {
		s.key = NoNotesRecorded
		return nil, s.key
	}

	s.key = tonal.EstimateKey(s.notes)

	notes := make([]string, len(s.notes))
	copy(notes, s.notes)

	logging.Debug("recording session stopped", logging.Fields{
		"notes": len(notes),
		"key":   s.key,
	})
	return notes, s.key
}

// Key returns the most recent estimate, empty until a session has stopped.
func (s *Session) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}
