package detect

import "sync/atomic"

// noteSnapshot is an immutable detected-note list. The analysis thread
// publishes a fresh one each frame and never touches it again, so readers
// on other goroutines always observe a complete list.
type noteSnapshot struct {
	notes []DetectedNote
}

var emptySnapshot = &noteSnapshot{}

// notePublisher shares the latest frame's notes and the noise-gate state
// with reader threads via atomic swaps.
type notePublisher struct {
	current atomic.Pointer[noteSnapshot]
	active  atomic.Bool
}

func newNotePublisher() *notePublisher {
	p := &notePublisher{}
	p.current.Store(emptySnapshot)
	return p
}

// publish swaps in a new snapshot. The caller hands over ownership of the
// slice and must not modify it afterwards.
func (p *notePublisher) publish(notes []DetectedNote) {
	if len(notes) == 0 {
		p.current.Store(emptySnapshot)
		return
	}
	p.current.Store(&noteSnapshot{notes: notes})
}

// clear drops the current snapshot.
func (p *notePublisher) clear() {
	p.current.Store(emptySnapshot)
}

// Notes returns a copy of the current snapshot, safe for the caller to
// keep or mutate.
func (p *notePublisher) Notes() []DetectedNote {
	snap := p.current.Load()
	if len(snap.notes) == 0 {
		return nil
	}

	notes := make([]DetectedNote, len(snap.notes))
	copy(notes, snap.notes)
	return notes
}

func (p *notePublisher) setActive(active bool) {
	p.active.Store(active)
}

func (p *notePublisher) Active() bool {
	return p.active.Load()
}
