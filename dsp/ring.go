package dsp

import (
	"sync/atomic"
)

// Ring is a fixed-capacity single-producer/single-consumer ring buffer for
// float32 audio samples. Exactly one goroutine may write and one may read;
// under that discipline the atomic cursors make both sides lock-free, so the
// producer (a real-time audio callback) never blocks. Capacity is fixed at
// construction and the buffer never allocates afterwards.
type Ring struct {
	buf []float32
	// One slot is kept open to tell a full buffer from an empty one.
	size     int
	writePos atomic.Int64
	readPos  atomic.Int64
}

// NewRing creates a ring that holds up to capacity samples.
func NewRing(capacity int) *Ring {
	return &Ring{
		buf:  make([]float32, capacity+1),
		size: capacity + 1,
	}
}

// Capacity returns the fixed sample capacity.
func (r *Ring) Capacity() int {
	return r.size - 1
}

// Available returns the number of samples ready to read.
func (r *Ring) Available() int {
	w := int(r.writePos.Load())
	rd := int(r.readPos.Load())
	return (w - rd + r.size) % r.size
}

// Free returns the number of samples that can be written without dropping.
func (r *Ring) Free() int {
	return r.Capacity() - r.Available()
}

// Write copies samples into free space and returns how many were accepted.
// Samples beyond the remaining capacity are dropped; the producer side is
// never allowed to overwrite unread data or to wait for the consumer.
func (r *Ring) Write(samples []float32) int {
	w := int(r.writePos.Load())
	n := min(len(samples), r.Free())

	for i := 0; i < n; i++ {
		r.buf[(w+i)%r.size] = samples[i]
	}

	r.writePos.Store(int64((w + n) % r.size))
	return n
}

// Read copies up to len(dst) ready samples into dst, advances the read
// cursor, and returns how many were copied.
func (r *Ring) Read(dst []float32) int {
	rd := int(r.readPos.Load())
	n := min(len(dst), r.Available())

	for i := 0; i < n; i++ {
		dst[i] = r.buf[(rd+i)%r.size]
	}

	r.readPos.Store(int64((rd + n) % r.size))
	return n
}

// Reset clears both cursors, discarding buffered samples without
// reallocating. Only safe while neither side is actively using the ring.
func (r *Ring) Reset() {
	r.writePos.Store(0)
	r.readPos.Store(0)
}
