package dsp

import (
	"testing"
)

func TestRingWriteRead(t *testing.T) {
	r := NewRing(8)

	if r.Capacity() != 8 {
		t.Fatalf("expected capacity 8, got %d", r.Capacity())
	}
	if r.Available() != 0 {
		t.Errorf("expected empty ring, got %d available", r.Available())
	}

	n := r.Write([]float32{1, 2, 3})
	if n != 3 {
		t.Fatalf("expected 3 written, got %d", n)
	}
	if r.Available() != 3 {
		t.Errorf("expected 3 available, got %d", r.Available())
	}

	dst := make([]float32, 3)
	n = r.Read(dst)
	if n != 3 {
		t.Fatalf("expected 3 read, got %d", n)
	}
	for i, want := range []float32{1, 2, 3} {
		if dst[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, dst[i])
		}
	}
	if r.Available() != 0 {
		t.Errorf("expected drained ring, got %d available", r.Available())
	}
}

func TestRingDropsExcess(t *testing.T) {
	r := NewRing(4)

	n := r.Write([]float32{1, 2, 3, 4, 5, 6})
	if n != 4 {
		t.Fatalf("expected 4 accepted, got %d", n)
	}
	if r.Free() != 0 {
		t.Errorf("expected full ring, got %d free", r.Free())
	}

	// A full ring accepts nothing more.
	if n := r.Write([]float32{7}); n != 0 {
		t.Errorf("expected 0 accepted on full ring, got %d", n)
	}

	dst := make([]float32, 4)
	r.Read(dst)
	for i, want := range []float32{1, 2, 3, 4} {
		if dst[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, dst[i])
		}
	}
}

func TestRingWrapAround(t *testing.T) {
	r := NewRing(4)
	dst := make([]float32, 4)

	r.Write([]float32{1, 2, 3})
	if n := r.Read(dst[:2]); n != 2 {
		t.Fatalf("expected 2 read, got %d", n)
	}

	// Crosses the physical end of the backing array.
	if n := r.Write([]float32{4, 5, 6}); n != 3 {
		t.Fatalf("expected 3 written, got %d", n)
	}

	if n := r.Read(dst); n != 4 {
		t.Fatalf("expected 4 read, got %d", n)
	}
	for i, want := range []float32{3, 4, 5, 6} {
		if dst[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, dst[i])
		}
	}
}

func TestRingReset(t *testing.T) {
	r := NewRing(4)
	r.Write([]float32{1, 2, 3})

	r.Reset()
	if r.Available() != 0 {
		t.Errorf("expected empty ring after reset, got %d", r.Available())
	}
	if r.Free() != 4 {
		t.Errorf("expected full capacity after reset, got %d", r.Free())
	}
}

func TestRingSingleProducerSingleConsumer(t *testing.T) {
	const total = 10000
	r := NewRing(64)

	done := make(chan struct{})
	received := make([]float32, 0, total)

	go func() {
		defer close(done)
		buf := make([]float32, 32)
		for len(received) < total {
			n := r.Read(buf)
			received = append(received, buf[:n]...)
		}
	}()

	sent := 0
	block := make([]float32, 16)
	for sent < total {
		n := min(len(block), total-sent)
		for i := 0; i < n; i++ {
			block[i] = float32(sent + i)
		}
		sent += r.Write(block[:n])
	}
	<-done

	if len(received) != total {
		t.Fatalf("expected %d samples, got %d", total, len(received))
	}
	for i, v := range received {
		if v != float32(i) {
			t.Fatalf("sample %d: expected %v, got %v", i, float32(i), v)
		}
	}
}
