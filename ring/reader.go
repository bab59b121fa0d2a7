// File: ring/reader.go
// Package ring: the consuming handle.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Reader owns one sequence inside the ring's dependency set and a
// cached copy of it, so Available and Get cost a single atomic load of
// the cursor. Only the owning goroutine may call Get/Consume/At; distinct
// readers are fully independent.

package ring

import (
	"fmt"

	"github.com/momentics/sdrflow/api"
	"github.com/momentics/sdrflow/sequence"
	"github.com/momentics/sdrflow/wait"
)

// Ensure compile-time interface compliance.
var _ api.BufferReader[int32] = (*Reader[int32])(nil)

// Reader consumes samples from its ring.
type Reader[T any] struct {
	buf        *Buffer[T]
	seq        *sequence.Sequence
	readCached int64 // last consumed slot; trails seq only inside Consume
	data       []T
	size       int
	cursor     *sequence.Sequence
	wait       wait.Strategy
	unchecked  bool
}

// Available reports how many published samples are not yet consumed.
func (r *Reader[T]) Available() int {
	return int(r.cursor.Value() - r.readCached)
}

// Get returns a read-only view of up to n unconsumed samples starting at
// the first unread slot. n <= 0 requests everything available; n beyond
// the available count is clamped unless the ring was built Unchecked.
// The span is contiguous even across the wrap point: the second data
// segment aliases or mirrors the first.
func (r *Reader[T]) Get(n int) []T {
	if !r.unchecked || n <= 0 {
		avail := r.Available()
		if n <= 0 || n > avail {
			n = avail
		}
	}
	start := int((r.readCached + 1) % int64(r.size))
	return r.data[start : start+n]
}

// Consume advances the read sequence by n, releasing the slots for
// overwrite. In checked mode an overrun returns false with no mutation;
// consuming zero is trivially true. A producer parked on this reader is
// woken through the wait strategy.
func (r *Reader[T]) Consume(n int) bool {
	if n <= 0 {
		return n == 0
	}
	if !r.unchecked && n > r.Available() {
		return false
	}
	r.readCached = r.seq.AddAndGet(int64(n))
	r.wait.SignalAllWhenBlocking()
	return true
}

// At random-accesses the i-th unconsumed sample without consuming it.
// Out-of-range indices are fatal in checked mode.
func (r *Reader[T]) At(i int) T {
	if !r.unchecked && (i < 0 || i >= r.Available()) {
		panic(fmt.Sprintf("ring: sample index %d out of range 0..%d", i, r.Available()-1))
	}
	return r.data[(r.readCached+1+int64(i))%int64(r.size)]
}

// Close removes the reader's sequence from the dependency set so it no
// longer gates the writer, and wakes any producer it was holding back.
// Idempotent.
func (r *Reader[T]) Close() error {
	if r.seq == nil {
		return nil
	}
	r.buf.readers.Remove(r.seq)
	r.seq = nil
	r.wait.SignalAllWhenBlocking()
	return nil
}
