// File: ring/writer.go
// Package ring: the publishing handle.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Writer claims contiguous slots, hands the user translator a writable
// span aliasing them, mirrors the bytes when the region is not
// double-mapped, and publishes the new cursor. Hot fields are cached off
// the ring at construction so the publish path reads them from the handle
// instead of going through the ring.

package ring

import (
	"fmt"

	"github.com/momentics/sdrflow/api"
	"github.com/momentics/sdrflow/sequence"
)

// Ensure compile-time interface compliance.
var _ api.BufferWriter[int32] = (*Writer[int32])(nil)

// Writer publishes samples into its ring. A SingleProducer ring admits
// exactly one goroutine publishing; a MultiProducer ring admits any
// number of writers or goroutines.
type Writer[T any] struct {
	buf     *Buffer[T]
	data    []T
	size    int
	mapped  bool
	claim   claimStrategy
	readers *sequence.Set
}

// Available reports how many slots can be claimed without blocking,
// honouring the slowest registered reader.
func (w *Writer[T]) Available() int {
	return w.claim.remainingCapacity(w.readers)
}

// Publish claims n slots, fills them via translator and makes them
// visible. Blocks while the ring is full. With no registered readers the
// samples are dropped outright: a late joiner must start empty, so
// buffering them would violate the join rule.
//
// A panic raised by the translator is recovered and returned as an
// error; the claimed range is published regardless, since a hole in the
// sequence space would stall every later publication.
func (w *Writer[T]) Publish(translator func([]T), n int) error {
	if n <= 0 || w.readers.Len() == 0 {
		return nil
	}
	seq, err := w.claim.next(w.readers, n)
	if err != nil {
		return fmt.Errorf("ring: publish %d slots: %w", n, err)
	}
	return w.translateAndPublish(translator, n, seq)
}

// TryPublish is Publish evaluated once: it returns false without side
// effects when the capacity predicate fails. The boolean only carries
// the capacity outcome; a translator fault is dropped here, the claimed
// range is published regardless.
func (w *Writer[T]) TryPublish(translator func([]T), n int) bool {
	if n <= 0 || w.readers.Len() == 0 {
		return true
	}
	seq, err := w.claim.tryNext(w.readers, n)
	if err != nil {
		return false
	}
	w.translateAndPublish(translator, n, seq)
	return true
}

func (w *Writer[T]) translateAndPublish(translator func([]T), n int, seq int64) (err error) {
	start := int((seq + int64(w.size) - int64(n) + 1) % int64(w.size))
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = api.NewError(api.ErrCodeTranslator,
					fmt.Sprintf("ring: translator fault: %v", r)).
					WithContext("slots", n)
			}
		}()
		translator(w.data[start : start+n])
	}()
	if !w.mapped {
		// mirror samples below/above the wrap-around point
		first := w.size - start
		if first > n {
			first = n
		}
		copy(w.data[start+w.size:start+w.size+first], w.data[start:start+first])
		if second := n - first; second > 0 {
			copy(w.data[:second], w.data[w.size:w.size+second])
		}
	}
	w.claim.publish(seq-int64(n)+1, seq)
	return err
}
