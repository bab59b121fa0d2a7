// File: sequence/sequence.go
// Package sequence implements the cursor primitive of the ring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Sequence is a monotonically increasing 64-bit counter padded to a full
// cache line on both sides so that producer and consumer cursors never
// share a line. Stores are release-ordered, loads acquire-ordered; Go's
// sync/atomic gives sequential consistency, a superset of both.

package sequence

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// InitialCursorValue is the value of a fresh cursor: nothing published yet.
const InitialCursorValue int64 = -1

// Sequence is a cache-line-isolated atomic counter.
type Sequence struct {
	_ cpu.CacheLinePad
	v atomic.Int64
	_ cpu.CacheLinePad
}

// New returns a Sequence at InitialCursorValue.
func New() *Sequence {
	return NewAt(InitialCursorValue)
}

// NewAt returns a Sequence at value v.
func NewAt(v int64) *Sequence {
	s := &Sequence{}
	s.v.Store(v)
	return s
}

// Value loads the current value.
func (s *Sequence) Value() int64 {
	return s.v.Load()
}

// Set stores v.
func (s *Sequence) Set(v int64) {
	s.v.Store(v)
}

// CompareAndSet installs next iff the current value equals expected.
func (s *Sequence) CompareAndSet(expected, next int64) bool {
	return s.v.CompareAndSwap(expected, next)
}

// IncrementAndGet advances the value by one and returns the new value.
func (s *Sequence) IncrementAndGet() int64 {
	return s.v.Add(1)
}

// AddAndGet advances the value by n and returns the new value.
func (s *Sequence) AddAndGet(n int64) int64 {
	return s.v.Add(n)
}

// String implements fmt.Stringer for diagnostics output.
func (s *Sequence) String() string {
	return fmt.Sprintf("%d", s.Value())
}
