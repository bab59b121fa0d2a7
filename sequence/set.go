// File: sequence/set.go
// Package sequence implements the shared dependency set of reader cursors.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The set is mutated copy-on-write: Add and Remove build a fresh slice and
// swap the pointer in with CAS, so Minimum on the hot path observes either
// the old or the new membership wholesale and never takes a lock.

package sequence

import (
	"math"
	"sync/atomic"
)

// Set is a concurrently readable collection of Sequence references.
type Set struct {
	refs atomic.Pointer[[]*Sequence]
}

// NewSet returns an empty set.
func NewSet() *Set {
	s := &Set{}
	empty := make([]*Sequence, 0)
	s.refs.Store(&empty)
	return s
}

// Add registers seqs with the set. Each new sequence is first set to the
// cursor's current value so that a reader joining after data has been
// published starts with nothing available instead of a backlog.
func (s *Set) Add(cursor *Sequence, seqs ...*Sequence) {
	for {
		old := s.refs.Load()
		next := make([]*Sequence, len(*old), len(*old)+len(seqs))
		copy(next, *old)
		for _, sq := range seqs {
			sq.Set(cursor.Value())
			next = append(next, sq)
		}
		if s.refs.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Remove deregisters seq. Returns false when seq is not a member.
func (s *Set) Remove(seq *Sequence) bool {
	for {
		old := s.refs.Load()
		idx := -1
		for i, sq := range *old {
			if sq == seq {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false
		}
		next := make([]*Sequence, 0, len(*old)-1)
		next = append(next, (*old)[:idx]...)
		next = append(next, (*old)[idx+1:]...)
		if s.refs.CompareAndSwap(old, &next) {
			return true
		}
	}
}

// Minimum returns the smallest value over all member sequences, never more
// than floor. With no members it returns floor, which defaults to the
// largest representable value.
func (s *Set) Minimum(floor ...int64) int64 {
	min := int64(math.MaxInt64)
	if len(floor) > 0 {
		min = floor[0]
	}
	for _, sq := range *s.refs.Load() {
		if v := sq.Value(); v < min {
			min = v
		}
	}
	return min
}

// Len reports the current membership count.
func (s *Set) Len() int {
	return len(*s.refs.Load())
}

// Values snapshots the member values, for diagnostics.
func (s *Set) Values() []int64 {
	refs := *s.refs.Load()
	out := make([]int64, len(refs))
	for i, sq := range refs {
		out[i] = sq.Value()
	}
	return out
}
