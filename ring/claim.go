// File: ring/claim.go
// Package ring: producer-side slot reservation.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A claim strategy sits between a writer's request for n slots and the
// cursor advance. The single-producer variant is a plain counter owned by
// the one publishing goroutine; only the cursor store at publish time is
// atomic.

package ring

import (
	"fmt"

	"github.com/momentics/sdrflow/api"
	"github.com/momentics/sdrflow/sequence"
	"github.com/momentics/sdrflow/wait"
)

// claimStrategy reserves contiguous slot ranges and publishes them.
// Sequences name the last slot of a range.
type claimStrategy interface {
	// next claims n slots, blocking via the wait strategy until the
	// slowest reader has vacated enough space.
	next(readers *sequence.Set, n int) (int64, error)

	// tryNext evaluates the capacity predicate once and fails with
	// api.ErrNoCapacity instead of waiting.
	tryNext(readers *sequence.Set, n int) (int64, error)

	// remainingCapacity reports how many slots can be claimed right now.
	remainingCapacity(readers *sequence.Set) int

	// publish makes the claimed range lo..hi visible to readers.
	publish(lo, hi int64)
}

// singleProducerClaim is the uncontended fast path: nextValue and the
// gating cache are owned by the single publishing goroutine, so claiming
// costs no atomics at all until the ring approaches full.
type singleProducerClaim struct {
	cursor     *sequence.Sequence
	wait       wait.Strategy
	size       int64
	nextValue  int64 // last claimed slot; owned by the producer
	cachedGate int64 // last observed slowest-reader value
}

func newSingleProducerClaim(cursor *sequence.Sequence, ws wait.Strategy, size int) *singleProducerClaim {
	return &singleProducerClaim{
		cursor:     cursor,
		wait:       ws,
		size:       int64(size),
		nextValue:  sequence.InitialCursorValue,
		cachedGate: sequence.InitialCursorValue,
	}
}

func (c *singleProducerClaim) next(readers *sequence.Set, n int) (int64, error) {
	if n < 1 || int64(n) > c.size {
		return 0, fmt.Errorf("ring: claim of %d slots out of range 1..%d", n, c.size)
	}
	next := c.nextValue + int64(n)
	wrapPoint := next - c.size
	if wrapPoint > c.cachedGate {
		// park until the slowest reader passes the wrap point; the own
		// cursor can never be the binding term since n <= size
		gate, err := c.wait.WaitFor(wrapPoint, c.cursor, readers)
		if err != nil {
			return 0, err
		}
		c.cachedGate = gate
	}
	c.nextValue = next
	return next, nil
}

func (c *singleProducerClaim) tryNext(readers *sequence.Set, n int) (int64, error) {
	if n < 1 || int64(n) > c.size {
		return 0, fmt.Errorf("ring: claim of %d slots out of range 1..%d", n, c.size)
	}
	next := c.nextValue + int64(n)
	wrapPoint := next - c.size
	if wrapPoint > c.cachedGate {
		gate := readers.Minimum(c.cursor.Value())
		if wrapPoint > gate {
			return 0, api.ErrNoCapacity
		}
		c.cachedGate = gate
	}
	c.nextValue = next
	return next, nil
}

func (c *singleProducerClaim) remainingCapacity(readers *sequence.Set) int {
	consumed := c.nextValue - readers.Minimum(c.cursor.Value())
	return int(c.size - consumed)
}

func (c *singleProducerClaim) publish(lo, hi int64) {
	c.cursor.Set(hi)
	c.wait.SignalAllWhenBlocking()
}
