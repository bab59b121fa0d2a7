// File: ring/claim_multi.go
// Package ring: multi-producer slot reservation.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrent producers race a CAS on an internal claimed sequence; the
// externally visible cursor trails it and only ever advances over a
// contiguous run of slots whose availability stamps are set. A range
// published out of order stays invisible to readers until every earlier
// slot is stamped too, so readers always observe a prefix of the total
// publication order.

package ring

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/sdrflow/api"
	"github.com/momentics/sdrflow/sequence"
	"github.com/momentics/sdrflow/wait"
)

type multiProducerClaim struct {
	cursor  *sequence.Sequence
	claimed *sequence.Sequence // highest slot handed to any producer
	gate    *sequence.Sequence // cached slowest-reader value, shared
	wait    wait.Strategy
	size    int64
	// available holds one round stamp per ring slot, indexed seq mod
	// size; slot seq is published iff its stamp equals seq/size.
	available []atomic.Int32
}

func newMultiProducerClaim(cursor *sequence.Sequence, ws wait.Strategy, size int) *multiProducerClaim {
	c := &multiProducerClaim{
		cursor:    cursor,
		claimed:   sequence.New(),
		gate:      sequence.New(),
		wait:      ws,
		size:      int64(size),
		available: make([]atomic.Int32, size),
	}
	for i := range c.available {
		c.available[i].Store(-1)
	}
	return c
}

func (c *multiProducerClaim) next(readers *sequence.Set, n int) (int64, error) {
	if n < 1 || int64(n) > c.size {
		return 0, fmt.Errorf("ring: claim of %d slots out of range 1..%d", n, c.size)
	}
	for {
		current := c.claimed.Value()
		next := current + int64(n)
		wrapPoint := next - c.size
		cached := c.gate.Value()
		if wrapPoint > cached || cached > current {
			gate := readers.Minimum(c.cursor.Value())
			if wrapPoint > gate {
				if _, err := c.wait.WaitFor(wrapPoint, c.cursor, readers); err != nil {
					return 0, err
				}
				continue
			}
			c.gate.Set(gate)
		} else if c.claimed.CompareAndSet(current, next) {
			return next, nil
		}
	}
}

func (c *multiProducerClaim) tryNext(readers *sequence.Set, n int) (int64, error) {
	if n < 1 || int64(n) > c.size {
		return 0, fmt.Errorf("ring: claim of %d slots out of range 1..%d", n, c.size)
	}
	for {
		current := c.claimed.Value()
		next := current + int64(n)
		if next-c.size > readers.Minimum(c.cursor.Value()) {
			return 0, api.ErrNoCapacity
		}
		if c.claimed.CompareAndSet(current, next) {
			return next, nil
		}
	}
}

func (c *multiProducerClaim) remainingCapacity(readers *sequence.Set) int {
	consumed := c.claimed.Value() - readers.Minimum(c.cursor.Value())
	return int(c.size - consumed)
}

// publish stamps every slot of the range, then drags the cursor forward
// over whatever contiguous run is now complete. Whoever's CAS wins
// advances it; losers re-scan so no completed run is ever stranded.
func (c *multiProducerClaim) publish(lo, hi int64) {
	for s := lo; s <= hi; s++ {
		c.setAvailable(s)
	}
	for {
		current := c.cursor.Value()
		next := current + 1
		limit := c.claimed.Value()
		for next <= limit && c.isAvailable(next) {
			next++
		}
		if next-1 == current {
			return
		}
		if c.cursor.CompareAndSet(current, next-1) {
			c.wait.SignalAllWhenBlocking()
		}
	}
}

func (c *multiProducerClaim) setAvailable(seq int64) {
	c.available[seq%c.size].Store(int32(seq / c.size))
}

func (c *multiProducerClaim) isAvailable(seq int64) bool {
	return c.available[seq%c.size].Load() == int32(seq/c.size)
}
