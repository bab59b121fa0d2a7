// File: wait/blocking.go
// Package wait implements the parked strategies.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Blocking parks on a condition variable, TimeoutBlocking on a broadcast
// channel with a deadline. Both are woken by SignalAllWhenBlocking, which
// fires on every event that can move the barrier: a producer publishing,
// a reader consuming or disconnecting, and ring teardown.

package wait

import (
	"sync"
	"time"

	"github.com/momentics/sdrflow/api"
	"github.com/momentics/sdrflow/sequence"
)

// Blocking parks waiters on a condition variable until
// SignalAllWhenBlocking is called.
type Blocking struct {
	mu   sync.Mutex
	cond *sync.Cond
}

// NewBlocking returns a condition-variable strategy.
func NewBlocking() *Blocking {
	b := &Blocking{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *Blocking) WaitFor(required int64, cursor *sequence.Sequence, deps *sequence.Set) (int64, error) {
	avail := observe(cursor, deps)
	if avail >= required {
		return avail, nil
	}
	b.mu.Lock()
	for avail = observe(cursor, deps); avail < required; avail = observe(cursor, deps) {
		b.cond.Wait()
	}
	b.mu.Unlock()
	return avail, nil
}

// SignalAllWhenBlocking wakes every parked waiter. Fired on publish,
// consume, reader disconnect and ring teardown.
func (b *Blocking) SignalAllWhenBlocking() {
	b.mu.Lock()
	b.cond.Broadcast()
	b.mu.Unlock()
}

// TimeoutBlocking is Blocking with a deadline: WaitFor returns
// api.ErrWaitTimeout together with the last observed value when the
// barrier does not advance within the configured duration.
type TimeoutBlocking struct {
	mu      sync.Mutex
	barrier chan struct{}
	timeout time.Duration
}

// NewTimeoutBlocking returns a parked strategy that gives up after d.
func NewTimeoutBlocking(d time.Duration) *TimeoutBlocking {
	return &TimeoutBlocking{
		barrier: make(chan struct{}),
		timeout: d,
	}
}

func (t *TimeoutBlocking) WaitFor(required int64, cursor *sequence.Sequence, deps *sequence.Set) (int64, error) {
	timer := time.NewTimer(t.timeout)
	defer timer.Stop()
	for {
		if avail := observe(cursor, deps); avail >= required {
			return avail, nil
		}
		t.mu.Lock()
		ch := t.barrier
		t.mu.Unlock()
		// re-check after snapshotting the barrier so a signal between the
		// two cannot be lost
		if avail := observe(cursor, deps); avail >= required {
			return avail, nil
		}
		select {
		case <-ch:
		case <-timer.C:
			return observe(cursor, deps), api.ErrWaitTimeout
		}
	}
}

// SignalAllWhenBlocking releases every waiter parked on the current
// barrier generation.
func (t *TimeoutBlocking) SignalAllWhenBlocking() {
	t.mu.Lock()
	close(t.barrier)
	t.barrier = make(chan struct{})
	t.mu.Unlock()
}
