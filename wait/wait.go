// File: wait/wait.go
// Package wait implements sequence wait strategies.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Strategy decides how a party blocks until a sequence barrier advances:
// burn the core, yield the scheduler, sleep, or park on a condition
// variable. The choice trades latency against CPU and never affects
// correctness. Strategies are shared by producers (waiting on the slowest
// reader) and consumers (waiting on the publish cursor).

package wait

import (
	"runtime"
	"time"

	"github.com/momentics/sdrflow/sequence"
)

// Strategy observes the combination of a publish cursor and a set of
// dependent sequences.
type Strategy interface {
	// WaitFor blocks until min(cursor, min(deps)) >= required and returns
	// the observed value. An empty dependency set degenerates to waiting
	// on the cursor alone. Only timed strategies return a non-nil error.
	WaitFor(required int64, cursor *sequence.Sequence, deps *sequence.Set) (int64, error)

	// SignalAllWhenBlocking wakes every party parked inside the strategy.
	// A no-op for the spinning variants.
	SignalAllWhenBlocking()
}

// observe reads the barrier: the dependent minimum, floored by the cursor.
func observe(cursor *sequence.Sequence, deps *sequence.Set) int64 {
	return deps.Minimum(cursor.Value())
}

// BusySpin burns the core in a tight loop. Lowest latency, one core per
// waiter.
type BusySpin struct{}

// NewBusySpin returns a busy-spinning strategy.
func NewBusySpin() *BusySpin { return &BusySpin{} }

func (*BusySpin) WaitFor(required int64, cursor *sequence.Sequence, deps *sequence.Set) (int64, error) {
	avail := observe(cursor, deps)
	for avail < required {
		cpuRelax()
		avail = observe(cursor, deps)
	}
	return avail, nil
}

func (*BusySpin) SignalAllWhenBlocking() {}

// Yielding spins a bounded number of times, then hands the scheduler a
// chance on every further iteration.
type Yielding struct {
	SpinTries int
}

// NewYielding returns a yielding strategy with the default spin budget.
func NewYielding() *Yielding { return &Yielding{SpinTries: 100} }

func (y *Yielding) WaitFor(required int64, cursor *sequence.Sequence, deps *sequence.Set) (int64, error) {
	counter := y.SpinTries
	if counter <= 0 {
		counter = 100
	}
	avail := observe(cursor, deps)
	for avail < required {
		if counter > 0 {
			counter--
			cpuRelax()
		} else {
			runtime.Gosched()
		}
		avail = observe(cursor, deps)
	}
	return avail, nil
}

func (*Yielding) SignalAllWhenBlocking() {}

// Sleeping spins briefly, yields, then sleeps a nanosecond per iteration.
// Cheapest on CPU, roughly scheduler-quantum latency under contention.
type Sleeping struct {
	Retries int
}

// NewSleeping returns a sleeping strategy with the default retry ladder.
func NewSleeping() *Sleeping { return &Sleeping{Retries: 200} }

func (s *Sleeping) WaitFor(required int64, cursor *sequence.Sequence, deps *sequence.Set) (int64, error) {
	counter := s.Retries
	if counter <= 0 {
		counter = 200
	}
	avail := observe(cursor, deps)
	for avail < required {
		switch {
		case counter > 100:
			counter--
			cpuRelax()
		case counter > 0:
			counter--
			runtime.Gosched()
		default:
			time.Sleep(time.Nanosecond)
		}
		avail = observe(cursor, deps)
	}
	return avail, nil
}

func (*Sleeping) SignalAllWhenBlocking() {}

// SpinWait escalates through architecture pause hints, scheduler yields
// and finally millisecond sleeps. Every WaitFor call starts again at the
// bottom of the ladder.
type SpinWait struct{}

// NewSpinWait returns the escalating spin strategy. A sane default when
// the workload profile is unknown.
func NewSpinWait() *SpinWait { return &SpinWait{} }

func (*SpinWait) WaitFor(required int64, cursor *sequence.Sequence, deps *sequence.Set) (int64, error) {
	iteration := 0
	avail := observe(cursor, deps)
	for avail < required {
		switch {
		case iteration < 32:
			cpuRelax()
		case iteration < 64:
			runtime.Gosched()
		default:
			time.Sleep(time.Millisecond)
		}
		iteration++
		avail = observe(cursor, deps)
	}
	return avail, nil
}

func (*SpinWait) SignalAllWhenBlocking() {}
