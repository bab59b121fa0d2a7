// File: stream/scheduler.go
// Package stream: cooperative round-robin over pumps.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The Scheduler multiplexes any number of Runnables onto one goroutine:
// each cycle rotates through the runnable FIFO, draining each once, and
// backs off adaptively when a full rotation moved nothing. Fairness comes
// from the rotation itself, a fast stream cannot starve a slow one.

package stream

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
)

// Scheduler round-robins registered runnables.
type Scheduler struct {
	mu       sync.Mutex
	runnable *queue.Queue
	stopCh   chan struct{}
	running  int32
	stopped  int32
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		runnable: queue.New(),
		stopCh:   make(chan struct{}),
	}
}

// Add registers r for rotation. Safe while the scheduler is running.
func (s *Scheduler) Add(r Runnable) {
	s.mu.Lock()
	s.runnable.Add(r)
	s.mu.Unlock()
}

// Len reports the number of registered runnables.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runnable.Length()
}

// rotate pops the front runnable and reappends it, one rotation step.
func (s *Scheduler) rotate() (Runnable, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runnable.Length() == 0 {
		return nil, false
	}
	r := s.runnable.Remove().(Runnable)
	s.runnable.Add(r)
	return r, true
}

// Run drives the rotation until Stop. Returns immediately if already
// running.
func (s *Scheduler) Run() {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&s.stopped, 1)
	idleRounds := 0
	for {
		select {
		case <-s.stopCh:
			return
		default:
		}
		processed := 0
		round := s.Len()
		for i := 0; i < round; i++ {
			r, ok := s.rotate()
			if !ok {
				break
			}
			processed += r.Drain()
		}
		if processed == 0 {
			idleRounds++
			if idleRounds < 100 {
				runtime.Gosched()
			} else {
				time.Sleep(100 * time.Microsecond)
			}
		} else {
			idleRounds = 0
		}
	}
}

// Stop terminates Run and waits for the loop to exit.
func (s *Scheduler) Stop() {
	if atomic.LoadInt32(&s.running) == 1 {
		select {
		case <-s.stopCh:
		default:
			close(s.stopCh)
		}
		for atomic.LoadInt32(&s.stopped) == 0 {
			time.Sleep(time.Microsecond)
		}
	}
}
