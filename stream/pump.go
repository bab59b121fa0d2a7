// File: stream/pump.go
// Package stream moves samples from ring readers into processing blocks.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Pump owns one reader and drains it in bounded batches into a handler,
// backing off adaptively while the ring is empty. It can run standalone
// on its own goroutine (Run/Stop) or cooperatively as a Runnable inside a
// Scheduler.

package stream

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/momentics/sdrflow/api"
)

// Runnable is one cooperative unit of stream work.
type Runnable interface {
	// Drain performs a bounded amount of work and reports how many
	// samples were processed.
	Drain() int
}

// Pump drains a reader into a handler.
type Pump[T any] struct {
	reader    api.BufferReader[T]
	handler   func([]T)
	batchSize int
	stopCh    chan struct{}
	running   int32
	stopped   int32
	backoffNs int64
}

// NewPump binds reader to handler with the given per-iteration batch
// bound. batchSize <= 0 selects 64.
func NewPump[T any](reader api.BufferReader[T], handler func([]T), batchSize int) *Pump[T] {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &Pump[T]{
		reader:    reader,
		handler:   handler,
		batchSize: batchSize,
		stopCh:    make(chan struct{}),
		backoffNs: 1,
	}
}

// Drain consumes at most one batch. The handler runs on the caller's
// goroutine over a span aliasing ring storage; the slots are consumed
// after it returns. A handler panic is swallowed so one bad block cannot
// take the drain loop down, and the batch still counts as consumed.
func (p *Pump[T]) Drain() int {
	n := p.reader.Available()
	if n == 0 {
		return 0
	}
	if n > p.batchSize {
		n = p.batchSize
	}
	span := p.reader.Get(n)
	p.dispatch(span)
	p.reader.Consume(len(span))
	return len(span)
}

func (p *Pump[T]) dispatch(span []T) {
	defer func() {
		if r := recover(); r != nil {
			_ = r // swallow panic to keep the drain loop alive
		}
	}()
	p.handler(span)
}

// Run drains until Stop, with adaptive backoff while idle. Returns
// immediately if the pump is already running.
func (p *Pump[T]) Run() {
	if !atomic.CompareAndSwapInt32(&p.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&p.stopped, 1)
	for {
		select {
		case <-p.stopCh:
			return
		default:
			if p.Drain() == 0 {
				p.adaptiveBackoff()
			} else {
				atomic.StoreInt64(&p.backoffNs, 1)
			}
		}
	}
}

// Stop terminates Run and waits for the loop to exit.
func (p *Pump[T]) Stop() {
	if atomic.LoadInt32(&p.running) == 1 {
		select {
		case <-p.stopCh:
		default:
			close(p.stopCh)
		}
		for atomic.LoadInt32(&p.stopped) == 0 {
			time.Sleep(time.Microsecond)
		}
	}
}

func (p *Pump[T]) adaptiveBackoff() {
	select {
	case <-p.stopCh:
		return
	default:
	}
	backoff := atomic.LoadInt64(&p.backoffNs)
	if backoff < 1000 {
		runtime.Gosched()
	} else {
		time.Sleep(time.Duration(backoff))
	}
	next := backoff * 2
	if next > int64(time.Millisecond) {
		next = int64(time.Millisecond)
	}
	atomic.StoreInt64(&p.backoffNs, next)
}
