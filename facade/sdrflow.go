// File: facade/sdrflow.go
// Unified facade layer for the sdrflow library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the SDRFlow struct, which aggregates the ring, its
// allocator and wait strategy, the stream scheduler, and the debug probe
// registry behind a single facade. The facade covers the common shape of
// a streaming graph: one writer feeding a ring, any number of subscribed
// handlers drained by one scheduler goroutine.

package facade

import (
	"fmt"
	"log"
	"sync"

	"github.com/momentics/sdrflow/api"
	"github.com/momentics/sdrflow/debug"
	"github.com/momentics/sdrflow/mem"
	"github.com/momentics/sdrflow/ring"
	"github.com/momentics/sdrflow/stream"
	"github.com/momentics/sdrflow/wait"
)

// Config holds parameters immutable per run.
type Config struct {
	Capacity    int               // Minimum ring capacity in elements
	Producer    ring.ProducerKind // Single or multi producer publication
	Wait        wait.Strategy     // Wait strategy shared by ring and claim; nil selects SpinWait
	Allocator   api.Allocator     // Region source; nil selects double-mapped with heap fallback
	BatchSize   int               // Samples per pump drain iteration
	EnableDebug bool              // Whether to register built-in debug probes
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Capacity:    1024, // 1024-element ring
		Producer:    ring.SingleProducer,
		BatchSize:   64, // 64 samples per drain cycle
		EnableDebug: true,
	}
}

// SDRFlow is the main facade type for element type T.
type SDRFlow[T any] struct {
	buffer *ring.Buffer[T]
	writer *ring.Writer[T]
	sched  *stream.Scheduler
	probes *debug.Registry
	config *Config

	mu      sync.Mutex // Protects started flag
	started bool
}

// New constructs an SDRFlow with the given configuration. The allocator
// prefers the wrap-free double mapping and falls back to the heap region
// where the platform cannot provide it.
func New[T any](cfg *Config) (*SDRFlow[T], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	alloc := cfg.Allocator
	if alloc == nil {
		a, err := mem.NewDoubleMapped()
		if err != nil {
			log.Printf("[facade] double-mapped allocator unavailable: %v, falling back to heap", err)
			a = mem.NewHeap()
		}
		alloc = a
	}

	buf, err := ring.New[T](ring.Config{
		MinSize:   cfg.Capacity,
		Producer:  cfg.Producer,
		Wait:      cfg.Wait,
		Allocator: alloc,
	})
	if err != nil {
		return nil, fmt.Errorf("facade: ring init failure: %w", err)
	}

	f := &SDRFlow[T]{
		buffer: buf,
		writer: buf.NewWriter(),
		sched:  stream.NewScheduler(),
		probes: debug.NewRegistry(),
		config: cfg,
	}
	if cfg.EnableDebug {
		f.probes.RegisterProbe("ring", func() any { return buf.Snapshot() })
		f.probes.RegisterProbe("streams", func() any { return f.sched.Len() })
	}
	return f, nil
}

// Writer returns the publishing handle.
func (f *SDRFlow[T]) Writer() *ring.Writer[T] {
	return f.writer
}

// Buffer returns the underlying ring.
func (f *SDRFlow[T]) Buffer() *ring.Buffer[T] {
	return f.buffer
}

// Debug returns the probe registry.
func (f *SDRFlow[T]) Debug() *debug.Registry {
	return f.probes
}

// Subscribe attaches handler as a new independent reader of the stream,
// drained by the scheduler. Per the join rule the handler only observes
// samples published after the call.
func (f *SDRFlow[T]) Subscribe(handler func([]T)) *stream.Pump[T] {
	pump := stream.NewPump[T](f.buffer.NewReader(), handler, f.config.BatchSize)
	f.sched.Add(pump)
	return pump
}

// Start launches the scheduler goroutine. Subsequent calls are no-ops.
func (f *SDRFlow[T]) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		return nil
	}
	go f.sched.Run()
	f.started = true
	return nil
}

// Stop halts the scheduler and releases the ring region. Calling Stop on
// a non-started facade still closes the ring.
func (f *SDRFlow[T]) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		f.sched.Stop()
		f.started = false
	}
	return f.buffer.Close()
}
