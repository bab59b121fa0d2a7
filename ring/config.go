// File: ring/config.go
// Package ring implements the lock-free circular sample buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Config selects the behaviour policies of a ring at construction time.
// All fields are immutable per ring; there is no runtime reconfiguration
// and no capacity resize.

package ring

import (
	"github.com/momentics/sdrflow/api"
	"github.com/momentics/sdrflow/mem"
	"github.com/momentics/sdrflow/wait"
)

// ProducerKind selects the claim strategy.
type ProducerKind int

const (
	// SingleProducer enables the uncontended fast path. Exactly one
	// goroutine may publish.
	SingleProducer ProducerKind = iota

	// MultiProducer tracks per-slot publication so any number of
	// goroutines may publish concurrently.
	MultiProducer
)

// Config holds parameters immutable per ring.
type Config struct {
	MinSize   int           // Minimum capacity in elements; may be rounded up for page alignment
	Producer  ProducerKind  // Single or multi producer claim strategy
	Wait      wait.Strategy // How waiters observe sequence advances; nil selects SpinWait
	Allocator api.Allocator // Backing region source; nil selects double-mapped with heap fallback
	Unchecked bool          // Disable reader-side clamping and bounds checks
}

// DefaultConfig returns the configuration used by the streaming runtime:
// 1024 elements, single producer, escalating spin wait, wrap-free mapping
// where the platform provides it.
func DefaultConfig() Config {
	return Config{
		MinSize:  1024,
		Producer: SingleProducer,
	}
}

// withDefaults fills the nil policy slots.
func (c Config) withDefaults() Config {
	if c.Wait == nil {
		c.Wait = wait.NewSpinWait()
	}
	if c.Allocator == nil {
		if a, err := mem.NewDoubleMapped(); err == nil {
			c.Allocator = a
		} else {
			c.Allocator = mem.NewHeap()
		}
	}
	return c
}
