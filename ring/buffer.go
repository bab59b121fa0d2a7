// File: ring/buffer.go
// Package ring implements the lock-free circular sample buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffer owns the doubly-viewed data array, the publish cursor and the set
// of reader sequences. The region behind the array is 2*size elements
// long: with a double-mapped allocator the second half aliases the first
// at the page level, otherwise the writer mirrors published slots by copy.
// Either way every contiguous window of at most size elements reads
// wrap-free.
//
//	                       wrap-around point
//	                              |
//	                              v
//	| element segment (original)  | element segment (mirror) |
//	0                           size                      2*size
//
// Readers and writers are created from the ring on demand and may outlive
// each other; the ring must outlive them all.

package ring

import (
	"fmt"
	"unsafe"

	"github.com/momentics/sdrflow/api"
	"github.com/momentics/sdrflow/mem"
	"github.com/momentics/sdrflow/sequence"
	"github.com/momentics/sdrflow/wait"
)

// Buffer is the ring core for element type T.
type Buffer[T any] struct {
	alloc     api.Allocator
	mapped    bool
	size      int
	region    []byte
	data      []T // 2*size elements over region
	cursor    *sequence.Sequence
	readers   *sequence.Set
	wait      wait.Strategy
	claim     claimStrategy
	unchecked bool
	closed    bool
}

// New constructs a ring with at least cfg.MinSize elements of capacity.
// Under a double-mapped allocator the capacity is rounded up until the
// payload byte count is page-aligned; otherwise it is taken verbatim.
func New[T any](cfg Config) (*Buffer[T], error) {
	if cfg.MinSize <= 0 {
		return nil, fmt.Errorf("ring: invalid minimum size %d", cfg.MinSize)
	}
	cfg = cfg.withDefaults()

	elemSize := int(unsafe.Sizeof(*new(T)))
	size := cfg.MinSize
	if cfg.Allocator.Mirrored() {
		size = alignCapacity(cfg.MinSize, elemSize)
	}

	region, err := cfg.Allocator.Allocate(size * elemSize)
	if err != nil {
		return nil, fmt.Errorf("ring: %w", err)
	}

	b := &Buffer[T]{
		alloc:     cfg.Allocator,
		mapped:    cfg.Allocator.Mirrored(),
		size:      size,
		region:    region,
		data:      unsafe.Slice((*T)(unsafe.Pointer(&region[0])), 2*size),
		cursor:    sequence.New(),
		readers:   sequence.NewSet(),
		wait:      cfg.Wait,
		unchecked: cfg.Unchecked,
	}

	switch cfg.Producer {
	case MultiProducer:
		b.claim = newMultiProducerClaim(b.cursor, cfg.Wait, size)
	default:
		b.claim = newSingleProducerClaim(b.cursor, cfg.Wait, size)
	}
	return b, nil
}

// alignCapacity finds the smallest capacity >= minSize whose payload byte
// count is a multiple of the page size and still divides back into whole
// elements.
func alignCapacity(minSize, elemSize int) int {
	bytes := mem.PageAlign(minSize * elemSize)
	for bytes%elemSize != 0 {
		bytes += mem.PageSize()
	}
	return bytes / elemSize
}

// Size reports the ring capacity in elements.
func (b *Buffer[T]) Size() int {
	return b.size
}

// NReaders reports how many reader sequences are registered.
func (b *Buffer[T]) NReaders() int {
	return b.readers.Len()
}

// NewReader registers a reader handle. Per the join rule its sequence
// starts at the current cursor, so data published before the call is
// never observed.
func (b *Buffer[T]) NewReader() *Reader[T] {
	seq := sequence.New()
	b.readers.Add(b.cursor, seq)
	return &Reader[T]{
		buf:        b,
		seq:        seq,
		readCached: seq.Value(),
		data:       b.data,
		size:       b.size,
		cursor:     b.cursor,
		wait:       b.wait,
		unchecked:  b.unchecked,
	}
}

// NewWriter creates a writer handle over the ring's claim strategy.
func (b *Buffer[T]) NewWriter() *Writer[T] {
	return &Writer[T]{
		buf:     b,
		data:    b.data,
		size:    b.size,
		mapped:  b.mapped,
		claim:   b.claim,
		readers: b.readers,
	}
}

// Close releases the backing region and wakes any parked waiter. All
// handles must be quiescent; graceful shutdown is the caller's
// responsibility, closing under a blocked publish is an error.
func (b *Buffer[T]) Close() error {
	if b.closed {
		return api.ErrBufferClosed
	}
	b.closed = true
	b.wait.SignalAllWhenBlocking()
	region := b.region
	b.region = nil
	b.data = nil
	if err := b.alloc.Release(region); err != nil {
		return fmt.Errorf("ring: close: %w", err)
	}
	return nil
}

// State is a point-in-time snapshot of ring occupancy for diagnostics.
// Values are sampled independently; under concurrent traffic the snapshot
// is advisory, not transactional.
type State struct {
	Size    int     `json:"size"`
	Mapped  bool    `json:"mapped"`
	Cursor  int64   `json:"cursor"`
	Readers []int64 `json:"readers"`
	Free    int     `json:"free"`
}

// Snapshot samples the ring state.
func (b *Buffer[T]) Snapshot() State {
	return State{
		Size:    b.size,
		Mapped:  b.mapped,
		Cursor:  b.cursor.Value(),
		Readers: b.readers.Values(),
		Free:    b.claim.remainingCapacity(b.readers),
	}
}
