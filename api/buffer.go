// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contracts for the sample-stream circular buffer: one writer side claiming
// and publishing contiguous slot ranges, one or more independent reader
// sides consuming them. Spans handed out by either side are views straight
// into the ring storage; no operation here copies sample data.

package api

// BufferReader consumes a typed sample stream from a ring.
//
// Get and Consume operate on the reader's private read sequence; distinct
// readers over the same ring never interfere with each other.
type BufferReader[T any] interface {
	// Get returns a read-only view of up to n unconsumed samples.
	// n <= 0 requests everything currently available. The span is always
	// contiguous, even when the logical window straddles the wrap point.
	Get(n int) []T

	// Consume advances the read sequence by n samples, releasing them for
	// overwrite. Returns false (without mutating state) when n exceeds the
	// available count.
	Consume(n int) bool

	// At random-accesses the i-th unconsumed sample without consuming it.
	At(i int) T

	// Available reports how many published samples this reader has not
	// yet consumed.
	Available() int

	// Close deregisters the reader's sequence from the ring so it no
	// longer back-pressures the writer.
	Close() error
}

// BufferWriter publishes typed samples into a ring.
type BufferWriter[T any] interface {
	// Publish claims n slots, invokes translator with a writable span
	// aliasing them, and makes the samples visible to all readers.
	// Blocks while the slowest reader still holds the slots. A fault
	// raised by the translator is returned; the slots are published
	// regardless so the sequence space stays contiguous.
	Publish(translator func([]T), n int) error

	// TryPublish is Publish without blocking: it returns false when the
	// ring lacks capacity and leaves all state untouched.
	TryPublish(translator func([]T), n int) bool

	// Available reports how many slots can be claimed without blocking.
	Available() int
}
