// File: mem/alloc.go
// Package mem provides the backing-region allocators for ring storage.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Two strategies satisfy the api.Allocator contract: a plain heap region
// whose second half must be mirrored by the ring on every publish, and a
// double-mapped region (platform permitting) where the second half aliases
// the physical pages of the first so the mirror is free.

package mem

import (
	"fmt"
	"os"

	"github.com/momentics/sdrflow/api"
)

// PageSize returns the OS page size observed at startup.
func PageSize() int {
	return pageSize
}

// pageSize is grabbed once; mmap demands page-aligned everything and the
// value never changes for the lifetime of a process.
var pageSize = os.Getpagesize()

// PageAlign rounds n up to the nearest page boundary. n <= 0 is clamped
// to one page.
func PageAlign(n int) int {
	if n <= 0 {
		return pageSize
	}
	return ((n-1)/pageSize + 1) * pageSize
}

// heapAllocator satisfies the contract with plain heap memory. The ring
// compensates for the absent aliasing by copying published slots into the
// mirror half after every translator invocation.
type heapAllocator struct{}

// NewHeap returns the portable heap allocator.
func NewHeap() api.Allocator {
	return &heapAllocator{}
}

func (*heapAllocator) Allocate(bytes int) ([]byte, error) {
	if bytes <= 0 {
		return nil, fmt.Errorf("mem: allocate %d bytes: %w", bytes, api.ErrAllocFailed)
	}
	return make([]byte, 2*bytes), nil
}

func (*heapAllocator) Release(region []byte) error {
	return nil
}

func (*heapAllocator) Mirrored() bool {
	return false
}
