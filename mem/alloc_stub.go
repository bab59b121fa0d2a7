//go:build !linux || (!amd64 && !arm64)

// File: mem/alloc_stub.go
// Package mem: double-mapped allocator stub for unsupported platforms.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package mem

import (
	"fmt"

	"github.com/momentics/sdrflow/api"
)

// NewDoubleMapped reports that the platform lacks the required memfd/mmap
// primitives. Callers fall back to NewHeap.
func NewDoubleMapped() (api.Allocator, error) {
	return nil, fmt.Errorf("mem: double-mapped allocator: %w", api.ErrNotSupported)
}
