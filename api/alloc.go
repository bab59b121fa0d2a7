// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Memory-region allocation contract for ring storage.
//
// Regions may be plain heap memory or double-mapped virtual memory where
// the second half aliases the physical pages of the first, giving callers
// a wrap-free view of the ring.

package api

// Allocator provides the backing region for a ring of `bytes` payload
// bytes. The returned slice is always 2*bytes long: either both halves
// alias the same pages (Mirrored() == true) or the caller must mirror
// published data into the second half itself.
type Allocator interface {
	// Allocate returns a zeroed region of length 2*bytes.
	Allocate(bytes int) ([]byte, error)

	// Release returns a region obtained from Allocate. The region must
	// not be accessed afterwards.
	Release(region []byte) error

	// Mirrored reports whether writes to offset i are visible at offset
	// i+bytes without an explicit copy.
	Mirrored() bool
}
