// File: ring/view.go
// Package ring: zero-copy span reinterpretation.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"fmt"
	"unsafe"
)

// ViewAs reinterprets a span obtained from a reader or writer as a span
// of another element type without copying, e.g. viewing complex64 IQ
// samples as their float32 components. The span's byte length must divide
// evenly into U elements; anything else is a fatal layout error.
func ViewAs[U, T any](span []T) []U {
	uSize := int(unsafe.Sizeof(*new(U)))
	tSize := int(unsafe.Sizeof(*new(T)))
	total := len(span) * tSize
	if uSize == 0 || total%uSize != 0 {
		panic(fmt.Sprintf("ring: cannot view %d-byte span as %d-byte elements", total, uSize))
	}
	if len(span) == 0 {
		return nil
	}
	return unsafe.Slice((*U)(unsafe.Pointer(&span[0])), total/uSize)
}
