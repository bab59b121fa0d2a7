//go:build linux && (amd64 || arm64)

// File: mem/alloc_linux.go
// Package mem: double-mapped allocator for Linux.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The region is built in four steps: create an anonymous memfd of twice
// the payload size, map both halves in one shot to reserve a contiguous
// virtual range, unmap the second half, then MAP_FIXED the memfd's first
// half into the freed hole. From then on a write at offset i is visible
// at offset i+bytes with no copy; the fd is closed immediately since the
// mappings keep the pages alive.

package mem

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/sdrflow/api"
)

// regionCounter disambiguates memfd names between rings of one process.
var regionCounter atomic.Int64

type doubleMappedAllocator struct{}

// NewDoubleMapped returns the wrap-free mmap allocator.
func NewDoubleMapped() (api.Allocator, error) {
	return &doubleMappedAllocator{}, nil
}

func (*doubleMappedAllocator) Allocate(bytes int) ([]byte, error) {
	if bytes <= 0 || bytes%pageSize != 0 {
		return nil, fmt.Errorf("mem: allocate %d bytes vs. page size %d: %w", bytes, pageSize, api.ErrAlignment)
	}

	name := fmt.Sprintf("sdrflow-ring-%d-%d-%d", os.Getpid(), bytes, regionCounter.Add(1))
	fd, err := unix.MemfdCreate(name, 0)
	if err != nil {
		return nil, fmt.Errorf("mem: memfd_create %s: %w", name, errors.Join(api.ErrAllocFailed, err))
	}

	if err := unix.Ftruncate(fd, int64(2*bytes)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mem: ftruncate %s: %w", name, errors.Join(api.ErrAllocFailed, err))
	}

	prot := uintptr(unix.PROT_READ | unix.PROT_WRITE)
	base, _, errno := unix.Syscall6(unix.SYS_MMAP,
		0, uintptr(2*bytes), prot, uintptr(unix.MAP_SHARED), uintptr(fd), 0)
	if errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("mem: mmap %s: %w", name, errors.Join(api.ErrAllocFailed, errno))
	}

	// punch out the second half of the reservation
	if _, _, errno := unix.Syscall(unix.SYS_MUNMAP,
		base+uintptr(bytes), uintptr(bytes), 0); errno != 0 {
		munmapAt(base, 2*bytes)
		unix.Close(fd)
		return nil, fmt.Errorf("mem: munmap second half of %s: %w", name, errno)
	}

	// remap the object's first half into the freed hole; MAP_FIXED must
	// land exactly where asked or the aliasing is void
	addr, _, errno := unix.Syscall6(unix.SYS_MMAP,
		base+uintptr(bytes), uintptr(bytes), prot,
		uintptr(unix.MAP_SHARED|unix.MAP_FIXED), uintptr(fd), 0)
	if errno != 0 || addr != base+uintptr(bytes) {
		munmapAt(base, 2*bytes)
		unix.Close(fd)
		if errno == 0 {
			return nil, fmt.Errorf("mem: mmap second copy of %s: expected address %#x, got %#x", name, base+uintptr(bytes), addr)
		}
		return nil, fmt.Errorf("mem: mmap second copy of %s: %w", name, errno)
	}

	// file descriptor is no longer needed, the mappings retain the pages
	unix.Close(fd)

	return unsafe.Slice((*byte)(unsafe.Pointer(base)), 2*bytes), nil
}

func (*doubleMappedAllocator) Release(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	base := uintptr(unsafe.Pointer(&region[0]))
	if err := munmapAt(base, len(region)); err != nil {
		return fmt.Errorf("mem: release: %w", err)
	}
	return nil
}

func (*doubleMappedAllocator) Mirrored() bool {
	return true
}

// munmapAt tears down length bytes of mapping at addr.
func munmapAt(addr uintptr, length int) error {
	if _, _, errno := unix.Syscall(unix.SYS_MUNMAP, addr, uintptr(length), 0); errno != 0 {
		return errno
	}
	return nil
}
