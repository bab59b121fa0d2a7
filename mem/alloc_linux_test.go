//go:build linux && (amd64 || arm64)

package mem_test

import (
	"errors"
	"testing"

	"github.com/momentics/sdrflow/api"
	"github.com/momentics/sdrflow/mem"
)

func TestDoubleMappedAliasing(t *testing.T) {
	a, err := mem.NewDoubleMapped()
	if err != nil {
		t.Fatalf("NewDoubleMapped: %v", err)
	}
	if !a.Mirrored() {
		t.Fatal("double-mapped allocator claims not to be mirrored")
	}

	bytes := mem.PageSize()
	region, err := a.Allocate(bytes)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(region) != 2*bytes {
		t.Fatalf("region length = %d, want %d", len(region), 2*bytes)
	}

	// writes to the first half appear in the second without a copy
	region[0] = 0xA5
	region[bytes-1] = 0x5A
	if region[bytes] != 0xA5 || region[2*bytes-1] != 0x5A {
		t.Fatalf("mirror half = [%#x … %#x], want [0xa5 … 0x5a]",
			region[bytes], region[2*bytes-1])
	}

	// and the aliasing holds in the other direction
	region[bytes+7] = 0x33
	if region[7] != 0x33 {
		t.Fatalf("region[7] = %#x after mirror write, want 0x33", region[7])
	}

	if err := a.Release(region); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestDoubleMappedRejectsUnaligned(t *testing.T) {
	a, err := mem.NewDoubleMapped()
	if err != nil {
		t.Fatalf("NewDoubleMapped: %v", err)
	}
	if _, err := a.Allocate(mem.PageSize() + 1); !errors.Is(err, api.ErrAlignment) {
		t.Fatalf("err = %v, want ErrAlignment", err)
	}
	if _, err := a.Allocate(0); !errors.Is(err, api.ErrAlignment) {
		t.Fatalf("err = %v, want ErrAlignment for zero bytes", err)
	}
}
