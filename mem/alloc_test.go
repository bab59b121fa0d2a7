package mem_test

import (
	"testing"

	"github.com/momentics/sdrflow/mem"
)

func TestPageAlign(t *testing.T) {
	page := mem.PageSize()
	if got := mem.PageAlign(0); got != page {
		t.Fatalf("PageAlign(0) = %d, want %d", got, page)
	}
	if got := mem.PageAlign(1); got != page {
		t.Fatalf("PageAlign(1) = %d, want %d", got, page)
	}
	if got := mem.PageAlign(page); got != page {
		t.Fatalf("PageAlign(page) = %d, want %d", got, page)
	}
	if got := mem.PageAlign(page + 1); got != 2*page {
		t.Fatalf("PageAlign(page+1) = %d, want %d", got, 2*page)
	}
}

func TestHeapAllocator(t *testing.T) {
	a := mem.NewHeap()
	if a.Mirrored() {
		t.Fatal("heap allocator claims to be mirrored")
	}

	region, err := a.Allocate(100)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(region) != 200 {
		t.Fatalf("region length = %d, want 200", len(region))
	}
	for i, b := range region {
		if b != 0 {
			t.Fatalf("region[%d] = %d, want zeroed memory", i, b)
		}
	}
	if err := a.Release(region); err != nil {
		t.Fatalf("Release: %v", err)
	}

	if _, err := a.Allocate(0); err == nil {
		t.Fatal("Allocate(0) succeeded")
	}
}
