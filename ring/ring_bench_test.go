package ring_test

import (
	"testing"

	"github.com/momentics/sdrflow/api"
	"github.com/momentics/sdrflow/mem"
	"github.com/momentics/sdrflow/ring"
	"github.com/momentics/sdrflow/wait"
)

func benchPublishConsume(b *testing.B, alloc api.Allocator, block int) {
	buf, err := ring.New[int32](ring.Config{
		MinSize:   4096,
		Wait:      wait.NewBusySpin(),
		Allocator: alloc,
	})
	if err != nil {
		b.Fatalf("ring.New: %v", err)
	}
	defer buf.Close()
	reader := buf.NewReader()
	writer := buf.NewWriter()

	fill := func(span []int32) {
		for i := range span {
			span[i] = int32(i)
		}
	}

	b.SetBytes(int64(block * 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !writer.TryPublish(fill, block) {
			b.Fatal("ring full in lock-step benchmark")
		}
		span := reader.Get(block)
		if len(span) != block {
			b.Fatalf("Get(%d) = %d samples", block, len(span))
		}
		reader.Consume(block)
	}
}

func BenchmarkPublishConsumeHeap64(b *testing.B) {
	benchPublishConsume(b, mem.NewHeap(), 64)
}

func BenchmarkPublishConsumeMapped64(b *testing.B) {
	alloc, err := mem.NewDoubleMapped()
	if err != nil {
		b.Skipf("double-mapped allocator: %v", err)
	}
	benchPublishConsume(b, alloc, 64)
}

func BenchmarkPublishConsumeMapped1(b *testing.B) {
	alloc, err := mem.NewDoubleMapped()
	if err != nil {
		b.Skipf("double-mapped allocator: %v", err)
	}
	benchPublishConsume(b, alloc, 1)
}
