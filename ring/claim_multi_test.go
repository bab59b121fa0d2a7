package ring_test

import (
	"sync"
	"testing"

	"github.com/momentics/sdrflow/mem"
	"github.com/momentics/sdrflow/ring"
	"github.com/momentics/sdrflow/wait"
)

// Concurrent producers: every published value arrives exactly once and
// each producer's values arrive in its publication order.
func TestMultiProducerOrdering(t *testing.T) {
	buf, err := ring.New[int64](ring.Config{
		MinSize:   1024,
		Producer:  ring.MultiProducer,
		Wait:      wait.NewYielding(),
		Allocator: mem.NewHeap(),
	})
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	defer buf.Close()

	const (
		producers   = 4
		perProducer = 20000
		tagShift    = 32
	)

	reader := buf.NewReader()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(tag int64) {
			defer wg.Done()
			writer := buf.NewWriter()
			for i := 0; i < perProducer; i++ {
				value := tag<<tagShift | int64(i)
				if err := writer.Publish(func(span []int64) {
					span[0] = value
				}, 1); err != nil {
					t.Errorf("producer %d: %v", tag, err)
					return
				}
			}
		}(int64(p))
	}

	seen := make([]int64, producers) // next expected per-producer counter
	total := 0
	for total < producers*perProducer {
		span := reader.Get(0)
		if len(span) == 0 {
			continue
		}
		for _, v := range span {
			tag := v >> tagShift
			counter := v & (1<<tagShift - 1)
			if tag < 0 || tag >= producers {
				t.Fatalf("sample %#x carries unknown producer tag %d", v, tag)
			}
			if counter != seen[tag] {
				t.Fatalf("producer %d published out of order: got %d, want %d", tag, counter, seen[tag])
			}
			seen[tag]++
		}
		total += len(span)
		if !reader.Consume(len(span)) {
			t.Fatal("Consume failed mid-drain")
		}
	}
	wg.Wait()

	for p, n := range seen {
		if n != perProducer {
			t.Fatalf("producer %d delivered %d samples, want %d", p, n, perProducer)
		}
	}
	if got := reader.Available(); got != 0 {
		t.Fatalf("Available() after full drain = %d", got)
	}
}

// Multi-producer batches stay internally contiguous.
func TestMultiProducerBatches(t *testing.T) {
	buf, err := ring.New[int32](ring.Config{
		MinSize:   1024,
		Producer:  ring.MultiProducer,
		Wait:      wait.NewYielding(),
		Allocator: mem.NewHeap(),
	})
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	defer buf.Close()

	reader := buf.NewReader()
	var wg sync.WaitGroup
	const batches = 2000
	for p := 0; p < 2; p++ {
		wg.Add(1)
		go func(tag int32) {
			defer wg.Done()
			writer := buf.NewWriter()
			for i := 0; i < batches; i++ {
				base := tag*1_000_000 + int32(i)*8
				if err := writer.Publish(func(span []int32) {
					for j := range span {
						span[j] = base + int32(j)
					}
				}, 8); err != nil {
					t.Errorf("producer %d: %v", tag, err)
					return
				}
			}
		}(int32(p))
	}

	drained := 0
	for drained < 2*batches*8 {
		// consume whole batches so each inspection sees aligned blocks
		avail := reader.Available() / 8 * 8
		if avail == 0 {
			continue
		}
		span := reader.Get(avail)
		for at := 0; at < len(span); at += 8 {
			block := span[at : at+8]
			for j, v := range block {
				if v != block[0]+int32(j) {
					t.Fatalf("batch torn at offset %d: %v", at, block)
				}
			}
		}
		reader.Consume(len(span))
		drained += len(span)
	}
	wg.Wait()
}
