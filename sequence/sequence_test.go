package sequence_test

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/momentics/sdrflow/sequence"
)

func TestSequenceBasics(t *testing.T) {
	s1 := sequence.New()
	if got := s1.Value(); got != sequence.InitialCursorValue {
		t.Fatalf("fresh sequence = %d, want %d", got, sequence.InitialCursorValue)
	}

	s2 := sequence.NewAt(2)
	if got := s2.Value(); got != 2 {
		t.Fatalf("NewAt(2).Value() = %d, want 2", got)
	}

	s1.Set(3)
	if got := s1.Value(); got != 3 {
		t.Fatalf("after Set(3): %d", got)
	}

	if !s1.CompareAndSet(3, 4) {
		t.Fatal("CompareAndSet(3, 4) failed with current value 3")
	}
	if got := s1.Value(); got != 4 {
		t.Fatalf("after CAS: %d, want 4", got)
	}
	if s1.CompareAndSet(3, 5) {
		t.Fatal("CompareAndSet(3, 5) succeeded with current value 4")
	}
	if got := s1.Value(); got != 4 {
		t.Fatalf("failed CAS mutated value: %d", got)
	}

	if got := s1.IncrementAndGet(); got != 5 {
		t.Fatalf("IncrementAndGet() = %d, want 5", got)
	}
	if got := s1.AddAndGet(2); got != 7 {
		t.Fatalf("AddAndGet(2) = %d, want 7", got)
	}
	if got := s1.Value(); got != 7 {
		t.Fatalf("value after arithmetic: %d, want 7", got)
	}

	if s := fmt.Sprintf("%v", s1); s == "" {
		t.Fatal("Stringer produced empty output")
	}
}

func TestSetMinimum(t *testing.T) {
	set := sequence.NewSet()

	if got := set.Minimum(); got != math.MaxInt64 {
		t.Fatalf("Minimum() on empty set = %d, want MaxInt64", got)
	}
	if got := set.Minimum(2); got != 2 {
		t.Fatalf("Minimum(2) on empty set = %d, want 2", got)
	}

	// Add pins new members to the cursor value, so model a reader that
	// has fallen behind by re-setting it afterwards
	cursor := sequence.NewAt(10)
	member := sequence.New()
	set.Add(cursor, member)
	member.Set(4)

	if got := set.Minimum(); got != 4 {
		t.Fatalf("Minimum() = %d, want 4", got)
	}
	if got := set.Minimum(5); got != 4 {
		t.Fatalf("Minimum(5) = %d, want 4", got)
	}
	if got := set.Minimum(2); got != 2 {
		t.Fatalf("Minimum(2) = %d, want 2", got)
	}
}

func TestSetJoinRule(t *testing.T) {
	cursor := sequence.NewAt(10)
	set := sequence.NewSet()
	lagging := sequence.NewAt(4)
	set.Add(cursor, lagging)
	lagging.Set(4)

	joiner := sequence.NewAt(1)
	if got := set.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	set.Add(cursor, joiner)
	if got := set.Len(); got != 2 {
		t.Fatalf("Len() after Add = %d, want 2", got)
	}
	// newly added sequences are set automatically to the cursor position
	if got := joiner.Value(); got != 10 {
		t.Fatalf("joiner = %d, want cursor value 10", got)
	}
	if got := set.Minimum(); got != 4 {
		t.Fatalf("Minimum() after join = %d, want 4", got)
	}

	if set.Remove(cursor) {
		t.Fatal("Remove succeeded for a non-member")
	}
	if got := set.Len(); got != 2 {
		t.Fatalf("Len() after failed remove = %d, want 2", got)
	}
	if !set.Remove(joiner) {
		t.Fatal("Remove failed for a member")
	}
	if got := set.Len(); got != 1 {
		t.Fatalf("Len() after remove = %d, want 1", got)
	}
}

func TestSetConcurrentMembership(t *testing.T) {
	cursor := sequence.NewAt(0)
	set := sequence.NewSet()

	const perWorker = 64
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seqs := make([]*sequence.Sequence, perWorker)
			for i := range seqs {
				seqs[i] = sequence.New()
				set.Add(cursor, seqs[i])
			}
			for _, s := range seqs {
				if !set.Remove(s) {
					t.Error("lost a member under concurrent mutation")
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := set.Len(); got != 0 {
		t.Fatalf("Len() after balanced add/remove = %d, want 0", got)
	}
}
