package quotations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// memorySource mimics the transactional claim the Postgres repository
// performs: a mutex stands in for the single-statement upsert.
type memorySource struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMemorySource() *memorySource {
	return &memorySource{seqs: make(map[string]int64)}
}

func (s *memorySource) Next(_ context.Context, period string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs[period]++
	return s.seqs[period], nil
}

type stuckSource struct{}

func (stuckSource) Next(context.Context, string) (int64, error) { return 1, nil }

func TestNumbererAssignsSequentialNumbers(t *testing.T) {
	numberer := NewNumberer(newMemorySource())
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	first, err := numberer.Assign(context.Background(), Quotation{}, now)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if first != "COT-202602-0001" {
		t.Fatalf("unexpected number %s", first)
	}

	second, err := numberer.Assign(context.Background(), Quotation{}, now)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if second != "COT-202602-0002" {
		t.Fatalf("unexpected number %s", second)
	}
}

func TestNumbererNeverRepeatsWithinProcess(t *testing.T) {
	numberer := NewNumberer(newMemorySource())
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		num, err := numberer.Assign(context.Background(), Quotation{}, now)
		if err != nil {
			t.Fatalf("assign %d: %v", i, err)
		}
		if seen[num] {
			t.Fatalf("number %s issued twice", num)
		}
		seen[num] = true
	}
}

func TestNumbererRejectsAlreadyNumbered(t *testing.T) {
	numberer := NewNumberer(newMemorySource())
	q := Quotation{Number: "COT-202601-0007"}

	if _, err := numberer.Assign(context.Background(), q, time.Now()); !errors.Is(err, ErrAlreadyNumbered) {
		t.Fatalf("expected ErrAlreadyNumbered, got %v", err)
	}
}

func TestNumbererDetectsRegressedSource(t *testing.T) {
	numberer := NewNumberer(stuckSource{})
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	if _, err := numberer.Assign(context.Background(), Quotation{}, now); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	if _, err := numberer.Assign(context.Background(), Quotation{}, now); !errors.Is(err, ErrSequenceRegressed) {
		t.Fatalf("expected ErrSequenceRegressed, got %v", err)
	}
}

func TestNumbererResetsAcrossPeriods(t *testing.T) {
	numberer := NewNumberer(newMemorySource())

	jan, err := numberer.Assign(context.Background(), Quotation{}, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("assign jan: %v", err)
	}
	feb, err := numberer.Assign(context.Background(), Quotation{}, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("assign feb: %v", err)
	}
	if jan != "COT-202601-0001" || feb != "COT-202602-0001" {
		t.Fatalf("periods not independent: %s %s", jan, feb)
	}
}

// The uniqueness contract under concurrency belongs to the claim source, not
// the Numberer. With an atomic source, parallel sends must still never
// observe a duplicate.
func TestNumbererConcurrentAssignsWithAtomicSource(t *testing.T) {
	numberer := NewNumberer(newMemorySource())
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	const workers = 32
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := numberer.Assign(context.Background(), Quotation{}, now)
			if err != nil {
				t.Errorf("assign: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for num := range results {
		if seen[num] {
			t.Fatalf("duplicate number %s under concurrency", num)
		}
		seen[num] = true
	}
}
