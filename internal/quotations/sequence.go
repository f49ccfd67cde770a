package quotations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrAlreadyNumbered indicates a number assignment on a quotation that
	// already carries one.
	ErrAlreadyNumbered = errors.New("quotation already numbered")
	// ErrSequenceRegressed indicates the claim source returned a value at or
	// below one already issued for the same period.
	ErrSequenceRegressed = errors.New("quotation sequence regressed")
)

// NumberSource claims the next value of a named monthly sequence. The claim
// must be atomic on the storage side (a single-statement upsert in the
// Postgres implementation); the Numberer does not serialize concurrent
// senders itself, it only refuses to hand out a value it has already
// handed out within this process.
type NumberSource interface {
	Next(ctx context.Context, period string) (int64, error)
}

// Numberer formats and issues quotation numbers. Numbers are gap-tolerant:
// a claimed value lost to a rolled-back transaction is never reused.
type Numberer struct {
	mu     sync.Mutex
	source NumberSource
	issued map[string]int64
}

func NewNumberer(source NumberSource) *Numberer {
	return &Numberer{source: source, issued: make(map[string]int64)}
}

// Assign produces the next number in the COT-YYYYMM-NNNN sequence for the
// month of now. It fails with ErrAlreadyNumbered when the quotation has a
// number, and never returns the same value twice across sequential calls.
func (n *Numberer) Assign(ctx context.Context, q Quotation, now time.Time) (string, error) {
	if q.Number != "" {
		return "", fmt.Errorf("%w: %s", ErrAlreadyNumbered, q.Number)
	}

	period := now.Format("200601")

	n.mu.Lock()
	defer n.mu.Unlock()

	seq, err := n.source.Next(ctx, period)
	if err != nil {
		return "", fmt.Errorf("claim quotation number: %w", err)
	}
	if last, ok := n.issued[period]; ok && seq <= last {
		return "", fmt.Errorf("%w: claimed %d after %d in period %s", ErrSequenceRegressed, seq, last, period)
	}
	n.issued[period] = seq

	return fmt.Sprintf("COT-%s-%04d", period, seq), nil
}
