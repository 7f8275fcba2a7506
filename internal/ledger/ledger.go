// Package ledger records negotiation outcomes and derives per-supplier
// statistics from them. The ledger is append-only: every completed
// negotiation produces exactly one Outcome record.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/procgo-dev/procgo/internal/negotiation"
)

// Outcome is a single negotiation result as recorded in the ledger.
type Outcome struct {
	ID               string               `json:"id"`
	SupplierID       string               `json:"supplier_id"`
	DiscountAsked    float64              `json:"discount_asked"`
	DiscountReceived float64              `json:"discount_received"`
	Decision         negotiation.Decision `json:"decision"`
	OrderValue       float64              `json:"order_value"`
	Savings          float64              `json:"savings"`
	Timestamp        time.Time            `json:"timestamp"`
}

// Ledger is an append-only store of negotiation outcomes.
type Ledger interface {
	// Append records an outcome. A missing ID or Timestamp is filled in.
	Append(ctx context.Context, o Outcome) error
	// All returns every recorded outcome in append order.
	All(ctx context.Context) ([]Outcome, error)
	// BySupplier returns the outcomes for one supplier in append order.
	BySupplier(ctx context.Context, supplierID string) ([]Outcome, error)
	// Close releases any resources held by the ledger.
	Close() error
}

// stamp fills in generated fields on a new outcome.
func stamp(o Outcome) Outcome {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now().UTC()
	}
	return o
}

// MemoryLedger keeps outcomes in process memory. It is the default for
// tests and single-run invocations.
type MemoryLedger struct {
	mu       sync.RWMutex
	outcomes []Outcome
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (l *MemoryLedger) Append(_ context.Context, o Outcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, stamp(o))
	return nil
}

func (l *MemoryLedger) All(_ context.Context) ([]Outcome, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Outcome, len(l.outcomes))
	copy(out, l.outcomes)
	return out, nil
}

func (l *MemoryLedger) BySupplier(_ context.Context, supplierID string) ([]Outcome, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Outcome
	for _, o := range l.outcomes {
		if o.SupplierID == supplierID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (l *MemoryLedger) Close() error { return nil }
