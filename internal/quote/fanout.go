package quote

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/procgo-dev/procgo/internal/bandit"
	"github.com/procgo-dev/procgo/internal/bom"
	"github.com/procgo-dev/procgo/internal/catalog"
	"github.com/procgo-dev/procgo/internal/ledger"
	"github.com/procgo-dev/procgo/internal/negotiation"
	"github.com/procgo-dev/procgo/pkg/observability"
)

// Gatherer fans an RFQ out to all candidate suppliers at once. Each
// supplier is handled in its own goroutine; a failure or panic in one
// becomes a per-supplier error record and never affects the rest.
type Gatherer struct {
	bandit  *bandit.Bandit
	ledger  ledger.Ledger
	epsilon float64
	limit   int
}

// NewGatherer creates a gatherer. epsilon is the exploration rate
// passed to the bandit; limit bounds concurrent suppliers (0 = one
// goroutine per supplier).
func NewGatherer(b *bandit.Bandit, l ledger.Ledger, epsilon float64, limit int) *Gatherer {
	return &Gatherer{bandit: b, ledger: l, epsilon: epsilon, limit: limit}
}

// Gather requests quotes from every supplier concurrently. It always
// returns exactly one Result per supplier, in supplier order.
func (g *Gatherer) Gather(ctx context.Context, suppliers []catalog.Supplier, items []bom.Item) []Result {
	results := make([]Result, len(suppliers))

	var eg errgroup.Group
	if g.limit > 0 {
		eg.SetLimit(g.limit)
	}
	for i, sup := range suppliers {
		i, sup := i, sup
		eg.Go(func() error {
			results[i] = g.quoteOne(ctx, sup, items)
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

// quoteOne handles a single supplier end to end: pick a discount to
// ask, price the BOM, then record the outcome for learning.
func (g *Gatherer) quoteOne(ctx context.Context, sup catalog.Supplier, items []bom.Item) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failure(sup, fmt.Errorf("quote panicked: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return failure(sup, err)
	}

	choice, err := g.bandit.ChooseDiscount(sup.ID, g.epsilon)
	if err != nil {
		return failure(sup, fmt.Errorf("choose discount: %w", err))
	}

	q := Build(sup, items, choice.DiscountPct)
	q.Rationale = choice.Rationale

	decision := negotiation.EvaluateDiscount(q.DiscountAsked, q.Subtotal, sup.MaxDiscountPct).Decision
	g.record(ctx, q, decision)
	return Result{Quote: &q}
}

// record persists the negotiation outcome. Recording survives request
// cancellation so learning state stays consistent with issued quotes.
func (g *Gatherer) record(ctx context.Context, q Quote, decision negotiation.Decision) {
	rctx := context.WithoutCancel(ctx)

	observability.RecordNegotiationOutcome(string(decision))
	if err := g.bandit.RecordOutcome(q.SupplierID, q.DiscountAsked, q.DiscountPct, decision); err != nil {
		log.Printf("quote: record bandit outcome for %s: %v", q.SupplierID, err)
	}
	if g.ledger == nil {
		return
	}
	err := g.ledger.Append(rctx, ledger.Outcome{
		SupplierID:       q.SupplierID,
		DiscountAsked:    q.DiscountAsked,
		DiscountReceived: q.DiscountPct,
		Decision:         decision,
		OrderValue:       q.Total,
		Savings:          q.DiscountAmount,
	})
	if err != nil {
		log.Printf("quote: append ledger outcome for %s: %v", q.SupplierID, err)
	}
}

func failure(sup catalog.Supplier, err error) Result {
	return Result{Err: &SupplierError{
		SupplierID:   sup.ID,
		SupplierName: sup.Name,
		Err:          err.Error(),
	}}
}

// Quotes extracts the successful quotes from a result set.
func Quotes(results []Result) []Quote {
	var out []Quote
	for _, r := range results {
		if r.Quote != nil {
			out = append(out, *r.Quote)
		}
	}
	return out
}

// Errors extracts the per-supplier failures from a result set.
func Errors(results []Result) []SupplierError {
	var out []SupplierError
	for _, r := range results {
		if r.Err != nil {
			out = append(out, *r.Err)
		}
	}
	return out
}
