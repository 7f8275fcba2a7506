package ledger

import (
	"context"
	"math"
	"sort"

	"github.com/procgo-dev/procgo/internal/negotiation"
)

// SupplierStats aggregates a supplier's negotiation history.
type SupplierStats struct {
	SupplierID      string  `json:"supplier_id"`
	Negotiations    int     `json:"negotiations"`
	Accepted        int     `json:"accepted"`
	AcceptRate      float64 `json:"accept_rate"`
	AvgAsked        float64 `json:"avg_asked"`
	AvgReceived     float64 `json:"avg_received"`
	TotalOrderValue float64 `json:"total_order_value"`
	TotalSavings    float64 `json:"total_savings"`
}

// Stats aggregates the full negotiation history across all suppliers.
type Stats struct {
	TotalNegotiations int             `json:"total_negotiations"`
	TotalOrderValue   float64         `json:"total_order_value"`
	TotalSavings      float64         `json:"total_savings"`
	Suppliers         []SupplierStats `json:"suppliers"`
}

// Aggregate computes per-supplier and overall statistics from a ledger.
// Suppliers are sorted by id so output is stable.
func Aggregate(ctx context.Context, l Ledger) (Stats, error) {
	outcomes, err := l.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	return AggregateOutcomes(outcomes), nil
}

// AggregateOutcomes computes statistics from an outcome slice directly.
func AggregateOutcomes(outcomes []Outcome) Stats {
	bySupplier := make(map[string][]Outcome)
	for _, o := range outcomes {
		bySupplier[o.SupplierID] = append(bySupplier[o.SupplierID], o)
	}

	ids := make([]string, 0, len(bySupplier))
	for id := range bySupplier {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	stats := Stats{TotalNegotiations: len(outcomes)}
	for _, id := range ids {
		group := bySupplier[id]
		s := SupplierStats{SupplierID: id, Negotiations: len(group)}
		var asked, received float64
		for _, o := range group {
			asked += o.DiscountAsked
			received += o.DiscountReceived
			s.TotalOrderValue += o.OrderValue
			s.TotalSavings += o.Savings
			if o.Decision == negotiation.Accept {
				s.Accepted++
			}
		}
		n := float64(len(group))
		s.AcceptRate = round2(float64(s.Accepted) / n)
		s.AvgAsked = round2(asked / n)
		s.AvgReceived = round2(received / n)
		s.TotalOrderValue = round2(s.TotalOrderValue)
		s.TotalSavings = round2(s.TotalSavings)

		stats.TotalOrderValue += s.TotalOrderValue
		stats.TotalSavings += s.TotalSavings
		stats.Suppliers = append(stats.Suppliers, s)
	}
	stats.TotalOrderValue = round2(stats.TotalOrderValue)
	stats.TotalSavings = round2(stats.TotalSavings)
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
