// Package negotiation holds the discount-evaluation rule a supplier applies
// to an incoming discount request. The rule is pure and total: every input
// produces a decision, no input produces an error.
package negotiation

import (
	"fmt"
	"math"
)

// Decision is the supplier's answer to a discount request.
type Decision string

const (
	Accept  Decision = "ACCEPT"
	Counter Decision = "COUNTER"
	Reject  Decision = "REJECT"
)

// Outcome is the full result of evaluating a discount request.
// Monetary fields are rounded to 2 decimals, percentages to 1.
type Outcome struct {
	Decision      Decision `json:"decision"`
	RequestedPct  float64  `json:"requested_pct"`
	ApprovedPct   float64  `json:"approved_pct"`
	OriginalTotal float64  `json:"original_total"`
	NewTotal      float64  `json:"new_total"`
	Savings       float64  `json:"savings"`
	Reason        string   `json:"reason"`
}

// EvaluateDiscount applies the supplier's discount policy:
//
//	requested <= 0          ACCEPT at 0%
//	requested <= max/2      ACCEPT at the requested percentage
//	requested <= max        COUNTER at avg(requested, max/2)
//	requested >  max        COUNTER at max
func EvaluateDiscount(requestedPct, currentTotal, maxPct float64) Outcome {
	switch {
	case requestedPct <= 0:
		return Outcome{
			Decision:      Accept,
			RequestedPct:  requestedPct,
			ApprovedPct:   0,
			OriginalTotal: round2(currentTotal),
			NewTotal:      round2(currentTotal),
			Savings:       0,
			Reason:        "No discount requested",
		}

	case requestedPct <= maxPct/2:
		newTotal := currentTotal * (1 - requestedPct/100)
		return Outcome{
			Decision:      Accept,
			RequestedPct:  requestedPct,
			ApprovedPct:   requestedPct,
			OriginalTotal: round2(currentTotal),
			NewTotal:      round2(newTotal),
			Savings:       round2(currentTotal - newTotal),
			Reason:        "Discount approved - within comfortable margin",
		}

	case requestedPct <= maxPct:
		counterPct := round1((requestedPct + maxPct/2) / 2)
		newTotal := currentTotal * (1 - counterPct/100)
		return Outcome{
			Decision:      Counter,
			RequestedPct:  requestedPct,
			ApprovedPct:   counterPct,
			OriginalTotal: round2(currentTotal),
			NewTotal:      round2(newTotal),
			Savings:       round2(currentTotal - newTotal),
			Reason:        fmt.Sprintf("Can offer %.1f%% instead of %.1f%%", counterPct, requestedPct),
		}

	default:
		newTotal := currentTotal * (1 - maxPct/100)
		return Outcome{
			Decision:      Counter,
			RequestedPct:  requestedPct,
			ApprovedPct:   maxPct,
			OriginalTotal: round2(currentTotal),
			NewTotal:      round2(newTotal),
			Savings:       round2(currentTotal - newTotal),
			Reason:        fmt.Sprintf("Maximum possible discount is %.1f%%", maxPct),
		}
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
