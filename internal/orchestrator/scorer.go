package orchestrator

import (
	"fmt"
	"sort"

	"github.com/procgo-dev/procgo/internal/compliance"
	"github.com/procgo-dev/procgo/internal/logistics"
	"github.com/procgo-dev/procgo/internal/quote"
)

// Scoring weights. Compliance and deadline dominate; trust and region
// preference break close calls.
const (
	compliancePassBonus = 30.0
	blockerPenalty      = 10.0
	deadlineMetBonus    = 25.0
	daysOverPenalty     = 5.0
	trustWeight         = 20.0
	regionMatchBonus    = 10.0
	highScoreTrustMark  = 50.0
	unknownDeliveryDays = 999
)

// ScoredOption is one supplier's final ranking entry.
type ScoredOption struct {
	SupplierID       string  `json:"supplier_id"`
	SupplierName     string  `json:"supplier_name"`
	Score            float64 `json:"score"`
	Total            float64 `json:"total"`
	CompliancePassed bool    `json:"compliance_passed"`
	TotalDays        int     `json:"total_days"`
	MeetsDeadline    bool    `json:"meets_deadline"`
	ShippingCost     float64 `json:"shipping_cost"`
}

// Recommendation is the ranked outcome of a run.
type Recommendation struct {
	RecommendedSupplier string         `json:"recommended_supplier,omitempty"`
	Reason              string         `json:"recommendation_reason"`
	AllOptions          []ScoredOption `json:"all_options"`
	TotalShippingCost   float64        `json:"total_shipping_cost"`
	MeetsDeadline       bool           `json:"meets_deadline"`
	CriticalPathDays    int            `json:"critical_path_days"`
}

// Recommend scores every successful quote and ranks the options. trust
// maps supplier id to the discovery-stage score in [0,1]; unseen
// suppliers default to 0.5.
func Recommend(quotes []quote.Quote, assessments []compliance.Assessment, plan logistics.Plan, trust map[string]float64, req Request) Recommendation {
	if len(quotes) == 0 {
		return Recommendation{
			Reason: "No viable supplier: no quotes could be obtained for this order.",
		}
	}

	byCompliance := make(map[string]compliance.Assessment, len(assessments))
	for _, a := range assessments {
		byCompliance[a.SupplierID] = a
	}
	byLogistics := make(map[string]logistics.SupplierPlan, len(plan.PerSupplier))
	for _, sp := range plan.PerSupplier {
		byLogistics[sp.SupplierID] = sp
	}

	options := make([]ScoredOption, 0, len(quotes))
	for _, q := range quotes {
		options = append(options, scoreOne(q, byCompliance, byLogistics, trust, req))
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Score > options[j].Score
	})

	best := options[0]
	return Recommendation{
		RecommendedSupplier: best.SupplierID,
		Reason:              justify(best, req.DeadlineDays),
		AllOptions:          options,
		TotalShippingCost:   plan.TotalShippingCost,
		MeetsDeadline:       best.MeetsDeadline,
		CriticalPathDays:    plan.CriticalPathDays,
	}
}

func scoreOne(q quote.Quote, byCompliance map[string]compliance.Assessment, byLogistics map[string]logistics.SupplierPlan, trust map[string]float64, req Request) ScoredOption {
	opt := ScoredOption{
		SupplierID:   q.SupplierID,
		SupplierName: q.SupplierName,
		Total:        q.Total,
		TotalDays:    unknownDeliveryDays,
	}

	score := 0.0

	comp, haveComp := byCompliance[q.SupplierID]
	opt.CompliancePassed = haveComp && comp.Passed
	if opt.CompliancePassed {
		score += compliancePassBonus
	} else if haveComp {
		score -= blockerPenalty * float64(len(comp.Blockers))
	} else {
		score -= blockerPenalty
	}

	if sp, ok := byLogistics[q.SupplierID]; ok && sp.Error == "" {
		opt.TotalDays = sp.TotalDays
		opt.ShippingCost = sp.ShippingCost
	}
	if req.DeadlineDays > 0 {
		if opt.TotalDays <= req.DeadlineDays {
			score += deadlineMetBonus
			opt.MeetsDeadline = true
		} else {
			score -= daysOverPenalty * float64(opt.TotalDays-req.DeadlineDays)
		}
	} else {
		opt.MeetsDeadline = true
	}

	t, ok := trust[q.SupplierID]
	if !ok {
		t = 0.5
	}
	score += t * trustWeight

	if q.Region == req.DestinationRegion {
		score += regionMatchBonus
	}

	opt.Score = score
	return opt
}

// justify builds a human-readable reason from the dominating terms.
func justify(opt ScoredOption, deadlineDays int) string {
	reasons := make([]string, 0, 3)
	if opt.CompliancePassed {
		reasons = append(reasons, "passes all compliance checks")
	} else {
		reasons = append(reasons, "has compliance issues that need resolution")
	}
	if deadlineDays > 0 {
		if opt.MeetsDeadline {
			reasons = append(reasons, fmt.Sprintf("delivers in %d days (within the %d-day deadline)", opt.TotalDays, deadlineDays))
		} else {
			reasons = append(reasons, fmt.Sprintf("delivers in %d days (exceeds the %d-day deadline)", opt.TotalDays, deadlineDays))
		}
	}
	if opt.Score > highScoreTrustMark {
		reasons = append(reasons, "has a high trust score")
	}

	out := opt.SupplierName + " is recommended because it " + reasons[0]
	for i := 1; i < len(reasons); i++ {
		out += " and " + reasons[i]
	}
	return out + "."
}
