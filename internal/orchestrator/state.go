// Package orchestrator drives a procurement run through its stage
// sequence: generate a BOM, discover suppliers, gather quotes in
// parallel, check compliance, plan logistics, recommend. State flows
// forward only; a missing precondition moves the run to the absorbing
// error state and skips the remaining stages.
package orchestrator

import (
	"time"

	"github.com/procgo-dev/procgo/internal/bom"
	"github.com/procgo-dev/procgo/internal/compliance"
	"github.com/procgo-dev/procgo/internal/logistics"
	"github.com/procgo-dev/procgo/internal/quote"
	"github.com/procgo-dev/procgo/internal/registry"
)

// Stage identifies a workflow state.
type Stage string

const (
	StageInit                Stage = "INIT"
	StageBOMReady            Stage = "BOM_READY"
	StageSuppliersDiscovered Stage = "SUPPLIERS_DISCOVERED"
	StageQuotesReceived      Stage = "QUOTES_RECEIVED"
	StageComplianceChecked   Stage = "COMPLIANCE_CHECKED"
	StageLogisticsPlanned    Stage = "LOGISTICS_PLANNED"
	StageRecommended         Stage = "RECOMMENDED"
	StageError               Stage = "ERROR"
)

// Status summarizes how a run ended.
type Status string

const (
	// StatusSuccess means every stage completed without fallbacks.
	StatusSuccess Status = "success"
	// StatusDegraded means the run completed but substituted at least
	// one deterministic fallback (canned BOM, failed supplier, missing
	// route).
	StatusDegraded Status = "degraded"
	// StatusError means a required precondition was missing and the
	// remaining stages were skipped.
	StatusError Status = "error"
)

// Request is the caller's procurement order.
type Request struct {
	Text              string  `json:"request"`
	Budget            float64 `json:"budget,omitempty"`
	DeadlineDays      int     `json:"deadline_days"`
	DestinationRegion string  `json:"destination_region"`
	BuyerID           string  `json:"buyer_id,omitempty"`
}

// Step is one human-readable entry of the run's step log.
type Step struct {
	Phase     string    `json:"phase"`
	Agent     string    `json:"agent"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the accumulated working record of one run. Stages mutate it
// additively; nothing is removed once written.
type State struct {
	Stage       Stage
	Request     Request
	BOM         bom.BOM
	Discovered  []registry.RankedAgent
	Results     []quote.Result
	Compliance  []compliance.Assessment
	Logistics   logistics.Plan
	Recommended Recommendation
	Steps       []Step
	Err         string
	Degraded    bool
}

// Result is the caller-facing outcome of a run.
type Result struct {
	Status         Status                  `json:"status"`
	Error          string                  `json:"error,omitempty"`
	BOM            bom.BOM                 `json:"bom"`
	SuppliersFound int                     `json:"suppliers_found"`
	QuotesReceived int                     `json:"quotes_received"`
	Quotes         []quote.Quote           `json:"quotes"`
	QuoteErrors    []quote.SupplierError   `json:"quote_errors,omitempty"`
	Compliance     []compliance.Assessment `json:"compliance"`
	Logistics      logistics.Plan          `json:"logistics"`
	Recommendation Recommendation          `json:"recommendation"`
	Steps          []Step                  `json:"steps"`
}

func (s *State) result() Result {
	quotes := quote.Quotes(s.Results)
	res := Result{
		Error:          s.Err,
		BOM:            s.BOM,
		SuppliersFound: len(s.Discovered),
		QuotesReceived: len(quotes),
		Quotes:         quotes,
		QuoteErrors:    quote.Errors(s.Results),
		Compliance:     s.Compliance,
		Logistics:      s.Logistics,
		Recommendation: s.Recommended,
		Steps:          s.Steps,
	}
	switch {
	case s.Stage == StageError:
		res.Status = StatusError
	case s.Degraded:
		res.Status = StatusDegraded
	default:
		res.Status = StatusSuccess
	}
	return res
}
