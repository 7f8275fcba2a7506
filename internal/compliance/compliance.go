// Package compliance assesses quotes against destination-region trade
// rules. The rule engine is deterministic; an optional completion
// client adds a prose explanation on top but never changes the verdict.
package compliance

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/procgo-dev/procgo/internal/catalog"
	"github.com/procgo-dev/procgo/internal/logistics"
	"github.com/procgo-dev/procgo/internal/quote"
	"github.com/procgo-dev/procgo/pkg/llm"
)

// Severity grades a compliance issue.
type Severity string

const (
	SeverityBlocker Severity = "blocker"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single compliance finding.
type Issue struct {
	Rule           string   `json:"rule"`
	Severity       Severity `json:"severity"`
	Item           string   `json:"item,omitempty"`
	Description    string   `json:"description"`
	RequiredAction string   `json:"required_action,omitempty"`
}

// Assessment is the compliance verdict for one supplier's quote.
type Assessment struct {
	SupplierID             string   `json:"supplier_id"`
	Passed                 bool     `json:"passed"`
	Summary                string   `json:"summary"`
	Blockers               []Issue  `json:"blockers,omitempty"`
	Warnings               []Issue  `json:"warnings,omitempty"`
	Infos                  []Issue  `json:"infos,omitempty"`
	CertificationsRequired []string `json:"certifications_required,omitempty"`
	Explanation            string   `json:"explanation,omitempty"`
}

// Rule thresholds for the EU destination.
const (
	euRFPowerLimitMW      = 25
	euDroneWeightLimitG   = 250
	airBatteryDGThreshold = 2
	certCE                = "CE"
	certUN383             = "UN38.3"
)

// ceCategories are part categories needing CE marking for EU import.
var ceCategories = map[string]bool{
	"electronics":      true,
	"power":            true,
	"fpv":              true,
	"microcontrollers": true,
	"sensors":          true,
	"led":              true,
}

// Checker runs compliance rules over quotes.
type Checker struct {
	directory      *catalog.Directory
	client         llm.Client
	explainTimeout time.Duration
}

// NewChecker creates a checker. client may be nil; explanations then
// fall back to the deterministic summary.
func NewChecker(dir *catalog.Directory, client llm.Client) *Checker {
	return &Checker{directory: dir, client: client, explainTimeout: 10 * time.Second}
}

// Check assesses one quote for import into the destination region via
// the given transport mode.
func (c *Checker) Check(ctx context.Context, q quote.Quote, destination string, transport logistics.TransportType) Assessment {
	a := Assessment{SupplierID: q.SupplierID}

	sup, haveSupplier := c.supplier(q.SupplierID)
	certs := make(map[string]bool)
	if haveSupplier {
		for _, cert := range sup.Certifications {
			certs[cert.Certification] = true
		}
	}

	c.checkCE(&a, q, destination, certs)
	c.checkBatteries(&a, q, transport)
	c.checkRF(&a, q, destination)
	c.checkDroneRegistration(&a, q, destination)

	a.Passed = len(a.Blockers) == 0
	a.Summary = summary(a)
	a.Explanation = c.explain(ctx, q, a, destination)
	return a
}

// CheckAll assesses every quote in the set.
func (c *Checker) CheckAll(ctx context.Context, quotes []quote.Quote, destination string, transport logistics.TransportType) []Assessment {
	out := make([]Assessment, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, c.Check(ctx, q, destination, transport))
	}
	return out
}

func (c *Checker) supplier(id string) (catalog.Supplier, bool) {
	if c.directory == nil {
		return catalog.Supplier{}, false
	}
	return c.directory.Get(id)
}

// checkCE requires CE marking for regulated categories entering the EU.
func (c *Checker) checkCE(a *Assessment, q quote.Quote, destination string, certs map[string]bool) {
	if destination != "EU" {
		return
	}
	for _, line := range q.Lines {
		part, ok := c.part(q.SupplierID, line.MatchedKey)
		if !ok || !ceCategories[part.Category] {
			continue
		}
		addCert(a, certCE)
		if certs[certCE] {
			continue
		}
		a.Blockers = append(a.Blockers, Issue{
			Rule:           "CE Marking",
			Severity:       SeverityBlocker,
			Item:           line.PartName,
			Description:    fmt.Sprintf("%s items require CE marking for EU import", part.Category),
			RequiredAction: "Verify CE conformity or use a CE-certified supplier",
		})
		// One blocker per quote is enough to fail it; keep the rest as context.
	}
}

// checkBatteries applies lithium battery shipping rules.
func (c *Checker) checkBatteries(a *Assessment, q quote.Quote, transport logistics.TransportType) {
	count := 0
	item := ""
	for _, line := range q.Lines {
		if line.Status == quote.StatusNotInCatalog {
			continue
		}
		if strings.Contains(line.MatchedKey, "battery") || strings.Contains(line.PartName, "battery") {
			count += line.Quantity
			item = line.PartName
		}
	}
	if count == 0 {
		return
	}

	addCert(a, certUN383)
	if transport != logistics.TransportAir {
		return
	}
	a.Infos = append(a.Infos, Issue{
		Rule:           "Lithium Battery Shipping",
		Severity:       SeverityInfo,
		Item:           item,
		Description:    "Lithium batteries cannot ship on passenger aircraft",
		RequiredAction: "Ensure carrier uses cargo aircraft",
	})
	if count > airBatteryDGThreshold {
		a.Warnings = append(a.Warnings, Issue{
			Rule:           "Lithium Battery Shipping",
			Severity:       SeverityWarning,
			Item:           item,
			Description:    fmt.Sprintf("Shipping %d batteries may require a dangerous goods declaration", count),
			RequiredAction: "Check carrier DG requirements, or prefer ground or sea transport",
		})
	}
}

// checkRF flags FPV transmitters against the EU power limit.
func (c *Checker) checkRF(a *Assessment, q quote.Quote, destination string) {
	if destination != "EU" {
		return
	}
	for _, line := range q.Lines {
		part, ok := c.part(q.SupplierID, line.MatchedKey)
		if !ok || part.Category != "fpv" {
			continue
		}
		a.Warnings = append(a.Warnings, Issue{
			Rule:           "RF Regulations",
			Severity:       SeverityWarning,
			Item:           line.PartName,
			Description:    fmt.Sprintf("EU limits video transmitters to %dmW", euRFPowerLimitMW),
			RequiredAction: fmt.Sprintf("Set device to %dmW or below, or hold a ham radio license", euRFPowerLimitMW),
		})
		return
	}
}

// checkDroneRegistration notes the EU registration threshold for
// orders that look like a drone build.
func (c *Checker) checkDroneRegistration(a *Assessment, q quote.Quote, destination string) {
	if destination != "EU" {
		return
	}
	hasPropulsion := false
	weightG := 0
	for _, line := range q.Lines {
		part, ok := c.part(q.SupplierID, line.MatchedKey)
		if !ok {
			continue
		}
		if part.Category == "propulsion" || part.Category == "fpv" || part.Category == "frame" {
			hasPropulsion = true
		}
		weightG += int(part.WeightKg * 1000 * float64(line.Quantity))
	}
	if !hasPropulsion || weightG <= euDroneWeightLimitG {
		return
	}
	a.Infos = append(a.Infos, Issue{
		Rule:           "Drone Registration",
		Severity:       SeverityInfo,
		Description:    fmt.Sprintf("Assembled weight around %dg exceeds the %dg registration threshold", weightG, euDroneWeightLimitG),
		RequiredAction: "Register with the national aviation authority before flight",
	})
}

func (c *Checker) part(supplierID, key string) (catalog.Part, bool) {
	if key == "" {
		return catalog.Part{}, false
	}
	sup, ok := c.supplier(supplierID)
	if !ok {
		return catalog.Part{}, false
	}
	return sup.Catalog.Lookup(key)
}

func addCert(a *Assessment, cert string) {
	for _, existing := range a.CertificationsRequired {
		if existing == cert {
			return
		}
	}
	a.CertificationsRequired = append(a.CertificationsRequired, cert)
}

func summary(a Assessment) string {
	if len(a.Blockers) > 0 {
		return fmt.Sprintf("Failed: %d blocker(s), %d warning(s)", len(a.Blockers), len(a.Warnings))
	}
	if len(a.Warnings) > 0 {
		return fmt.Sprintf("Passed with %d warning(s)", len(a.Warnings))
	}
	return "Passed: no compliance issues found"
}

// explain asks the model for a short prose explanation. Failures fall
// back to the deterministic summary.
func (c *Checker) explain(ctx context.Context, q quote.Quote, a Assessment, destination string) string {
	if c.client == nil {
		return a.Summary
	}

	ctx, cancel := context.WithTimeout(ctx, c.explainTimeout)
	defer cancel()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Summarize this compliance assessment for a procurement order from %s shipping to %s in 2-3 sentences:\n", q.SupplierName, destination)
	fmt.Fprintf(&sb, "Verdict: %s\n", a.Summary)
	for _, issue := range append(append(a.Blockers, a.Warnings...), a.Infos...) {
		fmt.Fprintf(&sb, "- [%s] %s: %s\n", issue.Severity, issue.Rule, issue.Description)
	}

	text, err := c.client.Complete(ctx, sb.String(), llm.WithMaxTokens(256))
	if err != nil {
		log.Printf("compliance: explanation failed for %s: %v", q.SupplierID, err)
		return a.Summary
	}
	return strings.TrimSpace(text)
}
