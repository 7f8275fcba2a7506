package quote

import (
	"math"
	"strings"
	"time"

	"github.com/procgo-dev/procgo/internal/bom"
	"github.com/procgo-dev/procgo/internal/catalog"
)

// realizationFactor estimates the discount a supplier will actually
// grant against what was asked for.
const realizationFactor = 0.6

// Build prices a BOM against one supplier's catalog. discountAsked is
// the percentage the buyer requests; the applied discount is the
// estimate min(asked * 0.6, supplier max).
func Build(sup catalog.Supplier, items []bom.Item, discountAsked float64) Quote {
	q := Quote{
		SupplierID:    sup.ID,
		SupplierName:  sup.Name,
		Region:        sup.Region,
		Currency:      sup.Currency,
		DiscountAsked: discountAsked,
		Timestamp:     time.Now().UTC(),
		AllAvailable:  true,
	}

	maxLead := 0
	for _, item := range items {
		line := matchLine(sup.Catalog, item)
		if line.Status == StatusNotInCatalog {
			q.AllAvailable = false
			q.Lines = append(q.Lines, line)
			continue
		}
		if line.Status == StatusInsufficientStock {
			q.AllAvailable = false
		}
		q.Subtotal += line.Total
		if part, ok := sup.Catalog.Lookup(line.MatchedKey); ok && part.LeadTimeDays > maxLead {
			maxLead = part.LeadTimeDays
		}
		q.Lines = append(q.Lines, line)
	}
	if maxLead == 0 {
		maxLead = sup.AvgLeadTimeDays
	}
	q.MaxLeadTimeDays = maxLead

	q.DiscountPct = math.Min(discountAsked*realizationFactor, sup.MaxDiscountPct)
	q.DiscountAmount = round2(q.Subtotal * q.DiscountPct / 100)
	q.Subtotal = round2(q.Subtotal)
	q.Total = round2(q.Subtotal - q.DiscountAmount)
	return q
}

// matchLine finds the catalog part for one BOM item. Exact key match
// first, then the first part (in catalog order) whose category equals
// the item's, or whose key shares a token with the item's part name.
func matchLine(c *catalog.Catalog, item bom.Item) Line {
	line := Line{PartName: item.PartName, Quantity: item.Quantity}

	part, ok := c.Lookup(item.PartName)
	if !ok {
		part, ok = fallbackMatch(c, item)
	}
	if !ok {
		line.Status = StatusNotInCatalog
		return line
	}

	line.MatchedKey = part.Key
	line.UnitPrice = part.UnitPrice
	line.Total = round2(part.UnitPrice * float64(item.Quantity))
	if part.Stock >= item.Quantity {
		line.Status = StatusAvailable
	} else {
		line.Status = StatusInsufficientStock
	}
	return line
}

func fallbackMatch(c *catalog.Catalog, item bom.Item) (catalog.Part, bool) {
	tokens := strings.Split(item.PartName, "_")
	for _, part := range c.Parts() {
		if item.Category != "" && part.Category == item.Category {
			return part, true
		}
		if strings.Contains(item.PartName, part.Key) || strings.Contains(part.Key, item.PartName) {
			return part, true
		}
		for _, tok := range tokens {
			if tok != "" && strings.Contains(part.Key, tok) {
				return part, true
			}
		}
	}
	return catalog.Part{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
