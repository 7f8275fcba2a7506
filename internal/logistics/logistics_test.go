package logistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procgo-dev/procgo/internal/catalog"
	"github.com/procgo-dev/procgo/internal/quote"
)

func euQuote() quote.Quote {
	return quote.Quote{
		SupplierID:      "acme",
		SupplierName:    "Acme Parts",
		Region:          "EU",
		MaxLeadTimeDays: 4,
		Lines: []quote.Line{
			{PartName: "battery", MatchedKey: "battery", Quantity: 2, Status: quote.StatusAvailable},
		},
	}
}

func TestCarrierServes(t *testing.T) {
	carriers := DefaultCarriers()
	dhl := carriers[0]
	ground := carriers[2]

	assert.True(t, dhl.Serves("Asia", "EU"))
	assert.True(t, ground.Serves("EU", "EU"))
	assert.False(t, ground.Serves("Asia", "EU"))
}

func TestCarrierCost(t *testing.T) {
	dhl := DefaultCarriers()[0]
	// 45 base + 4.5 * 2kg.
	assert.Equal(t, 54.0, dhl.Cost(2))
}

func TestPlanPicksCheapestMeetingDeadline(t *testing.T) {
	p := NewPlanner(DefaultCarriers(), nil)

	// Lead 4 + deadline 10: ground (5d transit, total 9) and air
	// (3d, total 7) both qualify; ground is cheaper.
	plan := p.PlanShipments([]quote.Quote{euQuote()}, "EU", 10)

	require.Len(t, plan.PerSupplier, 1)
	sp := plan.PerSupplier[0]
	assert.Equal(t, "eu-ground-express", sp.CarrierID)
	assert.Equal(t, 9, sp.TotalDays)
	assert.True(t, sp.MeetsDeadline)
	assert.Len(t, sp.Alternatives, 2)
	assert.Equal(t, 9, plan.CriticalPathDays)
}

func TestPlanFallsBackToFastest(t *testing.T) {
	p := NewPlanner(DefaultCarriers(), nil)

	// Deadline 5 with lead 4: no carrier can make it; fastest (air) wins.
	plan := p.PlanShipments([]quote.Quote{euQuote()}, "EU", 5)

	sp := plan.PerSupplier[0]
	assert.Equal(t, "dhl-express", sp.CarrierID)
	assert.False(t, sp.MeetsDeadline)
	assert.Contains(t, sp.Reasoning, "fastest")
}

func TestPlanNoDeadlinePicksCheapest(t *testing.T) {
	p := NewPlanner(DefaultCarriers(), nil)

	q := euQuote()
	q.Region = "Asia"
	plan := p.PlanShipments([]quote.Quote{q}, "EU", 0)

	sp := plan.PerSupplier[0]
	assert.Equal(t, "maersk-line", sp.CarrierID)
	assert.True(t, sp.MeetsDeadline)
}

func TestPlanNoRoute(t *testing.T) {
	p := NewPlanner([]Carrier{DefaultCarriers()[2]}, nil) // EU ground only

	q := euQuote()
	q.Region = "Asia"
	plan := p.PlanShipments([]quote.Quote{q}, "EU", 7)

	sp := plan.PerSupplier[0]
	assert.NotEmpty(t, sp.Error)
	assert.Empty(t, sp.CarrierID)
	assert.Zero(t, plan.CriticalPathDays)
}

func TestCriticalPathIsSlowestSupplier(t *testing.T) {
	p := NewPlanner(DefaultCarriers(), nil)

	fast := euQuote()
	slow := euQuote()
	slow.SupplierID = "slow"
	slow.Region = "Asia"
	slow.MaxLeadTimeDays = 9

	plan := p.PlanShipments([]quote.Quote{fast, slow}, "EU", 30)
	// slow: lead 9 + sea 21 = 30 (sea is cheapest and meets 30).
	assert.Equal(t, 30, plan.CriticalPathDays)
}

func TestCargoWeightFromCatalog(t *testing.T) {
	dir := catalog.NewDirectory(catalog.Supplier{
		ID: "acme",
		Catalog: catalog.NewCatalog(
			catalog.Part{Key: "battery", WeightKg: 0.2},
		),
	})
	p := NewPlanner(DefaultCarriers(), dir)

	// 2 * 0.2kg * 1.2 packaging = 0.48.
	assert.Equal(t, 0.48, p.cargoWeight(euQuote()))
}

func TestCargoWeightDefaultsUnknownParts(t *testing.T) {
	p := NewPlanner(DefaultCarriers(), nil)

	q := euQuote()
	q.Lines = append(q.Lines, quote.Line{PartName: "warp_drive", Status: quote.StatusNotInCatalog, Quantity: 1})
	// Unmatched lines are skipped; matched ones default to 0.05/unit.
	assert.Equal(t, 0.12, p.cargoWeight(q))
}
