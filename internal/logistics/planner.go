package logistics

import (
	"fmt"
	"math"

	"github.com/procgo-dev/procgo/internal/catalog"
	"github.com/procgo-dev/procgo/internal/quote"
)

// defaultUnitWeightKg is assumed for parts without catalog weight data.
const defaultUnitWeightKg = 0.05

// packagingFactor inflates cargo weight to account for packaging.
const packagingFactor = 1.2

// Option is one carrier considered for a shipment.
type Option struct {
	CarrierID     string        `json:"carrier_id"`
	CarrierName   string        `json:"carrier_name"`
	TransportType TransportType `json:"transport_type"`
	TransitDays   int           `json:"transit_days"`
	Cost          float64       `json:"cost"`
	MeetsDeadline bool          `json:"meets_deadline"`
}

// SupplierPlan is the shipping plan for one supplier's quote.
type SupplierPlan struct {
	SupplierID    string        `json:"supplier_id"`
	SupplierName  string        `json:"supplier_name"`
	OriginRegion  string        `json:"origin_region"`
	CarrierID     string        `json:"carrier_id,omitempty"`
	CarrierName   string        `json:"carrier,omitempty"`
	TransportType TransportType `json:"transport_type,omitempty"`
	TransitDays   int           `json:"transit_days"`
	ShippingCost  float64       `json:"shipping_cost"`
	WeightKg      float64       `json:"weight_kg"`
	// TotalDays is supplier lead time plus carrier transit.
	TotalDays     int      `json:"total_days"`
	MeetsDeadline bool     `json:"meets_deadline"`
	Reasoning     string   `json:"reasoning"`
	Alternatives  []Option `json:"alternatives,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// Plan is the combined logistics plan across all quoted suppliers.
type Plan struct {
	Destination       string         `json:"destination"`
	DeadlineDays      int            `json:"deadline_days"`
	PerSupplier       []SupplierPlan `json:"per_supplier"`
	CriticalPathDays  int            `json:"critical_path_days"`
	TotalShippingCost float64        `json:"total_shipping_cost"`
}

// Planner selects carriers for supplier shipments. The directory
// supplies part weights for cargo estimation.
type Planner struct {
	carriers  []Carrier
	directory *catalog.Directory
}

// NewPlanner creates a planner over a carrier table.
func NewPlanner(carriers []Carrier, dir *catalog.Directory) *Planner {
	return &Planner{carriers: carriers, directory: dir}
}

// PlanShipments builds a per-supplier logistics plan for the given
// quotes. The critical path is the slowest supplier's total days.
func (p *Planner) PlanShipments(quotes []quote.Quote, destination string, deadlineDays int) Plan {
	plan := Plan{Destination: destination, DeadlineDays: deadlineDays}

	for _, q := range quotes {
		sp := p.planOne(q, destination, deadlineDays)
		plan.TotalShippingCost += sp.ShippingCost
		if sp.Error == "" && sp.TotalDays > plan.CriticalPathDays {
			plan.CriticalPathDays = sp.TotalDays
		}
		plan.PerSupplier = append(plan.PerSupplier, sp)
	}
	plan.TotalShippingCost = round2(plan.TotalShippingCost)
	return plan
}

func (p *Planner) planOne(q quote.Quote, destination string, deadlineDays int) SupplierPlan {
	sp := SupplierPlan{
		SupplierID:   q.SupplierID,
		SupplierName: q.SupplierName,
		OriginRegion: q.Region,
		WeightKg:     p.cargoWeight(q),
	}

	options := p.routeOptions(q.Region, destination, sp.WeightKg, q.MaxLeadTimeDays, deadlineDays)
	if len(options) == 0 {
		sp.Error = fmt.Sprintf("no carriers available for %s -> %s", q.Region, destination)
		return sp
	}

	chosen := pick(options, deadlineDays)
	sp.CarrierID = chosen.CarrierID
	sp.CarrierName = chosen.CarrierName
	sp.TransportType = chosen.TransportType
	sp.TransitDays = chosen.TransitDays
	sp.ShippingCost = chosen.Cost
	sp.TotalDays = q.MaxLeadTimeDays + chosen.TransitDays
	sp.MeetsDeadline = chosen.MeetsDeadline
	sp.Reasoning = reason(chosen, deadlineDays)

	for _, o := range options {
		if o.CarrierID != chosen.CarrierID {
			sp.Alternatives = append(sp.Alternatives, o)
		}
	}
	return sp
}

func (p *Planner) routeOptions(origin, destination string, weightKg float64, leadDays, deadlineDays int) []Option {
	var options []Option
	for _, c := range p.carriers {
		if !c.Serves(origin, destination) {
			continue
		}
		total := leadDays + c.TransitDays
		options = append(options, Option{
			CarrierID:     c.ID,
			CarrierName:   c.Name,
			TransportType: c.Type,
			TransitDays:   c.TransitDays,
			Cost:          c.Cost(weightKg),
			MeetsDeadline: deadlineDays <= 0 || total <= deadlineDays,
		})
	}
	return options
}

// pick chooses the cheapest option meeting the deadline, or the
// fastest when nothing does.
func pick(options []Option, deadlineDays int) Option {
	var best *Option
	for i := range options {
		o := &options[i]
		if !o.MeetsDeadline {
			continue
		}
		if best == nil || o.Cost < best.Cost {
			best = o
		}
	}
	if best != nil {
		return *best
	}
	best = &options[0]
	for i := range options {
		o := &options[i]
		if o.TransitDays < best.TransitDays || (o.TransitDays == best.TransitDays && o.Cost < best.Cost) {
			best = o
		}
	}
	return *best
}

func reason(o Option, deadlineDays int) string {
	if deadlineDays <= 0 {
		return fmt.Sprintf("%s is the cheapest route at EUR %.2f", o.CarrierName, o.Cost)
	}
	if o.MeetsDeadline {
		return fmt.Sprintf("%s is the cheapest option that delivers within %d days", o.CarrierName, deadlineDays)
	}
	return fmt.Sprintf("no carrier meets the %d day deadline; %s is the fastest at %d transit days", deadlineDays, o.CarrierName, o.TransitDays)
}

// cargoWeight estimates shipment weight from matched quote lines using
// catalog part weights, with a packaging allowance on top.
func (p *Planner) cargoWeight(q quote.Quote) float64 {
	var total float64
	for _, line := range q.Lines {
		if line.Status == quote.StatusNotInCatalog {
			continue
		}
		unit := defaultUnitWeightKg
		if p.directory != nil {
			if sup, ok := p.directory.Get(q.SupplierID); ok {
				if part, ok := sup.Catalog.Lookup(line.MatchedKey); ok && part.WeightKg > 0 {
					unit = part.WeightKg
				}
			}
		}
		total += unit * float64(line.Quantity)
	}
	return round2(total * packagingFactor)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
