// Package logistics plans shipments from supplier regions to the
// delivery destination. Carrier selection is deterministic: the
// cheapest option that meets the deadline wins, otherwise the fastest.
package logistics

// TransportType is the shipment mode of a carrier.
type TransportType string

const (
	TransportAir    TransportType = "air"
	TransportSea    TransportType = "sea"
	TransportGround TransportType = "ground"
)

// Carrier describes one logistics provider.
type Carrier struct {
	ID          string        `json:"carrier_id"`
	Name        string        `json:"name"`
	Type        TransportType `json:"type"`
	BaseCost    float64       `json:"base_cost_eur"`
	CostPerKg   float64       `json:"cost_per_kg_eur"`
	TransitDays int           `json:"transit_days"`
	Regions     []string      `json:"regions"`
	Tracking    bool          `json:"tracking"`
}

// Serves reports whether the carrier operates in both regions.
func (c Carrier) Serves(origin, destination string) bool {
	return c.servesRegion(origin) && c.servesRegion(destination)
}

func (c Carrier) servesRegion(region string) bool {
	for _, r := range c.Regions {
		if r == region {
			return true
		}
	}
	return false
}

// Cost computes total shipping cost for a cargo weight.
func (c Carrier) Cost(weightKg float64) float64 {
	return round2(c.BaseCost + c.CostPerKg*weightKg)
}

// DefaultCarriers returns the built-in carrier table.
func DefaultCarriers() []Carrier {
	return []Carrier{
		{
			ID:          "dhl-express",
			Name:        "DHL Express",
			Type:        TransportAir,
			BaseCost:    45,
			CostPerKg:   4.5,
			TransitDays: 3,
			Regions:     []string{"EU", "US", "Asia"},
			Tracking:    true,
		},
		{
			ID:          "maersk-line",
			Name:        "Maersk Line",
			Type:        TransportSea,
			BaseCost:    20,
			CostPerKg:   0.8,
			TransitDays: 21,
			Regions:     []string{"EU", "US", "Asia"},
			Tracking:    true,
		},
		{
			ID:          "eu-ground-express",
			Name:        "EU Ground Express",
			Type:        TransportGround,
			BaseCost:    15,
			CostPerKg:   1.2,
			TransitDays: 5,
			Regions:     []string{"EU"},
		},
	}
}
