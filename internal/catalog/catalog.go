// Package catalog provides the read-only supplier reference data: who the
// suppliers are, what they sell, at what price, and under which discount
// policy. The data is loaded once and cached for the process lifetime.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/procgo-dev/procgo/internal/registry"
)

// Part is one sellable catalog entry.
type Part struct {
	Key          string  `json:"key"`
	Name         string  `json:"part_name"`
	UnitPrice    float64 `json:"unit_price"`
	Stock        int     `json:"stock"`
	LeadTimeDays int     `json:"lead_time_days"`
	Category     string  `json:"category"`
	Specs        string  `json:"specs,omitempty"`
	WeightKg     float64 `json:"weight_kg,omitempty"`
}

// Catalog is an ordered collection of parts. Iteration order is insertion
// order, which makes fallback matching in the quote builder deterministic.
type Catalog struct {
	parts []Part
	index map[string]int
}

// NewCatalog builds a catalog from parts, keeping their order.
// Later duplicates of a key overwrite earlier ones in place.
func NewCatalog(parts ...Part) *Catalog {
	c := &Catalog{index: make(map[string]int)}
	for _, p := range parts {
		c.Add(p)
	}
	return c
}

// Add inserts or replaces a part.
func (c *Catalog) Add(p Part) {
	if i, ok := c.index[p.Key]; ok {
		c.parts[i] = p
		return
	}
	c.index[p.Key] = len(c.parts)
	c.parts = append(c.parts, p)
}

// Lookup returns the part for key.
func (c *Catalog) Lookup(key string) (Part, bool) {
	i, ok := c.index[key]
	if !ok {
		return Part{}, false
	}
	return c.parts[i], true
}

// Parts returns all parts in insertion order.
func (c *Catalog) Parts() []Part {
	return append([]Part(nil), c.parts...)
}

// Len returns the number of parts.
func (c *Catalog) Len() int { return len(c.parts) }

// Categories returns the distinct part categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.parts {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// MarshalJSON encodes the catalog as an ordered array of parts.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.parts)
}

// UnmarshalJSON decodes an ordered array of parts.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var parts []Part
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	*c = *NewCatalog(parts...)
	return nil
}

// Supplier is the static record for one supplier agent.
type Supplier struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Region          string                   `json:"region"`
	Country         string                   `json:"country"`
	Currency        string                   `json:"currency"`
	AvgLeadTimeDays int                      `json:"avg_lead_time_days"`
	MaxDiscountPct  float64                  `json:"max_discount_pct"`
	Certifications  []registry.Certification `json:"certifications,omitempty"`
	Trust           registry.TrustProfile    `json:"trust"`
	Catalog         *Catalog                 `json:"catalog"`
}

// AgentFacts converts the supplier record to a registry identity.
// Capabilities are the catalog's part categories.
func (s Supplier) AgentFacts() registry.AgentFacts {
	return registry.AgentFacts{
		AgentID:         s.ID,
		Name:            s.Name,
		Role:            registry.RoleSupplier,
		Description:     fmt.Sprintf("Supplier based in %s", s.Region),
		Capabilities:    s.Catalog.Categories(),
		Region:          s.Region,
		Country:         s.Country,
		Currency:        s.Currency,
		AvgLeadTimeDays: s.AvgLeadTimeDays,
		Certifications:  s.Certifications,
		Trust:           s.Trust,
		Endpoint:        "/agents/" + s.ID,
	}
}

// Directory holds all suppliers, keyed and ordered.
type Directory struct {
	byID  map[string]Supplier
	order []string
}

// NewDirectory builds a directory from suppliers, keeping their order.
func NewDirectory(suppliers ...Supplier) *Directory {
	d := &Directory{byID: make(map[string]Supplier)}
	for _, s := range suppliers {
		if _, dup := d.byID[s.ID]; !dup {
			d.order = append(d.order, s.ID)
		}
		d.byID[s.ID] = s
	}
	return d
}

// Get returns the supplier for id.
func (d *Directory) Get(id string) (Supplier, bool) {
	s, ok := d.byID[id]
	return s, ok
}

// All returns suppliers in directory order.
func (d *Directory) All() []Supplier {
	out := make([]Supplier, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

// Len returns the number of suppliers.
func (d *Directory) Len() int { return len(d.order) }

// LoadFile reads a supplier directory from a JSON file. The file holds an
// ordered array of supplier records.
func LoadFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read supplier data: %w", err)
	}
	var suppliers []Supplier
	if err := json.Unmarshal(data, &suppliers); err != nil {
		return nil, fmt.Errorf("parse supplier data: %w", err)
	}
	for _, s := range suppliers {
		if s.ID == "" {
			return nil, fmt.Errorf("parse supplier data: supplier with empty id")
		}
		if s.Catalog == nil {
			return nil, fmt.Errorf("parse supplier data: supplier %s has no catalog", s.ID)
		}
	}
	return NewDirectory(suppliers...), nil
}
