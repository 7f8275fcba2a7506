// Package quote matches a bill of materials against supplier catalogs
// and gathers priced quotes from all candidate suppliers concurrently.
package quote

import (
	"time"
)

// LineStatus describes how a BOM item matched against a catalog.
type LineStatus string

const (
	// StatusAvailable means the part matched and stock covers the quantity.
	StatusAvailable LineStatus = "AVAILABLE"
	// StatusInsufficientStock means the part matched but stock falls short.
	StatusInsufficientStock LineStatus = "INSUFFICIENT_STOCK"
	// StatusNotInCatalog means no catalog part matched the item.
	StatusNotInCatalog LineStatus = "NOT_IN_CATALOG"
)

// Line is one priced row of a quote.
type Line struct {
	PartName   string     `json:"part_name"`
	MatchedKey string     `json:"matched_key,omitempty"`
	Quantity   int        `json:"quantity"`
	UnitPrice  float64    `json:"unit_price"`
	Total      float64    `json:"total"`
	Status     LineStatus `json:"status"`
}

// Quote is one supplier's priced response to an RFQ.
type Quote struct {
	SupplierID      string    `json:"supplier_id"`
	SupplierName    string    `json:"supplier_name"`
	Region          string    `json:"region"`
	Lines           []Line    `json:"lines"`
	Subtotal        float64   `json:"subtotal"`
	DiscountAsked   float64   `json:"discount_asked"`
	DiscountPct     float64   `json:"discount_pct"`
	DiscountAmount  float64   `json:"discount_amount"`
	Total           float64   `json:"total"`
	Currency        string    `json:"currency"`
	MaxLeadTimeDays int       `json:"max_lead_time_days"`
	AllAvailable    bool      `json:"all_available"`
	Rationale       string    `json:"rationale,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// SupplierError records a supplier whose quote attempt failed. Failures
// are isolated: one bad supplier never sinks the others.
type SupplierError struct {
	SupplierID   string `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Err          string `json:"error"`
}

// Result carries either a quote or a per-supplier failure.
type Result struct {
	Quote *Quote
	Err   *SupplierError
}
