// Package bom turns a free-form procurement request into a structured
// bill of materials. Generation is model-assisted: the generator prompts
// a completion client with the known part and category vocabulary and
// parses the JSON it returns. When no client is configured or the model
// output is unusable, a generic fallback BOM is produced instead so a
// run never fails at this stage.
package bom

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/procgo-dev/procgo/pkg/llm"
)

// Item is one line of a bill of materials.
type Item struct {
	PartName    string `json:"part_name"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
}

// BOM is a structured bill of materials for a product.
type BOM struct {
	Product string `json:"product"`
	Items   []Item `json:"items"`
	// Fallback marks a BOM produced without model assistance.
	Fallback bool `json:"fallback,omitempty"`
}

// Categories returns the distinct item categories in first-seen order.
func (b BOM) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range b.Items {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		out = append(out, item.Category)
	}
	return out
}

// Generator produces BOMs from user requests.
type Generator struct {
	client     llm.Client
	parts      []string
	categories []string
}

// NewGenerator creates a generator. client may be nil, in which case
// every request gets the fallback BOM. The part and category
// vocabularies steer the model towards names suppliers actually stock.
func NewGenerator(client llm.Client, parts, categories []string) *Generator {
	return &Generator{client: client, parts: parts, categories: categories}
}

// Generate builds a BOM for the request. It never returns an error for
// bad model output; it degrades to the fallback BOM instead.
func (g *Generator) Generate(ctx context.Context, request string) BOM {
	if g.client == nil {
		return fallbackBOM(request)
	}

	raw, err := g.client.Complete(ctx, g.prompt(request),
		llm.WithTemperature(0),
		llm.WithMaxTokens(1024),
	)
	if err != nil {
		log.Printf("bom: completion failed, using fallback: %v", err)
		return fallbackBOM(request)
	}

	b, err := parse(raw)
	if err != nil {
		log.Printf("bom: unusable model output, using fallback: %v", err)
		return fallbackBOM(request)
	}
	return b
}

func (g *Generator) prompt(request string) string {
	partHint := g.parts
	if len(partHint) > 20 {
		partHint = partHint[:20]
	}
	return fmt.Sprintf(`You are a procurement assistant. Generate a Bill of Materials (BOM) for the following request:

%q

Return ONLY valid JSON in this exact format (no markdown, no explanation):
{
    "product": "Short product name (3-5 words)",
    "items": [
        {
            "part_name": "component_key",
            "category": "category_name",
            "quantity": 1,
            "description": "Brief description"
        }
    ]
}

Rules:
- Generate 3-8 realistic components for the product
- IMPORTANT: Use these exact part names when applicable: %s
- Categories should be one of: %s
- part_name should be lowercase with underscores
- quantity should be realistic (1-10 typically)`,
		request,
		strings.Join(partHint, ", "),
		strings.Join(g.categories, ", "),
	)
}

// parse extracts a BOM from model output, tolerating markdown fences.
func parse(raw string) (BOM, error) {
	content := stripFences(strings.TrimSpace(raw))

	var b BOM
	if err := json.Unmarshal([]byte(content), &b); err != nil {
		return BOM{}, fmt.Errorf("decode bom: %w", err)
	}
	if b.Product == "" {
		return BOM{}, fmt.Errorf("bom missing product name")
	}
	if len(b.Items) == 0 {
		return BOM{}, fmt.Errorf("bom has no items")
	}
	for i := range b.Items {
		if b.Items[i].PartName == "" {
			return BOM{}, fmt.Errorf("bom item %d missing part_name", i)
		}
		if b.Items[i].Quantity < 1 {
			b.Items[i].Quantity = 1
		}
	}
	return b, nil
}

// stripFences removes a surrounding markdown code block if present.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.SplitN(s, "```", 3)
	if len(parts) < 2 {
		return s
	}
	body := parts[1]
	body = strings.TrimPrefix(body, "json")
	return strings.TrimSpace(body)
}

// fallbackBOM is the generic BOM used when model output is unavailable.
func fallbackBOM(request string) BOM {
	product := request
	if len(product) > 50 {
		product = product[:50]
	}
	return BOM{
		Product:  product,
		Fallback: true,
		Items: []Item{
			{PartName: "main_component", Category: "electronics", Quantity: 1, Description: "Primary component"},
			{PartName: "controller", Category: "electronics", Quantity: 1, Description: "Control unit"},
			{PartName: "power_supply", Category: "power", Quantity: 1, Description: "Power source"},
			{PartName: "housing", Category: "structural", Quantity: 1, Description: "Enclosure"},
		},
	}
}
