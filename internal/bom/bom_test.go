package bom

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procgo-dev/procgo/pkg/llm"
)

const validJSON = `{
	"product": "FPV Racing Drone",
	"items": [
		{"part_name": "brushless_motor", "category": "propulsion", "quantity": 4, "description": "2207 2400KV"},
		{"part_name": "flight_controller", "category": "electronics", "quantity": 1, "description": "F7 stack"}
	]
}`

func TestGenerateFromModelOutput(t *testing.T) {
	g := NewGenerator(llm.NewMockClient(validJSON), []string{"brushless_motor"}, []string{"propulsion"})

	b := g.Generate(context.Background(), "build me a racing drone")
	assert.Equal(t, "FPV Racing Drone", b.Product)
	require.Len(t, b.Items, 2)
	assert.Equal(t, 4, b.Items[0].Quantity)
	assert.False(t, b.Fallback)
}

func TestGenerateStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validJSON + "\n```"
	g := NewGenerator(llm.NewMockClient(fenced), nil, nil)

	b := g.Generate(context.Background(), "drone")
	assert.Equal(t, "FPV Racing Drone", b.Product)
	assert.False(t, b.Fallback)
}

func TestGenerateFallbackOnBadJSON(t *testing.T) {
	g := NewGenerator(llm.NewMockClient("sorry, I cannot do that"), nil, nil)

	b := g.Generate(context.Background(), "weather station")
	assert.True(t, b.Fallback)
	assert.Equal(t, "weather station", b.Product)
	assert.Len(t, b.Items, 4)
}

func TestGenerateFallbackOnClientError(t *testing.T) {
	m := llm.NewMockClient()
	m.Errors = []error{errors.New("timeout")}
	g := NewGenerator(m, nil, nil)

	b := g.Generate(context.Background(), "keyboard")
	assert.True(t, b.Fallback)
}

func TestGenerateNilClient(t *testing.T) {
	g := NewGenerator(nil, nil, nil)

	b := g.Generate(context.Background(), strings.Repeat("x", 80))
	assert.True(t, b.Fallback)
	assert.Len(t, b.Product, 50)
}

func TestPromptIncludesVocabulary(t *testing.T) {
	m := llm.NewMockClient(validJSON)
	g := NewGenerator(m, []string{"esp32_module", "battery"}, []string{"electronics", "power"})

	g.Generate(context.Background(), "sensor node")
	require.Len(t, m.Calls, 1)
	assert.Contains(t, m.Calls[0], "esp32_module")
	assert.Contains(t, m.Calls[0], "electronics, power")
	assert.Contains(t, m.Calls[0], "sensor node")
}

func TestParseDefaultsQuantity(t *testing.T) {
	b, err := parse(`{"product": "Thing", "items": [{"part_name": "widget", "category": "misc", "quantity": 0}]}`)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Items[0].Quantity)
}

func TestParseRejectsEmptyItems(t *testing.T) {
	_, err := parse(`{"product": "Thing", "items": []}`)
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	b := BOM{Items: []Item{
		{PartName: "a", Category: "electronics"},
		{PartName: "b", Category: "power"},
		{PartName: "c", Category: "electronics"},
	}}
	assert.Equal(t, []string{"electronics", "power"}, b.Categories())
}
