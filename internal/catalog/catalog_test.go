package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogOrderAndLookup(t *testing.T) {
	c := NewCatalog(
		Part{Key: "b", Category: "power"},
		Part{Key: "a", Category: "power"},
		Part{Key: "c", Category: "fpv"},
	)

	parts := c.Parts()
	require.Len(t, parts, 3)
	assert.Equal(t, "b", parts[0].Key)
	assert.Equal(t, "a", parts[1].Key)
	assert.Equal(t, "c", parts[2].Key)

	p, ok := c.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "a", p.Key)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)

	// Re-adding a key replaces in place, keeping its position.
	c.Add(Part{Key: "b", Category: "frame"})
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "b", c.Parts()[0].Key)
	assert.Equal(t, "frame", c.Parts()[0].Category)
}

func TestCatalogJSONRoundTrip(t *testing.T) {
	c := NewCatalog(
		Part{Key: "z_last", UnitPrice: 1, Category: "power"},
		Part{Key: "a_first", UnitPrice: 2, Category: "fpv"},
	)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var back Catalog
	require.NoError(t, json.Unmarshal(data, &back))
	parts := back.Parts()
	require.Len(t, parts, 2)
	// Insertion order survives the round trip, not key order.
	assert.Equal(t, "z_last", parts[0].Key)
}

func TestDefaultDirectory(t *testing.T) {
	d := DefaultDirectory()
	assert.Equal(t, 5, d.Len())

	s, ok := d.Get("techparts-global")
	require.True(t, ok)
	assert.Equal(t, "EU", s.Region)
	assert.Greater(t, s.Catalog.Len(), 0)

	facts := s.AgentFacts()
	assert.Equal(t, "techparts-global", facts.AgentID)
	assert.Contains(t, facts.Capabilities, "propulsion")
	assert.Equal(t, "/agents/techparts-global", facts.Endpoint)

	vocab := d.PartVocabulary()
	assert.Contains(t, vocab, "brushless_motor")
	assert.Contains(t, d.CategoryVocabulary(), "sensors")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suppliers.json")

	suppliers := DefaultDirectory().All()
	data, err := json.Marshal(suppliers)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, len(suppliers), loaded.Len())

	s, ok := loaded.Get("shenzhen-circuits")
	require.True(t, ok)
	assert.Equal(t, 25.0, s.MaxDiscountPct)
	p, ok := s.Catalog.Lookup("battery")
	require.True(t, ok)
	assert.Equal(t, 27.0, p.UnitPrice)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"name":"no id"}]`), 0o600))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}
