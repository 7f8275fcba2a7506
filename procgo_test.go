package procgo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procgo-dev/procgo/internal/orchestrator"
	"github.com/procgo-dev/procgo/pkg/config"
)

func TestNewPlatformDefaults(t *testing.T) {
	p, err := New(config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	assert.Equal(t, 5, p.Directory.Len())
	assert.Equal(t, 5, p.Registry.Len())
	assert.Nil(t, p.LLM) // no key configured
	assert.NotNil(t, p.Orchestrator)
	assert.NotNil(t, p.API)
}

func TestPlatformProcureWithoutModel(t *testing.T) {
	p, err := New(config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	res := p.Procure(context.Background(), orchestrator.Request{
		Text:              "a sensor kit",
		DeadlineDays:      14,
		DestinationRegion: "EU",
	})

	// Without a model the BOM comes from the canned fallback, so the
	// run completes degraded rather than failing.
	assert.Equal(t, orchestrator.StatusDegraded, res.Status)
	assert.True(t, res.BOM.Fallback)
	assert.NotEmpty(t, res.Recommendation.RecommendedSupplier)
}

func TestNewPlatformPersistentStores(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.BanditStore = "badger"
	cfg.BanditPath = filepath.Join(dir, "bandit")
	cfg.LedgerBackend = "file"
	cfg.LedgerPath = filepath.Join(dir, "ledger.jsonl")

	p, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewPlatformRejectsUnknownBackends(t *testing.T) {
	cfg := config.Default()
	cfg.BanditStore = "etcd"
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.LedgerBackend = "dynamo"
	_, err = New(cfg)
	assert.Error(t, err)
}
