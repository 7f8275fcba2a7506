// Package procgo wires the procurement platform together: supplier
// directory, agent registry, negotiation bandit, outcome ledger, the
// orchestrator over them, and the REST API.
package procgo

import (
	"context"
	"fmt"
	"log"

	"github.com/procgo-dev/procgo/internal/api"
	"github.com/procgo-dev/procgo/internal/bandit"
	"github.com/procgo-dev/procgo/internal/bom"
	"github.com/procgo-dev/procgo/internal/catalog"
	"github.com/procgo-dev/procgo/internal/compliance"
	"github.com/procgo-dev/procgo/internal/ledger"
	"github.com/procgo-dev/procgo/internal/logistics"
	"github.com/procgo-dev/procgo/internal/orchestrator"
	"github.com/procgo-dev/procgo/internal/quote"
	"github.com/procgo-dev/procgo/internal/registry"
	"github.com/procgo-dev/procgo/pkg/config"
	"github.com/procgo-dev/procgo/pkg/llm"
	"github.com/procgo-dev/procgo/pkg/observability"
)

// Platform holds every long-lived component of the service.
type Platform struct {
	Config       *config.Config
	Directory    *catalog.Directory
	Registry     *registry.Registry
	Bandit       *bandit.Bandit
	Ledger       ledger.Ledger
	LLM          llm.Client
	Orchestrator *orchestrator.Orchestrator
	API          *api.Server

	banditStore bandit.Store
}

// New builds a platform from configuration. Components that need
// external services (OpenAI, Redis, Badger) are only created when the
// configuration asks for them; everything else falls back to in-memory
// implementations.
func New(cfg *config.Config) (*Platform, error) {
	p := &Platform{Config: cfg}

	dir, err := loadDirectory(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	p.Directory = dir

	p.Registry = registry.New()
	for _, sup := range dir.All() {
		if sup.Catalog == nil {
			continue
		}
		if _, err := p.Registry.Register(sup.AgentFacts()); err != nil {
			return nil, fmt.Errorf("register supplier %s: %w", sup.ID, err)
		}
	}
	observability.SetRegisteredAgents(p.Registry.Len())

	store, err := openBanditStore(cfg)
	if err != nil {
		return nil, err
	}
	p.banditStore = store
	p.Bandit = bandit.New(store)

	led, err := openLedger(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	p.Ledger = led

	p.LLM, err = openLLM(cfg)
	if err != nil {
		store.Close()
		led.Close()
		return nil, err
	}

	p.Orchestrator = orchestrator.New(orchestrator.Config{
		Registry:  p.Registry,
		Directory: dir,
		BOM:       bom.NewGenerator(p.LLM, dir.PartVocabulary(), dir.CategoryVocabulary()),
		Gatherer:  quote.NewGatherer(p.Bandit, p.Ledger, cfg.Epsilon, cfg.QuoteConcurrency),
		Checker:   compliance.NewChecker(dir, p.LLM),
		Planner:   logistics.NewPlanner(logistics.DefaultCarriers(), dir),
	})

	p.API = api.NewServer(p.Orchestrator, p.Registry, p.Bandit, p.Ledger, dir)
	return p, nil
}

// Procure runs one procurement workflow.
func (p *Platform) Procure(ctx context.Context, req orchestrator.Request) orchestrator.Result {
	return p.Orchestrator.Run(ctx, req)
}

// Serve runs the REST API until the listener fails.
func (p *Platform) Serve() error {
	return p.API.Start(p.Config.ListenAddr)
}

// Shutdown stops the API server and releases stores.
func (p *Platform) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := p.API.Shutdown(ctx); err != nil {
		firstErr = err
	}
	for _, c := range []interface{ Close() error }{p.LLM, p.Ledger, p.banditStore} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func loadDirectory(path string) (*catalog.Directory, error) {
	if path == "" {
		return catalog.DefaultDirectory(), nil
	}
	dir, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return dir, nil
}

func openBanditStore(cfg *config.Config) (bandit.Store, error) {
	switch cfg.BanditStore {
	case "", "memory":
		return bandit.NewMemoryStore(), nil
	case "badger":
		return bandit.NewBadgerStore(cfg.BanditPath)
	default:
		return nil, fmt.Errorf("unknown bandit store %q", cfg.BanditStore)
	}
}

func openLedger(cfg *config.Config) (ledger.Ledger, error) {
	switch cfg.LedgerBackend {
	case "", "memory":
		return ledger.NewMemoryLedger(), nil
	case "file":
		return ledger.NewFileLedger(cfg.LedgerPath)
	case "redis":
		return ledger.NewRedisLedger(ledger.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}
}

// openLLM returns nil when no API key is configured: BOM generation
// then uses its canned fallback and compliance skips explanations.
func openLLM(cfg *config.Config) (llm.Client, error) {
	if cfg.OpenAIKey == "" {
		log.Println("no OpenAI key configured, running without a model")
		return nil, nil
	}
	return llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:            cfg.OpenAIKey,
		BaseURL:           cfg.OpenAIBaseURL,
		Model:             cfg.Model,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
}
