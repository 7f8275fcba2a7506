// Package config loads the service configuration from YAML with
// environment overrides for secrets and deployment-specific values.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Server
	ListenAddr        string `yaml:"listen_addr"`
	ObservabilityPort int    `yaml:"observability_port"`

	// LLM
	OpenAIKey         string `yaml:"openai_key"`
	OpenAIBaseURL     string `yaml:"openai_base_url"`
	Model             string `yaml:"model"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`

	// Negotiation
	Epsilon          float64 `yaml:"epsilon"`
	BanditStore      string  `yaml:"bandit_store"`   // memory or badger
	BanditPath       string  `yaml:"bandit_path"`    // badger directory
	LedgerBackend    string  `yaml:"ledger_backend"` // memory, file, or redis
	LedgerPath       string  `yaml:"ledger_path"`    // jsonl file path
	QuoteConcurrency int     `yaml:"quote_concurrency"`

	// Redis (ledger backend)
	Redis RedisConfig `yaml:"redis"`

	// Suppliers
	CatalogPath string `yaml:"catalog_path"` // optional JSON supplier directory

	// Scheduled stats snapshot (cron expression, empty = disabled)
	SnapshotSchedule string `yaml:"snapshot_schedule"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ListenAddr:        ":8080",
		ObservabilityPort: 9090,
		Model:             "gpt-4o-mini",
		RequestsPerMinute: 60,
		Epsilon:           0.1,
		BanditStore:       "memory",
		LedgerBackend:     "memory",
	}
}

// Load reads configuration from a YAML file, applies defaults, and
// overlays environment variables. path may be empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the loaded values.
// Secrets always come from the environment when set.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.OpenAIBaseURL = v
	}
	if v := os.Getenv("PROCGO_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("PROCGO_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("PROCGO_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("PROCGO_EPSILON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Epsilon = f
		}
	}
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0,1], got %v", c.Epsilon)
	}
	switch c.BanditStore {
	case "memory":
	case "badger":
		if c.BanditPath == "" {
			return fmt.Errorf("bandit_path is required for the badger store")
		}
	default:
		return fmt.Errorf("unknown bandit_store %q", c.BanditStore)
	}
	switch c.LedgerBackend {
	case "memory":
	case "file":
		if c.LedgerPath == "" {
			return fmt.Errorf("ledger_path is required for the file backend")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown ledger_backend %q", c.LedgerBackend)
	}
	return nil
}

// Save writes the configuration to a YAML file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
