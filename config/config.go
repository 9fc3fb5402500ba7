package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full agent configuration.
type Config struct {
	Agent   AgentConfig   `yaml:"agent"`
	Sources SourcesConfig `yaml:"sources"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// AgentConfig controls the flip cycle.
type AgentConfig struct {
	BudgetUSD         float64 `yaml:"budget_usd"`          // purchase budget per allocation pass
	MaxPerMarketplace int     `yaml:"max_per_marketplace"` // listings fetched per source per cycle
	IntervalSeconds   int     `yaml:"interval_seconds"`
	ValuationWorkers  int     `yaml:"valuation_workers"` // 0 = NumCPU*2
}

// SourcesConfig enables and configures the marketplace sources.
type SourcesConfig struct {
	Craigslist CraigslistConfig `yaml:"craigslist"`
	Ebay       EbayConfig       `yaml:"ebay"`
	Facebook   FacebookConfig   `yaml:"facebook"`
}

// CraigslistConfig configures the Craigslist source.
type CraigslistConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BaseURL  string `yaml:"base_url"` // empty = city's production site
	City     string `yaml:"city"`
	Category string `yaml:"category"`
}

// EbayConfig configures the eBay Browse API source.
// APIToken comes from the EBAY_API_TOKEN environment variable, never YAML.
type EbayConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BaseURL  string `yaml:"base_url"`
	Category string `yaml:"category"`
	APIToken string `yaml:"-"`
}

// FacebookConfig configures the mock Facebook Marketplace source.
type FacebookConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Location string `yaml:"location"`
	Category string `yaml:"category"`
	Seed     int64  `yaml:"seed"` // 0 = time-based
}

// StorageConfig controls where results are persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config and the .env file if present. Environment
// values override YAML for the keys they cover.
func Load(path string) (*Config, error) {
	// Load .env if present (silently skipped otherwise)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// CycleInterval returns the cycle interval as a time.Duration.
func (c *Config) CycleInterval() time.Duration {
	return time.Duration(c.Agent.IntervalSeconds) * time.Second
}

// applyEnvOverrides pulls overrides and credentials from the environment.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("EBAY_API_TOKEN"); v != "" {
		cfg.Sources.Ebay.APIToken = v
	}
	if v := os.Getenv("FLIPPER_BUDGET_USD"); v != "" {
		if budget, err := strconv.ParseFloat(v, 64); err == nil && budget > 0 {
			cfg.Agent.BudgetUSD = budget
		}
	}
}

// setDefaults fills required values that were left unset.
func setDefaults(cfg *Config) {
	if cfg.Agent.BudgetUSD <= 0 {
		cfg.Agent.BudgetUSD = 5000
	}
	if cfg.Agent.MaxPerMarketplace <= 0 {
		cfg.Agent.MaxPerMarketplace = 20
	}
	if cfg.Agent.IntervalSeconds <= 0 {
		cfg.Agent.IntervalSeconds = 300
	}
	if cfg.Sources.Craigslist.City == "" {
		cfg.Sources.Craigslist.City = "sfbay"
	}
	if cfg.Sources.Craigslist.Category == "" {
		cfg.Sources.Craigslist.Category = "electronics"
	}
	if cfg.Sources.Ebay.Category == "" {
		cfg.Sources.Ebay.Category = "electronics"
	}
	if cfg.Sources.Facebook.Location == "" {
		cfg.Sources.Facebook.Location = "san-francisco"
	}
	if cfg.Sources.Facebook.Category == "" {
		cfg.Sources.Facebook.Category = "electronics"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "flipper.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
