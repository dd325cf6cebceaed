package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"momentum_go/internal/domain"
)

// Pair is one configured trading instrument. The wire symbol is the
// lowercase concatenation base+quote (e.g. "btcusdt").
type Pair struct {
	Base  string `yaml:"base"`
	Quote string `yaml:"quote"`
}

// Symbol returns the wire symbol for the pair.
func (p Pair) Symbol() string {
	return strings.ToLower(p.Base + p.Quote)
}

// Config holds the full application configuration. Loaded once at startup
// and passed by value to each component; never read from ambient globals
// after that.
type Config struct {
	API struct {
		RestURL   string `yaml:"rest_url"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"api"`

	Trading struct {
		Mode        string   `yaml:"mode"` // "live" or "dry_run"
		Pairs       []Pair   `yaml:"pairs"`
		Interval    string   `yaml:"interval"`
		CandleLimit int      `yaml:"candle_limit"`
		QuoteAssets []string `yaml:"quote_assets"`
	} `yaml:"trading"`

	Schedule struct {
		Cron       string `yaml:"cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`

	Storage struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"logging"`
}

// LoadConfig reads the yaml config, applies environment overrides and
// validates the result. Environment variables win over file values so
// secrets can stay out of the config file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	overrideWithEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("MOMENTUM_API_KEY"); v != "" {
		cfg.API.AccessKey = v
	}
	if v := os.Getenv("MOMENTUM_API_SECRET"); v != "" {
		cfg.API.SecretKey = v
	}
	if v := os.Getenv("MOMENTUM_REST_URL"); v != "" {
		cfg.API.RestURL = v
	}
	if v := os.Getenv("MOMENTUM_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.API.RestURL == "" {
		cfg.API.RestURL = "https://api.binance.com"
	}
	if cfg.Trading.Mode == "" {
		cfg.Trading.Mode = "dry_run"
	}
	if cfg.Trading.Interval == "" {
		cfg.Trading.Interval = "1h"
	}
	if cfg.Trading.CandleLimit == 0 {
		cfg.Trading.CandleLimit = 100
	}
	if len(cfg.Trading.QuoteAssets) == 0 {
		cfg.Trading.QuoteAssets = []string{"USDT"}
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 5 * * * *" // five past every hour, 6-field with seconds
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
}

// Validate checks configuration validity. Missing credentials are a fatal
// pre-flight error surfaced before any network call.
func (c *Config) Validate() error {
	if c.API.AccessKey == "" {
		return &domain.ConfigError{Field: "api.access_key is required"}
	}
	if c.API.SecretKey == "" {
		return &domain.ConfigError{Field: "api.secret_key is required"}
	}
	if len(c.Trading.Pairs) == 0 {
		return &domain.ConfigError{Field: "trading.pairs: at least one pair is required"}
	}
	for _, p := range c.Trading.Pairs {
		if p.Base == "" || p.Quote == "" {
			return &domain.ConfigError{Field: "trading.pairs: base and quote are required"}
		}
	}
	switch c.Trading.Mode {
	case "live", "dry_run":
	default:
		return &domain.ConfigError{Field: fmt.Sprintf("trading.mode: unknown mode %q", c.Trading.Mode)}
	}
	if c.Trading.CandleLimit < 0 {
		return &domain.ConfigError{Field: "trading.candle_limit must not be negative"}
	}
	return nil
}
