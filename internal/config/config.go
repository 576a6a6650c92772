package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"PortfolioSentinel/internal/currency"
	"PortfolioSentinel/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Finnhub struct {
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		SandboxKey string `yaml:"sandbox_key"`
	} `yaml:"finnhub"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Sync struct {
		IntervalMS int64 `yaml:"interval_ms"`
	} `yaml:"sync"`
	Candles struct {
		WindowDays int `yaml:"window_days"`
	} `yaml:"candles"`
	Currencies []string `yaml:"currencies"`
	Proxy      string   `yaml:"proxy"`
}

// Load reads .env, then the YAML file at path, then applies environment
// variable overrides and defaults. Missing files are not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

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

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("FINNHUB_KEY"); v != "" {
		cfg.Finnhub.APIKey = v
	}
	if v := os.Getenv("FINNHUB_SANDBOX_KEY"); v != "" {
		cfg.Finnhub.SandboxKey = v
	}
	if v := os.Getenv("FINNHUB_BASE_URL"); v != "" {
		cfg.Finnhub.BaseURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SYNC_INTERVAL_MS"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse SYNC_INTERVAL_MS: %w", err)
		}
		cfg.Sync.IntervalMS = ms
	}
	if v := os.Getenv("CURRENCIES"); v != "" {
		cfg.Currencies = strings.Split(v, ",")
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/portfolio.db"
	}
	if cfg.Sync.IntervalMS == 0 {
		cfg.Sync.IntervalMS = 300_000
	}
	if cfg.Candles.WindowDays == 0 {
		cfg.Candles.WindowDays = 91
	}
	if len(cfg.Currencies) == 0 {
		cfg.Currencies = []string{"EUR", "USD", "CAD"}
	}
	for i, c := range cfg.Currencies {
		cfg.Currencies[i] = strings.ToUpper(strings.TrimSpace(c))
	}

	return cfg, nil
}

// SyncInterval returns the sync period as a duration.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Sync.IntervalMS) * time.Millisecond
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Finnhub.APIKey == "" {
		return fmt.Errorf("finnhub.api_key is required")
	}
	if c.Finnhub.SandboxKey == "" {
		return fmt.Errorf("finnhub.sandbox_key is required")
	}
	if c.Sync.IntervalMS <= 0 {
		return fmt.Errorf("sync.interval_ms must be positive")
	}
	if c.Candles.WindowDays <= 0 {
		return fmt.Errorf("candles.window_days must be positive")
	}
	if len(c.Currencies) == 0 {
		return fmt.Errorf("currencies must not be empty")
	}
	if err := currency.ValidateCodes(c.Currencies); err != nil {
		return fmt.Errorf("currencies: %w", err)
	}
	if !currency.Allowed(model.BaseCurrency, c.Currencies) {
		return fmt.Errorf("currencies must include %s", model.BaseCurrency)
	}
	return nil
}
