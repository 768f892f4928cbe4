package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/risk"
)

// Config represents the complete application configuration
type Config struct {
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Analytics AnalyticsConfig `json:"analytics" yaml:"analytics"`
	Risk      risk.Policy     `json:"risk" yaml:"risk"`
	Exchange  ExchangeConfig  `json:"exchange" yaml:"exchange"`
	Insight   InsightConfig   `json:"insight" yaml:"insight"`
	Log       LogConfig       `json:"log" yaml:"log"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}

// JournalConfig locates the trade database
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// AnalyticsConfig holds the defaults for derived views
type AnalyticsConfig struct {
	DefaultWindow string                  `json:"default_window" yaml:"default_window"`
	Heatmap       analytics.HeatmapConfig `json:"heatmap" yaml:"heatmap"`
}

type ExchangeConfig struct {
	Bybit BybitConfig `json:"bybit" yaml:"bybit"`
}

// BybitConfig configures the balance fetch. Keys normally come from the environment.
type BybitConfig struct {
	BaseURL    string `json:"base_url" yaml:"base_url"`
	RecvWindow int    `json:"recv_window" yaml:"recv_window"`
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APISecret  string `json:"api_secret,omitempty" yaml:"api_secret,omitempty"`
}

type InsightConfig struct {
	Model     string `json:"model" yaml:"model"`
	MaxTrades int    `json:"max_trades" yaml:"max_trades"`
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level             string `json:"level" yaml:"level"`
	Encoding          string `json:"encoding" yaml:"encoding"` // "json" or "console"
	Development       bool   `json:"development" yaml:"development"`
	DisableCaller     bool   `json:"disable_caller" yaml:"disable_caller"`
	DisableStacktrace bool   `json:"disable_stacktrace" yaml:"disable_stacktrace"`
	Sampling          bool   `json:"sampling" yaml:"sampling"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON).
// Fields missing from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if _, err := analytics.ParseWindow(c.Analytics.DefaultWindow); err != nil {
		return fmt.Errorf("analytics.default_window: %w", err)
	}
	if err := c.Analytics.Heatmap.Validate(); err != nil {
		return fmt.Errorf("analytics.heatmap: %w", err)
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	if c.Exchange.Bybit.BaseURL == "" {
		return fmt.Errorf("exchange.bybit.base_url is required")
	}
	if c.Exchange.Bybit.RecvWindow <= 0 {
		return fmt.Errorf("exchange.bybit.recv_window must be positive")
	}
	if c.Insight.Model == "" {
		return fmt.Errorf("insight.model is required")
	}
	if c.Insight.MaxTrades <= 0 {
		return fmt.Errorf("insight.max_trades must be positive")
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		return fmt.Errorf("log.encoding must be 'json' or 'console'")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			DBPath: "./tradejournal.db",
		},
		Analytics: AnalyticsConfig{
			DefaultWindow: "all",
			Heatmap:       analytics.DefaultHeatmap(),
		},
		Risk: risk.DefaultPolicy(),
		Exchange: ExchangeConfig{
			Bybit: BybitConfig{
				BaseURL:    "https://api.bybit.com",
				RecvWindow: 5000,
			},
		},
		Insight: InsightConfig{
			Model:     "gemini-2.5-flash",
			MaxTrades: 20,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Environment variables read by LoadEnv.
const (
	EnvDBPath      = "TRADEJOURNAL_DB"
	EnvBybitKey    = "BYBIT_API_KEY"
	EnvBybitSecret = "BYBIT_API_SECRET"
	EnvGeminiKey   = "GEMINI_API_KEY"
)

// LoadEnv reads .env style files into the process environment and copies
// any secrets found there into cfg. Variables already set in the
// environment win over the files. With no files, ./.env is used if present.
func LoadEnv(cfg *Config, files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("env file %q not found", f)
			}
			return fmt.Errorf("load env file %q: %w", f, err)
		}
	}

	setFromEnv(&cfg.Journal.DBPath, EnvDBPath)
	setFromEnv(&cfg.Exchange.Bybit.APIKey, EnvBybitKey)
	setFromEnv(&cfg.Exchange.Bybit.APISecret, EnvBybitSecret)
	setFromEnv(&cfg.Insight.APIKey, EnvGeminiKey)
	return nil
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
