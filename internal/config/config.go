// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Compose  ComposeConfig  `mapstructure:"compose"`
	Store    StoreConfig    `mapstructure:"store"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// FetchConfig governs the plain HTTP fetch of target sites.
type FetchConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRedirects   int    `mapstructure:"max_redirects"`
}

// HeadlessConfig configures the headless rendering fallback. Force skips the
// promotion heuristic and renders every fetched page headlessly.
type HeadlessConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Force         bool `mapstructure:"force"`
	MaxParallel   int  `mapstructure:"max_parallel"`
	NavTimeoutSec int  `mapstructure:"nav_timeout_seconds"`
	MinBodyBytes  int  `mapstructure:"min_body_bytes"`
}

// ComposeConfig configures the external content service. The API key itself
// lives in the Settings record, not here, so it can be changed at runtime.
type ComposeConfig struct {
	Model          string `mapstructure:"model"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Backend      string `mapstructure:"backend"` // memory, file or postgres
	DataDir      string `mapstructure:"data_dir"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// SnapshotConfig selects where raw fetched HTML is archived.
type SnapshotConfig struct {
	Backend     string `mapstructure:"backend"` // none, memory, local or gcs
	BaseDir     string `mapstructure:"base_dir"`
	GCSBucket   string `mapstructure:"gcs_bucket"`
	Prefix      string `mapstructure:"prefix"`
	ContentType string `mapstructure:"content_type"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SITESPARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("fetch.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	v.SetDefault("fetch.timeout_seconds", 15)
	v.SetDefault("fetch.max_redirects", 5)
	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.force", false)
	v.SetDefault("headless.max_parallel", 1)
	v.SetDefault("headless.nav_timeout_seconds", 25)
	v.SetDefault("headless.min_body_bytes", 2048)
	v.SetDefault("compose.model", "gpt-4o-mini")
	v.SetDefault("compose.timeout_seconds", 30)
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.data_dir", "data")
	v.SetDefault("store.max_open_conns", 4)
	v.SetDefault("snapshot.backend", "none")
	v.SetDefault("snapshot.prefix", "snapshots")
	v.SetDefault("snapshot.content_type", "text/html; charset=utf-8")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Headless.Enabled && c.Headless.MaxParallel <= 0 {
		return fmt.Errorf("headless.max_parallel must be > 0 when headless is enabled")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	switch c.Store.Backend {
	case "memory":
	case "file":
		if c.Store.DataDir == "" {
			return fmt.Errorf("store.data_dir must be set for the file backend")
		}
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn must be set for the postgres backend")
		}
	default:
		return fmt.Errorf("store.backend must be memory, file or postgres")
	}
	switch c.Snapshot.Backend {
	case "", "none", "memory":
	case "local":
		if c.Snapshot.BaseDir == "" {
			return fmt.Errorf("snapshot.base_dir must be set for the local backend")
		}
	case "gcs":
		if c.Snapshot.GCSBucket == "" {
			return fmt.Errorf("snapshot.gcs_bucket must be set for the gcs backend")
		}
	default:
		return fmt.Errorf("snapshot.backend must be none, memory, local or gcs")
	}
	return nil
}

// FetchTimeout converts the fetch timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// ComposeTimeout converts the compose timeout config into a duration.
func (c Config) ComposeTimeout() time.Duration {
	return time.Duration(c.Compose.TimeoutSeconds) * time.Second
}
