package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
  base_url: https://spark.example.com
auth:
  enabled: true
  api_key: secret
fetch:
  user_agent: spark-agent
  timeout_seconds: 20
  max_redirects: 3
headless:
  enabled: true
  max_parallel: 2
  nav_timeout_seconds: 30
  min_body_bytes: 4096
compose:
  model: gpt-4o
  timeout_seconds: 45
store:
  backend: file
  data_dir: /tmp/spark-data
snapshot:
  backend: local
  base_dir: /tmp/spark-snapshots
  prefix: pages
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "https://spark.example.com" {
		t.Fatalf("expected base URL override, got %q", cfg.Server.BaseURL)
	}
	if !cfg.Auth.Enabled || cfg.Auth.APIKey != "secret" {
		t.Fatalf("expected auth enabled with secret key")
	}
	if cfg.Fetch.UserAgent != "spark-agent" || cfg.Fetch.MaxRedirects != 3 {
		t.Fatalf("expected fetch overrides to apply: %+v", cfg.Fetch)
	}
	if cfg.Store.Backend != "file" || cfg.Store.DataDir != "/tmp/spark-data" {
		t.Fatalf("expected file store config: %+v", cfg.Store)
	}
	if cfg.Snapshot.Backend != "local" || cfg.Snapshot.Prefix != "pages" {
		t.Fatalf("expected snapshot overrides: %+v", cfg.Snapshot)
	}
	if got := cfg.FetchTimeout(); got != 20*time.Second {
		t.Fatalf("expected fetch timeout 20s, got %v", got)
	}
	if got := cfg.ComposeTimeout(); got != 45*time.Second {
		t.Fatalf("expected compose timeout 45s, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Fatalf("expected default memory backend, got %q", cfg.Store.Backend)
	}
	if cfg.Snapshot.Backend != "none" {
		t.Fatalf("expected snapshots disabled by default, got %q", cfg.Snapshot.Backend)
	}
	if cfg.Fetch.TimeoutSeconds != 15 {
		t.Fatalf("expected default fetch timeout 15, got %d", cfg.Fetch.TimeoutSeconds)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server: ServerConfig{Port: 8080},
		Fetch:  FetchConfig{TimeoutSeconds: 10},
		Store:  StoreConfig{Backend: "memory"},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "invalid port",
			cfg: func() Config {
				c := base
				c.Server.Port = 0
				return c
			}(),
			want: "server.port",
		},
		{
			name: "invalid fetch timeout",
			cfg: func() Config {
				c := base
				c.Fetch.TimeoutSeconds = 0
				return c
			}(),
			want: "fetch.timeout_seconds",
		},
		{
			name: "headless missing max parallel",
			cfg: func() Config {
				c := base
				c.Headless.Enabled = true
				c.Headless.MaxParallel = 0
				return c
			}(),
			want: "headless.max_parallel",
		},
		{
			name: "auth missing api key",
			cfg: func() Config {
				c := base
				c.Auth.Enabled = true
				return c
			}(),
			want: "auth.api_key",
		},
		{
			name: "unknown store backend",
			cfg: func() Config {
				c := base
				c.Store.Backend = "etcd"
				return c
			}(),
			want: "store.backend",
		},
		{
			name: "file backend missing data dir",
			cfg: func() Config {
				c := base
				c.Store.Backend = "file"
				return c
			}(),
			want: "store.data_dir",
		},
		{
			name: "postgres backend missing dsn",
			cfg: func() Config {
				c := base
				c.Store.Backend = "postgres"
				return c
			}(),
			want: "store.dsn",
		},
		{
			name: "gcs snapshot missing bucket",
			cfg: func() Config {
				c := base
				c.Snapshot.Backend = "gcs"
				return c
			}(),
			want: "snapshot.gcs_bucket",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
