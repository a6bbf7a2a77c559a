package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// The firebase backend needs a database URL, so defaults alone cannot
	// validate. Flip to the memory backend to exercise everything else.
	// Setenv means no t.Parallel here.
	t.Setenv("FUELCRAWLER_STORE_BACKEND", "memory")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Fatalf("expected default port 4000, got %d", cfg.Server.Port)
	}
	if !cfg.Crawler.Concurrent {
		t.Fatalf("expected concurrent crawling by default")
	}
	if cfg.Browser.BaseURL != "https://petrolspy.com.au" {
		t.Fatalf("unexpected browser base url %q", cfg.Browser.BaseURL)
	}
	if cfg.Geocode.CountryCodes != "au" {
		t.Fatalf("unexpected country codes %q", cfg.Geocode.CountryCodes)
	}
	if cfg.Store.WriteMode != "merge" {
		t.Fatalf("expected merge write mode, got %q", cfg.Store.WriteMode)
	}
	if cfg.Address.IntersectionMode != "keep" {
		t.Fatalf("expected keep intersection mode, got %q", cfg.Address.IntersectionMode)
	}
	if got := cfg.NavigationTimeout(); got != 120*time.Second {
		t.Fatalf("expected nav timeout 120s, got %v", got)
	}
	if got := cfg.StartStagger(); got != 15*time.Second {
		t.Fatalf("expected start stagger 15s, got %v", got)
	}
	if got := cfg.ZoomSettle(); got != time.Second {
		t.Fatalf("expected zoom settle 1s, got %v", got)
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
crawler:
  concurrent: false
  stagger_seconds: 30
browser:
  nav_timeout_seconds: 60
  zoom_out_steps: 3
  zoom_settle_ms: 250
geocode:
  timeout_seconds: 5
store:
  backend: firebase
  database_url: https://example.firebaseio.com
  write_mode: replace
address:
  intersection_mode: truncate
archive:
  enabled: true
  backend: gcs
  gcs_bucket: snapshots-bucket
pubsub:
  project_id: demo
  topic_name: crawl-runs
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
	if cfg.Crawler.Concurrent {
		t.Fatalf("expected sequential crawling")
	}
	if cfg.Store.Backend != "firebase" || cfg.Store.DatabaseURL != "https://example.firebaseio.com" {
		t.Fatalf("expected firebase store overrides to apply: %+v", cfg.Store)
	}
	if cfg.Store.WriteMode != "replace" {
		t.Fatalf("expected replace write mode, got %q", cfg.Store.WriteMode)
	}
	if cfg.Address.IntersectionMode != "truncate" {
		t.Fatalf("expected truncate intersection mode, got %q", cfg.Address.IntersectionMode)
	}
	if !cfg.Archive.Enabled || cfg.Archive.GCSBucket != "snapshots-bucket" {
		t.Fatalf("expected archive overrides to apply: %+v", cfg.Archive)
	}
	if cfg.PubSub.TopicName != "crawl-runs" {
		t.Fatalf("expected topic override, got %q", cfg.PubSub.TopicName)
	}
	if got := cfg.NavigationTimeout(); got != 60*time.Second {
		t.Fatalf("expected nav timeout 60s, got %v", got)
	}
	if got := cfg.ZoomSettle(); got != 250*time.Millisecond {
		t.Fatalf("expected zoom settle 250ms, got %v", got)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server:  ServerConfig{Port: 4000},
		Browser: BrowserConfig{NavTimeoutSeconds: 120},
		Geocode: GeocodeConfig{TimeoutSeconds: 10},
		Store:   StoreConfig{Backend: "memory", WriteMode: "merge"},
		Address: AddressConfig{IntersectionMode: "keep"},
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
			name: "negative stagger",
			cfg: func() Config {
				c := base
				c.Crawler.StaggerSeconds = -1
				return c
			}(),
			want: "crawler.stagger_seconds",
		},
		{
			name: "invalid nav timeout",
			cfg: func() Config {
				c := base
				c.Browser.NavTimeoutSeconds = 0
				return c
			}(),
			want: "browser.nav_timeout_seconds",
		},
		{
			name: "firebase missing database url",
			cfg: func() Config {
				c := base
				c.Store.Backend = "firebase"
				return c
			}(),
			want: "store.database_url",
		},
		{
			name: "unknown store backend",
			cfg: func() Config {
				c := base
				c.Store.Backend = "postgres"
				return c
			}(),
			want: "store.backend",
		},
		{
			name: "unknown write mode",
			cfg: func() Config {
				c := base
				c.Store.WriteMode = "append"
				return c
			}(),
			want: "store.write_mode",
		},
		{
			name: "unknown intersection mode",
			cfg: func() Config {
				c := base
				c.Address.IntersectionMode = "split"
				return c
			}(),
			want: "address.intersection_mode",
		},
		{
			name: "gcs archive missing bucket",
			cfg: func() Config {
				c := base
				c.Archive.Enabled = true
				c.Archive.Backend = "gcs"
				return c
			}(),
			want: "archive.gcs_bucket",
		},
		{
			name: "unknown archive backend",
			cfg: func() Config {
				c := base
				c.Archive.Enabled = true
				c.Archive.Backend = "s3"
				return c
			}(),
			want: "archive.backend",
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
