// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Browser BrowserConfig `mapstructure:"browser"`
	Geocode GeocodeConfig `mapstructure:"geocode"`
	Store   StoreConfig   `mapstructure:"store"`
	Address AddressConfig `mapstructure:"address"`
	Archive ArchiveConfig `mapstructure:"archive"`
	PubSub  PubSubConfig  `mapstructure:"pubsub"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP trigger server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CrawlerConfig governs run scheduling.
type CrawlerConfig struct {
	Concurrent     bool `mapstructure:"concurrent"`
	StaggerSeconds int  `mapstructure:"stagger_seconds"`
}

// BrowserConfig configures the headless browsing sessions.
type BrowserConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	UserAgent         string `mapstructure:"user_agent"`
	NavTimeoutSeconds int    `mapstructure:"nav_timeout_seconds"`
	ZoomOutSteps      int    `mapstructure:"zoom_out_steps"`
	ZoomSettleMs      int    `mapstructure:"zoom_settle_ms"`
}

// GeocodeConfig configures the address lookup client.
type GeocodeConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	CountryCodes   string `mapstructure:"country_codes"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Backend         string `mapstructure:"backend"`
	DatabaseURL     string `mapstructure:"database_url"`
	CredentialsFile string `mapstructure:"credentials_file"`
	WriteMode       string `mapstructure:"write_mode"`
}

// AddressConfig exposes the normalization behavior that differs between
// observed site layouts.
type AddressConfig struct {
	IntersectionMode string `mapstructure:"intersection_mode"`
}

// ArchiveConfig controls optional raw listing snapshots.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Backend   string `mapstructure:"backend"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	LocalDir  string `mapstructure:"local_dir"`
	Prefix    string `mapstructure:"prefix"`
}

// PubSubConfig holds metadata for run completion notifications.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FUELCRAWLER")
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
	v.SetDefault("server.port", 4000)
	v.SetDefault("crawler.concurrent", true)
	v.SetDefault("crawler.stagger_seconds", 15)
	v.SetDefault("browser.base_url", "https://petrolspy.com.au")
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("browser.nav_timeout_seconds", 120)
	v.SetDefault("browser.zoom_out_steps", 5)
	v.SetDefault("browser.zoom_settle_ms", 1000)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.country_codes", "au")
	v.SetDefault("geocode.user_agent", "petrolmate-crawler/0.1")
	v.SetDefault("geocode.timeout_seconds", 10)
	v.SetDefault("store.backend", "firebase")
	v.SetDefault("store.write_mode", "merge")
	v.SetDefault("address.intersection_mode", "keep")
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.backend", "local")
	v.SetDefault("archive.local_dir", "snapshots")
	v.SetDefault("archive.prefix", "runs")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Crawler.StaggerSeconds < 0 {
		return fmt.Errorf("crawler.stagger_seconds must be >= 0")
	}
	if c.Browser.NavTimeoutSeconds <= 0 {
		return fmt.Errorf("browser.nav_timeout_seconds must be > 0")
	}
	if c.Geocode.TimeoutSeconds <= 0 {
		return fmt.Errorf("geocode.timeout_seconds must be > 0")
	}
	switch c.Store.Backend {
	case "firebase":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("store.database_url must be set for the firebase backend")
		}
	case "memory":
	default:
		return fmt.Errorf("store.backend must be firebase or memory")
	}
	switch c.Store.WriteMode {
	case "merge", "replace":
	default:
		return fmt.Errorf("store.write_mode must be merge or replace")
	}
	switch c.Address.IntersectionMode {
	case "keep", "truncate":
	default:
		return fmt.Errorf("address.intersection_mode must be keep or truncate")
	}
	if c.Archive.Enabled {
		switch c.Archive.Backend {
		case "gcs":
			if c.Archive.GCSBucket == "" {
				return fmt.Errorf("archive.gcs_bucket must be set for the gcs backend")
			}
		case "local":
			if c.Archive.LocalDir == "" {
				return fmt.Errorf("archive.local_dir must be set for the local backend")
			}
		default:
			return fmt.Errorf("archive.backend must be gcs or local")
		}
	}
	return nil
}

// NavigationTimeout converts the browser timeout knob to a duration.
func (c Config) NavigationTimeout() time.Duration {
	return time.Duration(c.Browser.NavTimeoutSeconds) * time.Second
}

// StartStagger converts the per-city start offset knob to a duration.
func (c Config) StartStagger() time.Duration {
	return time.Duration(c.Crawler.StaggerSeconds) * time.Second
}

// GeocodeTimeout converts the lookup timeout knob to a duration.
func (c Config) GeocodeTimeout() time.Duration {
	return time.Duration(c.Geocode.TimeoutSeconds) * time.Second
}

// ZoomSettle converts the map settle knob to a duration.
func (c Config) ZoomSettle() time.Duration {
	return time.Duration(c.Browser.ZoomSettleMs) * time.Millisecond
}
