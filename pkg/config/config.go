package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Cache  CacheConfig  `yaml:"cache" json:"cache" jsonschema:"description=News cache configuration"`
	Fetch  FetchConfig  `yaml:"fetch" json:"fetch" jsonschema:"description=Feed fetching configuration"`
	Export ExportConfig `yaml:"export" json:"export" jsonschema:"description=HTML and PDF export configuration"`
}

// CacheConfig holds cache store settings
type CacheConfig struct {
	Path string `yaml:"path" json:"path" jsonschema:"description=Cache file location (default is rssreader/cache.json in user cache directory)"`
}

// FetchConfig holds feed fetching settings
type FetchConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP request timeout"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=rssreader/1.0,description=User agent for HTTP requests"`
	Retries    int           `yaml:"retries" json:"retries" jsonschema:"default=3,minimum=1,description=Number of fetch attempts"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=500ms,description=Initial delay between attempts"`
}

// ExportConfig holds export settings
type ExportConfig struct {
	PageTitle string `yaml:"page_title" json:"page_title" jsonschema:"default=RSS news,description=Title of exported documents"`
}

// Load reads configuration from a YAML file. Empty path means defaults only.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	setDefaults(&cfg)

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}

	return &cfg, nil
}

// DefaultCachePath returns cache file location in XDG cache directory
func DefaultCachePath() string {
	return filepath.Join(xdg.CacheHome, "rssreader", "cache.json")
}

// DefaultConfigPath returns config file location in XDG config directory, the file is optional
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "rssreader", "config.yml")
}

func setDefaults(cfg *Config) {
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = DefaultCachePath()
	}

	// set defaults for fetch
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 30 * time.Second
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "rssreader/1.0"
	}
	if cfg.Fetch.Retries == 0 {
		cfg.Fetch.Retries = 3
	}
	if cfg.Fetch.RetryDelay == 0 {
		cfg.Fetch.RetryDelay = 500 * time.Millisecond
	}

	if cfg.Export.PageTitle == "" {
		cfg.Export.PageTitle = "RSS news"
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Fetch.Timeout < time.Second {
		return fmt.Errorf("fetch timeout must be at least 1 second")
	}
	if cfg.Fetch.Retries < 1 {
		return fmt.Errorf("fetch retries must be at least 1")
	}
	if cfg.Fetch.RetryDelay < 0 {
		return fmt.Errorf("fetch retry_delay must be non-negative")
	}
	return nil
}
