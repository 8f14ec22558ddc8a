package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultCacheDir     = "./cache"
	DefaultCacheTTL     = "1h"
	DefaultHTTPAddr     = ":8000"
	DefaultFetchTimeout = "30s"
	DefaultPoolSize     = 4
)

// Config holds all server configuration. Durations are Go duration strings
// ("1h", "30s"), parsed by Validate and the typed accessors.
type Config struct {
	CacheDir        string `yaml:"cache_dir"`
	CacheTTL        string `yaml:"cache_ttl"`
	HTTPAddr        string `yaml:"http_addr"`
	FetchTimeout    string `yaml:"fetch_timeout"`
	UserAgent       string `yaml:"user_agent"`       // empty = fetcher default
	RegistryPath    string `yaml:"registry_path"`    // empty = embedded catalog
	PoolSize        int    `yaml:"pool_size"`
	RefreshSchedule string `yaml:"refresh_schedule"` // cron/@every expr; empty = off
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; overrides and
// defaults still apply.
func Load(path string) (*Config, error) {
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

	cfg.applyEnv()
	cfg.applyDefaults()

	return cfg, nil
}

// Default returns the configuration with no file and no environment applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FINMCP_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("FINMCP_CACHE_TTL"); v != "" {
		c.CacheTTL = v
	}
	if v := os.Getenv("FINMCP_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	} else if v := os.Getenv("PORT"); isDigits(v) {
		// Bare port number, the way container platforms hand it out.
		c.HTTPAddr = ":" + v
	}
	if v := os.Getenv("FINMCP_FETCH_TIMEOUT"); v != "" {
		c.FetchTimeout = v
	}
	if v := os.Getenv("FINMCP_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("FINMCP_REGISTRY"); v != "" {
		c.RegistryPath = v
	}
	if v := os.Getenv("FINMCP_POOL_SIZE"); v != "" {
		var size int
		if _, err := fmt.Sscanf(v, "%d", &size); err == nil {
			c.PoolSize = size
		}
	}
	if v := os.Getenv("FINMCP_REFRESH"); v != "" {
		c.RefreshSchedule = v
	}
}

func (c *Config) applyDefaults() {
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir
	}
	if c.CacheTTL == "" {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	if c.FetchTimeout == "" {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.PoolSize == 0 {
		c.PoolSize = DefaultPoolSize
	}
}

// Validate checks that all fields parse and are in range. The refresh
// schedule is not checked here; cron validates it when the refresher starts.
func (c *Config) Validate() error {
	ttl, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return fmt.Errorf("cache_ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("cache_ttl must be positive")
	}

	timeout, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return fmt.Errorf("fetch_timeout: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}

	if c.PoolSize < 1 {
		return fmt.Errorf("pool_size must be at least 1")
	}

	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr is required")
	}

	return nil
}

// TTL returns the parsed cache TTL. Call Validate first; an unparseable
// value falls back to the default here.
func (c *Config) TTL() time.Duration {
	ttl, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return time.Hour
	}
	return ttl
}

// Timeout returns the parsed fetch timeout. Call Validate first; an
// unparseable value falls back to the default here.
func (c *Config) Timeout() time.Duration {
	timeout, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return timeout
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) == -1
}
