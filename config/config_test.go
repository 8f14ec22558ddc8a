package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finmcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultCacheDir, cfg.CacheDir)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, DefaultPoolSize, cfg.PoolSize)
	assert.Empty(t, cfg.UserAgent)
	assert.Empty(t, cfg.RegistryPath)
	assert.Empty(t, cfg.RefreshSchedule)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
cache_dir: /var/cache/finmcp
cache_ttl: 2h
http_addr: ":9090"
fetch_timeout: 10s
user_agent: custom-agent/2.0
pool_size: 8
refresh_schedule: "@every 30m"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/cache/finmcp", cfg.CacheDir)
	assert.Equal(t, "2h", cfg.CacheTTL)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "10s", cfg.FetchTimeout)
	assert.Equal(t, "custom-agent/2.0", cfg.UserAgent)
	assert.Equal(t, 8, cfg.PoolSize)
	assert.Equal(t, "@every 30m", cfg.RefreshSchedule)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "cache_dir: [unterminated")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "cache_dir: /from/file\ncache_ttl: 2h\n")

	t.Setenv("FINMCP_CACHE_DIR", "/from/env")
	t.Setenv("FINMCP_CACHE_TTL", "15m")
	t.Setenv("FINMCP_FETCH_TIMEOUT", "5s")
	t.Setenv("FINMCP_USER_AGENT", "env-agent/1.0")
	t.Setenv("FINMCP_REGISTRY", "/etc/finmcp/registry.yaml")
	t.Setenv("FINMCP_POOL_SIZE", "16")
	t.Setenv("FINMCP_REFRESH", "@every 10m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.CacheDir)
	assert.Equal(t, "15m", cfg.CacheTTL)
	assert.Equal(t, "5s", cfg.FetchTimeout)
	assert.Equal(t, "env-agent/1.0", cfg.UserAgent)
	assert.Equal(t, "/etc/finmcp/registry.yaml", cfg.RegistryPath)
	assert.Equal(t, 16, cfg.PoolSize)
	assert.Equal(t, "@every 10m", cfg.RefreshSchedule)
}

func TestLoad_PortEnv(t *testing.T) {
	t.Run("bare port number", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.HTTPAddr)
	})

	t.Run("non-numeric port ignored", func(t *testing.T) {
		t.Setenv("PORT", "web")
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	})

	t.Run("explicit addr wins over PORT", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("FINMCP_HTTP_ADDR", "127.0.0.1:8081")
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8081", cfg.HTTPAddr)
	})
}

func TestLoad_BadPoolSizeEnvIgnored(t *testing.T) {
	t.Setenv("FINMCP_POOL_SIZE", "many")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPoolSize, cfg.PoolSize)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"unparseable ttl", func(c *Config) { c.CacheTTL = "soon" }, "cache_ttl"},
		{"negative ttl", func(c *Config) { c.CacheTTL = "-1h" }, "cache_ttl must be positive"},
		{"unparseable timeout", func(c *Config) { c.FetchTimeout = "fast" }, "fetch_timeout"},
		{"zero timeout", func(c *Config) { c.FetchTimeout = "0s" }, "fetch_timeout must be positive"},
		{"zero pool", func(c *Config) { c.PoolSize = -2 }, "pool_size must be at least 1"},
		{"empty addr", func(c *Config) { c.HTTPAddr = "" }, "http_addr is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := Default()
	cfg.CacheTTL = "90m"
	cfg.FetchTimeout = "10s"

	assert.Equal(t, 90*time.Minute, cfg.TTL())
	assert.Equal(t, 10*time.Second, cfg.Timeout())

	// Unparseable values fall back to the defaults.
	cfg.CacheTTL = "soon"
	cfg.FetchTimeout = "fast"
	assert.Equal(t, time.Hour, cfg.TTL())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}
