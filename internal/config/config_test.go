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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
debug: true
server:
  port: 9000
backend:
  base_url: "http://backend:8000/api/"
  timeout: 5s
cache:
  store: memory
dashboard:
  compliance_rule: activity
  timezone: Africa/Ouagadougou
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "http://backend:8000/api/", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "activity", cfg.Dashboard.ComplianceRule)
	assert.Equal(t, "Africa/Ouagadougou", cfg.Location().String())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "debug: false\n"))
	require.NoError(t, err)

	assert.Equal(t, defaultServerPort, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, defaultBackendURL, cfg.Backend.BaseURL)
	assert.Equal(t, CacheStoreMemory, cfg.Cache.Store)
	assert.Equal(t, defaultCacheGCTime, cfg.Cache.GCTime)
	assert.Equal(t, "decay", cfg.Dashboard.ComplianceRule)
	assert.Equal(t, []string{"pdf", "xlsx"}, cfg.Reports.Formats)
	assert.Equal(t, defaultDailyReportCron, cfg.Reports.Schedule.Daily)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, defaultServerPort, cfg.Server.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_API_URL", "https://api.example.org/api/")
	t.Setenv("SERVER_PORT", "7001")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BACKEND_TIMEOUT", "3s")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.org/api/", cfg.Backend.BaseURL)
	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative backend url", func(c *Config) { c.Backend.BaseURL = "/api" }},
		{"unknown cache store", func(c *Config) { c.Cache.Store = "memcached" }},
		{"unknown compliance rule", func(c *Config) { c.Dashboard.ComplianceRule = "strict" }},
		{"bad timezone", func(c *Config) { c.Dashboard.Timezone = "Mars/Olympus" }},
		{"zero port", func(c *Config) { c.Server.Port = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
