package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
database:
  url: "postgres://localhost:5432/sendesk?sslmode=disable"
  max_open_conns: 10
session:
  cookie_name: "session_id"
  ttl_hours: 48
dispatch:
  timeout: 15
  circuit_breaker:
    consecutive_fails: 7
scheduler:
  interval_minutes: 5
middleware:
  rate_limit: 50
  allowed_origins:
    - "https://app.example.com"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres://localhost:5432/sendesk?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "session_id", cfg.Session.CookieName)
	assert.Equal(t, 48, cfg.Session.TTLHours)
	assert.Equal(t, 15, cfg.Dispatch.Timeout)
	assert.Equal(t, uint32(7), cfg.Dispatch.CircuitBreaker.ConsecutiveFails)
	assert.Equal(t, 5, cfg.Scheduler.IntervalMinutes)
	assert.Equal(t, 50, cfg.Middleware.RateLimit)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Middleware.AllowedOrigins)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"8081\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Empty(t, cfg.Database.URL, "no database by default")
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Empty(t, cfg.Redis.Addr, "no redis by default")
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, 24, cfg.Session.TTLHours)
	assert.Equal(t, 30, cfg.Dispatch.Timeout)
	assert.Equal(t, 0.6, cfg.Dispatch.CircuitBreaker.FailureRatio)
	assert.Equal(t, 1, cfg.Scheduler.IntervalMinutes)
	assert.True(t, cfg.Middleware.EnableCORS)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
