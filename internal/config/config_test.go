package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "8501", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "tech_selector_session", cfg.Session.CookieName)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
  mode: debug
  shutdown_timeout: 10s
  cors_origins: ["http://localhost:3000"]
store:
  driver: sqlite
session:
  idle_timeout: 30m
log:
  level: debug
  development: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
store:
  driver: sqlite
`)
	t.Setenv("TECH_SELECTOR_PORT", "9100")
	t.Setenv("TECH_SELECTOR_STORE_DRIVER", "memory")
	t.Setenv("TECH_SELECTOR_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("TECH_SELECTOR_SESSION_IDLE_TIMEOUT", "45m")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 45*time.Minute, cfg.Session.IdleTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "server: [\n"))
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "store:\n  driver: postgres\n"))
		assert.ErrorContains(t, err, "unknown store driver")
	})

	t.Run("unknown mode", func(t *testing.T) {
		t.Setenv("TECH_SELECTOR_GIN_MODE", "fast")
		_, err := LoadConfig(writeConfig(t, ""))
		assert.ErrorContains(t, err, "unknown server mode")
	})

	t.Run("bad log level", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "log:\n  level: loud\n"))
		assert.ErrorContains(t, err, "invalid log level")
	})
}

func TestLoadConfig_ZeroIdleTimeoutKeepsDrafts(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "session:\n  idle_timeout: 0s\n"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Session.IdleTimeout)

	t.Setenv("TECH_SELECTOR_SESSION_IDLE_TIMEOUT", "0s")
	cfg, err = LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Zero(t, cfg.Session.IdleTimeout)
}

func TestLoadConfig_StoreDSN(t *testing.T) {
	for _, dsn := range []string{":memory:", "file::memory:?cache=shared", "file:evals?mode=memory&cache=shared"} {
		cfg, err := LoadConfig(writeConfig(t, "store:\n  driver: sqlite\n  dsn: \""+dsn+"\"\n"))
		require.NoError(t, err, dsn)
		assert.Equal(t, dsn, cfg.Store.DSN)
	}

	for _, dsn := range []string{"evaluations.db", "file:/var/lib/tech-selector/evals.db"} {
		_, err := LoadConfig(writeConfig(t, "store:\n  driver: sqlite\n  dsn: \""+dsn+"\"\n"))
		assert.ErrorContains(t, err, "not an in-memory database", dsn)
	}
}

func TestLoadConfig_NegativeIdleTimeout(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "session:\n  idle_timeout: -1m\n"))
	assert.ErrorContains(t, err, "must not be negative")
}
