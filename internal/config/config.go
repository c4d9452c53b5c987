package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Server struct {
		Port            string        `yaml:"port" env:"TECH_SELECTOR_PORT"`
		Mode            string        `yaml:"mode" env:"TECH_SELECTOR_GIN_MODE"` // gin mode: debug, release, test
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TECH_SELECTOR_SHUTDOWN_TIMEOUT"`
		CORSOrigins     []string      `yaml:"cors_origins" env:"TECH_SELECTOR_CORS_ORIGINS" envSeparator:","`
	} `yaml:"server"`

	Store struct {
		Driver string `yaml:"driver" env:"TECH_SELECTOR_STORE_DRIVER"` // "memory" or "sqlite"
		DSN    string `yaml:"dsn" env:"TECH_SELECTOR_STORE_DSN"`
	} `yaml:"store"`

	Session struct {
		CookieName    string        `yaml:"cookie_name" env:"TECH_SELECTOR_SESSION_COOKIE"`
		IdleTimeout   time.Duration `yaml:"idle_timeout" env:"TECH_SELECTOR_SESSION_IDLE_TIMEOUT"`
		SweepInterval time.Duration `yaml:"sweep_interval" env:"TECH_SELECTOR_SESSION_SWEEP_INTERVAL"`
	} `yaml:"session"`

	Log struct {
		Level       string `yaml:"level" env:"TECH_SELECTOR_LOG_LEVEL"`
		Development bool   `yaml:"development" env:"TECH_SELECTOR_LOG_DEVELOPMENT"`
	} `yaml:"log"`
}

// DefaultIdleTimeout applies when the config does not set session.idle_timeout.
const DefaultIdleTimeout = 2 * time.Hour

// LoadConfig loads configuration from a YAML file, then applies environment
// overrides and defaults. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	// Set before decoding so an explicit 0 ("keep drafts forever") survives.
	config.Session.IdleTimeout = DefaultIdleTimeout

	file, err := os.Open(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults and environment only
	case err != nil:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	default:
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8501"
	}

	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}

	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}

	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = "tech_selector_session"
	}

	if c.Session.SweepInterval == 0 {
		c.Session.SweepInterval = 5 * time.Minute
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate rejects values the server cannot start with
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown store driver %q (want memory or sqlite)", c.Store.Driver)
	}

	if !InMemoryDSN(c.Store.DSN) {
		return fmt.Errorf("store dsn %q is not an in-memory database", c.Store.DSN)
	}

	if c.Session.IdleTimeout < 0 {
		return fmt.Errorf("session idle timeout must not be negative, got %s", c.Session.IdleTimeout)
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}

// InMemoryDSN reports whether dsn names a private in-memory SQLite database.
// Evaluations are never written to disk, so file DSNs are rejected.
func InMemoryDSN(dsn string) bool {
	switch {
	case dsn == "", dsn == ":memory:":
		return true
	case strings.HasPrefix(dsn, "file::memory:"):
		return true
	case strings.HasPrefix(dsn, "file:") && strings.Contains(dsn, "mode=memory"):
		return true
	default:
		return false
	}
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
