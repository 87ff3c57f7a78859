// Package config reads the server's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"go.uber.org/zap"

	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/store"
	"github.com/vsiao/oenology-sub000/store/bolt"
	"github.com/vsiao/oenology-sub000/store/sqlite"
)

// Log backends
const (
	MemoryBackend = "memory"
	SQLiteBackend = "sqlite"
	BoltBackend   = "bolt"
)

var ErrUnknownBackend = errors.New("unknown log backend")

// Config holds everything the web server can be told through VINTNER_*
// environment variables
type Config struct {
	Port            int           `env:"VINTNER_PORT,default=8000"`
	Debug           bool          `env:"VINTNER_DEBUG,default=false"`
	LogBackend      string        `env:"VINTNER_LOG_BACKEND,default=memory"`
	SQLitePath      string        `env:"VINTNER_SQLITE_PATH,default=oenology.db"`
	BoltPath        string        `env:"VINTNER_BOLT_PATH,default=oenology.bolt"`
	VariantName     string        `env:"VINTNER_VARIANT,default=base"`
	AllowedOrigins  []string      `env:"VINTNER_ALLOWED_ORIGINS,default=*"`
	ShutdownTimeout time.Duration `env:"VINTNER_SHUTDOWN_TIMEOUT,default=10s"`

	// Variant is parsed from VariantName
	Variant board.Variant
}

// Load decodes the environment into a Config
func Load() (Config, error) {
	var cfg Config
	err := envdecode.Decode(&cfg)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("decode environment: %w", err)
	}
	return cfg, cfg.check()
}

func (c *Config) check() error {
	c.LogBackend = strings.ToLower(strings.TrimSpace(c.LogBackend))
	switch c.LogBackend {
	case MemoryBackend, SQLiteBackend, BoltBackend:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.LogBackend)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	if err := c.Variant.Set(strings.ToLower(strings.TrimSpace(c.VariantName))); err != nil {
		return err
	}
	origins := c.AllowedOrigins[:0]
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
	return nil
}

// Addr is the address the server listens on
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Logger builds the process logger
func (c Config) Logger() (*zap.Logger, error) {
	if c.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// OpenLog opens the configured action log
func (c Config) OpenLog() (store.ActionLog, error) {
	switch c.LogBackend {
	case MemoryBackend:
		return store.NewMemoryLog(), nil
	case SQLiteBackend:
		s, err := sqlite.Open(c.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BoltBackend:
		s, err := bolt.Open(c.BoltPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.LogBackend)
}
