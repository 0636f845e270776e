// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable the binaries accept. All values have
// working defaults; the in-memory store is used unless RedisURL is set.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"HRFLOW_ADDR" envDefault:":8080"`

	// RedisURL enables the Redis session store and distributed locking
	// when non-empty, e.g. "redis://localhost:6379/0".
	RedisURL string `env:"HRFLOW_REDIS_URL"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"HRFLOW_LOG_LEVEL" envDefault:"info"`

	// DefaultLocale is used for conversations that never state one.
	DefaultLocale string `env:"HRFLOW_LOCALE" envDefault:"en"`

	// DedupWindow bounds duplicate-commit suppression. Zero means
	// duplicates are suppressed for the life of the session record.
	DedupWindow time.Duration `env:"HRFLOW_DEDUP_WINDOW" envDefault:"5m"`

	// BackendTimeout caps each validation gateway and executor call.
	BackendTimeout time.Duration `env:"HRFLOW_BACKEND_TIMEOUT" envDefault:"5s"`

	// LockTTL is the distributed lock lease when Redis is in use.
	LockTTL time.Duration `env:"HRFLOW_LOCK_TTL" envDefault:"30s"`

	// EncryptionKey enables at-rest session encryption when non-empty.
	// Must be exactly 32 bytes (AES-256).
	EncryptionKey string `env:"HRFLOW_ENCRYPTION_KEY"`

	// PIIPatterns enables PII masking of stored slot values when
	// non-empty. Each entry is a regular expression.
	PIIPatterns []string `env:"HRFLOW_PII_PATTERNS" envSeparator:","`

	// SessionIdleTTL is how long an idle conversation survives before
	// eviction. Zero disables the sweeper.
	SessionIdleTTL time.Duration `env:"HRFLOW_SESSION_IDLE_TTL" envDefault:"24h"`

	// SweepInterval is how often idle sessions are evicted.
	SweepInterval time.Duration `env:"HRFLOW_SWEEP_INTERVAL" envDefault:"10m"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to Info for
// unrecognized values.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
