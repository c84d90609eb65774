// Package config loads server configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Storage backend names accepted by Config.StorageBackend.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config holds the runtime configuration for the combat server.
type Config struct {
	// StorageBackend selects the character store: "redis" or "sqlite".
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"sqlite"`

	// RedisAddr is the host:port of the Redis instance. Required when
	// StorageBackend is "redis"; also enables combat log persistence.
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// SQLitePath is the path of the SQLite database file.
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/combat.db"`

	// RNGSeed seeds the dice roller when non-zero. Zero means a
	// time-based seed; set it only for reproducible sessions.
	RNGSeed int64 `env:"RNG_SEED" envDefault:"0"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.StorageBackend != BackendRedis && cfg.StorageBackend != BackendSQLite {
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}

	return cfg, nil
}
