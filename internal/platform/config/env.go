// Package config loads process configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings every astmery entry point needs. Redis is
// optional: without an address the session layer runs in-memory only.
type Config struct {
	// DBPath is the SQLite file holding characters and their journals.
	DBPath string `env:"ASTMERY_DB_PATH" envDefault:"astmery.db"`
	// RedisAddr is the host:port of the session store. Empty disables it.
	RedisAddr string `env:"ASTMERY_REDIS_ADDR"`
	// RedisDB selects the Redis logical database.
	RedisDB int `env:"ASTMERY_REDIS_DB" envDefault:"0"`
	// RoomID names the session room commands operate on.
	RoomID string `env:"ASTMERY_ROOM_ID" envDefault:"default"`
}

// Load reads the application configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
