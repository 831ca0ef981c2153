// Package config holds process-scoped configuration read once at startup.
package config

import (
	"fmt"
	"os"
)

// Config holds server configuration. It is populated at startup and
// read-only thereafter.
type Config struct {
	DBPath      string // SQLite database path ("" = default path)
	ModelAPIKey string // hosted language model key; required for serve
	RedisAddr   string // optional pub/sub bridge, e.g. localhost:6379
	MapToken    string // map-provider access token; optional, degrades map surfaces
	DevMode     bool
}

// FromEnv creates a Config from environment variables.
func FromEnv() Config {
	return Config{
		DBPath:      os.Getenv("CIVICMAP_DB"),
		ModelAPIKey: envOrDefault("CIVICMAP_MODEL_API_KEY", os.Getenv("OPENAI_API_KEY")),
		RedisAddr:   os.Getenv("CIVICMAP_REDIS_ADDR"),
		MapToken:    os.Getenv("CIVICMAP_MAP_TOKEN"),
		DevMode:     os.Getenv("CIVICMAP_DEV_MODE") == "true",
	}
}

// ValidateServer checks the settings the server cannot start without.
// The map token is deliberately not checked here: its absence degrades the
// map surfaces instead of failing startup.
func (c Config) ValidateServer() error {
	if c.ModelAPIKey == "" {
		return fmt.Errorf("model API key is required (set CIVICMAP_MODEL_API_KEY or OPENAI_API_KEY)")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
