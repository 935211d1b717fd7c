// Package config loads service configuration from the environment and
// hands it to module constructors as an explicit struct.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	// HTTP server
	HTTPAddr string

	// Storage
	DBPath string

	// Session tokens
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	// Task read cache. Empty RedisAddr disables caching.
	RedisAddr   string
	CachePrefix string
	CacheTTL    time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":3000"),
		DBPath:      getEnv("DB_PATH", "todo.db"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTIssuer:   getEnv("JWT_ISSUER", "todo-service"),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 24*time.Hour),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		CachePrefix: getEnv("CACHE_PREFIX", "todo:"),
		CacheTTL:    getEnvDuration("CACHE_TTL", 5*time.Minute),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
