// Package config loads service configuration from the environment.
//
// A .env file in the working directory is loaded first (development
// convenience); real environment variables always win. Required settings
// fail fast at startup instead of surfacing as confusing runtime errors.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the service reads from the environment.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// JWTSecret signs admin access tokens. Required.
	JWTSecret string

	// JWTExpiry is the admin token lifetime.
	JWTExpiry time.Duration

	// TMDBAPIKey is the Bearer token for the metadata provider. Required.
	TMDBAPIKey string

	// RedisAddr enables login rate limiting when set. Optional.
	RedisAddr     string
	RedisPassword string

	// SentryDSN enables error reporting when set. Optional.
	SentryDSN string

	// LogFormat is "json" or "pretty"; LogLevel is debug/info/warn/error.
	LogFormat string
	LogLevel  string
}

// Load reads configuration from the environment, after loading .env if
// present. Returns an error naming the first missing required setting.
func Load() (*Config, error) {
	// Missing .env is fine — production sets real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("AUTH_JWT_SECRET"),
		JWTExpiry:     getEnvDuration("AUTH_JWT_EXPIRY", 24*time.Hour),
		TMDBAPIKey:    os.Getenv("TMDB_API_KEY"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	for _, req := range []struct{ name, val string }{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"AUTH_JWT_SECRET", cfg.JWTSecret},
		{"TMDB_API_KEY", cfg.TMDBAPIKey},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("config: %s not set", req.name)
		}
	}

	return cfg, nil
}

// getEnv returns the environment variable or a default when unset/empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvDuration parses a duration env var, falling back to def on
// absence or parse failure.
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
