package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	LogDir       string
	JWTSecret    string
}

// Load reads env vars and falls back to defaults so the server can boot with
// zero configuration in development. The JWT signing secret has no default in
// production because every issued session depends on it.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("ACCENPROVE_ENV", "development"),
		HTTPPort:     getEnv("ACCENPROVE_HTTP_PORT", "8080"),
		DatabasePath: getEnv("ACCENPROVE_DB_PATH", filepath.Join("data", "accenprove.db")),
		LogDir:       getEnv("ACCENPROVE_LOG_DIR", filepath.Join("data", "logs")),
		JWTSecret:    os.Getenv("ACCENPROVE_JWT_SECRET"),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("ACCENPROVE_JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-insecure-secret"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production settings.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
