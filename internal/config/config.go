package config

import (
	"log/slog"
	"os"
	"time"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
}

// Load reads configuration from the environment. JWT_SECRET is mandatory:
// tokens signed with a guessed secret are forgeable, so the process refuses
// to start without one.
func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/bookhaven?parseTime=true"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTExpiry:   24 * time.Hour,
	}

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
