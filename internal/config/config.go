package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	JWTSecret       string
	BaseURL         string
	RefreshInterval time.Duration
	AllowedOrigins  []string
}

func Load() *Config {
	// Missing .env is fine; env vars and defaults cover everything.
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "2323"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		BaseURL:         getEnv("BASE_URL", "http://127.0.0.1:2323"),
		RefreshInterval: getDuration("REFRESH_INTERVAL", 5*time.Second),
		AllowedOrigins:  []string{getEnv("ALLOWED_ORIGIN", "http://localhost:5173")},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
