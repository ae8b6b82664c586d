package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds everything read from the environment at startup.
type Config struct {
	DatabaseURL        string
	Port               string
	JWTSecret          string
	GraceMinutes       int
	EndingSoonMinutes  int
	CancelledRetention int // days a cancelled reservation is kept before purge
}

// Load reads the environment. DATABASE_URL and JWT_SECRET are required;
// timing knobs fall back to the product defaults.
func Load() *Config {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		Port:               envOr("PORT", "8080"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GraceMinutes:       envIntOr("RESERVATION_GRACE_MINUTES", 3),
		EndingSoonMinutes:  envIntOr("RESERVATION_ENDING_SOON_MINUTES", 5),
		CancelledRetention: envIntOr("CANCELLED_RETENTION_DAYS", 90),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("Invalid value for %s: %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
