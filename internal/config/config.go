// Package config handles loading and validation of application configuration
// from environment variables. Supports .env files via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        int
	Environment string // "development" | "staging" | "production"

	// Database; empty DatabaseURL runs on the in-memory store outside production
	DatabaseURL string
	AutoMigrate bool

	// Redis for intake sessions; empty RedisURL keeps sessions in process
	RedisURL string

	// HTTP
	AllowedOrigins []string
	RateLimitRPM   int

	// Intake
	SessionTTL time.Duration
	SampleData bool
	Location   *time.Location
	Timezone   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	env := getEnv("ENVIRONMENT", "development")
	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: env,

		DatabaseURL: getEnv("DATABASE_URL", ""),
		AutoMigrate: getEnvBool("AUTO_MIGRATE", false),

		RedisURL: getEnv("REDIS_URL", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
		RateLimitRPM:   getEnvInt("RATE_LIMIT_RPM", 120),

		SessionTTL: time.Duration(getEnvInt("INTAKE_SESSION_TTL_MINUTES", 120)) * time.Minute,
		SampleData: getEnvBool("INTAKE_SAMPLE_DATA", env != "production"),
		Timezone:   getEnv("TIMEZONE", "UTC"),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("INTAKE_SESSION_TTL_MINUTES must be positive")
	}

	// Validate required fields in production
	if cfg.IsProduction() {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required in production")
		}
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
