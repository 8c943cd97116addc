package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPPort string
	LogLevel string

	DatabaseURL string
	RedisURL    string

	HoldKeyPrefix        string
	HoldDefaultTTL       time.Duration
	HoldMaxTTL           time.Duration
	IdempotencyKeyPrefix string
	IdempotencyTTL       time.Duration

	RateLimitPerMin int
	RateLimitWindow time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		HoldKeyPrefix:        getEnv("HOLD_KEY_PREFIX", "hold"),
		IdempotencyKeyPrefix: getEnv("IDEMPOTENCY_KEY_PREFIX", "idempotency"),
		RateLimitPerMin:      getEnvInt("RATE_LIMIT_PER_MIN", 60),
	}

	defaultTTL, err := time.ParseDuration(getEnv("HOLD_DEFAULT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse HOLD_DEFAULT_TTL: %w", err)
	}
	cfg.HoldDefaultTTL = defaultTTL

	maxTTL, err := time.ParseDuration(getEnv("HOLD_MAX_TTL", "72h"))
	if err != nil {
		return nil, fmt.Errorf("parse HOLD_MAX_TTL: %w", err)
	}
	cfg.HoldMaxTTL = maxTTL

	idempotencyTTL, err := time.ParseDuration(getEnv("IDEMPOTENCY_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse IDEMPOTENCY_TTL: %w", err)
	}
	cfg.IdempotencyTTL = idempotencyTTL

	window, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("parse RATE_LIMIT_WINDOW: %w", err)
	}
	cfg.RateLimitWindow = window

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.RedisURL == "" {
		errs = append(errs, "REDIS_URL is required")
	}
	if c.HoldDefaultTTL < time.Minute {
		errs = append(errs, "HOLD_DEFAULT_TTL must be at least 1m")
	}
	if c.HoldMaxTTL < c.HoldDefaultTTL {
		errs = append(errs, "HOLD_MAX_TTL must be >= HOLD_DEFAULT_TTL")
	}
	if c.IdempotencyTTL < time.Minute {
		errs = append(errs, "IDEMPOTENCY_TTL must be at least 1m")
	}
	if c.RateLimitPerMin <= 0 {
		errs = append(errs, "RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, "RATE_LIMIT_WINDOW must be > 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
