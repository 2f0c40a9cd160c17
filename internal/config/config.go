package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL   string
	SessionTTL time.Duration
	WorkerID   string

	TimeLimit     float64 // seconds
	MessageLimit  int
	ContentRating string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		WorkerID:      getEnv("WORKER_ID", "worker-"+uuid.New().String()[:8]),
		ContentRating: getEnv("CONTENT_RATING", "PG13"),
	}

	var err error
	if cfg.TimeLimit, err = strconv.ParseFloat(getEnv("TIME_LIMIT_SECONDS", "1200"), 64); err != nil {
		return nil, fmt.Errorf("invalid TIME_LIMIT_SECONDS: %w", err)
	}
	if cfg.TimeLimit <= 0 {
		return nil, fmt.Errorf("TIME_LIMIT_SECONDS must be positive, got %v", cfg.TimeLimit)
	}
	if cfg.MessageLimit, err = strconv.Atoi(getEnv("MESSAGE_LIMIT", "5")); err != nil {
		return nil, fmt.Errorf("invalid MESSAGE_LIMIT: %w", err)
	}
	if cfg.MessageLimit <= 0 {
		return nil, fmt.Errorf("MESSAGE_LIMIT must be positive, got %d", cfg.MessageLimit)
	}
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
