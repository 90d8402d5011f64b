package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string
	LogLevel       string
	LogPath        string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	WorkerConcurrency int

	// AllowSelfActions disables the self-reaction/self-reply exclusion for
	// development setups where a single account produces all traffic.
	AllowSelfActions bool

	RecomputeInterval   time.Duration
	LeaderboardCacheTTL time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPath:        os.Getenv("LOG_PATH"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AllowSelfActions: getEnv("ALLOW_SELF_ACTIONS", "false") == "true",
	}

	var err error
	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg.WorkerConcurrency, err = strconv.Atoi(getEnv("WORKER_CONCURRENCY", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	cfg.RecomputeInterval, err = time.ParseDuration(getEnv("RECOMPUTE_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECOMPUTE_INTERVAL: %w", err)
	}

	cfg.LeaderboardCacheTTL, err = time.ParseDuration(getEnv("LEADERBOARD_CACHE_TTL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEADERBOARD_CACHE_TTL: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
