package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	AppID          string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	JWTSecret string
	JWTTTL    time.Duration

	NameAPIBaseURL string
	NameAPITimeout time.Duration

	ResetTokenTTL   time.Duration
	RateLimitSignup time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		AppID:          getEnv("APP_ID", "dsa-tracker-app"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		NameAPIBaseURL: getEnv("NAME_API_BASE_URL", "https://randomuser.me/api/"),
	}

	// Parsing durations
	var err error
	cfg.JWTTTL, err = parseDuration(getEnv("JWT_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.NameAPITimeout, err = parseDuration(getEnv("NAME_API_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NAME_API_TIMEOUT: %w", err)
	}
	cfg.ResetTokenTTL, err = parseDuration(getEnv("RESET_TOKEN_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESET_TOKEN_TTL: %w", err)
	}
	cfg.RateLimitSignup, err = parseDuration(getEnv("RATE_LIMIT_SIGNUP", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SIGNUP: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
