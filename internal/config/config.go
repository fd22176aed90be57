// Package config centralizes every tunable the services read. The team
// size and strength thresholds in particular must be injected from here,
// never hardcoded at a call site.
package config

import (
	"os"
	"strconv"
	"time"
)

// StrengthThresholds are the available/total ratios at which the team
// strength label changes. Canonical set: 0.80 / 0.60 / 0.40.
type StrengthThresholds struct {
	Full float64
	Good float64
	Lean float64
}

type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr    string
	KafkaBrokers string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// AppBaseURL is the public frontend origin used when building
	// password-reset links.
	AppBaseURL    string
	ResetTokenTTL time.Duration

	TeamSize   int
	Thresholds StrengthThresholds
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "3000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "leavedesk"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,

		AppBaseURL:    getEnv("APP_BASE_URL", "http://localhost:5173"),
		ResetTokenTTL: time.Hour,

		TeamSize:   getEnvInt("TEAM_SIZE", 10),
		Thresholds: StrengthThresholds{Full: 0.80, Good: 0.60, Lean: 0.40},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
