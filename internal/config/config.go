package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Policy
	Profile string

	// Auth (all optional; unset schemes are simply not offered)
	BasicAuthUsername string
	BasicAuthPassword string
	AuthToken         string
	JWTSecret         string

	// Server
	Port         string
	CORSOrigins  string
	RateLimitMax int

	// Observability
	SentryDSN string
	LogLevel  slog.Level

	// Startup seed document (optional)
	SeedPath string
}

func Load() *Config {
	return &Config{
		Profile: getEnv("SCIM_PROFILE", ""),

		BasicAuthUsername: getEnv("BASIC_AUTH_USERNAME", ""),
		BasicAuthPassword: getEnv("BASIC_AUTH_PASSWORD", ""),
		AuthToken:         getEnv("SCIM_AUTH_TOKEN", ""),
		JWTSecret:         getEnv("SCIM_JWT_SECRET", ""),

		Port:         getEnv("PORT", "8080"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		RateLimitMax: parseInt(getEnv("RATE_LIMIT_MAX", "0"), 0),

		SentryDSN: getEnv("SENTRY_DSN", ""),
		LogLevel:  parseLogLevel(getEnv("LOG_LEVEL", "info")),

		SeedPath: getEnv("SCIM_SEED_PATH", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
