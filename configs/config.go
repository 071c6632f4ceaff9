package config

import (
	"os"
	"strconv"
)

type Config struct {
	PostgresURI     string
	RedisURI        string
	FrontendURL     string
	WebhookURL      string
	SecretKey       string
	CookieName      string
	ApprovalTTLDays int
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:     getEnv("POSTGRES_URI", ""),
		RedisURI:        getEnv("REDIS_URI", ""),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
		WebhookURL:      getEnv("WEBHOOK_URL", ""),
		SecretKey:       getEnv("SECRET_KEY", ""),
		CookieName:      getEnv("COOKIE_NAME", "approvalflow_session"),
		ApprovalTTLDays: getEnvInt("APPROVAL_TTL_DAYS", 7),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
