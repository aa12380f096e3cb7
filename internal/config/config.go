package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort   string
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	AdminPassword     string
	AdminPasswordHash string
	AdminTokenSecret  string
	AdminTokenTTL     time.Duration

	Timezone           string
	LogLevel           string
	LogFormat          string
	RateLimitPerMinute int

	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	ParentEmail  string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present; real
// environment variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("PORT", "5000"),
		DatabaseType: getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath: getEnv("DB_PATH", "./data/chore_chart.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		AdminPassword:     getEnv("ADMIN_PASSWORD", "supersecret"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminTokenSecret:  getEnv("ADMIN_TOKEN_SECRET", ""),
		AdminTokenTTL:     getEnvDuration("ADMIN_TOKEN_TTL", 12*time.Hour),

		Timezone:           getEnv("TZ_NAME", "Local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Chore Chart"),
		ParentEmail:  getEnv("PARENT_EMAIL", ""),
	}
}

// Location resolves the configured time zone used to decide what "today" is.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// getEnv reads an environment variable or returns a default value
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
