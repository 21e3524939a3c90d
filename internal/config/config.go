package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	App      AppConfig
	Auth     AuthConfig
	Sweep    SweepConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL string
}

// AppConfig holds application configuration
type AppConfig struct {
	Environment string
	LogLevel    string
}

// AuthConfig holds token signing configuration.
// Owner and tenant tokens are signed with independent secrets so a token
// minted for one role can never verify under the other.
type AuthConfig struct {
	OwnerSecret  string
	TenantSecret string
	TokenTTL     int // hours
}

// SweepConfig holds tenancy expiry sweep configuration
type SweepConfig struct {
	Schedule string // cron spec
}

// New creates a new configuration instance
func New() *Config {
	// Load .env if present (local development); real env vars win in production
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: getEnvWithDefault("SERVER_HOST", "0.0.0.0"),
			Port: getEnvWithDefault("SERVER_PORT", "8090"),
		},
		Database: DatabaseConfig{
			Host:     getEnvWithDefault("DB_HOST", "localhost"),
			Port:     getEnvWithDefault("DB_PORT", "5432"),
			User:     getEnvWithDefault("DB_USER", "postgres"),
			Password: getEnvWithDefault("DB_PASSWORD", "postgres"),
			Name:     getEnvWithDefault("DB_NAME", "rental_db"),
			SSLMode:  getEnvWithDefault("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnvWithDefault("REDIS_HOST", "localhost"),
			Port:     getEnvWithDefault("REDIS_PORT", "6379"),
			Password: getEnvWithDefault("REDIS_PASSWORD", ""),
			DB:       getEnvAsIntWithDefault("REDIS_DB", 0),
		},
		NATS: NATSConfig{
			URL: getEnvWithDefault("NATS_URL", "nats://localhost:4222"),
		},
		App: AppConfig{
			Environment: getEnvWithDefault("APP_ENV", "development"),
			LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			OwnerSecret:  getEnvWithDefault("OWNER_JWT_SECRET", "dev-owner-secret"),
			TenantSecret: getEnvWithDefault("TENANT_JWT_SECRET", "dev-tenant-secret"),
			TokenTTL:     getEnvAsIntWithDefault("TOKEN_TTL_HOURS", 24),
		},
		Sweep: SweepConfig{
			Schedule: getEnvWithDefault("TENANCY_SWEEP_SCHEDULE", "@hourly"),
		},
	}
}

// getEnvWithDefault gets environment variable with a default fallback
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault gets environment variable as integer with default fallback
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
