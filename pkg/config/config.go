package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL      string
	CommandTimeout   time.Duration
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration

	// Redis configuration (optional; category cache is disabled when empty)
	RedisURL      string
	RedisPassword string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CommandTimeout:   time.Duration(getEnvAsInt("DB_COMMAND_TIMEOUT_SECONDS", 30)) * time.Second,
		RetryMaxAttempts: getEnvAsInt("DB_RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelay:   time.Duration(getEnvAsInt("DB_RETRY_BASE_DELAY_MS", 10)) * time.Millisecond,
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.CommandTimeout <= 0 {
		return fmt.Errorf("DB_COMMAND_TIMEOUT_SECONDS must be positive")
	}

	if c.RetryMaxAttempts < 0 {
		return fmt.Errorf("DB_RETRY_MAX_ATTEMPTS must not be negative")
	}

	if c.RetryBaseDelay <= 0 {
		return fmt.Errorf("DB_RETRY_BASE_DELAY_MS must be positive")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
