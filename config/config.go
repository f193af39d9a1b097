package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Supported values for StoreBackend
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// Config holds all application configuration
type Config struct {
	ServerPort      int           `json:"server_port" toml:"port"`
	LogLevel        string        `json:"log_level" toml:"log_level"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" toml:"shutdown_timeout"`
	Version         string        `json:"version" toml:"version"`

	StoreBackend   string `json:"store_backend" toml:"store_backend"`
	DatabaseURL    string `json:"-" toml:"database_url"` // may carry credentials
	RedisURL       string `json:"-" toml:"redis_url"`
	RedisKeyPrefix string `json:"redis_key_prefix" toml:"redis_key_prefix"`

	CORSAllowedOrigins []string `json:"cors_allowed_origins" toml:"cors_allowed_origins"`
}

func defaults() *Config {
	return &Config{
		ServerPort:         4000,
		LogLevel:           "INFO",
		ShutdownTimeout:    15 * time.Second,
		Version:            "1.0.0",
		StoreBackend:       BackendMemory,
		RedisURL:           "redis://localhost:6379",
		RedisKeyPrefix:     "todos",
		CORSAllowedOrigins: []string{"*"},
	}
}

// LoadConfig loads configuration with sensible defaults. When CONFIG_FILE
// names a TOML file its values replace the defaults; environment variables
// always win over both.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.ServerPort = getEnvInt("PORT", cfg.ServerPort)
	cfg.LogLevel = getEnvString("LOG_LEVEL", cfg.LogLevel)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.Version = getEnvString("VERSION", cfg.Version)
	cfg.StoreBackend = getEnvString("STORE_BACKEND", cfg.StoreBackend)
	cfg.DatabaseURL = getEnvString("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getEnvString("REDIS_URL", cfg.RedisURL)
	cfg.RedisKeyPrefix = getEnvString("REDIS_KEY_PREFIX", cfg.RedisKeyPrefix)
	cfg.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Address returns the server address in host:port format
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// validate performs basic validation of the configuration
func (c *Config) validate() error {
	// Validate ServerPort
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid server port %d: must be between 1 and 65535", c.ServerPort)
	}

	// Validate and normalize LogLevel
	validLevels := map[string]bool{
		"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true,
	}
	upperLevel := strings.ToUpper(strings.TrimSpace(c.LogLevel))
	if !validLevels[upperLevel] {
		return fmt.Errorf("invalid log level '%s': must be DEBUG, INFO, WARN, or ERROR", c.LogLevel)
	}
	c.LogLevel = upperLevel

	// Validate ShutdownTimeout
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout)
	}
	if c.ShutdownTimeout > 5*time.Minute {
		return fmt.Errorf("invalid shutdown timeout %v: must not exceed 5 minutes", c.ShutdownTimeout)
	}

	// Validate Version
	if strings.TrimSpace(c.Version) == "" {
		return fmt.Errorf("version cannot be empty")
	}
	c.Version = strings.TrimSpace(c.Version)

	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres, BackendSQLite:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("database URL cannot be empty when store backend is %s", c.StoreBackend)
		}
	case BackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("redis URL cannot be empty when store backend is redis")
		}
		if strings.TrimSpace(c.RedisKeyPrefix) == "" {
			return fmt.Errorf("redis key prefix cannot be empty when store backend is redis")
		}
	default:
		return fmt.Errorf("invalid store backend '%s': must be memory, postgres, sqlite, or redis", c.StoreBackend)
	}

	return nil
}
