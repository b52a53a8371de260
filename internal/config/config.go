package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all agent configuration
type Config struct {
	// Server configuration
	Port string

	// Store configuration
	DBType            string // sqlite (default), mysql, postgres, sqlserver
	DBPath            string // sqlite database file
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Sync configuration
	SyncURL         string // remote claim submission endpoint
	SyncMaxAttempts int    // 0 = unlimited retries
	SyncTimeoutSecs int

	// Connectivity probe configuration
	ProbeIntervalSecs int
	ProbeTimeoutMS    int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		DBType:            getEnv("DB_TYPE", "sqlite"),
		DBPath:            getEnv("DB_PATH", "fieldsync.db"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		SyncURL:           getEnv("SYNC_URL", ""),
		SyncMaxAttempts:   getEnvAsInt("SYNC_MAX_ATTEMPTS", 0),
		SyncTimeoutSecs:   getEnvAsInt("SYNC_TIMEOUT_SECONDS", 60),
		ProbeIntervalSecs: getEnvAsInt("PROBE_INTERVAL_SECONDS", 15),
		ProbeTimeoutMS:    getEnvAsInt("PROBE_TIMEOUT_MS", 1500),
	}

	// Validate required fields
	if cfg.SyncURL == "" {
		return nil, fmt.Errorf("SYNC_URL is required")
	}
	if cfg.DBType == "sqlite" {
		if cfg.DBPath == "" {
			return nil, fmt.Errorf("DB_PATH is required for sqlite")
		}
	} else {
		if cfg.DBDatabase == "" {
			return nil, fmt.Errorf("DB_DATABASE is required for %s", cfg.DBType)
		}
		if cfg.DBUser == "" {
			return nil, fmt.Errorf("DB_USER is required for %s", cfg.DBType)
		}
	}

	return cfg, nil
}

// DatabaseName returns the store identifier for logs and health output
func (c *Config) DatabaseName() string {
	if c.DBType == "sqlite" {
		return c.DBPath
	}
	return c.DBDatabase
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
