package config

import (
	"os"
	"strconv"

	"cycleshare/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Outlier  OutlierConfig
}

// DatabaseConfig holds canonical store connection settings. An empty
// URL selects the in-memory store instead of Postgres.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds the reporting API server settings
type ServerConfig struct {
	Port string
}

// OutlierConfig holds the trimming policy knobs. Percentile is the
// upper-bound quantile level; the floors are the fixed minimums a value
// must exceed to count toward distance/duration statistics.
type OutlierConfig struct {
	Percentile      float64
	DistanceFloorM  float64
	DurationFloorMn float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Outlier: OutlierConfig{
			Percentile:      getEnvFloatOrDefault("OUTLIER_PERCENTILE", 99),
			DistanceFloorM:  getEnvFloatOrDefault("DISTANCE_FLOOR_M", 10),
			DurationFloorMn: getEnvFloatOrDefault("DURATION_FLOOR_MIN", 1),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Outlier.Percentile <= 0 || config.Outlier.Percentile > 100 {
		return errors.ConfigInvalid("OUTLIER_PERCENTILE must be in (0, 100]")
	}
	if config.Outlier.DistanceFloorM < 0 {
		return errors.ConfigInvalid("DISTANCE_FLOOR_M must be non-negative")
	}
	if config.Outlier.DurationFloorMn < 0 {
		return errors.ConfigInvalid("DURATION_FLOOR_MIN must be non-negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
