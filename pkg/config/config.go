// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// DefaultMarketFileSpotLengthSeconds is the spot length injected into
// every row of a multi-station market file. Those files drop the
// length column in their formatting; all spots aired to date are 30
// seconds, so the value is hard-coded as a named, documented default.
// If source files ever contain other lengths, output will be silently
// wrong until this is made data-driven.
const DefaultMarketFileSpotLengthSeconds = 30

// Config represents the application configuration
type Config struct {
	// Input/output locations
	DataDir    string // Directory of post-log spreadsheets
	OutputFile string // Aggregated CSV destination
	LookupFile string // Station/market DMA lookup YAML

	// Optional attribution log to join onto the aggregated output
	AttributionLog string

	// Cleaning defaults
	MarketFileSpotLengthSeconds int

	// Optional Postgres sink; nil when POSTGRES_HOST is unset
	Postgres *PostgresConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DataDir:    getEnv("DATA_DIR", "./data"),
		OutputFile: getEnv("OUTPUT_FILE", "./output_data/aggregated_spots_data.csv"),
		LookupFile: getEnv("LOOKUP_FILE", "./station_dma_lookup.yaml"),

		AttributionLog: getEnv("ATTRIBUTION_LOG", ""),

		MarketFileSpotLengthSeconds: getEnvAsInt(
			"DEFAULT_MARKET_FILE_SPOT_LENGTH_SECONDS",
			DefaultMarketFileSpotLengthSeconds,
		),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// The Postgres sink is opt-in: only load it when a host is set
	if os.Getenv("POSTGRES_HOST") != "" {
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load PostgreSQL configuration: %w", err)
		}
		cfg.Postgres = pgConfig
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data directory is required")
	}

	if c.OutputFile == "" {
		return errors.New("output file path is required")
	}

	if c.LookupFile == "" {
		return errors.New("lookup file path is required")
	}

	if c.MarketFileSpotLengthSeconds <= 0 {
		return errors.New("market file spot length must be positive")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
