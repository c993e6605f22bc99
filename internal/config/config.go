// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the pipeline service.
type Config struct {
	Port               string
	DatabaseURL        string
	RedisURL           string
	SweepIntervalHours int // cadence of the periodic scoring sweep
	SweepBatchLimit    int // max jobs scored per client per sweep
	LogJSON            bool
	LogDebug           bool
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("PIPELINE_PORT")
	if port == "" {
		port = "8080"
	}

	interval := 6
	if s := os.Getenv("SWEEP_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SWEEP_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	limit := 50
	if s := os.Getenv("SWEEP_BATCH_LIMIT"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SWEEP_BATCH_LIMIT must be a positive integer, got %q", s)
		}
		limit = v
	}

	return &Config{
		Port:               port,
		DatabaseURL:        dbURL,
		RedisURL:           redisURL,
		SweepIntervalHours: interval,
		SweepBatchLimit:    limit,
		LogJSON:            os.Getenv("LOG_JSON") == "true",
		LogDebug:           os.Getenv("LOG_DEBUG") == "true",
	}, nil
}
