package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset source configuration.
	DatasetPath         string
	DatasetURL          string // empty disables the remote fetch
	DatasetMaxRows      int    // <= 0 loads every row
	DatasetFetchTimeout time.Duration

	// Rendering limits.
	GeoPointCap int
}

// FetchEnabled reports whether the loader should download the dataset when
// it is missing locally.
func (c *Config) FetchEnabled() bool {
	return c.DatasetURL != ""
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("DATASET_FETCH_TIMEOUT", "2m")
	if err != nil {
		return nil, err
	}

	maxRows, err := parseInt("DATASET_MAX_ROWS", 500000)
	if err != nil {
		return nil, err
	}

	geoPointCap, err := parseInt("GEO_POINT_CAP", 10000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatasetPath:         envOrDefault("DATASET_PATH", "data/us_accidents.csv"),
		DatasetURL:          os.Getenv("DATASET_URL"),
		DatasetMaxRows:      maxRows,
		DatasetFetchTimeout: fetchTimeout,

		GeoPointCap: geoPointCap,
	}

	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}
	if cfg.GeoPointCap <= 0 {
		return nil, errors.New("GEO_POINT_CAP must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
