package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// DatabaseURL is the Postgres connection string. When empty the service
	// runs against the in-memory store, for local development only.
	DatabaseURL string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// RunInterval is the cadence of scheduled pipeline runs.
	RunInterval time.Duration
	// ForecastHorizon bounds the forecast window replaced on every run.
	ForecastHorizon time.Duration
	// RawLookback bounds how far back observations are read when rebuilding
	// the derived tables.
	RawLookback time.Duration

	ScheduleEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	runInterval, err := parseDuration("RUN_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	forecastHorizon, err := parseDuration("FORECAST_HORIZON", "168h")
	if err != nil {
		return nil, err
	}
	rawLookback, err := parseDuration("RAW_LOOKBACK", "720h")
	if err != nil {
		return nil, err
	}
	scheduleEnabled, err := parseBool("SCHEDULE_ENABLED", true)
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		RunInterval:     runInterval,
		ForecastHorizon: forecastHorizon,
		RawLookback:     rawLookback,
		ScheduleEnabled: scheduleEnabled,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return b, nil
}
