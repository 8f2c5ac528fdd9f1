// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer in
//   file and environment overrides.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL selects the Postgres snapshot store when set. Empty means
	// the in-memory store.
	DatabaseURL string `koanf:"database_url"`

	// QueueSize bounds the in-memory ingest queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of persistence workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// TimelineWindow bounds how many trailing events a timeline keeps.
	TimelineWindow int `koanf:"timeline_window"`

	// LookbackDays sets the activity scoring lookback.
	LookbackDays int `koanf:"lookback_days"`

	// RateLimitEnabled toggles per-IP request limiting.
	RateLimitEnabled bool `koanf:"rate_limit_enabled"`

	// RateLimitRequests allows this many requests per window per IP.
	RateLimitRequests int `koanf:"rate_limit_requests"`

	// RateLimitWindowSeconds is the limiting window length.
	RateLimitWindowSeconds int `koanf:"rate_limit_window_seconds"`

	// CORSAllowOrigins lists allowed CORS origins.
	CORSAllowOrigins []string `koanf:"cors_allow_origins"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		QueueSize:              100_000,
		WorkerCount:            runtime.NumCPU() * 2,
		DedupeSize:             50_000,
		TimelineWindow:         60,
		LookbackDays:           30,
		RateLimitEnabled:       false,
		RateLimitRequests:      120,
		RateLimitWindowSeconds: 60,
		CORSAllowOrigins:       []string{"*"},
	}
}
