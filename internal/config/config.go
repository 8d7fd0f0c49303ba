// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"

	"github.com/okian/fettle/internal/domain/correlation"
	"github.com/okian/fettle/internal/domain/readiness"
	"github.com/okian/fettle/internal/domain/trend"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// UpdateQueueSize bounds the in-memory wellness update queue.
	UpdateQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the update deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// Engine is the complete scoring engine configuration: component
	// weights, baselines, scorer coefficients and penalty multipliers.
	Engine readiness.Config `koanf:"engine"`

	// Trend configures the trajectory analyzer.
	Trend trend.Config `koanf:"trend"`

	// Correlation configures the lagged correlation analyzer.
	Correlation correlation.Config `koanf:"correlation"`
}

// New creates a Config with reference defaults. Context is accepted
// first to satisfy the project-wide convention; it is reserved for
// future use and currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		UpdateQueueSize: 100_000,
		WorkerCount:     runtime.NumCPU() * 2,
		DedupeSize:      500_000,
		Engine:          readiness.DefaultConfig(),
		Trend:           trend.Default(),
		Correlation:     correlation.Default(),
	}
}
