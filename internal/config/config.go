// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"

	"github.com/ewscore/ewscore/internal/catalog"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxBatchSize caps the number of measurements accepted per request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// Measurements defines the scoring catalogue: one record per
	// measurement type with its scored sub-ranges.
	Measurements []catalog.Definition `koanf:"measurements"`
}

// New creates a Config using defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use and
// is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:     "info",
		Addr:         ":9080",
		MaxBatchSize: 64,
		Measurements: DefaultMeasurements(),
	}
	return c
}

// DefaultMeasurements returns the built-in adult early-warning catalogue.
// Every range is exclusive-lower, inclusive-upper.
func DefaultMeasurements() []catalog.Definition {
	return []catalog.Definition{
		{
			Name:        "HR",
			Description: "heart rate (bpm)",
			Ranges: []catalog.RangeDefinition{
				{Start: 40, End: 50, Value: 1},
				{Start: 50, End: 90, Value: 0},
				{Start: 90, End: 110, Value: 1},
				{Start: 110, End: 130, Value: 2},
			},
		},
		{
			Name:        "SBP",
			Description: "systolic blood pressure (mmHg)",
			Ranges: []catalog.RangeDefinition{
				{Start: 70, End: 80, Value: 3},
				{Start: 80, End: 90, Value: 2},
				{Start: 90, End: 100, Value: 1},
				{Start: 100, End: 180, Value: 0},
				{Start: 180, End: 220, Value: 3},
			},
		},
		{
			Name:        "RR",
			Description: "respiratory rate (breaths/min)",
			Ranges: []catalog.RangeDefinition{
				{Start: 3, End: 8, Value: 3},
				{Start: 8, End: 11, Value: 1},
				{Start: 11, End: 20, Value: 0},
				{Start: 20, End: 24, Value: 2},
				{Start: 24, End: 60, Value: 3},
			},
		},
		{
			Name:        "TEMP",
			Description: "body temperature (degrees C)",
			Ranges: []catalog.RangeDefinition{
				{Start: 34, End: 35, Value: 3},
				{Start: 35, End: 36, Value: 1},
				{Start: 36, End: 38, Value: 0},
				{Start: 38, End: 39, Value: 1},
				{Start: 39, End: 42, Value: 2},
			},
		},
		{
			Name:        "SPO2",
			Description: "oxygen saturation (%)",
			Ranges: []catalog.RangeDefinition{
				{Start: 85, End: 91, Value: 3},
				{Start: 91, End: 93, Value: 2},
				{Start: 93, End: 95, Value: 1},
				{Start: 95, End: 100, Value: 0},
			},
		},
	}
}
