package probe

import (
	"fmt"
	"os"

	"github.com/ewscore/ewscore/pkg/logger"
)

// SetupLogging initializes the logger for the probe CLI.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the scoring probe.
func ShowHelp() {
	os.Stdout.WriteString(`Early Warning Score Probe
=========================

A concurrent tool for exercising a running scoring service. It fetches
the active catalogue, generates randomized measurement batches with
locally computed expected scores, posts them, and cross-checks the
responses. A configurable share of batches is deliberately broken to
verify the service's error answers.

Usage:
  go run cmd/probe/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -batches int
        Number of batches to generate and submit (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -faults float
        Fraction of batches deliberately broken (default 0.1)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Probe with default settings
  go run cmd/probe/main.go

  # Heavier probe against a different host
  go run cmd/probe/main.go -batches 50000 -workers 16 -url http://localhost:8080

  # Only well-formed batches
  go run cmd/probe/main.go -faults 0
`)
}
