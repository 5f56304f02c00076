package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/ewscore/ewscore/internal/probe"
)

// Default configuration constants.
const (
	defaultNumBatches   = 1000
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultProbeTimeout = 10 * time.Minute
	defaultFaultRatio   = 0.1
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numBatches = flag.Int("batches", defaultNumBatches, "Number of batches to generate and submit")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		faultRatio = flag.Float64("faults", defaultFaultRatio, "Fraction of batches deliberately broken")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := probe.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	config := &probe.Config{
		BaseURL:    *baseURL,
		NumBatches: *numBatches,
		Workers:    *workers,
		Timeout:    *timeout,
		FaultRatio: *faultRatio,
		Verbose:    *verbose,
	}

	if err := probe.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
