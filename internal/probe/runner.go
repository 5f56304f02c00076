package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ewscore/ewscore/pkg/logger"
)

// Run executes the complete scoring probe: health check, catalogue
// fetch, batch generation, concurrent submission and verification.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting scoring probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("batches", config.NumBatches),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("faultRatio", config.FaultRatio),
		logger.Any("verbose", config.Verbose))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	client := newHTTPClient(config.Timeout)
	cat, err := fetchCatalog(ctx, client, config.BaseURL)
	if err != nil {
		return fmt.Errorf("catalog fetch failed: %w", err)
	}

	batches := generateBatches(ctx, config, cat, stats)

	submitBatches(ctx, config, batches, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if stats.ScoresMismatched > 0 || stats.ErrorsUnexpected > 0 {
		return fmt.Errorf("probe found %d score mismatches and %d wrong error responses",
			stats.ScoresMismatched, stats.ErrorsUnexpected)
	}

	logger.Get().Info(ctx, "probe completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 response is healthy (the service returns Prometheus metrics)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final probe statistics.
func displayFinalStats(stats *Stats) {
	var batchesPerSecond float64
	if stats.Duration > 0 {
		batchesPerSecond = float64(stats.BatchesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("batchesGenerated", stats.BatchesGenerated),
		logger.Int("batchesSubmitted", stats.BatchesSubmitted),
		logger.Int("scoresMatched", stats.ScoresMatched),
		logger.Int("scoresMismatched", stats.ScoresMismatched),
		logger.Int("errorsMatched", stats.ErrorsMatched),
		logger.Int("errorsUnexpected", stats.ErrorsUnexpected),
		logger.Int("failed", stats.Failed),
		logger.String("duration", stats.Duration.String()),
		logger.Any("batchesPerSecond", batchesPerSecond))
}
