package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ewscore/ewscore/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// fetchCatalog retrieves the active measurement catalogue.
func fetchCatalog(ctx context.Context, client *HTTPClient, baseURL string) ([]MeasurementType, error) {
	resp, err := client.Get(ctx, baseURL+"/catalog")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request failed with status %d", resp.StatusCode)
	}

	var cr catalogResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(cr.Measurements) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return cr.Measurements, nil
}

// submission outcomes.
const (
	outcomeScoreMatch    = "score_match"
	outcomeScoreMismatch = "score_mismatch"
	outcomeErrorMatch    = "error_match"
	outcomeErrorWrong    = "error_wrong"
	outcomeFailed        = "failed"
)

// submitBatches posts every batch concurrently and tallies outcomes.
func submitBatches(ctx context.Context, config *Config, batches []Batch, stats *Stats) {
	logger.Get().Info(ctx, "submitting batches",
		logger.Int("count", len(batches)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/score"

	var (
		submitted  int64
		matched    int64
		mismatched int64
		errMatched int64
		errWrong   int64
		failed     int64
	)

	batchChan := make(chan Batch, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range batchChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				outcome := submitSingleBatch(ctx, client, url, b, config.Verbose)
				atomic.AddInt64(&submitted, 1)
				switch outcome {
				case outcomeScoreMatch:
					atomic.AddInt64(&matched, 1)
				case outcomeScoreMismatch:
					atomic.AddInt64(&mismatched, 1)
				case outcomeErrorMatch:
					atomic.AddInt64(&errMatched, 1)
				case outcomeErrorWrong:
					atomic.AddInt64(&errWrong, 1)
				case outcomeFailed:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	go func() {
		defer close(batchChan)
		for _, b := range batches {
			select {
			case <-ctx.Done():
				return
			case batchChan <- b:
			}
		}
	}()

	wg.Wait()

	stats.BatchesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ScoresMatched = int(atomic.LoadInt64(&matched))
	stats.ScoresMismatched = int(atomic.LoadInt64(&mismatched))
	stats.ErrorsMatched = int(atomic.LoadInt64(&errMatched))
	stats.ErrorsUnexpected = int(atomic.LoadInt64(&errWrong))
	stats.Failed = int(atomic.LoadInt64(&failed))
}

// submitSingleBatch posts one batch and compares the response against
// the locally computed expectation.
func submitSingleBatch(ctx context.Context, client *HTTPClient, url string, b Batch, verbose bool) string {
	payload := map[string]interface{}{"measurements": b.Measurements}
	resp, err := client.Post(ctx, url, payload)
	if err != nil {
		return outcomeFailed
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return outcomeFailed
	}

	if b.ExpectError == "" {
		if resp.StatusCode != http.StatusOK {
			logVerbose(ctx, verbose, "unexpected status for valid batch", b.ID, string(body))
			return outcomeErrorWrong
		}
		var sr scoreResponse
		if err := json.Unmarshal(body, &sr); err != nil {
			return outcomeFailed
		}
		if sr.Score != b.ExpectedScore {
			logVerbose(ctx, verbose, "score mismatch", b.ID, string(body))
			return outcomeScoreMismatch
		}
		return outcomeScoreMatch
	}

	if resp.StatusCode == http.StatusOK {
		logVerbose(ctx, verbose, "faulty batch was accepted", b.ID, string(body))
		return outcomeErrorWrong
	}
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return outcomeFailed
	}
	if er.Code != b.ExpectError {
		logVerbose(ctx, verbose, "wrong error code", b.ID, string(body))
		return outcomeErrorWrong
	}
	return outcomeErrorMatch
}

func logVerbose(ctx context.Context, verbose bool, msg, batchID, body string) {
	if !verbose {
		return
	}
	logger.Get().Warn(ctx, msg,
		logger.String("batchID", batchID),
		logger.String("body", body))
}
