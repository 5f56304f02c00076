package probe

import "time"

// Config holds configuration for the scoring probe.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumBatches int           // Number of batches to generate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	FaultRatio float64       // Fraction of batches deliberately broken
	Verbose    bool          // Enable verbose logging
}

// Observation mirrors one measurement in a POST /score body.
type Observation struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// Batch is one generated scoring request with its locally computed
// expectation.
type Batch struct {
	ID           string
	Measurements []Observation
	// ExpectedScore is only meaningful when ExpectError is empty.
	ExpectedScore int
	// ExpectError names the error code the service should answer with,
	// empty for a well-formed batch.
	ExpectError string
}

// RangeSpec mirrors one scored sub-interval from GET /catalog.
type RangeSpec struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Value int `json:"value"`
}

// MeasurementType mirrors one catalogue entry from GET /catalog.
type MeasurementType struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	MinValue    int         `json:"min_value"`
	MaxValue    int         `json:"max_value"`
	Ranges      []RangeSpec `json:"ranges"`
}

// catalogResponse mirrors the GET /catalog payload.
type catalogResponse struct {
	Measurements []MeasurementType `json:"measurements"`
}

// scoreResponse mirrors the POST /score success payload.
type scoreResponse struct {
	Score int `json:"score"`
}

// errorResponse mirrors the POST /score failure payload.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stats holds probe statistics.
type Stats struct {
	BatchesGenerated int
	BatchesSubmitted int
	ScoresMatched    int
	ScoresMismatched int
	ErrorsMatched    int
	ErrorsUnexpected int
	Failed           int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
