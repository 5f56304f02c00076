package probe

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"

	"github.com/ewscore/ewscore/pkg/logger"
)

// Fault categories injected when FaultRatio > 0.
const (
	faultDropType    = 0
	faultDuplicate   = 1
	faultUnknownType = 2
	faultLowValue    = 3
	faultHighValue   = 4
	faultCount       = 5
)

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateBatches builds NumBatches scoring requests against the fetched
// catalogue, each with a locally computed expected outcome.
func generateBatches(ctx context.Context, config *Config, cat []MeasurementType, stats *Stats) []Batch {
	logger.Get().Info(ctx, "generating batches",
		logger.Int("numBatches", config.NumBatches),
		logger.Int("measurementTypes", len(cat)))

	faulty := int(float64(config.NumBatches) * config.FaultRatio)
	batches := make([]Batch, config.NumBatches)
	for i := range batches {
		if i < faulty {
			batches[i] = generateFaultyBatch(cat)
		} else {
			batches[i] = generateValidBatch(cat)
		}
	}

	stats.BatchesGenerated = len(batches)
	return batches
}

// generateValidBatch picks one in-bounds value per configured type and
// sums the expected contributions the same way the engine does: first
// matching range in configured order.
func generateValidBatch(cat []MeasurementType) Batch {
	b := Batch{ID: uuid.New().String(), Measurements: make([]Observation, len(cat))}
	for i, mt := range cat {
		v := pickValue(mt)
		b.Measurements[i] = Observation{Type: mt.Name, Value: v}
		b.ExpectedScore += expectedContribution(mt, v)
	}
	return b
}

// pickValue returns a uniform value in (MinValue, MaxValue].
func pickValue(mt MeasurementType) int {
	span := mt.MaxValue - mt.MinValue
	return mt.MinValue + 1 + randomInt(span)
}

// expectedContribution mirrors the engine's first-match rule.
func expectedContribution(mt MeasurementType, v int) int {
	for _, r := range mt.Ranges {
		if r.Start < v && v <= r.End {
			return r.Value
		}
	}
	return 0
}

// generateFaultyBatch starts from a valid batch and injects one defect,
// recording the error code the service is expected to answer with.
func generateFaultyBatch(cat []MeasurementType) Batch {
	b := generateValidBatch(cat)
	b.ExpectedScore = 0

	switch randomInt(faultCount) {
	case faultDropType:
		b.Measurements = b.Measurements[:len(b.Measurements)-1]
		b.ExpectError = "validation_failed"
	case faultDuplicate:
		b.Measurements = append(b.Measurements, b.Measurements[0])
		b.ExpectError = "validation_failed"
	case faultUnknownType:
		b.Measurements = append(b.Measurements, Observation{Type: "XQ-" + uuid.NewString()[:8], Value: 1})
		b.ExpectError = "validation_failed"
	case faultLowValue:
		// MinValue itself is outside the exclusive lower bound.
		b.Measurements[0].Value = cat[0].MinValue
		b.ExpectError = "out_of_bounds"
	case faultHighValue:
		b.Measurements[0].Value = cat[0].MaxValue + 1
		b.ExpectError = "out_of_bounds"
	}

	return b
}
