// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ewscore/ewscore/internal/catalog"
	"github.com/ewscore/ewscore/internal/domain/model"
	"github.com/ewscore/ewscore/internal/domain/scorecache"
	"github.com/ewscore/ewscore/internal/domain/scoring"
	"github.com/ewscore/ewscore/pkg/logger"
	"github.com/ewscore/ewscore/pkg/metrics"
)

// ErrNotStarted is returned when scoring is attempted before Start.
var ErrNotStarted = errors.New("service not started")

// Source supplies measurement definitions for catalogue (re)builds. The
// service calls it at Start and on every Reload.
type Source func(ctx context.Context) ([]catalog.Definition, error)

// Service owns the active catalogue snapshot and the scoring engine.
// The snapshot is published through an atomic pointer: scoring calls
// borrow whatever snapshot is current and a reload swaps the whole
// pointer, so in-flight calls never observe a partially-built catalogue.
type Service struct {
	mu sync.Mutex

	source Source
	engine *scoring.Engine
	active atomic.Pointer[catalog.Catalog]

	// cache keys embed generation, so bumping it on every catalogue
	// swap strands the old entries without an explicit flush.
	cache      scorecache.Cache
	generation atomic.Uint64

	// Request counters for /stats.
	scored             atomic.Int64
	cacheHits          atomic.Int64
	rejectedValidation atomic.Int64
	rejectedBounds     atomic.Int64
	rejectedMismatch   atomic.Int64

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets the measurement definition source.
func WithSource(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithCache sets a custom score cache.
func WithCache(c scorecache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// StaticSource wraps a fixed definition slice as a Source.
func StaticSource(defs []catalog.Definition) Source {
	return func(_ context.Context) ([]catalog.Definition, error) {
		return defs, nil
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine: scoring.New(),
		cache:  scorecache.NewInMemoryCache(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the initial catalogue from the source. The service must
// not accept scoring calls until this succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.source == nil {
		return errors.New("no measurement definition source configured")
	}

	defs, err := s.source(ctx)
	if err != nil {
		return err
	}
	cat, err := catalog.New(defs)
	if err != nil {
		return err
	}

	s.active.Store(cat)
	s.generation.Add(1)
	metrics.UpdateCatalogTypes(cat.Len())

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("measurementTypes", cat.Len()),
	)

	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "scoring service stopped")
}

// Score validates batch against the current catalogue snapshot and
// returns the aggregate score. Errors keep their scoring-package types
// so the transport layer can map them to status codes.
func (s *Service) Score(ctx context.Context, batch model.Batch) (int, error) {
	cat := s.active.Load()
	if cat == nil {
		return 0, ErrNotStarted
	}

	key := scorecache.Key(s.generation.Load(), batch)
	if score, ok := s.cache.Lookup(ctx, key); ok {
		s.scored.Add(1)
		s.cacheHits.Add(1)
		metrics.RecordScoreComputed(score, 0)
		s.logger.Debug(ctx, "batch scored from cache",
			logger.Int("measurements", len(batch)),
			logger.Int("score", score),
		)
		return score, nil
	}

	start := time.Now()
	score, err := s.engine.CalculateScore(ctx, batch, cat)
	if err != nil {
		s.recordRejection(ctx, err)
		return 0, err
	}

	s.cache.Store(ctx, key, score)
	s.scored.Add(1)
	metrics.RecordScoreComputed(score, float64(time.Since(start).Milliseconds()))
	s.logger.Debug(ctx, "batch scored",
		logger.Int("measurements", len(batch)),
		logger.Int("score", score),
	)

	return score, nil
}

// recordRejection classifies a scoring failure for logs and metrics.
func (s *Service) recordRejection(ctx context.Context, err error) {
	switch {
	case errors.Is(err, scoring.ErrValidation):
		s.rejectedValidation.Add(1)
		metrics.RecordScoreRejected("validation")
		s.logger.Warn(ctx, "batch rejected: structural validation", logger.Error(err))
	case errors.Is(err, scoring.ErrOutOfBounds):
		s.rejectedBounds.Add(1)
		metrics.RecordScoreRejected("bounds")
		s.logger.Warn(ctx, "batch rejected: value out of bounds", logger.Error(err))
	case errors.Is(err, scoring.ErrRangeMismatch):
		s.rejectedMismatch.Add(1)
		metrics.RecordScoreRejected("mismatch")
		// Operator-facing: the catalogue has a gap between its bounds
		// and its ranges.
		s.logger.Error(ctx, "batch rejected: catalogue range gap", logger.Error(err))
	default:
		s.logger.Error(ctx, "scoring failed", logger.Error(err))
	}
}

// Types returns the measurement types of the current snapshot.
func (s *Service) Types(_ context.Context) []catalog.MeasurementType {
	cat := s.active.Load()
	if cat == nil {
		return nil
	}
	return cat.Types()
}

// Reload rebuilds the catalogue from the source and atomically swaps the
// active snapshot. On failure the old snapshot stays live.
func (s *Service) Reload(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return 0, ErrNotStarted
	}

	defs, err := s.source(ctx)
	if err != nil {
		metrics.RecordCatalogReload(false)
		s.logger.Error(ctx, "catalogue reload failed: source", logger.Error(err))
		return 0, err
	}
	cat, err := catalog.New(defs)
	if err != nil {
		metrics.RecordCatalogReload(false)
		s.logger.Error(ctx, "catalogue reload failed: invalid definitions", logger.Error(err))
		return 0, err
	}

	s.active.Store(cat)
	s.generation.Add(1)
	metrics.RecordCatalogReload(true)
	metrics.UpdateCatalogTypes(cat.Len())
	s.logger.Info(ctx, "catalogue reloaded", logger.Int("measurementTypes", cat.Len()))

	return cat.Len(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"scored":             s.scored.Load(),
		"cacheHits":          s.cacheHits.Load(),
		"cachedEntries":      s.cache.Size(),
		"rejectedValidation": s.rejectedValidation.Load(),
		"rejectedBounds":     s.rejectedBounds.Load(),
		"rejectedMismatch":   s.rejectedMismatch.Load(),
	}

	if cat := s.active.Load(); cat != nil {
		stats["measurementTypes"] = cat.Len()
	}

	s.mu.Lock()
	stats["started"] = s.started
	s.mu.Unlock()

	return stats
}
