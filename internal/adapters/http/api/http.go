// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ewscore/ewscore/internal/catalog"
	"github.com/ewscore/ewscore/internal/domain/model"
	"github.com/ewscore/ewscore/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Score computes the aggregate score for a batch, or returns one of
	// the scoring package's typed errors.
	Score(ctx context.Context, batch model.Batch) (int, error)

	// Types exposes the active measurement catalogue read-only.
	Types(ctx context.Context) []catalog.MeasurementType

	// Reload swaps in a freshly built catalogue snapshot.
	Reload(ctx context.Context) (int, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	scoreHandler   *ScoreHandler
	catalogHandler *CatalogHandler
	reloadHandler  *ReloadHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBatchSize int) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		scoreHandler:   NewScoreHandler(deps, maxBatchSize),
		catalogHandler: NewCatalogHandler(deps),
		reloadHandler:  NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandlePostScore, "score"))
	mux.HandleFunc("/catalog", MetricsMiddleware(s.catalogHandler.HandleGetCatalog, "catalog"))
	mux.HandleFunc("/reload", MetricsMiddleware(s.reloadHandler.HandlePostReload, "reload"))
}

// scoreRequest mirrors the JSON schema for POST /score.
type scoreRequest struct {
	Measurements []types.Observation `json:"measurements"`
}

type reloadResponse struct {
	Status           string `json:"status"`
	MeasurementTypes int    `json:"measurement_types"`
}

type catalogResponse struct {
	Measurements []catalog.MeasurementType `json:"measurements"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
