// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ewscore/ewscore/internal/domain/model"
	"github.com/ewscore/ewscore/internal/domain/scoring"
	"github.com/ewscore/ewscore/internal/domain/types"
)

// ScoreHandler handles scoring requests.
type ScoreHandler struct {
	deps         Dependencies
	maxBatchSize int
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps Dependencies, maxBatchSize int) *ScoreHandler {
	return &ScoreHandler{deps: deps, maxBatchSize: maxBatchSize}
}

// HandlePostScore handles POST /score requests.
func (h *ScoreHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	batch := make(model.Batch, len(req.Measurements))
	for i, obs := range req.Measurements {
		batch[i] = model.Measurement{Type: obs.Type, Value: *obs.Value}
	}

	score, err := h.deps.Score(r.Context(), batch)
	if err != nil {
		writeScoringError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.ScoreResponse{Score: score})
}

// validate rejects structurally broken requests before the engine runs.
// Batch-level checks against the catalogue belong to the scoring engine.
func (h *ScoreHandler) validate(req scoreRequest) error {
	if len(req.Measurements) == 0 {
		return errors.New("missing measurements")
	}
	if h.maxBatchSize > 0 && len(req.Measurements) > h.maxBatchSize {
		return fmt.Errorf("too many measurements (max %d)", h.maxBatchSize)
	}
	for i, obs := range req.Measurements {
		if strings.TrimSpace(obs.Type) == "" {
			return fmt.Errorf("measurement %d: missing type", i)
		}
		if obs.Value == nil {
			return fmt.Errorf("measurement %d: missing value", i)
		}
	}
	return nil
}

// writeScoringError maps the scoring error taxonomy to status codes.
// Caller errors come back 400; a catalogue range gap is an operator
// problem and comes back 500 under its own code.
func writeScoringError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scoring.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, scoring.ErrOutOfBounds):
		writeError(w, http.StatusBadRequest, "out_of_bounds", err)
	case errors.Is(err, scoring.ErrRangeMismatch):
		writeError(w, http.StatusInternalServerError, "config_mismatch", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
