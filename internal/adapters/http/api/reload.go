// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ReloadHandler handles catalogue reload requests.
type ReloadHandler struct {
	deps Dependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Dependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandlePostReload handles POST /reload requests. A failed reload keeps
// the previous catalogue snapshot serving.
func (h *ReloadHandler) HandlePostReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_reload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	n, err := h.deps.Reload(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "config_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Status: "reloaded", MeasurementTypes: n})
}
