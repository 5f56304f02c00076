// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// CatalogHandler handles catalogue inspection requests.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleGetCatalog handles GET /catalog requests.
func (h *CatalogHandler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{Measurements: h.deps.Types(r.Context())})
}
