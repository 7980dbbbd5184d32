package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CatalogHandler serves layer, province and timeline reference data.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleCatalog handles GET /catalog requests.
func (h *CatalogHandler) HandleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Catalog())
}

// HandleProvinces handles GET /provinces requests.
func (h *CatalogHandler) HandleProvinces(w http.ResponseWriter, _ *http.Request) {
	opts, err := h.deps.Provinces()
	if err != nil {
		writeFailure(w, "api.get_provinces", err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandleTimelines handles GET /timelines requests.
func (h *CatalogHandler) HandleTimelines(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Biographies())
}

// HandleTimeline handles GET /timelines/{slug} requests.
func (h *CatalogHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	b, err := h.deps.Biography(chi.URLParam(r, "slug"))
	if err != nil {
		writeFailure(w, "api.get_timeline", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
