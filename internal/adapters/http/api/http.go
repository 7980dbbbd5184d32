// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/aureus/internal/adapters/repository"
	service "github.com/okian/aureus/internal/app"
	"github.com/okian/aureus/internal/domain/layer"
	"github.com/okian/aureus/internal/domain/mapview"
	"github.com/okian/aureus/internal/domain/timeline"
	"github.com/okian/aureus/internal/domain/viewport"
	"github.com/okian/aureus/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CatalogDependencies
	ViewDependencies
}

// CatalogDependencies serves the read-only reference data.
type CatalogDependencies interface {
	Catalog() []layer.Descriptor
	Provinces() (service.ProvinceOptions, error)
	Biographies() []timeline.Biography
	Biography(slug string) (timeline.Biography, error)
}

// ViewDependencies drives live map views.
type ViewDependencies interface {
	CreateView(ctx context.Context, p mapview.Props) (string, mapview.Frame, error)
	View(ctx context.Context, id string) (mapview.Frame, error)
	DeleteView(ctx context.Context, id string) error

	ToggleLayer(ctx context.Context, id, layerID string) (mapview.Frame, error)
	ClearLayers(ctx context.Context, id string) (mapview.Frame, error)
	SetLayer(ctx context.Context, id, layerID string, visible bool) (mapview.Frame, error)

	ToggleProvince(ctx context.Context, id, name string) (mapview.Frame, error)
	SelectAllProvinces(ctx context.Context, id string) (mapview.Frame, error)
	ClearProvinces(ctx context.Context, id string) (mapview.Frame, error)
	SetProvinces(ctx context.Context, id string, names []string) (mapview.Frame, error)

	SetViewport(ctx context.Context, id string, center *viewport.LatLng, zoom *int) (mapview.Frame, error)
	ZoomEnd(ctx context.Context, id string, zoom int) (mapview.Frame, error)
	SetShowLabels(ctx context.Context, id string, show bool) (mapview.Frame, error)

	ActivateEvent(ctx context.Context, id string, e timeline.Event) (mapview.Frame, bool, error)
	ActivateBiographyEvent(ctx context.Context, id, slug string, index int) (mapview.Frame, bool, error)
	DismissMarker(ctx context.Context, id string) (mapview.Frame, error)
	SetMarker(ctx context.Context, id string, m *timeline.Marker) (mapview.Frame, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	catalogHandler *CatalogHandler
	viewsHandler   *ViewsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		catalogHandler: NewCatalogHandler(deps),
		viewsHandler:   NewViewsHandler(deps),
	}
}

// Router returns the chi router serving every API route.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger.Named("api")))

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/catalog", MetricsMiddleware(s.catalogHandler.HandleCatalog, "catalog"))
	r.Get("/provinces", MetricsMiddleware(s.catalogHandler.HandleProvinces, "provinces"))
	r.Get("/timelines", MetricsMiddleware(s.catalogHandler.HandleTimelines, "timelines"))
	r.Get("/timelines/{slug}", MetricsMiddleware(s.catalogHandler.HandleTimeline, "timeline"))

	v := s.viewsHandler
	r.Route("/views", func(r chi.Router) {
		r.Post("/", MetricsMiddleware(v.HandleCreate, "views.create"))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(v.HandleGet, "views.get"))
			r.Delete("/", MetricsMiddleware(v.HandleDelete, "views.delete"))

			r.Post("/layers/clear", MetricsMiddleware(v.HandleClearLayers, "views.layers.clear"))
			r.Post("/layers/{layer}/toggle", MetricsMiddleware(v.HandleToggleLayer, "views.layers.toggle"))
			r.Put("/layers/{layer}", MetricsMiddleware(v.HandleSetLayer, "views.layers.set"))

			r.Post("/provinces/select-all", MetricsMiddleware(v.HandleSelectAll, "views.provinces.select_all"))
			r.Post("/provinces/clear", MetricsMiddleware(v.HandleClearProvinces, "views.provinces.clear"))
			r.Post("/provinces/{name}/toggle", MetricsMiddleware(v.HandleToggleProvince, "views.provinces.toggle"))
			r.Put("/provinces", MetricsMiddleware(v.HandleSetProvinces, "views.provinces.set"))

			r.Put("/viewport", MetricsMiddleware(v.HandleSetViewport, "views.viewport.set"))
			r.Post("/viewport/zoom-end", MetricsMiddleware(v.HandleZoomEnd, "views.viewport.zoom_end"))
			r.Put("/labels", MetricsMiddleware(v.HandleSetLabels, "views.labels.set"))

			r.Post("/timeline/activate", MetricsMiddleware(v.HandleActivate, "views.timeline.activate"))
			r.Delete("/timeline/marker", MetricsMiddleware(v.HandleDismissMarker, "views.timeline.dismiss"))
			r.Put("/timeline/marker", MetricsMiddleware(v.HandleSetMarker, "views.timeline.marker"))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", NewKind("api.route", ErrNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
	return r
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", s.Router())
	logger.Named("api").Debug(ctx, "api routes registered")
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

// writeFailure translates upstream errors to a status code.
func writeFailure(w http.ResponseWriter, op string, err error) {
	err = Wrap(op, err)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "view_not_found", err)
	case errors.Is(err, service.ErrUnknownLayer):
		writeError(w, http.StatusNotFound, "unknown_layer", err)
	case errors.Is(err, timeline.ErrUnknownBiography), errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrLayerOwned), errors.Is(err, service.ErrSelectionOwned):
		writeError(w, http.StatusConflict, "not_delegated", err)
	case errors.Is(err, timeline.ErrEventIndex), errors.Is(err, timeline.ErrUnknownKind), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decode reads a JSON body into v.
func decode(r *http.Request, op string, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
