package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/aureus/internal/domain/mapview"
	"github.com/okian/aureus/internal/domain/timeline"
)

// ViewsHandler handles requests against live map views. Every mutating
// route answers with the view's new frame.
type ViewsHandler struct {
	deps ViewDependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps ViewDependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

type frameFunc func(r *http.Request, id string) (mapview.Frame, error)

// frame runs fn for the {id} path parameter and writes the frame.
func (h *ViewsHandler) frame(op string, fn frameFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := fn(r, chi.URLParam(r, "id"))
		if err != nil {
			writeFailure(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// HandleCreate handles POST /views requests.
func (h *ViewsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_view"
	var props mapview.Props
	if err := decode(r, op, &props); err != nil {
		writeFailure(w, op, err)
		return
	}
	id, f, err := h.deps.CreateView(r.Context(), props)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	w.Header().Set("Location", "/views/"+id)
	writeJSON(w, http.StatusCreated, createViewResponse{ID: id, Frame: f})
}

// HandleGet handles GET /views/{id} requests.
func (h *ViewsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.frame("api.get_view", func(r *http.Request, id string) (mapview.Frame, error) {
		return h.deps.View(r.Context(), id)
	})(w, r)
}

// HandleDelete handles DELETE /views/{id} requests.
func (h *ViewsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteView(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeFailure(w, "api.delete_view", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleLayer handles POST /views/{id}/layers/{layer}/toggle requests.
func (h *ViewsHandler) HandleToggleLayer(w http.ResponseWriter, r *http.Request) {
	h.frame("api.toggle_layer", func(r *http.Request, id string) (mapview.Frame, error) {
		return h.deps.ToggleLayer(r.Context(), id, chi.URLParam(r, "layer"))
	})(w, r)
}

// HandleClearLayers handles POST /views/{id}/layers/clear requests.
func (h *ViewsHandler) HandleClearLayers(w http.ResponseWriter, r *http.Request) {
	h.frame("api.clear_layers", func(r *http.Request, id string) (mapview.Frame, error) {
		return h.deps.ClearLayers(r.Context(), id)
	})(w, r)
}

// HandleSetLayer handles PUT /views/{id}/layers/{layer} requests.
func (h *ViewsHandler) HandleSetLayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_layer"
	h.frame(op, func(r *http.Request, id string) (mapview.Frame, error) {
		var req setLayerRequest
		if err := decode(r, op, &req); err != nil {
			return mapview.Frame{}, err
		}
		if err := req.validate(); err != nil {
			return mapview.Frame{}, WrapKind(op, ErrBadRequest, err)
		}
		return h.deps.SetLayer(r.Context(), id, chi.URLParam(r, "layer"), *req.Visible)
	})(w, r)
}

// HandleToggleProvince handles POST /views/{id}/provinces/{name}/toggle requests.
func (h *ViewsHandler) HandleToggleProvince(w http.ResponseWriter, r *http.Request) {
	h.frame("api.toggle_province", func(r *http.Request, id string) (mapview.Frame, error) {
		return h.deps.ToggleProvince(r.Context(), id, chi.URLParam(r, "name"))
	})(w, r)
}

// HandleSelectAll handles POST /views/{id}/provinces/select-all requests.
func (h *ViewsHandler) HandleSelectAll(w http.ResponseWriter, r *http.Request) {
	h.frame("api.select_all_provinces", func(r *http.Request, id string) (mapview.Frame, error) {
		return h.deps.SelectAllProvinces(r.Context(), id)
	})(w, r)
}

// HandleClearProvinces handles POST /views/{id}/provinces/clear requests.
func (h *ViewsHandler) HandleClearProvinces(w http.ResponseWriter, r *http.Request) {
	h.frame("api.clear_provinces", func(r *http.Request, id string) (mapview.Frame, error) {
		return h.deps.ClearProvinces(r.Context(), id)
	})(w, r)
}

// HandleSetProvinces handles PUT /views/{id}/provinces requests.
func (h *ViewsHandler) HandleSetProvinces(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_provinces"
	h.frame(op, func(r *http.Request, id string) (mapview.Frame, error) {
		var req setProvincesRequest
		if err := decode(r, op, &req); err != nil {
			return mapview.Frame{}, err
		}
		if err := req.validate(); err != nil {
			return mapview.Frame{}, WrapKind(op, ErrBadRequest, err)
		}
		return h.deps.SetProvinces(r.Context(), id, req.Provinces)
	})(w, r)
}

// HandleSetViewport handles PUT /views/{id}/viewport requests.
func (h *ViewsHandler) HandleSetViewport(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_viewport"
	h.frame(op, func(r *http.Request, id string) (mapview.Frame, error) {
		var req viewportRequest
		if err := decode(r, op, &req); err != nil {
			return mapview.Frame{}, err
		}
		if err := req.validate(); err != nil {
			return mapview.Frame{}, WrapKind(op, ErrBadRequest, err)
		}
		return h.deps.SetViewport(r.Context(), id, req.Center, req.Zoom)
	})(w, r)
}

// HandleZoomEnd handles POST /views/{id}/viewport/zoom-end requests.
func (h *ViewsHandler) HandleZoomEnd(w http.ResponseWriter, r *http.Request) {
	const op = "api.zoom_end"
	h.frame(op, func(r *http.Request, id string) (mapview.Frame, error) {
		var req zoomEndRequest
		if err := decode(r, op, &req); err != nil {
			return mapview.Frame{}, err
		}
		if err := req.validate(); err != nil {
			return mapview.Frame{}, WrapKind(op, ErrBadRequest, err)
		}
		return h.deps.ZoomEnd(r.Context(), id, *req.Zoom)
	})(w, r)
}

// HandleSetLabels handles PUT /views/{id}/labels requests.
func (h *ViewsHandler) HandleSetLabels(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_labels"
	h.frame(op, func(r *http.Request, id string) (mapview.Frame, error) {
		var req labelsRequest
		if err := decode(r, op, &req); err != nil {
			return mapview.Frame{}, err
		}
		if err := req.validate(); err != nil {
			return mapview.Frame{}, WrapKind(op, ErrBadRequest, err)
		}
		return h.deps.SetShowLabels(r.Context(), id, *req.ShowLabels)
	})(w, r)
}

// HandleActivate handles POST /views/{id}/timeline/activate requests.
func (h *ViewsHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	const op = "api.activate_event"
	var req activateRequest
	if err := decode(r, op, &req); err != nil {
		writeFailure(w, op, err)
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, op, WrapKind(op, ErrBadRequest, err))
		return
	}

	var (
		f      mapview.Frame
		synced bool
		err    error
		id     = chi.URLParam(r, "id")
	)
	if req.Event != nil {
		e := *req.Event
		if e.Kind, err = timeline.ParseKind(string(e.Kind)); err != nil {
			writeFailure(w, op, err)
			return
		}
		f, synced, err = h.deps.ActivateEvent(r.Context(), id, e)
	} else {
		f, synced, err = h.deps.ActivateBiographyEvent(r.Context(), id, req.Biography, *req.Index)
	}
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, activateResponse{Synchronized: synced, Frame: f})
}

// HandleDismissMarker handles DELETE /views/{id}/timeline/marker requests.
func (h *ViewsHandler) HandleDismissMarker(w http.ResponseWriter, r *http.Request) {
	h.frame("api.dismiss_marker", func(r *http.Request, id string) (mapview.Frame, error) {
		return h.deps.DismissMarker(r.Context(), id)
	})(w, r)
}

// HandleSetMarker handles PUT /views/{id}/timeline/marker requests. A null
// body clears the external marker.
func (h *ViewsHandler) HandleSetMarker(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_marker"
	h.frame(op, func(r *http.Request, id string) (mapview.Frame, error) {
		var m *timeline.Marker
		if err := decode(r, op, &m); err != nil {
			return mapview.Frame{}, err
		}
		return h.deps.SetMarker(r.Context(), id, m)
	})(w, r)
}
