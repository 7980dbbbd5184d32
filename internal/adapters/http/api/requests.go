package api

import (
	"errors"
	"strings"

	"github.com/okian/aureus/internal/domain/mapview"
	"github.com/okian/aureus/internal/domain/timeline"
	"github.com/okian/aureus/internal/domain/viewport"
)

// setLayerRequest mirrors the OpenAPI schema for PUT /views/{id}/layers/{layer}.
type setLayerRequest struct {
	Visible *bool `json:"visible"`
}

func (r setLayerRequest) validate() error {
	if r.Visible == nil {
		return errors.New("missing visible")
	}
	return nil
}

type setProvincesRequest struct {
	Provinces []string `json:"provinces"`
}

func (r setProvincesRequest) validate() error {
	if r.Provinces == nil {
		return errors.New("missing provinces")
	}
	return nil
}

type viewportRequest struct {
	Center *viewport.LatLng `json:"center"`
	Zoom   *int             `json:"zoom"`
}

func (r viewportRequest) validate() error {
	if r.Center == nil && r.Zoom == nil {
		return errors.New("center or zoom required")
	}
	if c := r.Center; c != nil && (c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180) {
		return errors.New("center out of range")
	}
	return nil
}

type zoomEndRequest struct {
	Zoom *int `json:"zoom"`
}

func (r zoomEndRequest) validate() error {
	if r.Zoom == nil {
		return errors.New("missing zoom")
	}
	return nil
}

type labelsRequest struct {
	ShowLabels *bool `json:"show_labels"`
}

func (r labelsRequest) validate() error {
	if r.ShowLabels == nil {
		return errors.New("missing show_labels")
	}
	return nil
}

// activateRequest carries either an inline event or a biography reference.
type activateRequest struct {
	Event     *timeline.Event `json:"event"`
	Biography string          `json:"biography"`
	Index     *int            `json:"index"`
}

func (r activateRequest) validate() error {
	inline := r.Event != nil
	ref := strings.TrimSpace(r.Biography) != ""
	switch {
	case inline && ref:
		return errors.New("event and biography are exclusive")
	case inline:
		return nil
	case ref:
		if r.Index == nil {
			return errors.New("missing index")
		}
		return nil
	default:
		return errors.New("event or biography required")
	}
}

type createViewResponse struct {
	ID    string        `json:"id"`
	Frame mapview.Frame `json:"frame"`
}

type activateResponse struct {
	Synchronized bool          `json:"synchronized"`
	Frame        mapview.Frame `json:"frame"`
}
