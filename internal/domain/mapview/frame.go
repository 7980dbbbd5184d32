package mapview

import (
	"github.com/okian/aureus/internal/domain/geo"
	"github.com/okian/aureus/internal/domain/labels"
	"github.com/okian/aureus/internal/domain/layer"
	"github.com/okian/aureus/internal/domain/timeline"
	"github.com/okian/aureus/internal/domain/viewport"
)

// Target names what a change request is about.
type Target string

// Change request targets.
const (
	TargetLayer     Target = "layer"
	TargetProvinces Target = "provinces"
)

// ChangeRequest is a change a delegated control asked its owner to apply.
type ChangeRequest struct {
	Target    Target   `json:"target"`
	LayerID   string   `json:"layer_id,omitempty"`
	Visible   *bool    `json:"visible,omitempty"`
	Provinces []string `json:"provinces"`
}

// LayerFrame is one catalog layer as rendered.
type LayerFrame struct {
	layer.Descriptor
	Visible  bool                   `json:"visible"`
	Mode     string                 `json:"mode"`
	Features *geo.FeatureCollection `json:"features,omitempty"`
}

// Frame is everything the render surface needs to draw one view.
type Frame struct {
	Status          geo.Status             `json:"status"`
	Error           string                 `json:"error,omitempty"`
	Layers          []LayerFrame           `json:"layers"`
	AnyLayerVisible bool                   `json:"any_layer_visible"`
	Provinces       *geo.FeatureCollection `json:"provinces"`
	Selected        []string               `json:"selected"`
	SelectionMode   string                 `json:"selection_mode"`
	ProvinceOptions []string               `json:"province_options"`
	Labels          []labels.Label         `json:"labels"`
	ShowLabels      bool                   `json:"show_labels"`
	Viewport        viewport.State         `json:"viewport"`
	ZoomRange       viewport.ZoomRange     `json:"zoom_range"`
	Marker          *timeline.Marker       `json:"marker"`
	Requests        []ChangeRequest        `json:"requests"`
}

// Frame composes the current render description and drains pending change
// requests.
func (v *View) Frame() Frame {
	f := Frame{
		Status:          v.snapshot.Status,
		Error:           v.snapshot.Err,
		Layers:          make([]LayerFrame, 0, v.catalog.Len()),
		AnyLayerVisible: v.layers.HasAnyVisible(),
		Selected:        v.selection.Selected(),
		SelectionMode:   v.selection.Mode().String(),
		ProvinceOptions: v.snapshot.Registry.Names(),
		Labels:          v.labels.Visible(),
		ShowLabels:      v.labels.Show(),
		Viewport:        v.viewport.State(),
		ZoomRange:       v.viewport.ZoomRange(),
		Requests:        v.Requests(),
	}
	for _, d := range v.catalog.Descriptors() {
		mode, _ := v.layers.Mode(d.ID)
		lf := LayerFrame{Descriptor: d, Visible: v.layers.IsVisible(d.ID), Mode: mode.String()}
		if lf.Visible {
			lf.Features = v.snapshot.Layers[d.ID]
			if lf.Features == nil {
				lf.Features = geo.EmptyCollection()
			}
		}
		f.Layers = append(f.Layers, lf)
	}
	f.Provinces = v.snapshot.Provinces.Select(v.selection.Set())
	switch {
	case v.marker != nil:
		m := *v.marker
		f.Marker = &m
	default:
		if m, ok := v.timeline.Active(); ok {
			f.Marker = &m
		}
	}
	return f
}
