package service

import (
	"context"
	"fmt"

	"github.com/okian/aureus/internal/domain/layer"
	"github.com/okian/aureus/internal/domain/mapview"
	"github.com/okian/aureus/internal/domain/timeline"
	"github.com/okian/aureus/internal/domain/viewport"
	"github.com/okian/aureus/pkg/metrics"
)

// ToggleLayer flips one empire layer. Delegated layers only emit a change
// request, returned in the frame.
func (s *Service) ToggleLayer(ctx context.Context, id, layerID string) (mapview.Frame, error) {
	return s.with(ctx, id, func(v *mapview.View) error {
		mode, ok := v.Layers().Mode(layerID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownLayer, layerID)
		}
		v.Layers().Toggle(layerID)
		metrics.RecordLayerToggle(layerID, mode.String())
		if mode == layer.ModeDelegated {
			metrics.RecordLayerChangeRequest(layerID)
		}
		return nil
	})
}

// ClearLayers hides every owned layer and requests hiding visible delegated ones.
func (s *Service) ClearLayers(ctx context.Context, id string) (mapview.Frame, error) {
	return s.with(ctx, id, func(v *mapview.View) error {
		v.Layers().ClearAll()
		return nil
	})
}

// SetLayer applies an external visibility value to a delegated layer.
func (s *Service) SetLayer(ctx context.Context, id, layerID string, visible bool) (mapview.Frame, error) {
	return s.with(ctx, id, func(v *mapview.View) error {
		mode, ok := v.Layers().Mode(layerID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownLayer, layerID)
		}
		if mode != layer.ModeDelegated {
			return fmt.Errorf("%w: %s", ErrLayerOwned, layerID)
		}
		v.Layers().SetExternal(layerID, visible)
		return nil
	})
}

// ToggleProvince flips one province. Unknown names are ignored.
func (s *Service) ToggleProvince(ctx context.Context, id, name string) (mapview.Frame, error) {
	return s.selectionOp(ctx, id, "toggle", func(v *mapview.View) { v.Selection().Toggle(name) })
}

// SelectAllProvinces selects every known province.
func (s *Service) SelectAllProvinces(ctx context.Context, id string) (mapview.Frame, error) {
	return s.selectionOp(ctx, id, "select_all", func(v *mapview.View) { v.Selection().SelectAll() })
}

// ClearProvinces empties the selection.
func (s *Service) ClearProvinces(ctx context.Context, id string) (mapview.Frame, error) {
	return s.selectionOp(ctx, id, "clear", func(v *mapview.View) { v.Selection().ClearAll() })
}

func (s *Service) selectionOp(ctx context.Context, id, op string, fn func(v *mapview.View)) (mapview.Frame, error) {
	return s.with(ctx, id, func(v *mapview.View) error {
		fn(v)
		metrics.RecordSelectionOperation(op, v.Selection().Mode().String())
		return nil
	})
}

// SetProvinces applies an external selection to a delegated view.
func (s *Service) SetProvinces(ctx context.Context, id string, names []string) (mapview.Frame, error) {
	return s.with(ctx, id, func(v *mapview.View) error {
		if !v.SetProvinces(names) {
			return ErrSelectionOwned
		}
		return nil
	})
}

// SetViewport moves the viewport. Nil fields keep their current value.
func (s *Service) SetViewport(ctx context.Context, id string, center *viewport.LatLng, zoom *int) (mapview.Frame, error) {
	return s.with(ctx, id, func(v *mapview.View) error {
		cur := v.Viewport().State()
		if center != nil {
			cur.Center = *center
		}
		if zoom != nil {
			cur.Zoom = *zoom
		}
		v.Viewport().RecenterAndZoom(cur.Center, cur.Zoom)
		return nil
	})
}

// ZoomEnd records the zoom the render surface settled on.
func (s *Service) ZoomEnd(ctx context.Context, id string, zoom int) (mapview.Frame, error) {
	return s.with(ctx, id, func(v *mapview.View) error {
		v.Viewport().ZoomEnd(zoom)
		return nil
	})
}

// SetShowLabels applies the show-labels flag.
func (s *Service) SetShowLabels(ctx context.Context, id string, show bool) (mapview.Frame, error) {
	return s.with(ctx, id, func(v *mapview.View) error {
		v.SetShowLabels(show)
		return nil
	})
}

// ActivateEvent recenters on e. The bool reports whether the viewport moved;
// events without coordinates leave the view unchanged.
func (s *Service) ActivateEvent(ctx context.Context, id string, e timeline.Event) (mapview.Frame, bool, error) {
	if !e.Kind.Valid() {
		return mapview.Frame{}, false, fmt.Errorf("%w: %q", timeline.ErrUnknownKind, e.Kind)
	}
	var synced bool
	frame, err := s.with(ctx, id, func(v *mapview.View) error {
		_, synced = v.Timeline().Activate(e)
		return nil
	})
	if err != nil {
		return frame, false, err
	}
	if synced {
		metrics.RecordTimelineActivation("synchronized")
	} else {
		metrics.RecordTimelineActivation("skipped")
	}
	return frame, synced, nil
}

// ActivateBiographyEvent activates the index-th event of a built-in biography.
func (s *Service) ActivateBiographyEvent(ctx context.Context, id, slug string, index int) (mapview.Frame, bool, error) {
	b, err := timeline.Lookup(slug)
	if err != nil {
		return mapview.Frame{}, false, err
	}
	e, err := b.Event(index)
	if err != nil {
		return mapview.Frame{}, false, err
	}
	return s.ActivateEvent(ctx, id, e)
}

// DismissMarker drops the timeline marker, as when the timeline closes.
func (s *Service) DismissMarker(ctx context.Context, id string) (mapview.Frame, error) {
	return s.with(ctx, id, func(v *mapview.View) error {
		v.Timeline().Dismiss()
		return nil
	})
}

// SetMarker sets or clears the externally supplied marker.
func (s *Service) SetMarker(ctx context.Context, id string, m *timeline.Marker) (mapview.Frame, error) {
	return s.with(ctx, id, func(v *mapview.View) error {
		v.SetMarker(m)
		return nil
	})
}
