// Package mapview composes the per-view controllers into a single render
// description.
//
// A View is one interactive map instance. It owns a layer visibility state,
// a province selection, a viewport, a label tracker and a timeline
// synchronizer, and derives a Frame from them and the current geodata
// snapshot. Views are not safe for concurrent use; callers serialize access.
package mapview

import (
	"github.com/okian/aureus/internal/domain/geo"
	"github.com/okian/aureus/internal/domain/labels"
	"github.com/okian/aureus/internal/domain/layer"
	"github.com/okian/aureus/internal/domain/selection"
	"github.com/okian/aureus/internal/domain/timeline"
	"github.com/okian/aureus/internal/domain/viewport"
)

// Defaults applied when neither props nor options say otherwise.
const (
	DefaultZoom           = 4
	DefaultEventZoom      = 7
	DefaultLabelThreshold = 4
	DefaultMinZoom        = 3
	DefaultMaxZoom        = 10
)

// DefaultCenter is the Mediterranean view the map opens on.
var DefaultCenter = viewport.LatLng{Lat: 41.9, Lng: 12.5}

// LayerProp is the external value of a delegated layer.
type LayerProp struct {
	Visible bool `json:"visible"`
}

// Props are the inputs a view is created with. A key in Layers makes that
// layer delegated. A non-nil Provinces makes the selection delegated, even
// when empty.
type Props struct {
	Center              *viewport.LatLng     `json:"center,omitempty"`
	Zoom                *int                 `json:"zoom,omitempty"`
	Layers              map[string]LayerProp `json:"layers,omitempty"`
	Provinces           []string             `json:"provinces,omitempty"`
	DefaultAllProvinces bool                 `json:"default_all_provinces"`
	ShowLabels          *bool                `json:"show_labels,omitempty"`
	EventZoomLevel      *int                 `json:"event_zoom_level,omitempty"`
	Marker              *timeline.Marker     `json:"marker,omitempty"`
}

// Option configures a View.
type Option func(*settings)

type settings struct {
	overrides      map[string]layer.Override
	center         viewport.LatLng
	zoom           int
	eventZoom      int
	labelThreshold int
	minZoom        int
	maxZoom        int
}

// WithLayerOverrides applies descriptor overrides to the view's catalog.
// Bindings in the overrides are replaced by the view's own.
func WithLayerOverrides(o map[string]layer.Override) Option {
	return func(s *settings) { s.overrides = o }
}

// WithDefaultViewport sets the center and zoom used when props omit them.
func WithDefaultViewport(center viewport.LatLng, zoom int) Option {
	return func(s *settings) {
		s.center = center
		s.zoom = zoom
	}
}

// WithEventZoom sets the zoom used for timeline events when props omit it.
func WithEventZoom(z int) Option {
	return func(s *settings) { s.eventZoom = z }
}

// WithLabelThreshold sets the label zoom threshold.
func WithLabelThreshold(t int) Option {
	return func(s *settings) { s.labelThreshold = t }
}

// WithZoomRange sets the advisory zoom bounds handed to the render surface.
func WithZoomRange(lo, hi int) Option {
	return func(s *settings) {
		s.minZoom = lo
		s.maxZoom = hi
	}
}

// View is one map instance.
type View struct {
	catalog   *layer.Catalog
	layers    *layer.Visibility
	selection *selection.Controller
	viewport  *viewport.Controller
	labels    *labels.Tracker
	timeline  *timeline.Synchronizer
	snapshot  geo.Snapshot
	marker    *timeline.Marker
	requests  []ChangeRequest
}

// New builds a view from props. The view starts with a pending geodata
// snapshot; call Apply when geodata is available.
func New(p Props, opts ...Option) *View {
	s := settings{
		center:         DefaultCenter,
		zoom:           DefaultZoom,
		eventZoom:      DefaultEventZoom,
		labelThreshold: DefaultLabelThreshold,
		minZoom:        DefaultMinZoom,
		maxZoom:        DefaultMaxZoom,
	}
	for _, opt := range opts {
		opt(&s)
	}

	v := &View{snapshot: geo.Pending()}
	v.catalog = layer.BuildCatalog(v.bind(s.overrides, p.Layers))
	v.layers = layer.NewVisibility(v.catalog)

	if p.Provinces != nil {
		v.selection = selection.NewDelegated(p.Provinces, v.requestProvinces)
	} else {
		v.selection = selection.NewOwned(p.DefaultAllProvinces, v.selectionChanged)
	}

	center, zoom := s.center, s.zoom
	if p.Center != nil {
		center = *p.Center
	}
	if p.Zoom != nil {
		zoom = *p.Zoom
	}
	v.viewport = viewport.New(center, zoom, viewport.WithZoomRange(s.minZoom, s.maxZoom))

	v.labels = labels.NewTracker(labels.Rule{Threshold: s.labelThreshold})
	if p.ShowLabels != nil {
		v.labels.SetShow(*p.ShowLabels)
	}
	v.viewport.OnZoomChange(func(viewport.Change) { v.recomputeLabels() })

	eventZoom := s.eventZoom
	if p.EventZoomLevel != nil {
		eventZoom = *p.EventZoomLevel
	}
	v.timeline = timeline.NewSynchronizer(v.viewport, eventZoom)
	v.SetMarker(p.Marker)
	v.recomputeLabels()
	return v
}

// bind merges descriptor overrides with this view's layer bindings.
func (v *View) bind(base map[string]layer.Override, props map[string]LayerProp) map[string]layer.Override {
	out := make(map[string]layer.Override, len(base)+len(props))
	for id, o := range base {
		o.External = nil
		o.OnChange = nil
		out[id] = o
	}
	for _, d := range layer.BuildCatalog(nil).Descriptors() {
		o := out[d.ID]
		if p, ok := props[d.ID]; ok {
			visible := p.Visible
			o.External = &visible
			o.OnChange = v.requestLayer
		}
		out[d.ID] = o
	}
	return out
}

func (v *View) requestLayer(id string, visible bool) {
	v.requests = append(v.requests, ChangeRequest{Target: TargetLayer, LayerID: id, Visible: &visible})
}

func (v *View) requestProvinces(names []string) {
	v.requests = append(v.requests, ChangeRequest{Target: TargetProvinces, Provinces: names})
}

func (v *View) selectionChanged([]string) { v.recomputeLabels() }

func (v *View) recomputeLabels() {
	v.labels.Recompute(v.viewport.Zoom(), v.selection.Set())
}

// Apply installs a geodata snapshot: it discovers the province registry and
// replaces the source labels. A later snapshot overwrites an earlier one.
func (v *View) Apply(snap geo.Snapshot) {
	v.snapshot = snap
	v.selection.Discover(snap.Registry)
	v.labels.SetLabels(snap.Labels)
	v.recomputeLabels()
}

// Catalog returns the view's layer catalog.
func (v *View) Catalog() *layer.Catalog { return v.catalog }

// Layers returns the layer visibility state.
func (v *View) Layers() *layer.Visibility { return v.layers }

// Selection returns the province selection.
func (v *View) Selection() *selection.Controller { return v.selection }

// Viewport returns the viewport controller.
func (v *View) Viewport() *viewport.Controller { return v.viewport }

// Timeline returns the timeline synchronizer.
func (v *View) Timeline() *timeline.Synchronizer { return v.timeline }

// SetProvinces applies a new external selection. It returns false when the
// selection is owned.
func (v *View) SetProvinces(names []string) bool {
	if !v.selection.SetExternal(names) {
		return false
	}
	v.recomputeLabels()
	return true
}

// SetShowLabels applies the external show-labels flag.
func (v *View) SetShowLabels(show bool) {
	v.labels.SetShow(show)
	v.recomputeLabels()
}

// SetMarker sets or, with nil, clears the externally supplied marker. An
// external marker takes precedence over the timeline's.
func (v *View) SetMarker(m *timeline.Marker) {
	if m == nil {
		v.marker = nil
		return
	}
	cp := *m
	v.marker = &cp
}

// Requests returns and clears the pending change requests.
func (v *View) Requests() []ChangeRequest {
	out := v.requests
	v.requests = nil
	if out == nil {
		out = []ChangeRequest{}
	}
	return out
}
