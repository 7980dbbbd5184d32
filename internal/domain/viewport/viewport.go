// Package viewport holds a map view's center and zoom.
package viewport

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// State is the current viewport.
type State struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

// ZoomRange is the zoom interval the render surface enforces.
type ZoomRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Source names what moved the viewport.
type Source string

// Viewport change sources.
const (
	SourceAPI      Source = "api"
	SourceZoomEnd  Source = "zoom_end"
	SourceTimeline Source = "timeline"
)

// Change is delivered to observers after every write.
type Change struct {
	Previous State
	Current  State
	Source   Source
}

// Observer is notified after the viewport changes.
type Observer func(Change)

// Option configures a Controller.
type Option func(*Controller)

// WithZoomRange records the render surface's zoom bounds. The controller
// reports them but does not clamp.
func WithZoomRange(lo, hi int) Option {
	return func(c *Controller) {
		if lo <= hi {
			c.zoomRange = ZoomRange{Min: lo, Max: hi}
		}
	}
}

// Controller owns the viewport state. It is not safe for concurrent use.
type Controller struct {
	state     State
	zoomRange ZoomRange
	observers []Observer
}

// New returns a controller seeded with center and zoom.
func New(center LatLng, zoom int, opts ...Option) *Controller {
	c := &Controller{
		state:     State{Center: center, Zoom: zoom},
		zoomRange: ZoomRange{Min: 0, Max: 18},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current viewport.
func (c *Controller) State() State { return c.state }

// Zoom returns the current zoom level.
func (c *Controller) Zoom() int { return c.state.Zoom }

// ZoomRange returns the configured zoom bounds.
func (c *Controller) ZoomRange() ZoomRange { return c.zoomRange }

// OnZoomChange registers an observer for every subsequent write.
func (c *Controller) OnZoomChange(fn Observer) {
	if fn != nil {
		c.observers = append(c.observers, fn)
	}
}

// SetCenter moves the center and keeps the zoom.
func (c *Controller) SetCenter(center LatLng) {
	c.move(center, c.state.Zoom, SourceAPI)
}

// SetZoom changes the zoom and keeps the center.
func (c *Controller) SetZoom(zoom int) {
	c.move(c.state.Center, zoom, SourceAPI)
}

// ZoomEnd stores the zoom the render surface settled on after a gesture.
func (c *Controller) ZoomEnd(zoom int) {
	c.move(c.state.Center, zoom, SourceZoomEnd)
}

// RecenterAndZoom is the single write path; all setters funnel through it.
func (c *Controller) RecenterAndZoom(center LatLng, zoom int) {
	c.move(center, zoom, SourceAPI)
}

// RecenterAndZoomFrom is RecenterAndZoom with an explicit source tag.
func (c *Controller) RecenterAndZoomFrom(src Source, center LatLng, zoom int) {
	c.move(center, zoom, src)
}

func (c *Controller) move(center LatLng, zoom int, src Source) {
	prev := c.state
	c.state = State{Center: center, Zoom: zoom}
	ch := Change{Previous: prev, Current: c.state, Source: src}
	for _, fn := range c.observers {
		fn(ch)
	}
}
