package timeline

import "github.com/okian/aureus/internal/domain/viewport"

// fallbackLabel names markers for events without a name.
const fallbackLabel = "Timeline Event"

// Marker is the ephemeral annotation for the active event.
type Marker struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	Year        int     `json:"year"`
}

// MarkerFor builds the marker for a geolocated event.
func MarkerFor(e Event) (Marker, bool) {
	pos, ok := e.Coordinates()
	if !ok {
		return Marker{}, false
	}
	label := e.Name
	if label == "" {
		label = fallbackLabel
	}
	return Marker{
		Lat:         pos.Lat,
		Lng:         pos.Lng,
		Label:       label,
		Description: e.Description,
		Year:        e.Year,
	}, true
}

// Recenterer moves a viewport.
type Recenterer interface {
	RecenterAndZoomFrom(src viewport.Source, center viewport.LatLng, zoom int)
}

// Synchronizer moves the viewport to activated events and owns the active
// marker. It is not safe for concurrent use.
type Synchronizer struct {
	viewport  Recenterer
	eventZoom int
	active    *Marker
}

// NewSynchronizer returns a synchronizer that zooms to eventZoom.
func NewSynchronizer(vp Recenterer, eventZoom int) *Synchronizer {
	return &Synchronizer{viewport: vp, eventZoom: eventZoom}
}

// EventZoom returns the zoom used for activated events.
func (s *Synchronizer) EventZoom() int { return s.eventZoom }

// Activate recenters on e and replaces the active marker. Events without
// both coordinates leave the viewport and the current marker untouched and
// report false.
func (s *Synchronizer) Activate(e Event) (Marker, bool) {
	m, ok := MarkerFor(e)
	if !ok {
		return Marker{}, false
	}
	s.viewport.RecenterAndZoomFrom(viewport.SourceTimeline, viewport.LatLng{Lat: m.Lat, Lng: m.Lng}, s.eventZoom)
	s.active = &m
	return m, true
}

// Active returns the current marker.
func (s *Synchronizer) Active() (Marker, bool) {
	if s.active == nil {
		return Marker{}, false
	}
	return *s.active, true
}

// Dismiss drops the active marker, e.g. when the timeline is closed.
func (s *Synchronizer) Dismiss() { s.active = nil }
