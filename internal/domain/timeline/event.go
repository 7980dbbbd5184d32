// Package timeline holds biographical timelines and keeps a map viewport in
// step with the event a reader selects.
package timeline

import (
	"errors"
	"fmt"

	"github.com/okian/aureus/internal/domain/viewport"
)

// Sentinel kinds for timeline errors.
var (
	ErrUnknownKind      = errors.New("unknown event kind")
	ErrUnknownBiography = errors.New("biography not found")
	ErrEventIndex       = errors.New("event index out of range")
)

// Kind classifies an event.
type Kind string

// Event kinds.
const (
	KindBirth       Kind = "birth"
	KindDeath       Kind = "death"
	KindMadeEmperor Kind = "made-emperor"
	KindMilitary    Kind = "military"
	KindPolitical   Kind = "political"
	KindFamily      Kind = "family"
	KindOther       Kind = "other"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindBirth, KindDeath, KindMadeEmperor, KindMilitary, KindPolitical, KindFamily, KindOther:
		return true
	}
	return false
}

// ParseKind validates s. An empty string maps to KindOther.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindOther, nil
	}
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Event is a dated, optionally geolocated occurrence. Negative years are BC.
type Event struct {
	Kind        Kind     `json:"kind"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	YearEnd     *int     `json:"year_end,omitempty"`
	Description string   `json:"description,omitempty"`
	Place       string   `json:"place,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

// Coordinates returns the event location when both coordinates are set.
func (e Event) Coordinates() (viewport.LatLng, bool) {
	if e.Lat == nil || e.Lng == nil {
		return viewport.LatLng{}, false
	}
	return viewport.LatLng{Lat: *e.Lat, Lng: *e.Lng}, true
}

// located returns e placed at lat/lng.
func located(e Event, lat, lng float64) Event {
	e.Lat = &lat
	e.Lng = &lng
	return e
}

func until(y int) *int { return &y }
