// Package geo holds the GeoJSON collections a map view draws and the
// snapshot a geodata load produces.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/aureus/internal/domain/labels"
	"github.com/okian/aureus/internal/domain/viewport"
)

// ErrDecode is returned for payloads that are not GeoJSON features.
var ErrDecode = errors.New("geojson decode failed")

// Geometry is a GeoJSON geometry. Coordinates stay raw: the render surface
// draws them and the service never inspects polygon rings.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   *Geometry      `json:"geometry"`
}

// Name returns properties.name, the key matched against province names.
func (f Feature) Name() string { return stringProp(f.Properties, "name") }

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// EmptyCollection returns a collection with no features.
func EmptyCollection() *FeatureCollection {
	return &FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
}

// Decode parses a FeatureCollection or a single Feature.
func Decode(b []byte) (*FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	switch strings.ToLower(head.Type) {
	case "featurecollection":
		var fc FeatureCollection
		if err := json.Unmarshal(b, &fc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if fc.Features == nil {
			fc.Features = []Feature{}
		}
		return &fc, nil
	case "feature":
		var f Feature
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return &FeatureCollection{Type: "FeatureCollection", Features: []Feature{f}}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %q", ErrDecode, head.Type)
	}
}

// Names returns properties.name of every feature, skipping unnamed ones.
func (fc *FeatureCollection) Names() []string {
	if fc == nil {
		return []string{}
	}
	out := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		if n := f.Name(); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Select returns a collection with the features whose name is in names.
func (fc *FeatureCollection) Select(names map[string]struct{}) *FeatureCollection {
	out := EmptyCollection()
	if fc == nil {
		return out
	}
	for _, f := range fc.Features {
		if _, ok := names[f.Name()]; ok {
			out.Features = append(out.Features, f)
		}
	}
	return out
}

// Len returns the number of features.
func (fc *FeatureCollection) Len() int {
	if fc == nil {
		return 0
	}
	return len(fc.Features)
}

// Labels turns point features into labels. properties.label overrides the
// display text; non-point features are skipped.
func Labels(fc *FeatureCollection) []labels.Label {
	out := []labels.Label{}
	if fc == nil {
		return out
	}
	for _, f := range fc.Features {
		if f.Geometry == nil || !strings.EqualFold(f.Geometry.Type, "point") {
			continue
		}
		var pt []float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &pt); err != nil || len(pt) < 2 {
			continue
		}
		name := f.Name()
		if name == "" {
			continue
		}
		text := stringProp(f.Properties, "label")
		if text == "" {
			text = name
		}
		// GeoJSON positions are [lng, lat].
		out = append(out, labels.Label{
			Province: name,
			Text:     text,
			Position: viewport.LatLng{Lat: pt[1], Lng: pt[0]},
		})
	}
	return out
}

func stringProp(m map[string]any, k string) string {
	if v, ok := m[k].(string); ok {
		return v
	}
	return ""
}
