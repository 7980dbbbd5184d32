package geo

import (
	"time"

	"github.com/okian/aureus/internal/domain/labels"
	"github.com/okian/aureus/internal/domain/province"
)

// Status is the load state of the geodata.
type Status string

// Load states. A view renders no provinces while loading and after a failure.
const (
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// Snapshot is the result of one geodata load. It is immutable once
// published and shared between views.
type Snapshot struct {
	Status    Status
	Err       string
	Provinces *FeatureCollection
	Labels    []labels.Label
	// Layers holds boundary collections by layer id. Layers whose source
	// failed are absent and render without features.
	Layers   map[string]*FeatureCollection
	Registry *province.Registry
	LoadedAt time.Time
}

// Pending returns the snapshot of a load that has not finished.
func Pending() Snapshot {
	return Snapshot{
		Status:    StatusLoading,
		Provinces: EmptyCollection(),
		Labels:    []labels.Label{},
		Layers:    map[string]*FeatureCollection{},
		Registry:  province.Empty(),
	}
}

// Build derives a loaded snapshot from raw collections. Province names are
// discovered against master; features and labels of unlisted provinces are
// dropped.
func Build(master *province.Registry, provinces, labelPoints *FeatureCollection, layers map[string]*FeatureCollection) Snapshot {
	found := province.Discover(master, provinces.Names())
	snap := Pending()
	snap.Status = StatusLoaded
	snap.Registry = found
	snap.Provinces = provinces.Select(found.Set())
	for _, lb := range Labels(labelPoints) {
		if found.IsValid(lb.Province) {
			snap.Labels = append(snap.Labels, lb)
		}
	}
	if layers != nil {
		snap.Layers = layers
	}
	return snap
}

// Failed returns the snapshot of a load that failed with err.
func Failed(err error) Snapshot {
	snap := Pending()
	snap.Status = StatusFailed
	if err != nil {
		snap.Err = err.Error()
	}
	return snap
}
