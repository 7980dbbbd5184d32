package service

import (
	"github.com/okian/aureus/internal/domain/geo"
	"github.com/okian/aureus/internal/domain/layer"
	"github.com/okian/aureus/internal/domain/timeline"
)

// ProvinceOptions is the registry discovered from geodata.
type ProvinceOptions struct {
	Status geo.Status `json:"status"`
	Error  string     `json:"error,omitempty"`
	Names  []string   `json:"names"`
}

// Catalog returns the configured layer descriptors.
func (s *Service) Catalog() []layer.Descriptor {
	return layer.BuildCatalog(s.overrides).Descriptors()
}

// Provinces returns the province options and load status.
func (s *Service) Provinces() (ProvinceOptions, error) {
	loader, err := s.geodata()
	if err != nil {
		return ProvinceOptions{}, err
	}
	snap := loader.Snapshot()
	return ProvinceOptions{Status: snap.Status, Error: snap.Err, Names: snap.Registry.Names()}, nil
}

// Biographies lists the built-in timelines.
func (s *Service) Biographies() []timeline.Biography {
	return timeline.Biographies()
}

// Biography returns one timeline by slug.
func (s *Service) Biography(slug string) (timeline.Biography, error) {
	return timeline.Lookup(slug)
}
