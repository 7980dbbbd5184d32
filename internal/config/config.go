// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and AUREUS_* env vars on top of the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/aureus/internal/domain/layer"
	"github.com/okian/aureus/internal/domain/viewport"
)

// LayerConfig overrides the text and style of one built-in empire layer.
// Empty strings and nil numbers keep the built-in setting; an explicit
// fill_opacity of 0 draws the outline only.
type LayerConfig struct {
	DisplayLabel     string   `koanf:"display_label"`
	TimeLabel        string   `koanf:"time_label"`
	Description      string   `koanf:"description"`
	BoundarySourceID string   `koanf:"boundary_source_id"`
	StrokeColor      string   `koanf:"stroke_color"`
	FillColor        string   `koanf:"fill_color"`
	DashPattern      string   `koanf:"dash_pattern"`
	Weight           *float64 `koanf:"weight"`
	FillOpacity      *float64 `koanf:"fill_opacity"`
}

// MetricsConfig tunes the Prometheus collectors. Empty values keep the
// metrics package defaults.
type MetricsConfig struct {
	Enabled        bool              `koanf:"enabled"`
	Namespace      string            `koanf:"namespace"`
	Subsystem      string            `koanf:"subsystem"`
	Prefix         string            `koanf:"prefix"`
	RefreshSeconds int               `koanf:"refresh_seconds"`
	Buckets        []float64         `koanf:"buckets"`
	Labels         map[string]string `koanf:"labels"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// GeodataDir holds <source_id>.geojson files.
	GeodataDir string `koanf:"geodata_dir"`

	// ProvinceSource and LabelSource name the province boundary and label
	// point collections.
	ProvinceSource string `koanf:"province_source"`
	LabelSource    string `koanf:"label_source"`

	// RedisURL enables the geodata cache when set, e.g. redis://localhost:6379/0.
	RedisURL string `koanf:"redis_url"`

	// GeodataCacheTTLSeconds is how long cached collections live in Redis.
	GeodataCacheTTLSeconds int `koanf:"geodata_cache_ttl_seconds"`

	// LabelZoomThreshold: labels render only above this zoom.
	LabelZoomThreshold int `koanf:"label_zoom_threshold"`

	// EventZoomLevel is the zoom timeline events recenter to.
	EventZoomLevel int `koanf:"event_zoom_level"`

	// Default viewport for new views.
	CenterLat float64 `koanf:"center_lat"`
	CenterLng float64 `koanf:"center_lng"`
	Zoom      int     `koanf:"zoom"`

	// MinZoom and MaxZoom are handed to the render surface.
	MinZoom int `koanf:"min_zoom"`
	MaxZoom int `koanf:"max_zoom"`

	// ViewIdleTTLSeconds drops views untouched for this long.
	ViewIdleTTLSeconds int `koanf:"view_idle_ttl_seconds"`

	// SweepIntervalSeconds is how often idle views are swept.
	SweepIntervalSeconds int `koanf:"sweep_interval_seconds"`

	// Layers overrides built-in layer descriptors by id.
	Layers map[string]LayerConfig `koanf:"layers"`

	// Metrics configures the Prometheus collectors (file only).
	Metrics MetricsConfig `koanf:"metrics"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		GeodataDir:             "data/geo",
		ProvinceSource:         "roman_provinces",
		LabelSource:            "roman_province_labels",
		GeodataCacheTTLSeconds: 3600,
		LabelZoomThreshold:     4,
		EventZoomLevel:         7,
		CenterLat:              41.9,
		CenterLng:              12.5,
		Zoom:                   4,
		MinZoom:                3,
		MaxZoom:                10,
		ViewIdleTTLSeconds:     1800,
		SweepIntervalSeconds:   60,
		Layers:                 map[string]LayerConfig{},
		Metrics:                MetricsConfig{Enabled: true},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.GeodataDir == "":
		return fmt.Errorf("%w: geodata_dir must not be empty", ErrInvalidConfig)
	case c.MinZoom > c.MaxZoom:
		return fmt.Errorf("%w: min_zoom %d exceeds max_zoom %d", ErrInvalidConfig, c.MinZoom, c.MaxZoom)
	case c.ViewIdleTTLSeconds <= 0:
		return fmt.Errorf("%w: view_idle_ttl_seconds must be positive", ErrInvalidConfig)
	case c.SweepIntervalSeconds <= 0:
		return fmt.Errorf("%w: sweep_interval_seconds must be positive", ErrInvalidConfig)
	case c.GeodataCacheTTLSeconds <= 0:
		return fmt.Errorf("%w: geodata_cache_ttl_seconds must be positive", ErrInvalidConfig)
	case c.Metrics.RefreshSeconds < 0:
		return fmt.Errorf("%w: metrics.refresh_seconds must not be negative", ErrInvalidConfig)
	case c.CenterLat < -90 || c.CenterLat > 90 || c.CenterLng < -180 || c.CenterLng > 180:
		return fmt.Errorf("%w: center %.4f,%.4f out of range", ErrInvalidConfig, c.CenterLat, c.CenterLng)
	}
	catalog := layer.BuildCatalog(nil)
	for id := range c.Layers {
		if !catalog.Has(id) {
			return fmt.Errorf("%w: unknown layer %q", ErrInvalidConfig, id)
		}
	}
	return nil
}

// Center returns the default view center.
func (c *Config) Center() viewport.LatLng {
	return viewport.LatLng{Lat: c.CenterLat, Lng: c.CenterLng}
}

// ViewIdleTTL returns the idle TTL as a duration.
func (c *Config) ViewIdleTTL() time.Duration {
	return time.Duration(c.ViewIdleTTLSeconds) * time.Second
}

// SweepInterval returns the sweep period as a duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// GeodataCacheTTL returns the cache TTL as a duration.
func (c *Config) GeodataCacheTTL() time.Duration {
	return time.Duration(c.GeodataCacheTTLSeconds) * time.Second
}

// MetricsRefresh returns the system metrics sampling period, zero when unset.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.Metrics.RefreshSeconds) * time.Second
}

// LayerOverrides converts the layer section into catalog overrides.
func (c *Config) LayerOverrides() map[string]layer.Override {
	out := make(map[string]layer.Override, len(c.Layers))
	for id, lc := range c.Layers {
		o := layer.Override{
			DisplayLabel:     lc.DisplayLabel,
			TimeLabel:        lc.TimeLabel,
			Description:      lc.Description,
			BoundarySourceID: lc.BoundarySourceID,
		}
		if lc.StrokeColor != "" || lc.FillColor != "" || lc.DashPattern != "" || lc.Weight != nil || lc.FillOpacity != nil {
			base, _ := layer.BuildCatalog(nil).Get(id)
			st := base.Style
			if lc.StrokeColor != "" {
				st.StrokeColor = lc.StrokeColor
			}
			if lc.FillColor != "" {
				st.FillColor = lc.FillColor
			}
			if lc.DashPattern != "" {
				st.DashPattern = lc.DashPattern
			}
			if lc.Weight != nil {
				st.Weight = *lc.Weight
			}
			if lc.FillOpacity != nil {
				st.FillOpacity = *lc.FillOpacity
			}
			o.Style = &st
		}
		out[id] = o
	}
	return out
}
