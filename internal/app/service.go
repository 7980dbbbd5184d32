// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/aureus/internal/adapters/geodata"
	"github.com/okian/aureus/internal/adapters/repository"
	"github.com/okian/aureus/internal/domain/geo"
	"github.com/okian/aureus/internal/domain/layer"
	"github.com/okian/aureus/internal/domain/mapview"
	"github.com/okian/aureus/internal/domain/viewport"
	"github.com/okian/aureus/pkg/logger"
	"github.com/okian/aureus/pkg/metrics"
)

// Service owns the live map views and the shared geodata.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  *repository.MemoryStore
	loader *geodata.Loader
	source geodata.Source

	// Configuration
	overrides      map[string]layer.Override
	provinceSource string
	labelSource    string
	center         viewport.LatLng
	zoom           int
	eventZoom      int
	labelThreshold int
	minZoom        int
	maxZoom        int
	idleTTL        time.Duration
	sweepInterval  time.Duration

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where geodata is fetched from.
func WithSource(src geodata.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithGeodataSources sets the province boundary and label source ids.
func WithGeodataSources(provinces, labels string) Option {
	return func(s *Service) {
		s.provinceSource = provinces
		s.labelSource = labels
	}
}

// WithLayerOverrides sets descriptor overrides applied to every view.
func WithLayerOverrides(o map[string]layer.Override) Option {
	return func(s *Service) {
		s.overrides = o
	}
}

// WithDefaultViewport sets the viewport new views open on.
func WithDefaultViewport(center viewport.LatLng, zoom int) Option {
	return func(s *Service) {
		s.center = center
		s.zoom = zoom
	}
}

// WithEventZoom sets the zoom timeline events recenter to.
func WithEventZoom(z int) Option {
	return func(s *Service) {
		if z > 0 {
			s.eventZoom = z
		}
	}
}

// WithLabelThreshold sets the label zoom threshold.
func WithLabelThreshold(t int) Option {
	return func(s *Service) {
		s.labelThreshold = t
	}
}

// WithZoomRange sets the zoom bounds handed to the render surface.
func WithZoomRange(lo, hi int) Option {
	return func(s *Service) {
		if lo <= hi {
			s.minZoom = lo
			s.maxZoom = hi
		}
	}
}

// WithViewExpiry sets the idle TTL and sweep period of stored views.
func WithViewExpiry(ttl, sweep time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
		if sweep > 0 {
			s.sweepInterval = sweep
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		source:         geodata.NewFileSource("data/geo"),
		provinceSource: geodata.DefaultProvinceSource,
		labelSource:    geodata.DefaultLabelSource,
		center:         mapview.DefaultCenter,
		zoom:           mapview.DefaultZoom,
		eventZoom:      mapview.DefaultEventZoom,
		labelThreshold: mapview.DefaultLabelThreshold,
		minZoom:        mapview.DefaultMinZoom,
		maxZoom:        mapview.DefaultMaxZoom,
		idleTTL:        30 * time.Minute,
		sweepInterval:  time.Minute,
		logger:         nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start creates the view store and loads geodata in the background.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting map service...")

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.store = repository.NewMemoryStore(runCtx,
		repository.WithIdleTTL(s.idleTTL),
		repository.WithSweepInterval(s.sweepInterval),
	)
	s.loader = geodata.NewLoader(s.source,
		geodata.WithProvinceSource(s.provinceSource),
		geodata.WithLabelSource(s.labelSource),
		geodata.WithLayers(layer.BuildCatalog(s.overrides).Descriptors()),
	)
	s.loader.Subscribe(func(snap geo.Snapshot) { s.broadcast(runCtx, snap) })

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Failures are logged by the loader and surface as the failed status.
		_ = s.loader.Load(runCtx)
	}()

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "map service started",
		logger.Duration("view_idle_ttl", s.idleTTL),
		logger.Int("event_zoom", s.eventZoom),
		logger.Int("label_threshold", s.labelThreshold),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping map service...")

	s.cancel()
	s.wg.Wait()
	_ = s.store.Close()

	s.started = false
	s.logger.Info(context.Background(), "map service stopped")
}

// WaitForGeodata blocks until the geodata load finishes or ctx ends.
func (s *Service) WaitForGeodata(ctx context.Context) (geo.Snapshot, error) {
	loader, err := s.geodata()
	if err != nil {
		return geo.Snapshot{}, err
	}
	done := make(chan geo.Snapshot, 1)
	loader.Subscribe(func(snap geo.Snapshot) {
		select {
		case done <- snap:
		default:
		}
	})
	select {
	case snap := <-done:
		return snap, nil
	case <-ctx.Done():
		return geo.Snapshot{}, ctx.Err()
	}
}

// broadcast hands a finished load to every live view.
func (s *Service) broadcast(ctx context.Context, snap geo.Snapshot) {
	n := 0
	s.store.Range(ctx, func(sess *repository.Session) bool {
		sess.Do(func(v *mapview.View) { v.Apply(snap) })
		n++
		return true
	})
	s.logger.Debug(ctx, "geodata applied to views",
		logger.String("status", string(snap.Status)),
		logger.Int("views", n))
}

func (s *Service) running() (*repository.MemoryStore, *geodata.Loader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.store, s.loader, nil
}

func (s *Service) geodata() (*geodata.Loader, error) {
	_, l, err := s.running()
	return l, err
}

func (s *Service) viewOptions() []mapview.Option {
	return []mapview.Option{
		mapview.WithLayerOverrides(s.overrides),
		mapview.WithDefaultViewport(s.center, s.zoom),
		mapview.WithEventZoom(s.eventZoom),
		mapview.WithLabelThreshold(s.labelThreshold),
		mapview.WithZoomRange(s.minZoom, s.maxZoom),
	}
}

// CreateView builds a view from props and returns its id and first frame.
func (s *Service) CreateView(ctx context.Context, p mapview.Props) (string, mapview.Frame, error) {
	store, loader, err := s.running()
	if err != nil {
		return "", mapview.Frame{}, err
	}

	v := mapview.New(p, s.viewOptions()...)
	v.Viewport().OnZoomChange(func(ch viewport.Change) {
		metrics.RecordViewportChange(string(ch.Source))
	})

	id := uuid.NewString()
	sess := repository.NewSession(id, v, time.Now())
	if err := store.Put(ctx, sess); err != nil {
		return "", mapview.Frame{}, fmt.Errorf("store view: %w", err)
	}
	metrics.RecordViewCreated()
	metrics.UpdateActiveViews(store.Count(ctx))

	// A load finishing after Put reaches this view through broadcast.
	var frame mapview.Frame
	sess.Do(func(v *mapview.View) {
		if snap := loader.Snapshot(); snap.Status != geo.StatusLoading {
			v.Apply(snap)
		}
		frame = v.Frame()
	})

	s.logger.Debug(ctx, "view created",
		logger.String("view", id),
		logger.String("selection_mode", frame.SelectionMode))
	return id, frame, nil
}

// View returns the current frame of a view.
func (s *Service) View(ctx context.Context, id string) (mapview.Frame, error) {
	return s.with(ctx, id, func(*mapview.View) error { return nil })
}

// DeleteView drops a view.
func (s *Service) DeleteView(ctx context.Context, id string) error {
	store, _, err := s.running()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	metrics.UpdateActiveViews(store.Count(ctx))
	return nil
}

// with runs fn on view id under its lock and returns the resulting frame.
func (s *Service) with(ctx context.Context, id string, fn func(v *mapview.View) error) (mapview.Frame, error) {
	store, _, err := s.running()
	if err != nil {
		return mapview.Frame{}, err
	}
	sess, err := store.Get(ctx, id)
	if err != nil {
		return mapview.Frame{}, err
	}
	var frame mapview.Frame
	sess.Do(func(v *mapview.View) {
		if err = fn(v); err != nil {
			return
		}
		frame = v.Frame()
	})
	return frame, err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"eventZoom":       s.eventZoom,
		"labelThreshold":  s.labelThreshold,
		"viewIdleSeconds": int(s.idleTTL.Seconds()),
	}

	if s.started {
		ctx := context.Background()
		snap := s.loader.Snapshot()
		views := s.store.Count(ctx)

		stats["views"] = views
		stats["geodataStatus"] = string(snap.Status)
		stats["provinces"] = snap.Registry.Len()
		stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())

		metrics.UpdateActiveViews(views)
	}

	return stats
}
