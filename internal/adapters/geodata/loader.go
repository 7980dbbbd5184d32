package geodata

import (
	"context"
	"sync"
	"time"

	"github.com/okian/aureus/internal/domain/geo"
	"github.com/okian/aureus/internal/domain/layer"
	"github.com/okian/aureus/internal/domain/province"
	"github.com/okian/aureus/pkg/logger"
	"github.com/okian/aureus/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Default source ids.
const (
	DefaultProvinceSource = "roman_provinces"
	DefaultLabelSource    = "roman_province_labels"
)

// LoaderOption applies a configuration option to the Loader.
type LoaderOption func(*Loader)

// WithMaster sets the master province list used to filter discovered names.
func WithMaster(master *province.Registry) LoaderOption {
	return func(l *Loader) {
		if master != nil {
			l.master = master
		}
	}
}

// WithProvinceSource sets the province boundary source id.
func WithProvinceSource(id string) LoaderOption {
	return func(l *Loader) {
		if id != "" {
			l.provinceSource = id
		}
	}
}

// WithLabelSource sets the province label source id.
func WithLabelSource(id string) LoaderOption {
	return func(l *Loader) {
		if id != "" {
			l.labelSource = id
		}
	}
}

// WithLayers sets the empire layers whose boundaries are fetched.
func WithLayers(descs []layer.Descriptor) LoaderOption {
	return func(l *Loader) {
		l.layers = append([]layer.Descriptor(nil), descs...)
	}
}

// WithLoaderLogger sets a custom logger for the loader.
func WithLoaderLogger(lg logger.Logger) LoaderOption {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// Loader fetches every collection a view needs once and publishes the
// result to subscribers. Failures are terminal: there is no retry.
type Loader struct {
	source         Source
	master         *province.Registry
	provinceSource string
	labelSource    string
	layers         []layer.Descriptor
	logger         logger.Logger

	mu          sync.RWMutex
	snap        geo.Snapshot
	subscribers []func(geo.Snapshot)
}

// NewLoader returns a loader in the loading state.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:         src,
		master:         province.Roman(),
		provinceSource: DefaultProvinceSource,
		labelSource:    DefaultLabelSource,
		logger:         logger.Get().Named("geodata_loader"),
		snap:           geo.Pending(),
	}
	for _, opt := range opts {
		opt(l)
	}
	metrics.UpdateGeodataStatus(string(geo.StatusLoading))
	return l
}

// Snapshot returns the current snapshot.
func (l *Loader) Snapshot() geo.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// Subscribe registers fn to receive the snapshot once loading finishes. If
// it already finished fn is called immediately.
func (l *Loader) Subscribe(fn func(geo.Snapshot)) {
	l.mu.Lock()
	snap := l.snap
	if snap.Status == geo.StatusLoading {
		l.subscribers = append(l.subscribers, fn)
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	fn(snap)
}

// Load fetches province boundaries, labels and every layer boundary
// concurrently. Province and label failures fail the load; a failed layer
// source is logged and skipped.
func (l *Loader) Load(ctx context.Context) error {
	start := time.Now()
	var (
		provinces *geo.FeatureCollection
		points    *geo.FeatureCollection
		layerMu   sync.Mutex
		bounds    = map[string]*geo.FeatureCollection{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fc, err := l.fetch(gctx, l.provinceSource)
		provinces = fc
		return err
	})
	g.Go(func() error {
		fc, err := l.fetch(gctx, l.labelSource)
		points = fc
		return err
	})
	for _, d := range l.layers {
		g.Go(func() error {
			fc, err := l.fetch(gctx, d.BoundarySourceID)
			if err != nil {
				l.logger.Warn(gctx, "layer boundaries unavailable",
					logger.String("layer", d.ID),
					logger.String("source", d.BoundarySourceID),
					logger.Error(err))
				return nil
			}
			layerMu.Lock()
			bounds[d.ID] = fc
			layerMu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	var snap geo.Snapshot
	if err != nil {
		snap = geo.Failed(err)
		metrics.RecordErrorByComponent("geodata", "load")
		l.logger.Error(ctx, "geodata load failed", logger.Error(err))
	} else {
		snap = geo.Build(l.master, provinces, points, bounds)
		l.logger.Info(ctx, "geodata loaded",
			logger.Int("provinces", snap.Registry.Len()),
			logger.Int("labels", len(snap.Labels)),
			logger.Int("layers", len(bounds)),
			logger.Duration("took", time.Since(start)))
	}
	snap.LoadedAt = time.Now()
	metrics.UpdateGeodataStatus(string(snap.Status))
	metrics.RecordGeodataLoadLatency(float64(time.Since(start).Milliseconds()))

	l.mu.Lock()
	l.snap = snap
	subs := l.subscribers
	l.subscribers = nil
	l.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return err
}

func (l *Loader) fetch(ctx context.Context, id string) (*geo.FeatureCollection, error) {
	b, err := l.source.Fetch(ctx, id)
	if err != nil {
		metrics.RecordGeodataFetch(id, "error")
		return nil, err
	}
	fc, err := geo.Decode(b)
	if err != nil {
		metrics.RecordGeodataFetch(id, "invalid")
		return nil, err
	}
	metrics.RecordGeodataFetch(id, "ok")
	return fc, nil
}
