package metrics

import (
	"maps"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// minRefreshInterval bounds how often system gauges may be sampled.
const minRefreshInterval = time.Second

// Option configures a Manager. Zero values leave the default in place.
type Option func(*Manager)

// WithNamespace replaces the "aureus" namespace.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem replaces the "map" subsystem.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets the buckets shared by every latency histogram.
// The slice is copied and sorted.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) == 0 {
			return
		}
		b := slices.Clone(buckets)
		slices.Sort(b)
		m.histogramBuckets = b
	}
}

// WithMetricsEnabled keeps a disabled manager off the shared registry.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithRefreshInterval sets how often system gauges are sampled. Values
// below one second are raised to one second.
func WithRefreshInterval(interval time.Duration) Option {
	return func(m *Manager) {
		if interval <= 0 {
			return
		}
		m.refreshInterval = max(interval, minRefreshInterval)
	}
}

// WithCustomLabels attaches constant labels to every collector.
func WithCustomLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if labels != nil {
			m.customLabels = maps.Clone(labels)
		}
	}
}

// WithMetricPrefix prepends prefix to every metric name after the subsystem.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) {
		if prefix != "" {
			m.metricPrefix = prefix
		}
	}
}

// WithPrometheusRegistry registers collectors on registry instead of the
// default registerer.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
