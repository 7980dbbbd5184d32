// Package metrics provides Prometheus metrics for the aureus map service.
package metrics

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// geodataStatuses are the values UpdateGeodataStatus toggles between.
var geodataStatuses = []string{"loading", "loaded", "failed"} //nolint:gochecknoglobals // fixed label set

// Manager manages all Prometheus metrics for the aureus service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// View state metrics
	layerToggles        *prometheus.CounterVec
	layerChangeRequests *prometheus.CounterVec
	selectionOperations *prometheus.CounterVec
	viewportChanges     *prometheus.CounterVec
	timelineActivations *prometheus.CounterVec

	// View lifecycle
	activeViews  prometheus.Gauge
	viewsCreated prometheus.Counter
	viewsExpired prometheus.Counter

	// Geodata
	geodataFetches     *prometheus.CounterVec
	geodataCache       *prometheus.CounterVec
	geodataStatus      *prometheus.GaugeVec
	geodataLoadLatency prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// global pairs the process-wide manager with the registry served on /healthz.
type global struct {
	manager  *Manager
	registry *prometheus.Registry
}

var active atomic.Pointer[global] //nolint:gochecknoglobals // process-wide metrics

func init() { //nolint:gochecknoinits // metrics must exist before Configure runs
	Configure()
}

// Configure replaces the global manager with one built from opts on a fresh
// registry. main calls it once with the configured options; until then the
// defaults are in effect. A disabled manager leaves the served registry empty.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	m := NewManager(append(slices.Clone(opts), WithPrometheusRegistry(reg))...)
	active.Store(&global{manager: m, registry: reg})
}

func globalManager() *Manager { return active.Load().manager }

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "aureus",
		subsystem:        "map",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	// A disabled manager still builds its collectors so callers never nil
	// check, but keeps them off every shared registry.
	if !m.enabled {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval returns how often gauge-style system metrics are sampled.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether the manager publishes to its registry.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.layerToggles = auto.NewCounterVec(
		m.counterOpts("layer_toggles_total", "Layer toggles by layer and ownership mode"),
		[]string{"layer", "mode"},
	)
	m.layerChangeRequests = auto.NewCounterVec(
		m.counterOpts("layer_change_requests_total", "Change requests emitted by delegated layers"),
		[]string{"layer"},
	)
	m.selectionOperations = auto.NewCounterVec(
		m.counterOpts("selection_operations_total", "Province selection operations by kind and mode"),
		[]string{"operation", "mode"},
	)
	m.viewportChanges = auto.NewCounterVec(
		m.counterOpts("viewport_changes_total", "Viewport writes by source"),
		[]string{"source"},
	)
	m.timelineActivations = auto.NewCounterVec(
		m.counterOpts("timeline_activations_total", "Timeline event activations by result"),
		[]string{"result"},
	)

	m.activeViews = auto.NewGauge(m.gaugeOpts("active_views", "Views currently held in memory"))
	m.viewsCreated = auto.NewCounter(m.counterOpts("views_created_total", "Views created"))
	m.viewsExpired = auto.NewCounter(m.counterOpts("views_expired_total", "Views dropped by the idle sweep"))

	m.geodataFetches = auto.NewCounterVec(
		m.counterOpts("geodata_fetches_total", "Geodata source fetches by source and status"),
		[]string{"source", "status"},
	)
	m.geodataCache = auto.NewCounterVec(
		m.counterOpts("geodata_cache_total", "Geodata cache lookups by result"),
		[]string{"result"},
	)
	m.geodataStatus = auto.NewGaugeVec(
		m.gaugeOpts("geodata_status", "1 for the current geodata load status"),
		[]string{"status"},
	)
	m.geodataLoadLatency = auto.NewHistogram(
		m.histogramOpts("geodata_load_latency_milliseconds", "Full geodata load duration in milliseconds"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that failed, in milliseconds"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_milliseconds", "Most recent GC pause in milliseconds"),
	)
}

// View state.

// RecordLayerToggle counts a layer toggle.
func RecordLayerToggle(layer, mode string) {
	globalManager().layerToggles.WithLabelValues(layer, mode).Inc()
}

// RecordLayerChangeRequest counts a change request from a delegated layer.
func RecordLayerChangeRequest(layer string) {
	globalManager().layerChangeRequests.WithLabelValues(layer).Inc()
}

// RecordSelectionOperation counts a selection operation.
func RecordSelectionOperation(operation, mode string) {
	globalManager().selectionOperations.WithLabelValues(operation, mode).Inc()
}

// RecordViewportChange counts a viewport write.
func RecordViewportChange(source string) {
	globalManager().viewportChanges.WithLabelValues(source).Inc()
}

// RecordTimelineActivation counts a timeline activation.
func RecordTimelineActivation(result string) {
	globalManager().timelineActivations.WithLabelValues(result).Inc()
}

// View lifecycle.

// UpdateActiveViews sets the number of live views.
func UpdateActiveViews(count int) {
	globalManager().activeViews.Set(float64(count))
}

// RecordViewCreated counts a new view.
func RecordViewCreated() {
	globalManager().viewsCreated.Inc()
}

// RecordViewsExpired counts views dropped by the sweep.
func RecordViewsExpired(count int) {
	globalManager().viewsExpired.Add(float64(count))
}

// Geodata.

// RecordGeodataFetch counts a fetch of one source.
func RecordGeodataFetch(source, status string) {
	globalManager().geodataFetches.WithLabelValues(source, status).Inc()
}

// RecordGeodataCache counts a cache lookup (hit, miss or error).
func RecordGeodataCache(result string) {
	globalManager().geodataCache.WithLabelValues(result).Inc()
}

// UpdateGeodataStatus marks status as the current load status.
func UpdateGeodataStatus(status string) {
	for _, s := range geodataStatuses {
		v := 0.0
		if s == status {
			v = 1
		}
		globalManager().geodataStatus.WithLabelValues(s).Set(v)
	}
}

// RecordGeodataLoadLatency records a full load duration.
func RecordGeodataLoadLatency(latencyMs float64) {
	globalManager().geodataLoadLatency.Observe(latencyMs)
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager().errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager().errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager().errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager().errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager().systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager().systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval returns the sampling interval of the global manager.
func RefreshInterval() time.Duration {
	return globalManager().RefreshInterval()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return active.Load().registry
}
