package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/okian/aureus/internal/adapters/geodata"
	"github.com/okian/aureus/internal/adapters/http/api"
	"github.com/okian/aureus/internal/adapters/http/site"
	"github.com/okian/aureus/internal/adapters/http/swagger"
	app "github.com/okian/aureus/internal/app"
	"github.com/okian/aureus/internal/config"
	"github.com/okian/aureus/pkg/logger"
	"github.com/okian/aureus/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	redisConnectTimeout       = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(metricsOptions(cfg)...)

	src, closeSource := newSource(ctx, cfg, loggerInstance)
	defer closeSource()

	svc := newService(cfg, src, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newSource returns the geodata source: files under geodata_dir, behind a
// Redis cache when redis_url is set and reachable.
func newSource(ctx context.Context, cfg *config.Config, log logger.Logger) (geodata.Source, func()) {
	files := geodata.NewFileSource(cfg.GeodataDir)
	if cfg.RedisURL == "" {
		return files, func() {}
	}

	dialCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()
	client, err := geodata.OpenRedis(dialCtx, cfg.RedisURL)
	if err != nil {
		log.Warn(ctx, "geodata cache unavailable; reading files directly", logger.Error(err))
		return files, func() {}
	}

	log.Info(ctx, "geodata cache enabled", logger.Duration("ttl", cfg.GeodataCacheTTL()))
	cache := geodata.NewRedisCache(client, files,
		geodata.WithCacheTTL(cfg.GeodataCacheTTL()),
		geodata.WithCacheLogger(log.Named("geodata_cache")),
	)
	return cache, func() { _ = client.Close() }
}

// metricsOptions maps the metrics section onto collector options. Unset
// values are skipped by the options themselves.
func metricsOptions(cfg *config.Config) []metrics.Option {
	m := cfg.Metrics
	return []metrics.Option{
		metrics.WithMetricsEnabled(m.Enabled),
		metrics.WithNamespace(m.Namespace),
		metrics.WithSubsystem(m.Subsystem),
		metrics.WithMetricPrefix(m.Prefix),
		metrics.WithRefreshInterval(cfg.MetricsRefresh()),
		metrics.WithHistogramBuckets(m.Buckets),
		metrics.WithCustomLabels(m.Labels),
	}
}

// newService maps configuration onto service options.
func newService(cfg *config.Config, src geodata.Source, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithSource(src),
		app.WithGeodataSources(cfg.ProvinceSource, cfg.LabelSource),
		app.WithLayerOverrides(cfg.LayerOverrides()),
		app.WithDefaultViewport(cfg.Center(), cfg.Zoom),
		app.WithEventZoom(cfg.EventZoomLevel),
		app.WithLabelThreshold(cfg.LabelZoomThreshold),
		app.WithZoomRange(cfg.MinZoom, cfg.MaxZoom),
		app.WithViewExpiry(cfg.ViewIdleTTL(), cfg.SweepInterval()),
	)
}

// newMux registers docs, the viewer and the API.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
