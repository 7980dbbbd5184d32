package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/aureus/internal/adapters/geodata"
	"github.com/okian/aureus/internal/config"
	"github.com/okian/aureus/internal/domain/geo"
	"github.com/okian/aureus/pkg/logger"
	"github.com/okian/aureus/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		ctx := context.Background()

		convey.Convey("When testing configuration loading", func() {
			t.Setenv("AUREUS_ADDR", ":8080")
			t.Setenv("AUREUS_EVENT_ZOOM_LEVEL", "8")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventZoomLevel, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When no redis url is configured", func() {
			cfg := config.New(ctx)
			src, closeSource := newSource(ctx, cfg, logger.Get())
			defer closeSource()

			convey.Convey("Then geodata is read from files", func() {
				_, ok := src.(*geodata.FileSource)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the redis url is malformed", func() {
			cfg := config.New(ctx)
			cfg.RedisURL = "not a url"
			src, closeSource := newSource(ctx, cfg, logger.Get())
			defer closeSource()

			convey.Convey("Then it falls back to files", func() {
				_, ok := src.(*geodata.FileSource)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})
	})
}

func TestServerWiring(t *testing.T) {
	convey.Convey("Given a service built from configuration", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		provinces := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"name":"Italia"},"geometry":{"type":"Point","coordinates":[12.5,41.9]}}]}`
		convey.So(os.WriteFile(filepath.Join(dir, geodata.DefaultProvinceSource+".geojson"), []byte(provinces), 0o600), convey.ShouldBeNil)
		convey.So(os.WriteFile(filepath.Join(dir, geodata.DefaultLabelSource+".geojson"), []byte(provinces), 0o600), convey.ShouldBeNil)

		cfg := config.New(ctx)
		cfg.GeodataDir = dir
		src, closeSource := newSource(ctx, cfg, logger.Get())
		defer closeSource()

		svc := newService(cfg, src, logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		snap, err := svc.WaitForGeodata(waitCtx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(snap.Status, convey.ShouldEqual, geo.StatusLoaded)

		mux := newMux(ctx, svc)
		get := func(path string) int {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w.Code
		}

		convey.Convey("Then every surface is mounted", func() {
			convey.So(get("/api-docs"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/map/"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/catalog"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/provinces"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz"), convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestMetricsOptions(t *testing.T) {
	convey.Convey("Given a metrics section", t, func() {
		convey.Reset(func() { metrics.Configure() })
		cfg := config.New(context.Background())
		cfg.Metrics.Namespace = "rome"
		cfg.Metrics.RefreshSeconds = 2
		cfg.Metrics.Labels = map[string]string{"env": "test"}

		convey.Convey("When the global manager is configured from it", func() {
			metrics.Configure(metricsOptions(cfg)...)
			metrics.UpdateSystemGoroutineCount(1)

			convey.Convey("Then collectors use the configured names and interval", func() {
				families, err := metrics.GetRegistry().Gather()
				convey.So(err, convey.ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				convey.So(names, convey.ShouldContain, "rome_map_system_goroutine_count")
				convey.So(metrics.RefreshInterval(), convey.ShouldEqual, 2*time.Second)
			})
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the metrics registry", t, func() {
		convey.Convey("When system metrics are sampled", func() {
			updateSystemMetrics()

			convey.Convey("Then the gauges are exported", func() {
				families, err := metrics.GetRegistry().Gather()
				convey.So(err, convey.ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				convey.So(names, convey.ShouldContain, "aureus_map_system_goroutine_count")
			})
		})
	})
}
