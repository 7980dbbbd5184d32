package geodata_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/aureus/internal/adapters/geodata"
	"github.com/okian/aureus/internal/domain/geo"
	"github.com/okian/aureus/internal/domain/layer"
	"github.com/okian/aureus/pkg/logger"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

const provinces = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Italia"},"geometry":{"type":"Polygon","coordinates":[[[7,44],[18,40],[12,38],[7,44]]]}},
 {"type":"Feature","properties":{"name":"Hyperborea"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}
]}`

const labelPoints = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Italia"},"geometry":{"type":"Point","coordinates":[12.5,41.9]}}
]}`

const extent = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Imperium"},"geometry":{"type":"Polygon","coordinates":[[[-9,36],[44,36],[44,52],[-9,36]]]}}
]}`

// memSource serves fixed payloads and counts fetches.
type memSource struct {
	mu    sync.Mutex
	data  map[string]string
	calls map[string]int
}

func newMemSource(data map[string]string) *memSource {
	return &memSource{data: data, calls: map[string]int{}}
}

func (m *memSource) Fetch(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[id]++
	b, ok := m.data[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", geodata.ErrNotFound, id)
	}
	return []byte(b), nil
}

func (m *memSource) count(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

// fakeRedis backs the cache with a map; failing makes every call error.
type fakeRedis struct {
	mu      sync.Mutex
	store   map[string]string
	ttls    map[string]time.Duration
	failing bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.store[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, exp time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	switch v := value.(type) {
	case []byte:
		f.store[key] = string(v)
	case string:
		f.store[key] = v
	}
	f.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func TestFileSource(t *testing.T) {
	Convey("Given a directory of GeoJSON files", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "roman_provinces.geojson"), []byte(provinces), 0o600), ShouldBeNil)
		src := geodata.NewFileSource(dir)
		ctx := context.Background()

		Convey("Then known ids are read", func() {
			b, err := src.Fetch(ctx, "roman_provinces")
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, provinces)
		})

		Convey("Then missing ids report not found", func() {
			_, err := src.Fetch(ctx, "roman_empire_14ad")
			So(errors.Is(err, geodata.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then ids that escape the directory are rejected", func() {
			for _, id := range []string{"", "../etc/passwd", "a/b", `a\b`} {
				_, err := src.Fetch(ctx, id)
				So(errors.Is(err, geodata.ErrInvalidSourceID), ShouldBeTrue)
			}
		})

		Convey("Then a cancelled context stops the read", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := src.Fetch(cctx, "roman_provinces")
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestRedisCache(t *testing.T) {
	Convey("Given a cache in front of a source", t, func() {
		src := newMemSource(map[string]string{"roman_provinces": provinces})
		rdb := newFakeRedis()
		cache := geodata.NewRedisCache(rdb, src,
			geodata.WithCacheTTL(time.Minute),
			geodata.WithCachePrefix("test:"))
		ctx := context.Background()

		Convey("When the same id is fetched twice", func() {
			first, err := cache.Fetch(ctx, "roman_provinces")
			So(err, ShouldBeNil)
			second, err := cache.Fetch(ctx, "roman_provinces")
			So(err, ShouldBeNil)

			Convey("Then the source is hit once and the value stored with the TTL", func() {
				So(string(first), ShouldEqual, provinces)
				So(string(second), ShouldEqual, provinces)
				So(src.count("roman_provinces"), ShouldEqual, 1)
				So(rdb.ttls["test:roman_provinces"], ShouldEqual, time.Minute)
			})
		})

		Convey("When Redis is down", func() {
			rdb.failing = true
			b, err := cache.Fetch(ctx, "roman_provinces")

			Convey("Then the source still answers", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, provinces)
			})
		})

		Convey("When the source fails", func() {
			_, err := cache.Fetch(ctx, "missing")

			Convey("Then the error is returned and nothing is cached", func() {
				So(errors.Is(err, geodata.ErrNotFound), ShouldBeTrue)
				So(rdb.store, ShouldBeEmpty)
			})
		})
	})

	Convey("Given no redis url", t, func() {
		client, err := geodata.OpenRedis(context.Background(), "")
		So(err, ShouldBeNil)
		So(client, ShouldBeNil)
	})

	Convey("Given a malformed redis url", t, func() {
		_, err := geodata.OpenRedis(context.Background(), "://nope")
		So(err, ShouldNotBeNil)
	})
}

func TestLoader(t *testing.T) {
	descs := layer.BuildCatalog(nil).Descriptors()

	Convey("Given a source with provinces, labels and one layer", t, func() {
		src := newMemSource(map[string]string{
			geodata.DefaultProvinceSource: provinces,
			geodata.DefaultLabelSource:    labelPoints,
			"roman_empire_117ad":          extent,
		})
		l := geodata.NewLoader(src, geodata.WithLayers(descs))

		Convey("Then the loader starts in the loading state", func() {
			So(l.Snapshot().Status, ShouldEqual, geo.StatusLoading)
		})

		Convey("When it loads", func() {
			var got []geo.Snapshot
			l.Subscribe(func(s geo.Snapshot) { got = append(got, s) })
			err := l.Load(context.Background())

			Convey("Then unknown provinces are dropped and missing layers skipped", func() {
				So(err, ShouldBeNil)
				snap := l.Snapshot()
				So(snap.Status, ShouldEqual, geo.StatusLoaded)
				So(snap.Registry.Names(), ShouldResemble, []string{"Italia"})
				So(len(snap.Labels), ShouldEqual, 1)
				So(snap.Layers, ShouldContainKey, "trajan")
				So(snap.Layers, ShouldNotContainKey, "augustus")
				So(snap.LoadedAt.IsZero(), ShouldBeFalse)
			})

			Convey("Then subscribers are notified once", func() {
				So(len(got), ShouldEqual, 1)
				So(got[0].Status, ShouldEqual, geo.StatusLoaded)
			})

			Convey("And late subscribers are called immediately", func() {
				var late geo.Snapshot
				l.Subscribe(func(s geo.Snapshot) { late = s })
				So(late.Status, ShouldEqual, geo.StatusLoaded)
			})
		})
	})

	Convey("Given a source without the province collection", t, func() {
		src := newMemSource(map[string]string{geodata.DefaultLabelSource: labelPoints})
		l := geodata.NewLoader(src)

		Convey("When it loads", func() {
			err := l.Load(context.Background())

			Convey("Then the load fails and options stay empty", func() {
				So(errors.Is(err, geodata.ErrNotFound), ShouldBeTrue)
				snap := l.Snapshot()
				So(snap.Status, ShouldEqual, geo.StatusFailed)
				So(snap.Err, ShouldNotBeEmpty)
				So(snap.Registry.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given custom source ids", t, func() {
		src := newMemSource(map[string]string{"p": provinces, "l": `{"type":"Topology"}`})
		l := geodata.NewLoader(src, geodata.WithProvinceSource("p"), geodata.WithLabelSource("l"))

		Convey("Then an undecodable label collection fails the load", func() {
			err := l.Load(context.Background())
			So(errors.Is(err, geo.ErrDecode), ShouldBeTrue)
			So(l.Snapshot().Status, ShouldEqual, geo.StatusFailed)
		})
	})
}

func TestShippedGeodata(t *testing.T) {
	Convey("Given the geodata shipped with the service", t, func() {
		descs := layer.BuildCatalog(nil).Descriptors()
		l := geodata.NewLoader(geodata.NewFileSource(filepath.Join("..", "..", "..", "data", "geo")), geodata.WithLayers(descs))

		Convey("When it loads", func() {
			So(l.Load(context.Background()), ShouldBeNil)
			snap := l.Snapshot()

			Convey("Then provinces and labels are present", func() {
				So(snap.Status, ShouldEqual, geo.StatusLoaded)
				So(snap.Registry.Len(), ShouldBeGreaterThan, 0)
				So(snap.Labels, ShouldNotBeEmpty)
			})

			Convey("Then every catalog layer has boundaries", func() {
				for _, d := range descs {
					fc, ok := snap.Layers[d.ID]
					So(ok, ShouldBeTrue)
					So(fc.Len(), ShouldBeGreaterThan, 0)
				}
			})
		})
	})
}
