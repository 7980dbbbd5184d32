package mapview_test

import (
	"testing"

	"github.com/okian/aureus/internal/domain/geo"
	"github.com/okian/aureus/internal/domain/layer"
	"github.com/okian/aureus/internal/domain/mapview"
	"github.com/okian/aureus/internal/domain/province"
	"github.com/okian/aureus/internal/domain/selection"
	"github.com/okian/aureus/internal/domain/timeline"
	"github.com/okian/aureus/internal/domain/viewport"
	. "github.com/smartystreets/goconvey/convey"
)

const boundaries = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Italia"},"geometry":{"type":"Polygon","coordinates":[[[7,44],[18,40],[12,38],[7,44]]]}},
 {"type":"Feature","properties":{"name":"Dacia"},"geometry":{"type":"Polygon","coordinates":[[[22,45],[26,46],[24,47],[22,45]]]}},
 {"type":"Feature","properties":{"name":"Aegyptus"},"geometry":{"type":"Polygon","coordinates":[[[25,31],[34,31],[32,22],[25,31]]]}}
]}`

const points = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Italia"},"geometry":{"type":"Point","coordinates":[12.5,41.9]}},
 {"type":"Feature","properties":{"name":"Dacia"},"geometry":{"type":"Point","coordinates":[24,46]}},
 {"type":"Feature","properties":{"name":"Aegyptus"},"geometry":{"type":"Point","coordinates":[30,27]}}
]}`

const trajanBounds = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Imperium"},"geometry":{"type":"Polygon","coordinates":[[[-9,36],[44,36],[44,52],[-9,36]]]}}
]}`

func snapshot() geo.Snapshot {
	b, _ := geo.Decode([]byte(boundaries))
	p, _ := geo.Decode([]byte(points))
	t, _ := geo.Decode([]byte(trajanBounds))
	return geo.Build(province.Roman(), b, p, map[string]*geo.FeatureCollection{"trajan": t})
}

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func f64(v float64) *float64 { return &v }

func TestViewDefaults(t *testing.T) {
	Convey("Given a view created without props", t, func() {
		v := mapview.New(mapview.Props{})

		Convey("Then nothing is drawn while geodata loads", func() {
			fr := v.Frame()
			So(fr.Status, ShouldEqual, geo.StatusLoading)
			So(fr.ProvinceOptions, ShouldBeEmpty)
			So(fr.Provinces.Len(), ShouldEqual, 0)
			So(fr.Labels, ShouldBeEmpty)
			So(fr.AnyLayerVisible, ShouldBeFalse)
			So(fr.Marker, ShouldBeNil)
			So(fr.Requests, ShouldBeEmpty)
			So(fr.SelectionMode, ShouldEqual, "owned")
		})

		Convey("Then the viewport uses the defaults", func() {
			fr := v.Frame()
			So(fr.Viewport.Center, ShouldResemble, mapview.DefaultCenter)
			So(fr.Viewport.Zoom, ShouldEqual, mapview.DefaultZoom)
			So(fr.ZoomRange, ShouldResemble, viewport.ZoomRange{Min: mapview.DefaultMinZoom, Max: mapview.DefaultMaxZoom})
			So(v.Timeline().EventZoom(), ShouldEqual, mapview.DefaultEventZoom)
		})

		Convey("Then every catalog layer is listed, owned and hidden", func() {
			fr := v.Frame()
			So(len(fr.Layers), ShouldEqual, layer.BuildCatalog(nil).Len())
			for _, l := range fr.Layers {
				So(l.Visible, ShouldBeFalse)
				So(l.Mode, ShouldEqual, "owned")
				So(l.Features, ShouldBeNil)
			}
		})
	})
}

func TestViewComposition(t *testing.T) {
	Convey("Given an owned view with geodata loaded", t, func() {
		v := mapview.New(mapview.Props{Zoom: intPtr(5)})
		v.Apply(snapshot())

		Convey("Then options list the discovered provinces and nothing is selected", func() {
			fr := v.Frame()
			So(fr.Status, ShouldEqual, geo.StatusLoaded)
			So(fr.ProvinceOptions, ShouldResemble, []string{"Italia", "Dacia", "Aegyptus"})
			So(fr.Selected, ShouldBeEmpty)
			So(fr.Provinces.Len(), ShouldEqual, 0)
		})

		Convey("When provinces are selected", func() {
			v.Selection().Toggle("Dacia")
			v.Selection().Toggle("Italia")
			v.Selection().Toggle("Noricum")

			Convey("Then only selected boundaries and labels are drawn", func() {
				fr := v.Frame()
				So(fr.Selected, ShouldResemble, []string{"Dacia", "Italia"})
				So(fr.Provinces.Names(), ShouldResemble, []string{"Italia", "Dacia"})
				So(len(fr.Labels), ShouldEqual, 2)
			})

			Convey("And zooming to the threshold hides the labels", func() {
				v.Viewport().ZoomEnd(4)
				So(v.Frame().Labels, ShouldBeEmpty)
				v.Viewport().ZoomEnd(5)
				So(len(v.Frame().Labels), ShouldEqual, 2)
			})

			Convey("And turning the show-labels flag off hides them", func() {
				v.SetShowLabels(false)
				fr := v.Frame()
				So(fr.Labels, ShouldBeEmpty)
				So(fr.ShowLabels, ShouldBeFalse)
			})

			Convey("And clearing the selection draws nothing", func() {
				v.Selection().ClearAll()
				fr := v.Frame()
				So(fr.Provinces.Len(), ShouldEqual, 0)
				So(fr.Labels, ShouldBeEmpty)
			})
		})

		Convey("When a layer is toggled on", func() {
			v.Layers().Toggle("trajan")
			v.Layers().Toggle("augustus")

			Convey("Then visible layers carry their boundaries", func() {
				fr := v.Frame()
				So(fr.AnyLayerVisible, ShouldBeTrue)
				for _, l := range fr.Layers {
					switch l.ID {
					case "trajan":
						So(l.Visible, ShouldBeTrue)
						So(l.Features.Len(), ShouldEqual, 1)
					case "augustus":
						So(l.Visible, ShouldBeTrue)
						So(l.Features.Len(), ShouldEqual, 0)
					default:
						So(l.Visible, ShouldBeFalse)
					}
				}
			})

			Convey("And ClearAll hides them again without requests", func() {
				v.Layers().ClearAll()
				fr := v.Frame()
				So(fr.AnyLayerVisible, ShouldBeFalse)
				So(fr.Requests, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an owned view that selects everything by default", t, func() {
		v := mapview.New(mapview.Props{DefaultAllProvinces: true, Zoom: intPtr(6)})

		Convey("When geodata arrives", func() {
			v.Apply(snapshot())

			Convey("Then every discovered province is selected and labelled", func() {
				fr := v.Frame()
				So(fr.Selected, ShouldResemble, fr.ProvinceOptions)
				So(fr.Provinces.Len(), ShouldEqual, 3)
				So(len(fr.Labels), ShouldEqual, 3)
			})
		})

		Convey("When the geodata load fails", func() {
			v.Apply(geo.Failed(nil))

			Convey("Then options stay empty", func() {
				fr := v.Frame()
				So(fr.Status, ShouldEqual, geo.StatusFailed)
				So(fr.ProvinceOptions, ShouldBeEmpty)
				So(fr.Selected, ShouldBeEmpty)
			})
		})
	})
}

func TestViewDelegated(t *testing.T) {
	Convey("Given a view whose layers and provinces are controlled externally", t, func() {
		v := mapview.New(mapview.Props{
			Layers:    map[string]mapview.LayerProp{"trajan": {Visible: true}},
			Provinces: []string{"Italia", "Atlantis", "Italia"},
			Zoom:      intPtr(6),
		})
		v.Apply(snapshot())

		Convey("Then the external values are reflected after filtering", func() {
			fr := v.Frame()
			So(fr.SelectionMode, ShouldEqual, "delegated")
			So(fr.Selected, ShouldResemble, []string{"Italia"})
			So(v.Selection().Mode(), ShouldEqual, selection.ModeDelegated)
			for _, l := range fr.Layers {
				if l.ID == "trajan" {
					So(l.Mode, ShouldEqual, "delegated")
					So(l.Visible, ShouldBeTrue)
				}
			}
		})

		Convey("When the user toggles", func() {
			v.Layers().Toggle("trajan")
			v.Selection().Toggle("Dacia")
			fr := v.Frame()

			Convey("Then state is unchanged and requests are emitted", func() {
				So(fr.Selected, ShouldResemble, []string{"Italia"})
				So(fr.AnyLayerVisible, ShouldBeTrue)
				So(len(fr.Requests), ShouldEqual, 2)
				So(fr.Requests[0].Target, ShouldEqual, mapview.TargetLayer)
				So(fr.Requests[0].LayerID, ShouldEqual, "trajan")
				So(*fr.Requests[0].Visible, ShouldBeFalse)
				So(fr.Requests[1].Target, ShouldEqual, mapview.TargetProvinces)
				So(fr.Requests[1].Provinces, ShouldResemble, []string{"Italia", "Dacia"})
			})

			Convey("And requests are drained by the frame read", func() {
				So(v.Frame().Requests, ShouldBeEmpty)
			})
		})

		Convey("When the owner applies a new selection", func() {
			So(v.SetProvinces([]string{"Aegyptus"}), ShouldBeTrue)
			fr := v.Frame()
			So(fr.Selected, ShouldResemble, []string{"Aegyptus"})
			So(len(fr.Labels), ShouldEqual, 1)
			So(fr.Labels[0].Province, ShouldEqual, "Aegyptus")
		})

		Convey("When the owner passes an empty selection", func() {
			v.SetProvinces([]string{})
			So(v.Frame().Provinces.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given an owned selection", t, func() {
		v := mapview.New(mapview.Props{})
		So(v.SetProvinces([]string{"Italia"}), ShouldBeFalse)
	})
}

func TestViewTimeline(t *testing.T) {
	Convey("Given a view with a timeline", t, func() {
		v := mapview.New(mapview.Props{EventZoomLevel: intPtr(8), ShowLabels: boolPtr(true)})
		v.Apply(snapshot())
		v.Selection().Toggle("Italia")

		Convey("When a geolocated event is activated", func() {
			_, ok := v.Timeline().Activate(timeline.Event{Name: "Emperor", Lat: f64(41.9), Lng: f64(12.5)})
			fr := v.Frame()

			Convey("Then the viewport and marker follow the event and labels recompute", func() {
				So(ok, ShouldBeTrue)
				So(fr.Viewport.Zoom, ShouldEqual, 8)
				So(fr.Marker, ShouldNotBeNil)
				So(fr.Marker.Label, ShouldEqual, "Emperor")
				So(len(fr.Labels), ShouldEqual, 1)
			})

			Convey("And an external marker takes precedence", func() {
				v.SetMarker(&timeline.Marker{Lat: 1, Lng: 2, Label: "Mint"})
				So(v.Frame().Marker.Label, ShouldEqual, "Mint")
				v.SetMarker(nil)
				So(v.Frame().Marker.Label, ShouldEqual, "Emperor")
			})

			Convey("And dismissing removes the marker", func() {
				v.Timeline().Dismiss()
				So(v.Frame().Marker, ShouldBeNil)
			})
		})
	})
}
