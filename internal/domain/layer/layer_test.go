package layer_test

import (
	"testing"

	"github.com/okian/aureus/internal/domain/layer"
	. "github.com/smartystreets/goconvey/convey"
)

type change struct {
	id      string
	visible bool
}

func boolPtr(b bool) *bool { return &b }

func TestBuildCatalog(t *testing.T) {
	Convey("Given the built-in catalog", t, func() {
		c := layer.BuildCatalog(nil)

		Convey("Then ids are unique and ordered chronologically", func() {
			ids := c.IDs()
			So(ids, ShouldResemble, []string{"augustus", "trajan", "severan", "tetrarchy", "constantine", "division"})
			So(c.Len(), ShouldEqual, len(ids))
		})

		Convey("Then every descriptor names a boundary source", func() {
			for _, d := range c.Descriptors() {
				So(d.BoundarySourceID, ShouldNotBeEmpty)
				So(d.DisplayLabel, ShouldNotBeEmpty)
				So(d.Style.StrokeColor, ShouldStartWith, "#")
			}
		})
	})

	Convey("Given overrides", t, func() {
		style := layer.Style{StrokeColor: "#000", FillColor: "#fff"}
		c := layer.BuildCatalog(map[string]layer.Override{
			"trajan":   {DisplayLabel: "Trajan", Style: &style, External: boolPtr(true)},
			"atlantis": {DisplayLabel: "ignored"},
		})

		Convey("Then known ids take the override", func() {
			e, ok := c.Get("trajan")
			So(ok, ShouldBeTrue)
			So(e.DisplayLabel, ShouldEqual, "Trajan")
			So(e.TimeLabel, ShouldEqual, "117 AD")
			So(e.Style, ShouldResemble, style)
			So(*e.External, ShouldBeTrue)
		})

		Convey("Then unknown ids are ignored", func() {
			So(c.Has("atlantis"), ShouldBeFalse)
			So(c.Len(), ShouldEqual, 6)
		})

		Convey("Then a fresh catalog is unaffected", func() {
			e, _ := layer.BuildCatalog(nil).Get("trajan")
			So(e.DisplayLabel, ShouldEqual, "Greatest Extent")
			So(e.External, ShouldBeNil)
		})
	})
}

func TestVisibilityOwned(t *testing.T) {
	Convey("Given visibility over an unbound catalog", t, func() {
		var changes []change
		notify := func(id string, visible bool) { changes = append(changes, change{id, visible}) }
		v := layer.NewVisibility(layer.BuildCatalog(map[string]layer.Override{
			"augustus": {OnChange: notify},
		}))

		Convey("Then everything starts hidden", func() {
			So(v.HasAnyVisible(), ShouldBeFalse)
			So(v.VisibleIDs(), ShouldBeEmpty)
			m, ok := v.Mode("augustus")
			So(ok, ShouldBeTrue)
			So(m, ShouldEqual, layer.ModeOwned)
		})

		Convey("When toggling one layer", func() {
			v.Toggle("augustus")

			Convey("Then only that layer is visible and the callback fired", func() {
				So(v.IsVisible("augustus"), ShouldBeTrue)
				So(v.IsVisible("trajan"), ShouldBeFalse)
				So(changes, ShouldResemble, []change{{"augustus", true}})
			})

			Convey("And toggling it again restores the original value", func() {
				v.Toggle("augustus")
				So(v.IsVisible("augustus"), ShouldBeFalse)
				So(changes, ShouldResemble, []change{{"augustus", true}, {"augustus", false}})
			})
		})

		Convey("When toggling several layers", func() {
			v.Toggle("augustus")
			v.Toggle("trajan")
			v.Toggle("division")

			Convey("Then they are all visible at once", func() {
				So(v.VisibleIDs(), ShouldResemble, []string{"augustus", "trajan", "division"})
			})

			Convey("And ClearAll hides everything", func() {
				v.ClearAll()
				So(v.HasAnyVisible(), ShouldBeFalse)
			})
		})

		Convey("When toggling an unknown id", func() {
			v.Toggle("atlantis")

			Convey("Then nothing changes", func() {
				So(v.HasAnyVisible(), ShouldBeFalse)
				So(v.IsVisible("atlantis"), ShouldBeFalse)
				So(changes, ShouldBeEmpty)
			})
		})

		Convey("When setting an external value on an owned layer", func() {
			ok := v.SetExternal("augustus", true)

			Convey("Then it is rejected", func() {
				So(ok, ShouldBeFalse)
				So(v.IsVisible("augustus"), ShouldBeFalse)
			})
		})
	})
}

func TestVisibilityDelegated(t *testing.T) {
	Convey("Given a layer controlled externally", t, func() {
		var requests []change
		request := func(id string, visible bool) { requests = append(requests, change{id, visible}) }
		v := layer.NewVisibility(layer.BuildCatalog(map[string]layer.Override{
			"severan": {External: boolPtr(false), OnChange: request},
		}))

		Convey("Then it reports the delegated mode and external value", func() {
			m, _ := v.Mode("severan")
			So(m, ShouldEqual, layer.ModeDelegated)
			So(v.IsVisible("severan"), ShouldBeFalse)
		})

		Convey("When the user toggles it", func() {
			v.Toggle("severan")

			Convey("Then state is unchanged and a request goes to the owner", func() {
				So(v.IsVisible("severan"), ShouldBeFalse)
				So(requests, ShouldResemble, []change{{"severan", true}})
			})
		})

		Convey("When the external value becomes true", func() {
			So(v.SetExternal("severan", true), ShouldBeTrue)

			Convey("Then the layer is visible without invoking the callback", func() {
				So(v.IsVisible("severan"), ShouldBeTrue)
				So(requests, ShouldBeEmpty)
			})
		})

		Convey("When a user toggle asked for hidden but the prop says visible", func() {
			So(v.SetExternal("severan", true), ShouldBeTrue)
			v.Toggle("severan")
			So(requests, ShouldResemble, []change{{"severan", false}})
			So(v.SetExternal("severan", true), ShouldBeTrue)

			Convey("Then the external value wins on the next read", func() {
				So(v.IsVisible("severan"), ShouldBeTrue)
			})
		})

		Convey("When clearing all while the delegated layer is visible", func() {
			v.SetExternal("severan", true)
			v.Toggle("trajan")
			v.ClearAll()

			Convey("Then owned layers hide and the owner is asked to hide", func() {
				So(v.IsVisible("trajan"), ShouldBeFalse)
				So(v.IsVisible("severan"), ShouldBeTrue)
				So(v.HasAnyVisible(), ShouldBeTrue)
				So(requests, ShouldResemble, []change{{"severan", false}})
			})

			Convey("And once the owner applies it nothing is visible", func() {
				v.SetExternal("severan", false)
				So(v.HasAnyVisible(), ShouldBeFalse)
			})
		})
	})
}

func TestModeString(t *testing.T) {
	Convey("Mode names", t, func() {
		So(layer.ModeOwned.String(), ShouldEqual, "owned")
		So(layer.ModeDelegated.String(), ShouldEqual, "delegated")
		So(layer.Mode(9).String(), ShouldEqual, "unknown")
	})
}
