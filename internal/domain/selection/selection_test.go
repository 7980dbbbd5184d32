package selection_test

import (
	"testing"

	"github.com/okian/aureus/internal/domain/province"
	"github.com/okian/aureus/internal/domain/selection"
	. "github.com/smartystreets/goconvey/convey"
)

var known = province.NewRegistry("Italia", "Dacia", "Syria", "Aegyptus")

func TestOwnedSelection(t *testing.T) {
	Convey("Given an owned selection that defaults to all provinces", t, func() {
		var reported [][]string
		c := selection.NewOwned(true, func(s []string) { reported = append(reported, s) })

		Convey("Then before geodata loads it is empty", func() {
			So(c.Mode(), ShouldEqual, selection.ModeOwned)
			So(c.Selected(), ShouldBeEmpty)
		})

		Convey("When the registry is discovered", func() {
			c.Discover(known)

			Convey("Then every known province is selected", func() {
				So(c.Selected(), ShouldResemble, known.Names())
				So(reported, ShouldBeEmpty)
			})

			Convey("And a second discovery does not reset user changes", func() {
				c.Deselect("Dacia")
				c.Discover(known)
				So(c.Selected(), ShouldResemble, []string{"Italia", "Syria", "Aegyptus"})
			})

			Convey("And ClearAll yields an empty selection", func() {
				c.SelectAll()
				c.ClearAll()
				So(c.Selected(), ShouldBeEmpty)
				So(reported[len(reported)-1], ShouldBeEmpty)
			})
		})

		Convey("When an empty registry is discovered first", func() {
			c.Discover(province.Empty())
			c.Discover(known)

			Convey("Then the default waits for a registry with provinces", func() {
				So(c.Selected(), ShouldResemble, known.Names())
			})
		})

		Convey("When the user cleared the selection before discovery", func() {
			c.ClearAll()
			c.Discover(known)

			Convey("Then the default is not applied", func() {
				So(c.Selected(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given an owned selection that defaults to none", t, func() {
		c := selection.NewOwned(false, nil)
		c.Discover(known)

		Convey("Then it starts empty", func() {
			So(c.Selected(), ShouldBeEmpty)
		})

		Convey("When selecting provinces", func() {
			c.Select("Syria")
			c.Select("Italia")
			c.Select("Syria")
			c.Select("Atlantis")

			Convey("Then insertion order is kept without duplicates or invalid names", func() {
				So(c.Selected(), ShouldResemble, []string{"Syria", "Italia"})
				So(c.Contains("Italia"), ShouldBeTrue)
				So(c.Contains("Atlantis"), ShouldBeFalse)
			})
		})

		Convey("When toggling a province twice", func() {
			c.Toggle("Dacia")
			So(c.Contains("Dacia"), ShouldBeTrue)
			c.Toggle("Dacia")

			Convey("Then it is deselected again", func() {
				So(c.Contains("Dacia"), ShouldBeFalse)
			})
		})

		Convey("When selecting all", func() {
			c.SelectAll()

			Convey("Then the selection equals the discovered set", func() {
				So(c.Selected(), ShouldResemble, known.Names())
				So(c.Set(), ShouldHaveLength, known.Len())
			})
		})

		Convey("When external values are pushed", func() {
			ok := c.SetExternal([]string{"Italia"})

			Convey("Then owned controllers reject them", func() {
				So(ok, ShouldBeFalse)
				So(c.Selected(), ShouldBeEmpty)
			})
		})

		Convey("When a later registry drops a selected province", func() {
			c.Select("Dacia")
			c.Select("Italia")
			c.Discover(province.NewRegistry("Italia"))

			Convey("Then the stored selection is re-filtered", func() {
				So(c.Selected(), ShouldResemble, []string{"Italia"})
			})
		})
	})
}

func TestDelegatedSelection(t *testing.T) {
	Convey("Given a delegated selection", t, func() {
		var requests [][]string
		c := selection.NewDelegated([]string{"Syria", "Atlantis", "Syria"}, func(s []string) {
			requests = append(requests, s)
		})
		c.Discover(known)

		Convey("Then it reflects the filtered external list", func() {
			So(c.Mode(), ShouldEqual, selection.ModeDelegated)
			So(c.Selected(), ShouldResemble, []string{"Syria"})
		})

		Convey("When local mutations run", func() {
			before := c.Selected()
			c.Toggle("Italia")
			c.Select("Dacia")
			c.Deselect("Syria")
			c.SelectAll()
			c.ClearAll()

			Convey("Then the observed selection never changes", func() {
				So(c.Selected(), ShouldResemble, before)
			})

			Convey("And each mutation is sent up as a request", func() {
				So(requests, ShouldResemble, [][]string{
					{"Syria", "Italia"},
					{"Syria", "Dacia"},
					{},
					{"Italia", "Dacia", "Syria", "Aegyptus"},
					{},
				})
			})
		})

		Convey("When the owner pushes a new list", func() {
			So(c.SetExternal([]string{"Aegyptus", "Dacia"}), ShouldBeTrue)

			Convey("Then the controller reflects it", func() {
				So(c.Selected(), ShouldResemble, []string{"Aegyptus", "Dacia"})
			})
		})
	})

	Convey("Given a delegated selection supplied as an empty list", t, func() {
		c := selection.NewDelegated([]string{}, nil)
		c.Discover(known)

		Convey("Then it is controlled and shows nothing", func() {
			So(c.Mode(), ShouldEqual, selection.ModeDelegated)
			So(c.Selected(), ShouldBeEmpty)
			c.SelectAll()
			So(c.Selected(), ShouldBeEmpty)
		})
	})
}
