// Package layer describes the historical empire-extent overlays and tracks
// which of them a map view shows.
package layer

// ChangeFunc receives a visibility change for a layer. For owned layers it
// reports a user toggle; for delegated layers it is a request to the owner.
type ChangeFunc func(id string, visible bool)

// Style is the polygon styling handed to the render surface.
type Style struct {
	StrokeColor string  `json:"stroke_color"`
	FillColor   string  `json:"fill_color"`
	DashPattern string  `json:"dash_pattern,omitempty"`
	Weight      float64 `json:"weight"`
	FillOpacity float64 `json:"fill_opacity"`
}

// Descriptor is an immutable catalog entry.
type Descriptor struct {
	ID               string `json:"id"`
	DisplayLabel     string `json:"display_label"`
	TimeLabel        string `json:"time_label"`
	Description      string `json:"description"`
	BoundarySourceID string `json:"boundary_source_id"`
	Style            Style  `json:"style"`
}

// Override adjusts one built-in descriptor and binds it. Empty strings and a
// nil Style keep the built-in value. A non-nil External makes the layer
// externally controlled.
type Override struct {
	DisplayLabel     string
	TimeLabel        string
	Description      string
	BoundarySourceID string
	Style            *Style

	External *bool
	OnChange ChangeFunc
}

// Entry is a descriptor together with its per-instance binding.
type Entry struct {
	Descriptor
	External *bool
	OnChange ChangeFunc
}

// Catalog is an ordered, read-only set of layer entries.
type Catalog struct {
	order   []string
	entries map[string]Entry
}

// builtin is the fixed set of historical extents.
var builtin = []Descriptor{
	{
		ID:               "augustus",
		DisplayLabel:     "Empire of Augustus",
		TimeLabel:        "14 AD",
		Description:      "Territory at the death of Augustus, before the conquest of Britain.",
		BoundarySourceID: "roman_empire_14ad",
		Style:            Style{StrokeColor: "#8b0000", FillColor: "#c0392b", Weight: 2, FillOpacity: 0.15},
	},
	{
		ID:               "trajan",
		DisplayLabel:     "Greatest Extent",
		TimeLabel:        "117 AD",
		Description:      "The empire under Trajan including Dacia, Armenia and Mesopotamia.",
		BoundarySourceID: "roman_empire_117ad",
		Style:            Style{StrokeColor: "#6a1b9a", FillColor: "#9b59b6", Weight: 2, FillOpacity: 0.15},
	},
	{
		ID:               "severan",
		DisplayLabel:     "Severan Empire",
		TimeLabel:        "211 AD",
		Description:      "Borders at the death of Septimius Severus.",
		BoundarySourceID: "roman_empire_211ad",
		Style:            Style{StrokeColor: "#b8860b", FillColor: "#f1c40f", DashPattern: "6 4", Weight: 2, FillOpacity: 0.12},
	},
	{
		ID:               "tetrarchy",
		DisplayLabel:     "Tetrarchy",
		TimeLabel:        "300 AD",
		Description:      "Dioceses of the reorganised empire under Diocletian.",
		BoundarySourceID: "roman_empire_300ad",
		Style:            Style{StrokeColor: "#1e8449", FillColor: "#27ae60", DashPattern: "2 4", Weight: 2, FillOpacity: 0.12},
	},
	{
		ID:               "constantine",
		DisplayLabel:     "Empire of Constantine",
		TimeLabel:        "337 AD",
		Description:      "The reunited empire at the death of Constantine.",
		BoundarySourceID: "roman_empire_337ad",
		Style:            Style{StrokeColor: "#1f618d", FillColor: "#3498db", Weight: 2, FillOpacity: 0.12},
	},
	{
		ID:               "division",
		DisplayLabel:     "Division of the Empire",
		TimeLabel:        "395 AD",
		Description:      "Eastern and western halves after the death of Theodosius.",
		BoundarySourceID: "roman_empire_395ad",
		Style:            Style{StrokeColor: "#444444", FillColor: "#7f8c8d", DashPattern: "8 4 2 4", Weight: 2, FillOpacity: 0.1},
	},
}

// BuildCatalog returns the built-in catalog with overrides applied.
// Overrides for ids not in the catalog are ignored.
func BuildCatalog(overrides map[string]Override) *Catalog {
	c := &Catalog{
		order:   make([]string, 0, len(builtin)),
		entries: make(map[string]Entry, len(builtin)),
	}
	for _, d := range builtin {
		e := Entry{Descriptor: d}
		if o, ok := overrides[d.ID]; ok {
			e = apply(e, o)
		}
		c.order = append(c.order, d.ID)
		c.entries[d.ID] = e
	}
	return c
}

func apply(e Entry, o Override) Entry {
	if o.DisplayLabel != "" {
		e.DisplayLabel = o.DisplayLabel
	}
	if o.TimeLabel != "" {
		e.TimeLabel = o.TimeLabel
	}
	if o.Description != "" {
		e.Description = o.Description
	}
	if o.BoundarySourceID != "" {
		e.BoundarySourceID = o.BoundarySourceID
	}
	if o.Style != nil {
		e.Style = *o.Style
	}
	if o.External != nil {
		v := *o.External
		e.External = &v
	}
	e.OnChange = o.OnChange
	return e
}

// Get returns the entry for id.
func (c *Catalog) Get(id string) (Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.entries[id]
	return ok
}

// IDs returns layer ids in catalog order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Descriptors returns the descriptors in catalog order.
func (c *Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id].Descriptor)
	}
	return out
}

// Len returns the number of layers.
func (c *Catalog) Len() int { return len(c.order) }
