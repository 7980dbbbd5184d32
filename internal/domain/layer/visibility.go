package layer

// Mode tells who owns a layer's visibility.
type Mode int

const (
	// ModeOwned layers keep their own visibility bit.
	ModeOwned Mode = iota
	// ModeDelegated layers mirror a value owned by an external controller.
	ModeDelegated
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeOwned:
		return "owned"
	case ModeDelegated:
		return "delegated"
	default:
		return "unknown"
	}
}

// control is the per-layer ownership variant, fixed at construction.
type control interface {
	visible() bool
	mode() Mode
	toggle(id string)
	hide(id string)
}

type owned struct {
	on     bool
	notify ChangeFunc
}

func (o *owned) visible() bool { return o.on }
func (o *owned) mode() Mode    { return ModeOwned }

func (o *owned) toggle(id string) {
	o.on = !o.on
	if o.notify != nil {
		o.notify(id, o.on)
	}
}

func (o *owned) hide(string) { o.on = false }

// delegated never writes its own value; user intent becomes a request.
type delegated struct {
	external bool
	request  ChangeFunc
}

func (d *delegated) visible() bool { return d.external }
func (d *delegated) mode() Mode    { return ModeDelegated }

func (d *delegated) toggle(id string) {
	if d.request != nil {
		d.request(id, !d.external)
	}
}

func (d *delegated) hide(id string) {
	if d.external && d.request != nil {
		d.request(id, false)
	}
}

// Visibility tracks which catalog layers are shown. Several layers may be
// visible at once. It is not safe for concurrent use.
type Visibility struct {
	order    []string
	controls map[string]control
}

// NewVisibility builds the state for every entry in c. Entries carrying an
// External value are delegated; all others are owned and start hidden.
func NewVisibility(c *Catalog) *Visibility {
	v := &Visibility{
		order:    c.IDs(),
		controls: make(map[string]control, c.Len()),
	}
	for _, id := range v.order {
		e, _ := c.Get(id)
		if e.External != nil {
			v.controls[id] = &delegated{external: *e.External, request: e.OnChange}
			continue
		}
		v.controls[id] = &owned{notify: e.OnChange}
	}
	return v
}

// Toggle flips the layer id. Unknown ids are ignored.
func (v *Visibility) Toggle(id string) {
	if c, ok := v.controls[id]; ok {
		c.toggle(id)
	}
}

// ClearAll hides every owned layer and asks the owner of each visible
// delegated layer to hide it. HasAnyVisible is false right after ClearAll
// only when every layer is owned; delegated layers stay visible until their
// owner applies the request.
func (v *Visibility) ClearAll() {
	for _, id := range v.order {
		v.controls[id].hide(id)
	}
}

// SetExternal applies an external value to a delegated layer. It never
// invokes the layer's change callback. It returns false when id is unknown
// or owned.
func (v *Visibility) SetExternal(id string, visible bool) bool {
	d, ok := v.controls[id].(*delegated)
	if !ok {
		return false
	}
	d.external = visible
	return true
}

// IsVisible reports whether id is shown.
func (v *Visibility) IsVisible(id string) bool {
	c, ok := v.controls[id]
	return ok && c.visible()
}

// HasAnyVisible reports whether at least one layer is shown.
func (v *Visibility) HasAnyVisible() bool {
	for _, c := range v.controls {
		if c.visible() {
			return true
		}
	}
	return false
}

// VisibleIDs returns the shown layer ids in catalog order.
func (v *Visibility) VisibleIDs() []string {
	out := make([]string, 0, len(v.order))
	for _, id := range v.order {
		if v.controls[id].visible() {
			out = append(out, id)
		}
	}
	return out
}

// Mode returns the ownership mode for id.
func (v *Visibility) Mode(id string) (Mode, bool) {
	c, ok := v.controls[id]
	if !ok {
		return ModeOwned, false
	}
	return c.mode(), true
}
