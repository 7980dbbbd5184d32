// Package selection tracks the provinces a map view highlights.
//
// A Controller is either owned (it stores and mutates its own list) or
// delegated (an external caller owns the list and the controller only
// reflects it). The mode is chosen by the constructor and never changes.
//
// An empty selection always means "show nothing". Showing every province is
// expressed by a full selection, never by an empty one.
package selection

import "github.com/okian/aureus/internal/domain/province"

// Mode tells who owns the selection.
type Mode int

const (
	// ModeOwned controllers store the selection themselves.
	ModeOwned Mode = iota
	// ModeDelegated controllers mirror a selection owned elsewhere.
	ModeDelegated
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeDelegated {
		return "delegated"
	}
	return "owned"
}

// ChangeFunc receives a selection change. Owned controllers report the new
// stored value; delegated controllers send the value they would like the
// owner to apply.
type ChangeFunc func(selected []string)

type state interface {
	mode() Mode
	read(reg *province.Registry) []string
	write(reg *province.Registry, next []string)
	discovered(reg *province.Registry)
}

// Controller exposes selection operations over either ownership variant.
// It is not safe for concurrent use.
type Controller struct {
	registry *province.Registry
	state    state
}

// NewOwned returns an uncontrolled selection. With defaultAll set, the first
// Discover of a non-empty registry selects every known province unless the
// user has already changed the selection.
func NewOwned(defaultAll bool, onChange ChangeFunc) *Controller {
	return &Controller{
		registry: province.Empty(),
		state:    &owned{defaultAll: defaultAll, notify: onChange, items: []string{}},
	}
}

// NewDelegated returns a controlled selection reflecting external. A nil
// slice is treated like an empty one: the caller still owns the list.
func NewDelegated(external []string, onChange ChangeFunc) *Controller {
	return &Controller{
		registry: province.Empty(),
		state:    &delegated{external: clone(external), request: onChange},
	}
}

// Mode reports the ownership mode.
func (c *Controller) Mode() Mode { return c.state.mode() }

// Registry returns the registry selections are validated against.
func (c *Controller) Registry() *province.Registry { return c.registry }

// Discover installs the registry of provinces known from loaded geodata.
func (c *Controller) Discover(reg *province.Registry) {
	if reg == nil {
		reg = province.Empty()
	}
	c.registry = reg
	c.state.discovered(reg)
}

// Selected returns the valid selection in insertion order.
func (c *Controller) Selected() []string { return c.state.read(c.registry) }

// Contains reports whether name is currently selected.
func (c *Controller) Contains(name string) bool {
	for _, n := range c.Selected() {
		if n == name {
			return true
		}
	}
	return false
}

// Set returns the selection as a lookup set.
func (c *Controller) Set() map[string]struct{} {
	sel := c.Selected()
	out := make(map[string]struct{}, len(sel))
	for _, n := range sel {
		out[n] = struct{}{}
	}
	return out
}

// Toggle flips the membership of name.
func (c *Controller) Toggle(name string) {
	if c.Contains(name) {
		c.Deselect(name)
		return
	}
	c.Select(name)
}

// Select adds name. Names outside the registry are ignored.
func (c *Controller) Select(name string) {
	if !c.registry.IsValid(name) || c.Contains(name) {
		return
	}
	c.state.write(c.registry, append(c.Selected(), name))
}

// Deselect removes name.
func (c *Controller) Deselect(name string) {
	cur := c.Selected()
	next := make([]string, 0, len(cur))
	for _, n := range cur {
		if n != name {
			next = append(next, n)
		}
	}
	if len(next) == len(cur) {
		return
	}
	c.state.write(c.registry, next)
}

// SelectAll selects every known province.
func (c *Controller) SelectAll() { c.state.write(c.registry, c.registry.Names()) }

// ClearAll empties the selection.
func (c *Controller) ClearAll() { c.state.write(c.registry, []string{}) }

// SetExternal replaces the external list of a delegated controller. It
// returns false for owned controllers.
func (c *Controller) SetExternal(names []string) bool {
	d, ok := c.state.(*delegated)
	if !ok {
		return false
	}
	d.external = clone(names)
	return true
}

type owned struct {
	items      []string
	defaultAll bool
	touched    bool
	defaulted  bool
	notify     ChangeFunc
}

func (o *owned) mode() Mode { return ModeOwned }

func (o *owned) read(*province.Registry) []string { return clone(o.items) }

func (o *owned) write(reg *province.Registry, next []string) {
	o.touched = true
	o.items = unique(reg.FilterValid(next))
	if o.notify != nil {
		o.notify(clone(o.items))
	}
}

func (o *owned) discovered(reg *province.Registry) {
	if o.defaultAll && !o.defaulted && !o.touched && reg.Len() > 0 {
		o.defaulted = true
		o.items = reg.Names()
		return
	}
	o.items = unique(reg.FilterValid(o.items))
}

type delegated struct {
	external []string
	request  ChangeFunc
}

func (d *delegated) mode() Mode { return ModeDelegated }

func (d *delegated) read(reg *province.Registry) []string {
	return unique(reg.FilterValid(d.external))
}

func (d *delegated) write(reg *province.Registry, next []string) {
	if d.request != nil {
		d.request(unique(reg.FilterValid(next)))
	}
}

func (d *delegated) discovered(*province.Registry) {}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, n := range in {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
