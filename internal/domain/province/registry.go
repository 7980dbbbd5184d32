// Package province holds the closed set of region identifiers a map can
// highlight and the helpers that validate arbitrary name lists against it.
package province

// Registry is an ordered, duplicate-free list of province names.
// A Registry is immutable once built and safe to share between views.
type Registry struct {
	names []string
	index map[string]struct{}
}

// NewRegistry builds a registry from names, keeping the first occurrence
// of each name and dropping empty strings.
func NewRegistry(names ...string) *Registry {
	r := &Registry{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, dup := r.index[n]; dup {
			continue
		}
		r.index[n] = struct{}{}
		r.names = append(r.names, n)
	}
	return r
}

// Empty returns a registry with no members.
func Empty() *Registry { return NewRegistry() }

// IsValid reports whether name is a registry member.
func (r *Registry) IsValid(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[name]
	return ok
}

// FilterValid returns the members of names in input order. Unknown names are
// dropped silently: upstream geodata routinely carries names we don't map.
// Duplicates present in the input are kept; none are introduced.
func (r *Registry) FilterValid(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if r.IsValid(n) {
			out = append(out, n)
		}
	}
	return out
}

// Names returns a copy of the registry in order.
func (r *Registry) Names() []string {
	if r == nil {
		return []string{}
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of members.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Discover derives the registry of provinces currently known from names
// found in loaded boundary data. Names outside master are dropped and the
// result keeps first-seen order.
func Discover(master *Registry, found []string) *Registry {
	return NewRegistry(master.FilterValid(found)...)
}

// Set returns the members as a lookup set.
func (r *Registry) Set() map[string]struct{} {
	out := make(map[string]struct{}, r.Len())
	if r == nil {
		return out
	}
	for _, n := range r.names {
		out[n] = struct{}{}
	}
	return out
}
