package bank

import (
	"sort"
	"strings"
)

// Registry holds bank profiles in declaration order plus the Generic
// fallback. Declaration order breaks detection ties.
type Registry struct {
	ordered []*Profile
	byName  map[string]*Profile
	generic *Profile
}

// NewRegistry creates a registry whose fallback is generic.
func NewRegistry(generic *Profile) *Registry {
	r := &Registry{byName: make(map[string]*Profile), generic: generic}
	if generic != nil {
		r.byName[strings.ToLower(generic.Name)] = generic
	}
	return r
}

// Register adds a profile. Panics on duplicate name.
func (r *Registry) Register(p *Profile) {
	key := strings.ToLower(p.Name)
	if _, ok := r.byName[key]; ok {
		panic("duplicate bank profile: " + key)
	}
	r.byName[key] = p
	r.ordered = append(r.ordered, p)
}

// Get returns the profile for name (case-insensitive), or nil.
func (r *Registry) Get(name string) *Profile {
	return r.byName[strings.ToLower(strings.TrimSpace(name))]
}

// Generic returns the fallback profile.
func (r *Registry) Generic() *Profile {
	return r.generic
}

// Profiles returns the registered bank profiles in declaration order,
// excluding Generic.
func (r *Registry) Profiles() []*Profile {
	return append([]*Profile(nil), r.ordered...)
}

// Names returns every selectable profile name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for k := range r.byName {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns all built-in profiles. Rarer banks come first so
// they win detection ties.
func DefaultRegistry() *Registry {
	r := NewRegistry(Generic())
	r.Register(Federal())
	r.Register(SBI())
	r.Register(HDFC())
	r.Register(Axis())
	return r
}
