package registry

import (
	"sort"

	"github.com/aretw0/corpus/pkg/ports"
)

// Registry maps format identifiers to stream factories.
// It is populated once by New and never mutated afterwards, so it can be shared
// by concurrent conversions without locking.
type Registry struct {
	factories map[string]ports.StreamFactory
}

// New creates a registry from a static table. The table is copied; later changes
// to the argument do not affect the registry. Nil factories are skipped.
func New(table map[string]ports.StreamFactory) *Registry {
	factories := make(map[string]ports.StreamFactory, len(table))
	for id, f := range table {
		if f == nil {
			continue
		}
		factories[id] = f
	}
	return &Registry{factories: factories}
}

// Resolve looks up a factory by exact identifier.
// The boolean is false when the identifier is not registered.
func (r *Registry) Resolve(id string) (ports.StreamFactory, bool) {
	if r == nil {
		return nil, false
	}
	f, ok := r.factories[id]
	return f, ok
}

// Formats returns the registered identifiers in lexical order.
func (r *Registry) Formats() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Description returns the factory description for listings, or "" when the
// factory does not provide one.
func (r *Registry) Description(id string) string {
	f, ok := r.Resolve(id)
	if !ok {
		return ""
	}
	if d, ok := f.(ports.Describer); ok {
		return d.Describe()
	}
	return ""
}
