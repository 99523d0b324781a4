package boardcfg

import "slices"

// RegistryEntry is anything a Registry can index: it has a declared name, a
// host field id and a host internal field name.
type RegistryEntry interface {
	Name() string
	FieldID() int64
	HostName() string
}

// Registry indexes field entries three ways, by declared name, host id and
// host name, all O(1). It is built once and never modified.
type Registry[T RegistryEntry] struct {
	entries    []T
	byName     map[string]T
	byID       map[int64]T
	byHostName map[string]T
}

// NewRegistry builds a registry over entries, which keep their order.
// Callers are expected to have rejected duplicate names and ids already;
// on a duplicate the later entry wins.
func NewRegistry[T RegistryEntry](entries []T) *Registry[T] {
	r := &Registry[T]{
		entries:    slices.Clone(entries),
		byName:     make(map[string]T, len(entries)),
		byID:       make(map[int64]T, len(entries)),
		byHostName: make(map[string]T, len(entries)),
	}
	for _, e := range entries {
		r.byName[e.Name()] = e
		r.byID[e.FieldID()] = e
		r.byHostName[e.HostName()] = e
	}
	return r
}

// Len returns the number of entries. A nil registry is empty.
func (r *Registry[T]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// ByName looks an entry up by its declared name.
func (r *Registry[T]) ByName(name string) (T, bool) {
	if r == nil {
		var zero T
		return zero, false
	}
	e, ok := r.byName[name]
	return e, ok
}

// ByID looks an entry up by host field id.
func (r *Registry[T]) ByID(id int64) (T, bool) {
	if r == nil {
		var zero T
		return zero, false
	}
	e, ok := r.byID[id]
	return e, ok
}

// ByHostName looks an entry up by host internal field name.
func (r *Registry[T]) ByHostName(name string) (T, bool) {
	if r == nil {
		var zero T
		return zero, false
	}
	e, ok := r.byHostName[name]
	return e, ok
}

// All returns the entries in declaration order.
func (r *Registry[T]) All() []T {
	if r == nil {
		return nil
	}
	return slices.Clone(r.entries)
}
