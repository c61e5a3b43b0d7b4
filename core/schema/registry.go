package schema

import (
	"fmt"
	"sort"
)

// IDTypeName is the name of the root entity type.
const IDTypeName = "ID"

// Registry holds the known types and the top-level collections of a host.
type Registry struct {
	id          *Type
	types       map[string]*Type
	collections map[string]*Type
	byType      map[*Type]string
}

// NewRegistry creates a registry containing only the ID root type.
func NewRegistry() *Registry {
	id := &Type{Name: IDTypeName}
	return &Registry{
		id:          id,
		types:       map[string]*Type{IDTypeName: id},
		collections: make(map[string]*Type),
		byType:      make(map[*Type]string),
	}
}

// ID returns the root entity type.
func (r *Registry) ID() *Type {
	return r.id
}

// Define registers t. Defining the same name twice replaces the previous type.
func (r *Registry) Define(t *Type) *Type {
	r.types[t.Name] = t
	return t
}

// Lookup returns the type with the given name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// MapCollection declares a top-level collection holding entities of type t.
// t must be a direct child of the ID root.
func (r *Registry) MapCollection(name string, t *Type) error {
	if t.Base != r.id {
		return fmt.Errorf("collection %s: type %s is not a direct ID subtype", name, t.Name)
	}
	r.collections[name] = t
	r.byType[t] = name
	return nil
}

// CollectionNames returns the top-level collection names, sorted.
func (r *Registry) CollectionNames() []string {
	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeForCollection returns the entity type stored in a top-level collection.
func (r *Registry) TypeForCollection(name string) (*Type, bool) {
	t, ok := r.collections[name]
	return t, ok
}

// CollectionFor returns the top-level collection holding entities of type t.
// It walks up the base chain to the direct child of ID.
func (r *Registry) CollectionFor(t *Type) (string, bool) {
	cur := t
	for cur != nil && cur.Base != nil && cur.Base != r.id {
		cur = cur.Base
	}
	if cur == nil || cur.Base != r.id {
		return "", false
	}
	name, ok := r.byType[cur]
	return name, ok
}

// IsEntityType reports whether t is the ID root or derives from it.
func (r *Registry) IsEntityType(t *Type) bool {
	return t != nil && t.IsA(r.id)
}
