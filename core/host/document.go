package host

import (
	"fmt"

	"scene-mirror/core/schema"
)

var _ Data = (*Document)(nil)

// Document is an in-memory live graph: one keyed List per top-level collection
// declared in the registry.
type Document struct {
	registry *schema.Registry
	lists    map[string]*List
}

// NewDocument creates an empty document for the registry's collections.
func NewDocument(reg *schema.Registry) *Document {
	d := &Document{
		registry: reg,
		lists:    make(map[string]*List),
	}
	for _, name := range reg.CollectionNames() {
		t, _ := reg.TypeForCollection(name)
		d.lists[name] = NewMapping(t)
	}
	return d
}

// Registry returns the schema the document was built with.
func (d *Document) Registry() *schema.Registry {
	return d.registry
}

func (d *Document) Collection(name string) (Collection, bool) {
	l, ok := d.lists[name]
	if !ok {
		return nil, false
	}
	return l, true
}

func (d *Document) CollectionNames() []string {
	return d.registry.CollectionNames()
}

// List returns the concrete collection stored under name.
func (d *Document) List(name string) (*List, bool) {
	l, ok := d.lists[name]
	return l, ok
}

// New creates an entity named name in a top-level collection.
func (d *Document) New(collection, name string) (*Object, error) {
	l, ok := d.lists[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	o := NewObject(l.elem, name)
	if err := l.Add(name, o); err != nil {
		return nil, fmt.Errorf("collection %s: %w", collection, err)
	}
	return o, nil
}

// Entity returns the entity stored under name in a top-level collection.
func (d *Document) Entity(collection, name string) (*Object, bool) {
	l, ok := d.lists[collection]
	if !ok {
		return nil, false
	}
	return l.Object(name)
}

// Remove deletes an entity from a top-level collection.
func (d *Document) Remove(collection, name string) error {
	l, ok := d.lists[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	if !l.Remove(name) {
		return fmt.Errorf("collection %s: no entity %q", collection, name)
	}
	return nil
}

// Rename changes both the key and the display name of an entity.
func (d *Document) Rename(collection, oldName, newName string) error {
	l, ok := d.lists[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	o, ok := l.Object(oldName)
	if !ok {
		return fmt.Errorf("collection %s: no entity %q", collection, oldName)
	}
	if err := l.Rename(oldName, newName); err != nil {
		return fmt.Errorf("collection %s: %w", collection, err)
	}
	o.SetName(newName)
	return nil
}
