package proxy

import (
	"fmt"
	"sort"

	"scene-mirror/core/host"
)

// Root is the root of a proxy tree: one owned DataCollectionProxy per visited
// top-level collection. It is not safe for concurrent use.
type Root struct {
	collections map[string]*DataCollectionProxy
}

// NewRoot returns an empty root.
func NewRoot() *Root {
	return &Root{collections: make(map[string]*DataCollectionProxy)}
}

func (r *Root) Kind() NodeKind { return KindRoot }

// Load replaces the content of the root with a full traversal of the loader's
// live graph. On error the root is left unchanged.
func (r *Root) Load(l *Loader) error {
	visit := l.Begin()
	loaded := make(map[string]*DataCollectionProxy)
	for _, name := range l.filter.Collections() {
		coll, ok := l.data.Collection(name)
		if !ok {
			continue
		}
		leave, err := visit.Enter(name, coll)
		if err != nil {
			return err
		}
		p, err := l.loadEntities(coll)
		leave()
		if err != nil {
			return fmt.Errorf("failed to load collection %s: %w", name, err)
		}
		loaded[name] = p
	}
	r.collections = loaded
	return nil
}

// Update applies delta to the collections of the root, in a new traversal
// episode. Entries for collections the root does not hold are ignored.
func (r *Root) Update(l *Loader, delta *Delta) error {
	if delta == nil {
		return nil
	}
	visit := l.Begin()
	for _, name := range r.Names() {
		cd, ok := delta.Collections[name]
		if !ok || cd == nil {
			continue
		}
		leave, err := visit.Enter(name, nil)
		if err != nil {
			return err
		}
		err = r.collections[name].Update(l, cd)
		leave()
		if err != nil {
			return fmt.Errorf("failed to update collection %s: %w", name, err)
		}
	}
	return nil
}

// Collection returns the proxy of a top-level collection.
func (r *Root) Collection(name string) (*DataCollectionProxy, bool) {
	c, ok := r.collections[name]
	return c, ok
}

// Put stores the proxy of a top-level collection.
func (r *Root) Put(name string, c *DataCollectionProxy) {
	r.collections[name] = c
}

// Names returns the collection names, sorted.
func (r *Root) Names() []string {
	names := make([]string, 0, len(r.collections))
	for k := range r.collections {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Find returns the entity stored under key in a top-level collection.
func (r *Root) Find(collection, key string) (*EntityProxy, bool) {
	c, ok := r.collections[collection]
	if !ok {
		return nil, false
	}
	return c.Entity(key)
}

// NonEmptyCollections returns the collections holding at least one entity.
func (r *Root) NonEmptyCollections() map[string]*DataCollectionProxy {
	out := make(map[string]*DataCollectionProxy)
	for k, c := range r.collections {
		if c.Len() > 0 {
			out[k] = c
		}
	}
	return out
}

// Clear drops every collection.
func (r *Root) Clear() {
	r.collections = make(map[string]*DataCollectionProxy)
}

func (r *Root) Equal(other Proxy) bool {
	o, ok := other.(*Root)
	if !ok || len(r.collections) != len(o.collections) {
		return false
	}
	for k, c := range r.collections {
		oc, ok := o.collections[k]
		if !ok || !c.Equal(oc) {
			return false
		}
	}
	return true
}

// Save writes every entity onto the matching entity of target, a host.Data, or
// of the writer's live graph when target is not one. Entities are matched by
// name and never created.
func (r *Root) Save(w *Writer, target any, _ Key) {
	data, ok := target.(host.Data)
	if !ok {
		data = w.data
	}
	for _, name := range r.Names() {
		coll, ok := data.Collection(name)
		if !ok {
			w.report(DiagDestinationMissing, "root", name, "no such top-level collection")
			continue
		}
		r.collections[name].saveInto(w, coll)
	}
}
