package proxy

import (
	"sort"
)

// DataCollectionProxy maps entity names to *EntityProxy values when it is a
// top-level collection, or to *ReferenceProxy values when it is a collection of
// entities found elsewhere in the graph.
type DataCollectionProxy struct {
	items map[string]Proxy
}

// NewDataCollectionProxy returns an empty collection proxy.
func NewDataCollectionProxy() *DataCollectionProxy {
	return &DataCollectionProxy{items: make(map[string]Proxy)}
}

func (p *DataCollectionProxy) Kind() NodeKind { return KindDataCollection }

// Len returns the number of items.
func (p *DataCollectionProxy) Len() int { return len(p.items) }

// Keys returns the item names, sorted.
func (p *DataCollectionProxy) Keys() []string {
	keys := make([]string, 0, len(p.items))
	for k := range p.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Find returns the item stored under key.
func (p *DataCollectionProxy) Find(key string) (Proxy, bool) {
	v, ok := p.items[key]
	return v, ok
}

// Entity returns the owned entity stored under key.
func (p *DataCollectionProxy) Entity(key string) (*EntityProxy, bool) {
	e, ok := p.items[key].(*EntityProxy)
	return e, ok
}

// Put stores an item under key.
func (p *DataCollectionProxy) Put(key string, item Proxy) {
	p.items[key] = item
}

func (p *DataCollectionProxy) Equal(other Proxy) bool {
	o, ok := other.(*DataCollectionProxy)
	if !ok || len(p.items) != len(o.items) {
		return false
	}
	for k, v := range p.items {
		ov, ok := o.items[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Save writes every item onto the live collection held by attribute key of target.
func (p *DataCollectionProxy) Save(w *Writer, target any, key Key) {
	coll, ok := resolveCollection(target, key)
	if !ok {
		w.report(DiagDestinationMissing, describe(target), key.String(), "no collection to write into")
		return
	}
	p.saveInto(w, coll)
}

func (p *DataCollectionProxy) saveInto(w *Writer, coll any) {
	for _, k := range p.Keys() {
		w.WriteAttribute(coll, NameKey(k), p.items[k])
	}
}

// Update applies one collection delta, in order: added entities are loaded
// fresh, removed ones deleted, renamed ones moved under their new key, and
// updated ones patched in place. Unknown keys are reported and skipped.
func (p *DataCollectionProxy) Update(l *Loader, d *CollectionDelta) error {
	path := l.Visit().Path()
	for _, name := range d.AddedNames() {
		leave, err := l.visit.Enter(name, d.Added[name])
		if err != nil {
			return err
		}
		e, err := l.loadEntity(d.Added[name])
		leave()
		if err != nil {
			return err
		}
		p.items[name] = e
	}
	for _, name := range d.Removed {
		if _, ok := p.items[name]; !ok {
			l.report(DiagDestinationMissing, path, name, "removed item not present")
			continue
		}
		delete(p.items, name)
	}
	for _, r := range d.Renamed {
		item, ok := p.items[r.Old]
		if !ok {
			l.report(DiagDestinationMissing, path, r.Old, "renamed item not present")
			continue
		}
		delete(p.items, r.Old)
		p.items[r.New] = item
	}
	for _, u := range d.Updated {
		target, ok := asStruct(p.items[u.Key])
		if !ok {
			l.report(DiagDestinationMissing, path, u.Key, "updated item not present")
			continue
		}
		u.Delta.Apply(target, func(attr, reason string) {
			l.report(DiagDestinationMissing, path+"."+u.Key, attr, reason)
		})
	}
	return nil
}
