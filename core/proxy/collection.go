package proxy

import "sort"

// Layout is the storage layout of a StructCollectionProxy.
type Layout uint8

const (
	// LayoutSequence stores one StructProxy per element, in order.
	LayoutSequence Layout = iota
	// LayoutMapping stores one StructProxy per element, by name.
	LayoutMapping
	// LayoutBatched stores one SoaElement or AosElement per field.
	LayoutBatched
)

func (l Layout) String() string {
	switch l {
	case LayoutSequence:
		return "sequence"
	case LayoutMapping:
		return "mapping"
	case LayoutBatched:
		return "batched"
	}
	return "unknown"
}

// StructCollectionProxy is a detached copy of a homogeneous collection of nested
// structs, as an array of structs, a dict of structs or a struct of arrays.
type StructCollectionProxy struct {
	layout Layout
	items  []*StructProxy
	keyed  map[string]*StructProxy
	fields map[string]Proxy
	length int
}

// NewSequenceProxy returns a sequence layout over items.
func NewSequenceProxy(items []*StructProxy) *StructCollectionProxy {
	return &StructCollectionProxy{layout: LayoutSequence, items: items}
}

// NewMappingProxy returns a mapping layout over items.
func NewMappingProxy(items map[string]*StructProxy) *StructCollectionProxy {
	if items == nil {
		items = make(map[string]*StructProxy)
	}
	return &StructCollectionProxy{layout: LayoutMapping, keyed: items}
}

// NewBatchedProxy returns a batched layout of length elements over fields, which
// hold *SoaElement or *AosElement values.
func NewBatchedProxy(length int, fields map[string]Proxy) *StructCollectionProxy {
	if fields == nil {
		fields = make(map[string]Proxy)
	}
	return &StructCollectionProxy{layout: LayoutBatched, fields: fields, length: length}
}

func (p *StructCollectionProxy) Kind() NodeKind { return KindStructCollection }

// Layout returns the layout chosen at load time.
func (p *StructCollectionProxy) Layout() Layout { return p.layout }

// Len returns the number of elements of the live collection.
func (p *StructCollectionProxy) Len() int {
	switch p.layout {
	case LayoutSequence:
		return len(p.items)
	case LayoutMapping:
		return len(p.keyed)
	}
	return p.length
}

// Items returns the elements of a sequence layout.
func (p *StructCollectionProxy) Items() []*StructProxy { return p.items }

// Item returns the element stored under key in a mapping layout.
func (p *StructCollectionProxy) Item(key string) (*StructProxy, bool) {
	v, ok := p.keyed[key]
	return v, ok
}

// Keys returns the element keys of a mapping layout, or the field names of a
// batched layout, sorted.
func (p *StructCollectionProxy) Keys() []string {
	var keys []string
	switch p.layout {
	case LayoutMapping:
		for k := range p.keyed {
			keys = append(keys, k)
		}
	case LayoutBatched:
		for k := range p.fields {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Field returns a batched field.
func (p *StructCollectionProxy) Field(name string) (Proxy, bool) {
	v, ok := p.fields[name]
	return v, ok
}

func (p *StructCollectionProxy) Equal(other Proxy) bool {
	o, ok := other.(*StructCollectionProxy)
	if !ok || p.layout != o.layout {
		return false
	}
	switch p.layout {
	case LayoutSequence:
		if len(p.items) != len(o.items) {
			return false
		}
		for i := range p.items {
			if !p.items[i].Equal(o.items[i]) {
				return false
			}
		}
	case LayoutMapping:
		if len(p.keyed) != len(o.keyed) {
			return false
		}
		for k, v := range p.keyed {
			ov, ok := o.keyed[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
	case LayoutBatched:
		if p.length != o.length || len(p.fields) != len(o.fields) {
			return false
		}
		for k, v := range p.fields {
			ov, ok := o.fields[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
	}
	return true
}

// Save writes every element onto the live collection held by attribute key of
// target, matching sequence elements by index and mapping elements by key.
// Missing elements are not created. Batched layouts are not written back.
func (p *StructCollectionProxy) Save(w *Writer, target any, key Key) {
	if p.layout == LayoutBatched {
		w.report(DiagUnimplemented, describe(target), key.String(), "write-back of batched fields")
		return
	}
	coll, ok := resolveCollection(target, key)
	if !ok {
		w.report(DiagDestinationMissing, describe(target), key.String(), "no collection to write into")
		return
	}
	if p.layout == LayoutSequence {
		for i, item := range p.items {
			w.WriteAttribute(coll, IndexKey(i), item)
		}
		return
	}
	for _, k := range p.Keys() {
		w.WriteAttribute(coll, NameKey(k), p.keyed[k])
	}
}
