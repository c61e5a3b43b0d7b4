package proxy

import (
	"reflect"
	"sort"

	"scene-mirror/core/host"
)

// StructProxy is a detached copy of a nested struct: attribute name to loaded
// value. A value is a builtin scalar, a plain slice or a Proxy; absent values are
// never stored.
type StructProxy struct {
	data map[string]any
}

// NewStructProxy returns an empty struct proxy.
func NewStructProxy() *StructProxy {
	return &StructProxy{data: make(map[string]any)}
}

func (p *StructProxy) Kind() NodeKind { return KindStruct }

// Len returns the number of stored attributes.
func (p *StructProxy) Len() int { return len(p.data) }

// Get returns a stored attribute.
func (p *StructProxy) Get(name string) (any, bool) {
	v, ok := p.data[name]
	return v, ok
}

// Set stores an attribute. A nil value removes it.
func (p *StructProxy) Set(name string, value any) {
	if value == nil {
		delete(p.data, name)
		return
	}
	p.data[name] = value
}

// Names returns the stored attribute names, sorted.
func (p *StructProxy) Names() []string {
	names := make([]string, 0, len(p.data))
	for k := range p.data {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (p *StructProxy) Equal(other Proxy) bool {
	o, ok := other.(*StructProxy)
	return ok && p.sameData(o)
}

func (p *StructProxy) sameData(o *StructProxy) bool {
	if len(p.data) != len(o.data) {
		return false
	}
	for k, v := range p.data {
		ov, ok := o.data[k]
		if !ok || !ValuesEqual(v, ov) {
			return false
		}
	}
	return true
}

// Save writes every stored attribute onto the struct found under key in target.
func (p *StructProxy) Save(w *Writer, target any, key Key) {
	dest, ok := resolve(target, key)
	if !ok {
		w.report(DiagDestinationMissing, describe(target), key.String(), "no struct to write into")
		return
	}
	p.writeAll(w, dest)
}

func (p *StructProxy) writeAll(w *Writer, dest host.Struct) {
	for _, name := range p.Names() {
		w.WriteAttribute(dest, NameKey(name), p.data[name])
	}
}

// EntityProxy is a detached copy of a top-level entity, at its defining location.
// The identifier is carried along but is not part of equality.
type EntityProxy struct {
	StructProxy
	uuid string
}

// NewEntityProxy returns an empty entity proxy with the given identifier.
func NewEntityProxy(uuid string) *EntityProxy {
	return &EntityProxy{StructProxy: StructProxy{data: make(map[string]any)}, uuid: uuid}
}

func (p *EntityProxy) Kind() NodeKind { return KindEntity }

// UUID returns the identifier of the live entity the proxy was loaded from.
func (p *EntityProxy) UUID() string { return p.uuid }

func (p *EntityProxy) Equal(other Proxy) bool {
	o, ok := other.(*EntityProxy)
	return ok && p.sameData(&o.StructProxy)
}

// Save writes the entity in two phases. Gating attributes of the destination
// type are written first, and absent sub-structs it carries are created, since
// the live object only exposes dependent attributes afterwards. Then every
// attribute is written.
func (p *EntityProxy) Save(w *Writer, target any, key Key) {
	dest, ok := resolve(target, key)
	if !ok {
		w.report(DiagDestinationMissing, describe(target), key.String(), "no entity to write into")
		return
	}
	dest, ok = p.preSave(w, target, key, dest)
	if !ok {
		w.report(DiagDestinationMissing, describe(target), key.String(), "entity vanished after its gating write")
		return
	}
	p.writeAll(w, dest)
}

func (p *EntityProxy) preSave(w *Writer, target any, key Key, dest host.Struct) (host.Struct, bool) {
	t := dest.Type()
	for _, g := range t.Gates {
		want, ok := p.data[g.Property]
		if !ok {
			continue
		}
		if current, _ := dest.Get(g.Property); ValuesEqual(want, current) {
			continue
		}
		w.WriteAttribute(dest, NameKey(g.Property), want)
		if g.Reresolve {
			var found bool
			if dest, found = resolve(target, key); !found {
				return nil, false
			}
		}
	}

	for _, name := range t.Creates {
		if _, carried := p.data[name]; !carried {
			continue
		}
		if current, _ := dest.Get(name); !isNil(current) {
			continue
		}
		c, ok := dest.(host.Creator)
		if !ok {
			w.report(DiagUnsupported, describe(dest), name, "destination cannot create sub-structs")
			continue
		}
		if err := c.Create(name); err != nil {
			w.report(DiagWriteFailed, describe(dest), name, err.Error())
		}
	}
	return dest, true
}

// ValuesEqual compares two loaded values: proxies structurally, everything else deeply.
func ValuesEqual(a, b any) bool {
	if pa, ok := a.(Proxy); ok {
		pb, ok := b.(Proxy)
		return ok && pa.Equal(pb)
	}
	if _, ok := b.(Proxy); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
