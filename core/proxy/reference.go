package proxy

import (
	"errors"

	"scene-mirror/core/host"
)

// ReferenceProxy points at a top-level entity by collection name and key. It holds
// no copy of the entity and is resolved when saved.
type ReferenceProxy struct {
	Collection string
	Key        string
}

func (p *ReferenceProxy) Kind() NodeKind { return KindReference }

func (p *ReferenceProxy) Equal(other Proxy) bool {
	o, ok := other.(*ReferenceProxy)
	return ok && *p == *o
}

// Resolve looks the referenced entity up in data.
func (p *ReferenceProxy) Resolve(data host.Data) (host.Struct, bool) {
	c, ok := data.Collection(p.Collection)
	if !ok {
		return nil, false
	}
	return c.Lookup(p.Key)
}

// Save assigns the referenced live entity to attribute key of target.
// References held in collection slots are not written.
func (p *ReferenceProxy) Save(w *Writer, target any, key Key) {
	if _, ok := target.(host.Collection); ok {
		w.report(DiagUnimplemented, describe(target), key.String(), "reference into a collection slot")
		return
	}
	s, ok := target.(host.Struct)
	if !ok || key.IsIndex() {
		w.report(DiagDestinationMissing, describe(target), key.String(), "no attribute to assign")
		return
	}
	prop := s.Property(key.Name)
	if prop == nil && !s.Type().Bag {
		w.report(DiagDestinationMissing, describe(target), key.Name, "no such attribute")
		return
	}
	if prop != nil && prop.ReadOnly {
		w.report(DiagReadOnly, describe(target), key.Name, "read-only attribute")
		return
	}
	entity, ok := w.entity(p.Collection, p.Key)
	if !ok {
		w.report(DiagDestinationMissing, describe(target), key.Name, "unresolved reference "+p.Collection+"/"+p.Key)
		return
	}
	if err := s.Set(key.Name, entity); err != nil {
		kind := DiagWriteFailed
		if errors.Is(err, host.ErrReadOnly) {
			kind = DiagReadOnly
		}
		w.report(kind, describe(target), key.Name, err.Error())
	}
}
