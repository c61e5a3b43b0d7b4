package proxy

import (
	"errors"
	"fmt"

	"scene-mirror/core/host"

	"go.uber.org/zap"
)

// Writer writes proxy nodes back onto a live graph. References are resolved
// against the writer's top-level collections.
//
// Every failure is recorded as a diagnostic; no write method returns an error.
type Writer struct {
	recorder
	data host.Data
}

// NewWriter creates a writer targeting data.
func NewWriter(data host.Data, log *zap.Logger, opts ...Option) *Writer {
	o := buildOptions(opts)
	return &Writer{
		recorder: newRecorder(log, o.hook),
		data:     data,
	}
}

// Data returns the live graph the writer targets.
func (w *Writer) Data() host.Data { return w.data }

// WriteAttribute writes value under key in target. Proxy nodes save themselves;
// plain values are assigned to the attribute, unless it is read-only.
func (w *Writer) WriteAttribute(target any, key Key, value any) {
	if p, ok := value.(Proxy); ok {
		p.Save(w, target, key)
		return
	}

	s, ok := target.(host.Struct)
	if !ok || key.IsIndex() {
		w.report(DiagUnsupported, describe(target), key.String(), "plain value into a collection slot")
		return
	}
	if prop := s.Property(key.Name); prop != nil && prop.ReadOnly {
		w.report(DiagReadOnly, describe(target), key.Name, "read-only attribute")
		return
	}
	if err := s.Set(key.Name, value); err != nil {
		kind := DiagWriteFailed
		if errors.Is(err, host.ErrReadOnly) {
			kind = DiagReadOnly
		}
		w.report(kind, describe(target), key.Name, err.Error())
	}
}

// entity resolves a top-level entity by collection name and key.
func (w *Writer) entity(collection, key string) (host.Struct, bool) {
	c, ok := w.data.Collection(collection)
	if !ok {
		return nil, false
	}
	return c.Lookup(key)
}

// resolve finds the live struct stored under key in target: an element for
// collections, an attribute value for structs.
func resolve(target any, key Key) (host.Struct, bool) {
	switch t := target.(type) {
	case host.Collection:
		if key.IsIndex() {
			return t.At(key.Index)
		}
		return t.Lookup(key.Name)
	case host.Struct:
		if key.IsIndex() {
			return nil, false
		}
		v, ok := t.Get(key.Name)
		if !ok {
			return nil, false
		}
		s, ok := v.(host.Struct)
		return s, ok && s != nil
	}
	return nil, false
}

// resolveCollection finds the live collection held by attribute key of target.
func resolveCollection(target any, key Key) (host.Collection, bool) {
	s, ok := target.(host.Struct)
	if !ok || key.IsIndex() {
		return nil, false
	}
	v, ok := s.Get(key.Name)
	if !ok {
		return nil, false
	}
	c, ok := v.(host.Collection)
	return c, ok && c != nil
}

func describe(target any) string {
	switch t := target.(type) {
	case host.Identified:
		return t.Type().Name + "[" + t.Name() + "]"
	case host.Struct:
		return t.Type().Name
	case host.Collection:
		return fmt.Sprintf("collection of %s", t.ElementType())
	case nil:
		return "<nil>"
	}
	return fmt.Sprintf("%T", target)
}
