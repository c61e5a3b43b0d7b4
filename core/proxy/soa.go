package proxy

import (
	"fmt"
	"reflect"
	"strconv"

	"scene-mirror/core/host"
	"scene-mirror/core/schema"
)

// SoaElement is one field of a batched collection: a flat buffer holding the
// field of every element, components contiguous. The buffer is a []bool, an
// []int64 or a []float32 of length N, or N × C for C-component vectors.
type SoaElement struct {
	buffer any
}

// NewSoaElement wraps an existing buffer.
func NewSoaElement(buffer any) *SoaElement {
	return &SoaElement{buffer: buffer}
}

func (p *SoaElement) Kind() NodeKind { return KindSoaElement }

// Buffer returns the flat buffer.
func (p *SoaElement) Buffer() any { return p.buffer }

// Len returns the buffer length.
func (p *SoaElement) Len() int {
	if p.buffer == nil {
		return 0
	}
	return reflect.ValueOf(p.buffer).Len()
}

func (p *SoaElement) Equal(other Proxy) bool {
	o, ok := other.(*SoaElement)
	return ok && reflect.DeepEqual(p.buffer, o.buffer)
}

func (p *SoaElement) Save(w *Writer, target any, key Key) {
	w.report(DiagUnimplemented, describe(target), key.String(), "write-back of batched fields")
}

// AosElement stands for a field of a batched collection that cannot be flattened
// into a buffer, such as a variable-length nested collection. Its content is not
// loaded.
type AosElement struct{}

func (p *AosElement) Kind() NodeKind { return KindAosElement }

func (p *AosElement) Equal(other Proxy) bool {
	_, ok := other.(*AosElement)
	return ok
}

func (p *AosElement) Save(w *Writer, target any, key Key) {
	w.report(DiagUnimplemented, describe(target), key.String(), "write-back of array-of-structs fields")
}

// batchable reports whether values of kind can be flattened into a typed buffer.
func batchable(k schema.Kind) bool {
	switch k {
	case schema.KindBool, schema.KindInt, schema.KindFloat, schema.KindVector:
		return true
	}
	return false
}

// newBuffer allocates the buffer for a field of the given kind, holding length
// elements of width components each.
func newBuffer(k schema.Kind, length, width int) any {
	switch k {
	case schema.KindBool:
		return make([]bool, length)
	case schema.KindInt:
		return make([]int64, length)
	default:
		return make([]float32, length*width)
	}
}

// loadBatched loads a non-empty sequence whose element type is batchable. The
// visited fields of the first element decide the layout.
func (l *Loader) loadBatched(c host.Collection) *StructCollectionProxy {
	p := NewBatchedProxy(c.Len(), nil)
	prototype, ok := c.At(0)
	if !ok {
		return p
	}
	for _, prop := range l.filter.Properties(prototype) {
		if !batchable(prop.Kind) {
			l.report(DiagUnimplemented, l.visit.Path(), prop.Name, fmt.Sprintf("array-of-structs field of kind %s", prop.Kind))
			p.fields[prop.Name] = &AosElement{}
			continue
		}
		if e := l.loadSoa(c, prop, prototype); e != nil {
			p.fields[prop.Name] = e
		}
	}
	return p
}

func (l *Loader) loadSoa(c host.Collection, prop *schema.Property, prototype host.Struct) *SoaElement {
	width := 1
	if prop.Kind == schema.KindVector {
		v, _ := prototype.Get(prop.Name)
		vec, ok := v.(host.Vector)
		if !ok {
			l.report(DiagUnsupported, l.visit.Path(), prop.Name, fmt.Sprintf("vector field holding %T", v))
			return nil
		}
		width = len(vec)
	}
	buf := newBuffer(prop.Kind, c.Len(), width)

	if br, ok := c.(host.BatchReader); ok {
		if err := br.ForeachGet(prop.Name, buf); err == nil {
			return &SoaElement{buffer: buf}
		}
	}
	if err := fillBuffer(c, prop.Name, buf, width); err != nil {
		l.report(DiagUnsupported, l.visit.Path(), prop.Name, err.Error())
		return nil
	}
	return &SoaElement{buffer: buf}
}

// fillBuffer reads the field element by element.
func fillBuffer(c host.Collection, attr string, buf any, width int) error {
	for i := 0; i < c.Len(); i++ {
		item, ok := c.At(i)
		if !ok {
			return fmt.Errorf("element %d missing", i)
		}
		v, _ := item.Get(attr)
		if err := store(buf, i, width, v); err != nil {
			return fmt.Errorf("element %s: %w", strconv.Itoa(i), err)
		}
	}
	return nil
}

func store(buf any, i, width int, v any) error {
	switch b := buf.(type) {
	case []bool:
		x, ok := v.(bool)
		if !ok {
			return fmt.Errorf("want bool, got %T", v)
		}
		b[i] = x
	case []int64:
		switch x := v.(type) {
		case int64:
			b[i] = x
		case int:
			b[i] = int64(x)
		default:
			return fmt.Errorf("want int, got %T", v)
		}
	case []float32:
		switch x := v.(type) {
		case float64:
			if width != 1 {
				return fmt.Errorf("want %d components, got a scalar", width)
			}
			b[i] = float32(x)
		case host.Vector:
			if len(x) != width {
				return fmt.Errorf("want %d components, got %d", width, len(x))
			}
			for j, f := range x {
				b[i*width+j] = float32(f)
			}
		default:
			return fmt.Errorf("want float, got %T", v)
		}
	}
	return nil
}
