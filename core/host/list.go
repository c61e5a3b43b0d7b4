package host

import (
	"fmt"
	"slices"

	"scene-mirror/core/schema"
)

var (
	_ Collection  = (*List)(nil)
	_ BatchReader = (*List)(nil)
)

// List is the in-memory implementation of a live collection.
// A keyed list behaves as a name → struct mapping, an unkeyed one as a sequence.
type List struct {
	elem  *schema.Type
	items []*Object
	keys  []string
	index map[string]int
	keyed bool
}

// NewSequence creates an unkeyed collection of elem structs.
func NewSequence(elem *schema.Type) *List {
	return &List{elem: elem}
}

// NewMapping creates a name-keyed collection of elem structs.
func NewMapping(elem *schema.Type) *List {
	return &List{elem: elem, keyed: true, index: make(map[string]int)}
}

func (l *List) ElementType() *schema.Type { return l.elem }
func (l *List) Len() int                  { return len(l.items) }

// Keys returns the item names, or nil for sequences.
func (l *List) Keys() []string {
	if !l.keyed {
		return nil
	}
	return append([]string{}, l.keys...)
}

func (l *List) At(i int) (Struct, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

func (l *List) Lookup(key string) (Struct, bool) {
	o, ok := l.Object(key)
	if !ok {
		return nil, false
	}
	return o, true
}

// Object returns the concrete item stored under key.
func (l *List) Object(key string) (*Object, bool) {
	if !l.keyed {
		return nil, false
	}
	i, ok := l.index[key]
	if !ok {
		return nil, false
	}
	return l.items[i], true
}

// Objects returns the items in order.
func (l *List) Objects() []*Object {
	return slices.Clone(l.items)
}

// Append adds an item at the end of a sequence.
func (l *List) Append(o *Object) error {
	if l.keyed {
		return fmt.Errorf("append to keyed collection of %s: use Add", l.elem)
	}
	l.items = append(l.items, o)
	return nil
}

// Add inserts an item under key in a mapping.
func (l *List) Add(key string, o *Object) error {
	if !l.keyed {
		return fmt.Errorf("add %q to sequence of %s: use Append", key, l.elem)
	}
	if _, exists := l.index[key]; exists {
		return fmt.Errorf("add %q: key already present", key)
	}
	l.index[key] = len(l.items)
	l.items = append(l.items, o)
	l.keys = append(l.keys, key)
	return nil
}

// Remove deletes the item stored under key.
func (l *List) Remove(key string) bool {
	i, ok := l.index[key]
	if !ok {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	l.keys = slices.Delete(l.keys, i, i+1)
	delete(l.index, key)
	for j := i; j < len(l.keys); j++ {
		l.index[l.keys[j]] = j
	}
	return true
}

// Rename moves an item to a new key, keeping its position.
func (l *List) Rename(oldKey, newKey string) error {
	i, ok := l.index[oldKey]
	if !ok {
		return fmt.Errorf("rename %q: no such key", oldKey)
	}
	if _, exists := l.index[newKey]; exists {
		return fmt.Errorf("rename %q to %q: key already present", oldKey, newKey)
	}
	delete(l.index, oldKey)
	l.index[newKey] = i
	l.keys[i] = newKey
	return nil
}

// ForeachGet copies attr of every element into buf, which must be a []bool,
// []int64 or []float32 sized Len() times the attribute width.
func (l *List) ForeachGet(attr string, buf any) error {
	switch b := buf.(type) {
	case []bool:
		if len(b) != len(l.items) {
			return fmt.Errorf("foreach_get %s: buffer length %d, want %d", attr, len(b), len(l.items))
		}
		for i, item := range l.items {
			v, ok := item.values[attr].(bool)
			if !ok {
				return fmt.Errorf("foreach_get %s[%d]: %w", attr, i, ErrTypeMismatch)
			}
			b[i] = v
		}
	case []int64:
		if len(b) != len(l.items) {
			return fmt.Errorf("foreach_get %s: buffer length %d, want %d", attr, len(b), len(l.items))
		}
		for i, item := range l.items {
			v, ok := item.values[attr].(int64)
			if !ok {
				return fmt.Errorf("foreach_get %s[%d]: %w", attr, i, ErrTypeMismatch)
			}
			b[i] = v
		}
	case []float32:
		if len(l.items) == 0 {
			return nil
		}
		width := len(b) / len(l.items)
		if width*len(l.items) != len(b) {
			return fmt.Errorf("foreach_get %s: buffer length %d not a multiple of %d", attr, len(b), len(l.items))
		}
		for i, item := range l.items {
			switch v := item.values[attr].(type) {
			case float64:
				if width != 1 {
					return fmt.Errorf("foreach_get %s[%d]: scalar into width %d: %w", attr, i, width, ErrTypeMismatch)
				}
				b[i] = float32(v)
			case Vector:
				if len(v) != width {
					return fmt.Errorf("foreach_get %s[%d]: width %d, want %d: %w", attr, i, len(v), width, ErrTypeMismatch)
				}
				for j, c := range v {
					b[i*width+j] = float32(c)
				}
			default:
				return fmt.Errorf("foreach_get %s[%d]: %w", attr, i, ErrTypeMismatch)
			}
		}
	default:
		return fmt.Errorf("foreach_get %s: unsupported buffer %T", attr, buf)
	}
	return nil
}
