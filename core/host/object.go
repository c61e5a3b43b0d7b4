package host

import (
	"fmt"
	"slices"
	"sort"

	"scene-mirror/core/schema"
)

var (
	_ Identified = (*Object)(nil)
	_ Creator    = (*Object)(nil)
)

// Object is the in-memory implementation of a live struct.
// The same type backs top-level entities, nested structs and property bags.
type Object struct {
	typ    *schema.Type
	name   string
	uuid   string
	values map[string]any
}

// NewObject creates an empty struct of type t.
func NewObject(t *schema.Type, name string) *Object {
	return &Object{
		typ:    t,
		name:   name,
		values: make(map[string]any),
	}
}

func (o *Object) Type() *schema.Type { return o.typ }
func (o *Object) Name() string       { return o.name }
func (o *Object) UUID() string       { return o.uuid }
func (o *Object) SetUUID(id string)  { o.uuid = id }

// SetName changes the display name. Collections keyed by name must be renamed
// through Document.Rename instead.
func (o *Object) SetName(name string) { o.name = name }

func (o *Object) variant() string {
	if o.typ.Discriminator == "" {
		return ""
	}
	v, ok := o.values[o.typ.Discriminator]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// Properties returns the attributes currently exposed.
func (o *Object) Properties() []*schema.Property {
	if o.typ.Bag {
		keys := make([]string, 0, len(o.values))
		for k := range o.values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		props := make([]*schema.Property, 0, len(keys))
		for _, k := range keys {
			props = append(props, bagProperty(k, o.values[k]))
		}
		return props
	}
	return o.typ.PropertiesFor(o.variant())
}

// Property returns the metadata of an exposed attribute.
func (o *Object) Property(name string) *schema.Property {
	if o.typ.Bag {
		v, ok := o.values[name]
		if !ok {
			return nil
		}
		return bagProperty(name, v)
	}
	return o.typ.PropertyFor(o.variant(), name)
}

// Get returns an attribute value. Declared attributes without a value return (nil, true).
func (o *Object) Get(name string) (any, bool) {
	if o.Property(name) == nil {
		return nil, false
	}
	return o.values[name], true
}

// Set assigns an attribute after checking it is exposed, writable and of the right kind.
func (o *Object) Set(name string, value any) error {
	prop := o.Property(name)
	if prop == nil {
		if !o.typ.Bag {
			return fmt.Errorf("%s.%s: %w", o.typ.Name, name, ErrNoSuchProperty)
		}
		prop = bagProperty(name, value)
	}
	if prop.ReadOnly {
		return fmt.Errorf("%s.%s: %w", o.typ.Name, name, ErrReadOnly)
	}
	normalized, err := normalize(prop, value)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", o.typ.Name, name, err)
	}
	o.store(name, normalized)
	return nil
}

// Init stores a value without any check. It is used while building a graph,
// including for read-only attributes.
func (o *Object) Init(name string, value any) {
	o.store(name, value)
}

func (o *Object) store(name string, value any) {
	if value == nil {
		delete(o.values, name)
		return
	}
	o.values[name] = value
}

// Create instantiates an absent struct-valued attribute.
func (o *Object) Create(name string) error {
	prop := o.Property(name)
	if prop == nil {
		return fmt.Errorf("%s.%s: %w", o.typ.Name, name, ErrNoSuchProperty)
	}
	if prop.FixedType == nil || (prop.Kind != schema.KindPointer && prop.Kind != schema.KindStruct) {
		return fmt.Errorf("%s.%s: cannot create a %s: %w", o.typ.Name, name, prop.Kind, ErrTypeMismatch)
	}
	if o.values[name] != nil {
		return nil
	}
	o.values[name] = NewObject(prop.FixedType, name)
	return nil
}

func bagProperty(name string, value any) *schema.Property {
	p := &schema.Property{Name: name}
	switch v := value.(type) {
	case bool:
		p.Kind = schema.KindBool
	case int, int64:
		p.Kind = schema.KindInt
	case float64:
		p.Kind = schema.KindFloat
	case string:
		p.Kind = schema.KindString
	case Vector:
		p.Kind, p.Components = schema.KindVector, len(v)
	case []float64:
		p.Kind, p.Components = schema.KindVector, len(v)
	case Struct:
		p.Kind, p.FixedType = schema.KindStruct, v.Type()
	default:
		// unknown bag payloads are exposed without a usable kind
		p.Kind = schema.Kind(255)
	}
	return p
}

func normalize(prop *schema.Property, value any) (any, error) {
	if value == nil {
		if prop.Kind == schema.KindPointer || prop.Kind == schema.KindStruct {
			return nil, nil
		}
		return nil, ErrTypeMismatch
	}
	switch prop.Kind {
	case schema.KindBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case schema.KindInt:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		}
	case schema.KindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		}
	case schema.KindString, schema.KindEnum:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case schema.KindVector:
		var vec []float64
		switch v := value.(type) {
		case Vector:
			vec = v
		case []float64:
			vec = v
		default:
			return nil, ErrTypeMismatch
		}
		if prop.Components > 0 && len(vec) != prop.Components {
			return nil, fmt.Errorf("want %d components, got %d: %w", prop.Components, len(vec), ErrTypeMismatch)
		}
		return Vector(slices.Clone(vec)), nil
	case schema.KindMatrix:
		var cols [][]float64
		switch v := value.(type) {
		case Matrix:
			cols = v
		case [][]float64:
			cols = v
		default:
			return nil, ErrTypeMismatch
		}
		out := make(Matrix, len(cols))
		for i, c := range cols {
			out[i] = slices.Clone(c)
		}
		return out, nil
	case schema.KindArray:
		return normalizeArray(prop, value)
	case schema.KindPointer, schema.KindStruct:
		s, ok := value.(Struct)
		if !ok {
			return nil, ErrTypeMismatch
		}
		if prop.FixedType != nil && !s.Type().IsA(prop.FixedType) {
			return nil, fmt.Errorf("%s is not a %s: %w", s.Type(), prop.FixedType, ErrTypeMismatch)
		}
		return s, nil
	}
	return nil, ErrTypeMismatch
}

func normalizeArray(prop *schema.Property, value any) (any, error) {
	var (
		out  any
		n    int
		kind schema.Kind
	)
	switch v := value.(type) {
	case BoolArray:
		out, n, kind = slices.Clone(v), len(v), schema.KindBool
	case []bool:
		out, n, kind = BoolArray(slices.Clone(v)), len(v), schema.KindBool
	case IntArray:
		out, n, kind = slices.Clone(v), len(v), schema.KindInt
	case []int64:
		out, n, kind = IntArray(slices.Clone(v)), len(v), schema.KindInt
	case FloatArray:
		out, n, kind = slices.Clone(v), len(v), schema.KindFloat
	case []float64:
		out, n, kind = FloatArray(slices.Clone(v)), len(v), schema.KindFloat
	default:
		return nil, ErrTypeMismatch
	}
	if kind != prop.ElemKind {
		return nil, fmt.Errorf("want %s items, got %s: %w", prop.ElemKind, kind, ErrTypeMismatch)
	}
	if prop.Components > 0 && n != prop.Components {
		return nil, fmt.Errorf("want %d items, got %d: %w", prop.Components, n, ErrTypeMismatch)
	}
	return out, nil
}
