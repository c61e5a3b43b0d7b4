package schema

import "fmt"

// Kind is the declared kind of a property.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindEnum
	KindVector
	KindMatrix
	KindArray
	KindPointer
	KindCollection
	KindStruct
)

var kindNames = [...]string{
	KindBool:       "bool",
	KindInt:        "int",
	KindFloat:      "float",
	KindString:     "string",
	KindEnum:       "enum",
	KindVector:     "vector",
	KindMatrix:     "matrix",
	KindArray:      "array",
	KindPointer:    "pointer",
	KindCollection: "collection",
	KindStruct:     "struct",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsScalar reports whether values of this kind are plain builtin values.
func (k Kind) IsScalar() bool {
	switch k {
	case KindBool, KindInt, KindFloat, KindString, KindEnum:
		return true
	default:
		return false
	}
}

// Property describes one attribute of a struct type.
type Property struct {
	// Name is the attribute name.
	Name string
	// Kind is the declared kind.
	Kind Kind
	// FixedType is the pointed-to type (KindPointer), the element type (KindCollection)
	// or the nested type (KindStruct). Nil for other kinds.
	FixedType *Type
	// ElemKind is the scalar kind of KindArray elements.
	ElemKind Kind
	// Components is the width of a vector, or the length of a fixed array.
	Components int
	// ReadOnly marks attributes that cannot be assigned.
	ReadOnly bool
}

// Gate is an attribute that must be written before the rest of an entity.
type Gate struct {
	// Property is the gating attribute name.
	Property string
	// Reresolve is set when writing the gate may replace the live object,
	// so the destination must be looked up again before the bulk write.
	Reresolve bool
}

// Type describes a struct type of the host.
type Type struct {
	Name string
	Base *Type
	// Properties are the attributes declared by this type, not including the base chain.
	Properties []*Property
	// Bag marks loose property bags whose attributes are not declared statically.
	Bag bool
	// Batchable marks element types of fixed-layout collections that can be
	// loaded as one buffer per field.
	Batchable bool
	// Gates are written, in order, before the bulk of the attributes.
	Gates []Gate
	// Creates lists struct attributes that are absent until explicitly created.
	Creates []string
	// Discriminator names the attribute whose value selects a variant.
	Discriminator string
	// Variants maps a discriminator value to the extra attributes it exposes.
	Variants map[string][]*Property
}

// IsA reports whether t is other or derives from it.
func (t *Type) IsA(other *Type) bool {
	for cur := t; cur != nil; cur = cur.Base {
		if cur == other {
			return true
		}
	}
	return false
}

// AllProperties returns the base chain properties followed by the own ones.
func (t *Type) AllProperties() []*Property {
	if t == nil {
		return nil
	}
	var chain []*Type
	for cur := t; cur != nil; cur = cur.Base {
		chain = append(chain, cur)
	}
	var props []*Property
	for i := len(chain) - 1; i >= 0; i-- {
		props = append(props, chain[i].Properties...)
	}
	return props
}

// PropertiesFor returns the attributes exposed when the discriminator equals variant.
func (t *Type) PropertiesFor(variant string) []*Property {
	props := t.AllProperties()
	if t.Discriminator == "" {
		return props
	}
	return append(props, t.Variants[variant]...)
}

// Property finds a statically declared attribute on t or its bases.
func (t *Type) Property(name string) *Property {
	for cur := t; cur != nil; cur = cur.Base {
		for _, p := range cur.Properties {
			if p.Name == name {
				return p
			}
		}
	}
	return nil
}

// PropertyFor finds an attribute, including those of the given variant.
func (t *Type) PropertyFor(variant, name string) *Property {
	if p := t.Property(name); p != nil {
		return p
	}
	for _, p := range t.Variants[variant] {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}
