package host

import (
	"errors"

	"scene-mirror/core/schema"
)

var (
	// ErrNoSuchProperty is returned when writing an attribute the struct does not expose.
	ErrNoSuchProperty = errors.New("no such property")
	// ErrReadOnly is returned when writing a read-only attribute.
	ErrReadOnly = errors.New("property is read-only")
	// ErrTypeMismatch is returned when a value does not fit the declared kind.
	ErrTypeMismatch = errors.New("value does not match property kind")
)

// Struct is a live struct-like value of the host.
type Struct interface {
	// Type returns the declared type.
	Type() *schema.Type
	// Properties returns the attributes currently exposed, which may depend on a
	// discriminator value or, for property bags, on the stored keys.
	Properties() []*schema.Property
	// Property returns the metadata of a currently exposed attribute, or nil.
	Property(name string) *schema.Property
	// Get returns the live value of an attribute.
	Get(name string) (any, bool)
	// Set assigns an attribute.
	Set(name string, value any) error
}

// Identified is a top-level entity carrying a display name and a stable identifier.
type Identified interface {
	Struct
	Name() string
	UUID() string
	SetUUID(id string)
}

// Creator is implemented by structs that can create absent sub-structs on demand.
type Creator interface {
	Create(name string) error
}

// Collection is a homogeneous live collection of structs.
type Collection interface {
	ElementType() *schema.Type
	Len() int
	// Keys returns the item names in order, or nil when the collection is a plain sequence.
	Keys() []string
	At(i int) (Struct, bool)
	Lookup(key string) (Struct, bool)
}

// BatchReader is implemented by collections that can copy one field of every
// element into a flat buffer. buf is a []bool, []int64 or []float32.
type BatchReader interface {
	ForeachGet(attr string, buf any) error
}

// Data is the root of a live graph: the named top-level collections.
type Data interface {
	Collection(name string) (Collection, bool)
	CollectionNames() []string
}

// Vector is a fixed-width float vector (location, color, quaternion).
type Vector []float64

// Matrix is a square matrix stored as columns.
type Matrix [][]float64

// BoolArray is a fixed-size array of booleans.
type BoolArray []bool

// IntArray is a fixed-size array of integers.
type IntArray []int64

// FloatArray is a fixed-size array of floats.
type FloatArray []float64
