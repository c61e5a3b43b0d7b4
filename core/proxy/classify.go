package proxy

import (
	"scene-mirror/core/host"
	"scene-mirror/core/schema"
)

// LoadAs is the loading strategy of an attribute.
type LoadAs uint8

const (
	// LoadStruct copies the value as a nested structure.
	LoadStruct LoadAs = iota
	// LoadIDRef stores a (collection, name) reference to a top-level entity.
	LoadIDRef
	// LoadIDDef copies a top-level entity at its defining location.
	LoadIDDef
)

func (a LoadAs) String() string {
	switch a {
	case LoadStruct:
		return "STRUCT"
	case LoadIDRef:
		return "ID_REF"
	case LoadIDDef:
		return "ID_DEF"
	}
	return "UNKNOWN"
}

// IdentitySet holds the entities present in the top-level collections when a
// traversal starts. Membership is identity of the live struct.
type IdentitySet map[host.Struct]struct{}

// Contains reports whether s is one of the top-level entities.
func (s IdentitySet) Contains(v host.Struct) bool {
	_, ok := s[v]
	return ok
}

// Classify decides how an attribute is loaded, from its declared metadata, its live
// value and the root identity set. Rules apply in order:
//
//  1. a value that is a top-level entity is a reference;
//  2. a collection is a reference collection when its elements are entities, else structs;
//  3. a pointer is classified by its pointed-to type;
//  4. anything else by its own declared type.
func Classify(reg *schema.Registry, prop *schema.Property, value any, roots IdentitySet) LoadAs {
	if s, ok := value.(host.Struct); ok && roots.Contains(s) {
		return LoadIDRef
	}

	if prop.Kind == schema.KindCollection {
		if reg.IsEntityType(prop.FixedType) {
			return LoadIDRef
		}
		return LoadStruct
	}

	declared := prop.FixedType
	if prop.Kind != schema.KindPointer && declared == nil {
		if s, ok := value.(host.Struct); ok {
			declared = s.Type()
		}
	}
	if reg.IsEntityType(declared) {
		return LoadIDDef
	}
	return LoadStruct
}
