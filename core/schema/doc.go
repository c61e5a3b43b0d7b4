// Package schema describes the type metadata of a live host object graph.
//
// The proxy engine never inspects Go types of live objects to decide how to load them.
// It relies on the metadata declared here: every attribute of a live struct is described by
// a Property (declared kind, element or pointed-to type, read-only flag) and every struct
// by a Type (its properties, base type and write-ordering hints).
//
// # Entity types
//
// A Registry owns a root type named "ID". Types whose base chain reaches that root are
// top-level entity types: instances live in one of the registry's named collections
// (scenes, objects, meshes...) and are referenced by (collection, name) elsewhere.
//
// # Write ordering
//
// Some live types only expose dependent attributes once another attribute is set, for
// instance a light only has a spot size after its type is switched to SPOT. Such types
// declare Gates (attributes written first) and Creates (sub-structs created on demand)
// so that the writer can perform an ordered two-phase write.
//
// # Usage
//
//	reg := schema.Builtin()
//	light, _ := reg.Lookup("Light")
//	prop := light.PropertyFor("SPOT", "spot_size")
package schema
