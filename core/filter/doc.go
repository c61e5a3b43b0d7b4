// Package filter provides the filtering context of a traversal.
//
// A Context answers two questions for the proxy engine: which top-level
// collections make up the root, and which attributes of a given live struct are
// visited. It is a pure input built from configuration; the default context
// visits everything the schema declares.
//
// # Exclusions
//
//   - Properties: bare names apply to every type, "Type.name" entries to a type
//     and its subtypes.
//   - Types: attributes of an excluded type are never visited, and attributes
//     pointing at an excluded type are dropped.
//   - Collections: excluded top-level collections are absent from the root.
package filter
