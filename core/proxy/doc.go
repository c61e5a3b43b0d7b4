// Package proxy mirrors a live, typed and possibly cyclic object graph into a
// detached proxy tree, writes proxy trees back onto live graphs, and applies
// incremental deltas to them.
//
// The traversal is driven by the type metadata of package schema only. Every
// attribute is classified (Classify) into one of three strategies: a nested
// struct copy, an owned copy of a top-level entity, or a reference to a
// top-level entity. Any attribute whose value is one of the entities present in
// the top-level collections when the traversal starts becomes a reference, which
// keeps the proxy tree acyclic.
//
// # Variants
//
//   - Root: one DataCollectionProxy per top-level collection.
//   - DataCollectionProxy: entity name to EntityProxy (owned) or ReferenceProxy.
//   - EntityProxy: a StructProxy plus the entity identifier.
//   - StructProxy: attribute name to loaded value.
//   - ReferenceProxy: (collection, key), resolved when saved.
//   - StructCollectionProxy: a collection of nested structs, as a sequence, a
//     mapping, or batched as one SoaElement buffer per field.
//   - SoaElement, AosElement: fields of a batched collection.
//
// # Failures
//
// Anomalies of the live graph (unsupported metadata, read-only or missing
// destinations, dangling references) are logged and recorded as Diagnostic
// values on the Loader or Writer; they never abort a pass. Only two errors do:
// ErrCycleOverflow, when the visit stack exceeds its depth threshold, and
// ErrUnreachable.
//
// # Known gaps
//
// Batched fields are not written back, array-of-structs fields of batched
// collections are not loaded, and references are not written into collection
// slots. Each is reported as DiagUnimplemented.
//
// # Usage
//
//	loader := proxy.NewLoader(doc, filter.Default(reg), log)
//	root := proxy.NewRoot()
//	if err := root.Load(loader); err != nil {
//	    return err
//	}
//
//	writer := proxy.NewWriter(other, log)
//	root.Save(writer, other, proxy.Key{})
package proxy
