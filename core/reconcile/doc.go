// Package reconcile compares a proxy tree with the live graph it mirrors and
// produces the delta that brings the tree up to date.
//
// The engine works one top-level collection at a time:
//   - It builds the union of the keys held by the proxy and by the live collection.
//   - Live-only keys whose entity identifier matches a proxy-only key are renames.
//   - Other live-only keys are additions, remaining proxy-only keys are removals.
//   - Keys present on both sides are reloaded and diffed attribute by attribute,
//     recursing into struct-valued attributes.
//
// The output is a proxy.Delta, ready for Root.Update, and a Plan listing one
// Result per entity with aggregate counts for reporting.
//
// # Identity
//
// Renames are only detected when the live entities keep the identifiers they
// had when the proxy tree was loaded. Identifiers are assigned on first visit
// and stored on the live entity, so this holds for a live graph mirrored in
// place. Two unrelated documents only match when they carry explicit
// identifiers.
//
// # Usage Example
//
//	l := proxy.NewLoader(doc, filter.Default(reg), log)
//	root := proxy.NewRoot()
//	if err := root.Load(l); err != nil {
//	    return err
//	}
//
//	// ... the live graph changes ...
//
//	plan, touched, err := reconcile.Sync(root, l, reconcile.Options{})
package reconcile
