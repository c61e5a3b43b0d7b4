// Package snapshot persists proxy trees of a mirror session.
//
// A Snapshot row holds the marshaled tree and its fingerprint. Repository
// writes rows through gorm and skips a write when the tree has not changed
// since the latest snapshot of the session. Exporter copies payloads to object
// storage under snapshots/<session>/<fingerprint>.json and reads them back.
package snapshot
