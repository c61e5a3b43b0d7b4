// Package mirror serves a live proxy mirror of a scene document over HTTP.
//
// The Service parses the configured YAML document, loads it into a proxy
// tree and keeps that tree in sync with the file: once the mirror is older
// than the cache TTL, the next request reconciles it with the document, and
// concurrent requests share that refresh through singleflight.
//
// # Endpoints
//
//   - GET  /mirror/status: counts, fingerprint, last sync
//   - GET  /mirror/collections: entity names by collection
//   - GET  /mirror/{collection}/{name}: one entity
//   - GET  /mirror/query?path=: JSONPath over the whole mirror
//   - GET  /mirror/diagnostics: attributes skipped by the last pass
//   - POST /mirror/reload, /mirror/sync?dry_run=
//   - GET  /mirror/snapshots, POST /mirror/snapshot, /mirror/export, /mirror/restore
//
// Snapshot routes answer 503 when the service runs without a database, and
// export without object storage.
package mirror
