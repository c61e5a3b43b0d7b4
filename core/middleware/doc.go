// Package middleware groups the Fiber middleware of the service.
//
//   - auth: shared API key check, leaving documentation and metrics public.
//   - rayid: per-request RayID in the locals and the X-Ray-ID header.
//
// start registers rayid first, then request logging, then auth.
package middleware
