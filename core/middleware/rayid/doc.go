// Package rayid tags every request with a RayID.
//
// The RayID is stored in the request locals under "ray_id", which is where
// logger.WithRayID looks for it, and echoed in the X-Ray-ID response header.
package rayid
