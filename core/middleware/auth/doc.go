// Package auth protects the API with a shared key.
//
// The key is read from the X-API-Key header or the api_key query parameter.
// Documentation and metrics endpoints stay public.
package auth
