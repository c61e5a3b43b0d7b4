package proxy

import (
	"scene-mirror/core/host"

	"github.com/google/uuid"
)

// EnsureUUID returns the identifier of e, assigning a random one first if e has none.
// Calling it again on the same entity returns the same identifier.
func EnsureUUID(e host.Identified) string {
	if id := e.UUID(); id != "" {
		return id
	}
	id := uuid.NewString()
	e.SetUUID(id)
	return id
}
