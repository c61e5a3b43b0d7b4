package mirror

import (
	"time"

	"scene-mirror/core/filter"
)

// Config holds configuration for the mirror session.
type Config struct {
	// DocumentPath is the YAML scene document mirrored by the session.
	DocumentPath string `mapstructure:"document_path" default:"scene.yaml" validate:"required"`
	// Session names the snapshots written by this mirror.
	Session string `mapstructure:"session" default:"default" validate:"required,max=128"`
	// MaxDepth is the visit depth past which a traversal is treated as a cycle.
	MaxDepth int `mapstructure:"max_depth" default:"50" validate:"gte=1"`
	// CacheTTL is how long the mirror is served before it is synced with the
	// document again. Zero disables automatic syncs.
	CacheTTL time.Duration `mapstructure:"cache_ttl" default:"30s" validate:"gte=0"`
	// Filter selects what the traversal visits.
	Filter filter.Config `mapstructure:"filter"`
}
