package reconcile

// Status classifies the outcome of one entity in a reconcile pass.
type Status string

const (
	// StatusAdded marks an entity present in the live graph only.
	StatusAdded Status = "added"
	// StatusRemoved marks an entity present in the proxy tree only.
	StatusRemoved Status = "removed"
	// StatusRenamed marks an entity whose identifier moved to another name.
	StatusRenamed Status = "renamed"
	// StatusUpdated marks an entity whose attributes differ.
	StatusUpdated Status = "updated"
	// StatusUnchanged marks an entity identical on both sides.
	StatusUnchanged Status = "unchanged"
)

// Result represents the reconciliation output for a single entity.
type Result struct {
	// Collection is the top-level collection holding the entity.
	Collection string `json:"collection"`

	// Key is the live name of the entity, or its proxy name once removed.
	Key string `json:"key"`

	// Previous is the proxy name of a renamed entity.
	Previous string `json:"previous,omitempty"`

	// UUID is the stable identifier of the entity.
	UUID string `json:"uuid"`

	// Status classifies the entity.
	Status Status `json:"status"`

	// Changes lists the dotted attribute paths that differ, e.g. "render.resolution_x".
	Changes []string `json:"changes"`
}

// Plan contains reconciliation results and their aggregate counts.
type Plan struct {
	// Results contains per-entity reconciliation data, sorted by collection and key.
	Results []Result `json:"results"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalItems is the total number of unique entities.
	TotalItems int `json:"total_items"`

	// Added counts entities to load.
	Added int `json:"added"`

	// Removed counts entities to drop.
	Removed int `json:"removed"`

	// Renamed counts entities to move.
	Renamed int `json:"renamed"`

	// Updated counts entities to patch, renamed ones included.
	Updated int `json:"updated"`

	// Unchanged counts entities identical on both sides.
	Unchanged int `json:"unchanged"`
}

// Changed reports whether the plan carries any change.
func (s PlanSummary) Changed() bool {
	return s.Added+s.Removed+s.Renamed+s.Updated > 0
}

// Options controls whether a computed delta is applied.
type Options struct {
	// DryRun computes the plan without touching the proxy tree.
	DryRun bool
}
