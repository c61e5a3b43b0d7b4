package filter

// Config lists what a traversal skips. Every list accepts comma-separated values
// when set from the environment.
type Config struct {
	// ExcludeProperties names attributes never visited. An entry is either a bare
	// attribute name ("matrix_world") or qualified by type ("Object.matrix_world").
	ExcludeProperties []string `mapstructure:"exclude_properties" default:""`
	// ExcludeTypes names struct types whose attributes are never visited, whatever
	// attribute points at them.
	ExcludeTypes []string `mapstructure:"exclude_types" default:""`
	// ExcludeCollections names top-level collections left out of the root.
	ExcludeCollections []string `mapstructure:"exclude_collections" default:""`
}
