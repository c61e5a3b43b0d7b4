package proxy

import (
	"sort"

	"scene-mirror/core/host"
)

// Delta is the difference between a Root proxy and the live graph, per top-level
// collection name. Collections without an entry are unchanged.
type Delta struct {
	Collections map[string]*CollectionDelta `json:"collections"`
}

// NewDelta returns an empty delta.
func NewDelta() *Delta {
	return &Delta{Collections: make(map[string]*CollectionDelta)}
}

// For returns the entry of a collection, creating it if needed.
func (d *Delta) For(collection string) *CollectionDelta {
	cd, ok := d.Collections[collection]
	if !ok {
		cd = &CollectionDelta{Added: make(map[string]host.Struct)}
		d.Collections[collection] = cd
	}
	return cd
}

// Empty reports whether no collection has changes.
func (d *Delta) Empty() bool {
	for _, cd := range d.Collections {
		if !cd.Empty() {
			return false
		}
	}
	return true
}

// CollectionDelta lists the changes of one top-level collection. They apply in
// field order: added, removed, renamed, updated.
type CollectionDelta struct {
	// Added maps new entity names to their live value.
	Added map[string]host.Struct `json:"-"`
	// Removed lists names of deleted entities.
	Removed []string `json:"removed,omitempty"`
	// Renamed lists entities that changed name.
	Renamed []Rename `json:"renamed,omitempty"`
	// Updated lists attribute changes of existing entities, by their current name.
	Updated []ItemUpdate `json:"updated,omitempty"`
}

// AddedNames returns the added names, sorted.
func (cd *CollectionDelta) AddedNames() []string {
	names := make([]string, 0, len(cd.Added))
	for k := range cd.Added {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the entry has no changes.
func (cd *CollectionDelta) Empty() bool {
	return len(cd.Added) == 0 && len(cd.Removed) == 0 && len(cd.Renamed) == 0 && len(cd.Updated) == 0
}

// Rename moves an entity from Old to New, keeping its proxy.
type Rename struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// ItemUpdate applies Delta to the entity stored under Key.
type ItemUpdate struct {
	Key   string       `json:"key"`
	Delta *StructDelta `json:"delta"`
}

// StructDelta is a change to the attribute map of a struct-like proxy. Set values
// are already in loaded form. Nested deltas apply to struct-valued attributes.
type StructDelta struct {
	Set    map[string]any          `json:"-"`
	Unset  []string                `json:"unset,omitempty"`
	Nested map[string]*StructDelta `json:"nested,omitempty"`
}

// Empty reports whether the delta changes nothing.
func (sd *StructDelta) Empty() bool {
	return sd == nil || (len(sd.Set) == 0 && len(sd.Unset) == 0 && len(sd.Nested) == 0)
}

// Paths returns the dotted names of the changed attributes, sorted.
func (sd *StructDelta) Paths() []string {
	var paths []string
	sd.collect("", &paths)
	sort.Strings(paths)
	return paths
}

func (sd *StructDelta) collect(prefix string, paths *[]string) {
	if sd == nil {
		return
	}
	for k := range sd.Set {
		*paths = append(*paths, prefix+k)
	}
	for _, k := range sd.Unset {
		*paths = append(*paths, prefix+k)
	}
	for k, n := range sd.Nested {
		n.collect(prefix+k+".", paths)
	}
}

// Apply changes the attribute map of p. Nested deltas aimed at attributes that
// are not struct-like are reported through report and skipped.
func (sd *StructDelta) Apply(p *StructProxy, report func(attr, reason string)) {
	if sd == nil {
		return
	}
	for k, v := range sd.Set {
		p.Set(k, v)
	}
	for _, k := range sd.Unset {
		delete(p.data, k)
	}
	for k, nested := range sd.Nested {
		child, ok := asStruct(p.data[k])
		if !ok {
			report(k, "nested delta on a non-struct attribute")
			continue
		}
		nested.Apply(child, func(attr, reason string) { report(k+"."+attr, reason) })
	}
}

// asStruct returns the attribute map behind a struct-like proxy value.
func asStruct(v any) (*StructProxy, bool) {
	switch p := v.(type) {
	case *StructProxy:
		return p, true
	case *EntityProxy:
		return &p.StructProxy, true
	}
	return nil, false
}
