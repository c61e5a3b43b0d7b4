package reconcile

import (
	"fmt"
	"sort"

	"scene-mirror/core/host"
	"scene-mirror/core/proxy"
)

// Compute compares every collection held by root with the live graph of the
// loader and returns the delta that brings root up to date, along with a plan
// describing it. Root is not modified.
//
// Per collection, it builds the union of proxy and live keys. Live-only keys
// whose identifier matches a proxy-only key are renames, other live-only keys
// are additions and the remaining proxy-only keys are removals. Keys present on
// both sides, renamed ones included, are reloaded and compared attribute by
// attribute.
func Compute(root *proxy.Root, l *proxy.Loader) (*proxy.Delta, *Plan, error) {
	visit := l.Begin()
	delta := proxy.NewDelta()
	var results []Result

	for _, name := range root.Names() {
		p, _ := root.Collection(name)
		live := liveIndex(l.Data(), name)

		leave, err := visit.Enter(name, nil)
		if err != nil {
			return nil, nil, err
		}
		res, err := compareCollection(l, name, p, live, delta)
		leave()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to reconcile collection %s: %w", name, err)
		}
		results = append(results, res...)
	}

	// Sort results by key for deterministic output
	sort.Slice(results, func(i, j int) bool {
		if results[i].Collection != results[j].Collection {
			return results[i].Collection < results[j].Collection
		}
		return results[i].Key < results[j].Key
	})

	return delta, buildPlan(results), nil
}

// compareCollection reconciles one collection, filling its entry of delta.
func compareCollection(l *proxy.Loader, name string, p *proxy.DataCollectionProxy, live map[string]host.Struct, delta *proxy.Delta) ([]Result, error) {
	union := buildUnion(p, live)

	// Proxy-only keys by identifier, for rename detection
	orphans := make(map[string]string)
	for _, key := range union {
		if _, ok := live[key]; ok {
			continue
		}
		if e, ok := p.Entity(key); ok && e.UUID() != "" {
			orphans[e.UUID()] = key
		}
	}

	var results []Result
	renamedFrom := make(map[string]struct{})
	cd := delta.For(name)

	for _, key := range union {
		item, isLive := live[key]
		if !isLive {
			continue
		}
		old, inProxy := p.Entity(key)
		id := uuidOf(item)

		result := Result{Collection: name, Key: key, UUID: id, Changes: []string{}}
		if !inProxy {
			prev, renamed := orphans[id]
			if !renamed {
				cd.Added[key] = item
				result.Status = StatusAdded
				results = append(results, result)
				continue
			}
			delete(orphans, id)
			renamedFrom[prev] = struct{}{}
			cd.Renamed = append(cd.Renamed, proxy.Rename{Old: prev, New: key})
			result.Previous = prev
			result.Status = StatusRenamed
			old, _ = p.Entity(prev)
		}

		changes, err := compareEntity(l, key, old, item)
		if err != nil {
			return nil, err
		}
		if !changes.Empty() {
			cd.Updated = append(cd.Updated, proxy.ItemUpdate{Key: key, Delta: changes})
			result.Changes = changes.Paths()
			if result.Status == "" {
				result.Status = StatusUpdated
			}
		}
		if result.Status == "" {
			result.Status = StatusUnchanged
		}
		results = append(results, result)
	}

	for _, key := range union {
		if _, ok := live[key]; ok {
			continue
		}
		if _, ok := renamedFrom[key]; ok {
			continue
		}
		cd.Removed = append(cd.Removed, key)
		result := Result{Collection: name, Key: key, Status: StatusRemoved, Changes: []string{}}
		if e, ok := p.Entity(key); ok {
			result.UUID = e.UUID()
		}
		results = append(results, result)
	}

	if cd.Empty() {
		delete(delta.Collections, name)
	}
	return results, nil
}

// compareEntity reloads the live entity and diffs it against its proxy.
func compareEntity(l *proxy.Loader, key string, old *proxy.EntityProxy, item host.Struct) (*proxy.StructDelta, error) {
	leave, err := l.Visit().Enter(key, item)
	if err != nil {
		return nil, err
	}
	defer leave()

	cur, err := l.LoadEntity(item)
	if err != nil {
		return nil, err
	}
	if old == nil {
		old = proxy.NewEntityProxy("")
	}
	return Diff(&old.StructProxy, &cur.StructProxy), nil
}

// Diff returns the changes that turn the attribute map of old into the one of
// cur. Struct-valued attributes present on both sides are compared recursively;
// every other differing value is replaced whole.
func Diff(old, cur *proxy.StructProxy) *proxy.StructDelta {
	d := &proxy.StructDelta{}
	for _, name := range cur.Names() {
		nv, _ := cur.Get(name)
		ov, ok := old.Get(name)
		if ok && proxy.ValuesEqual(ov, nv) {
			continue
		}
		if ok {
			os, oIs := structOf(ov)
			ns, nIs := structOf(nv)
			if oIs && nIs {
				if nested := Diff(os, ns); !nested.Empty() {
					if d.Nested == nil {
						d.Nested = make(map[string]*proxy.StructDelta)
					}
					d.Nested[name] = nested
				}
				continue
			}
		}
		if d.Set == nil {
			d.Set = make(map[string]any)
		}
		d.Set[name] = nv
	}
	for _, name := range old.Names() {
		if _, ok := cur.Get(name); !ok {
			d.Unset = append(d.Unset, name)
		}
	}
	return d
}

func structOf(v any) (*proxy.StructProxy, bool) {
	switch p := v.(type) {
	case *proxy.StructProxy:
		return p, true
	case *proxy.EntityProxy:
		return &p.StructProxy, true
	}
	return nil, false
}

// buildUnion creates a sorted union of proxy and live keys.
func buildUnion(p *proxy.DataCollectionProxy, live map[string]host.Struct) []string {
	union := make(map[string]struct{})

	for _, key := range p.Keys() {
		union[key] = struct{}{}
	}

	for key := range live {
		union[key] = struct{}{}
	}

	keys := make([]string, 0, len(union))
	for key := range union {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// liveIndex maps entity names to the items of a live top-level collection.
func liveIndex(data host.Data, name string) map[string]host.Struct {
	index := make(map[string]host.Struct)
	coll, ok := data.Collection(name)
	if !ok {
		return index
	}
	if keys := coll.Keys(); keys != nil {
		for _, k := range keys {
			if item, ok := coll.Lookup(k); ok {
				index[k] = item
			}
		}
		return index
	}
	for i := 0; i < coll.Len(); i++ {
		item, ok := coll.At(i)
		if !ok {
			continue
		}
		if e, ok := item.(host.Identified); ok {
			index[e.Name()] = item
		}
	}
	return index
}

func uuidOf(s host.Struct) string {
	if e, ok := s.(host.Identified); ok {
		return e.UUID()
	}
	return ""
}
