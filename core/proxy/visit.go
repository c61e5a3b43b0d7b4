package proxy

import (
	"fmt"
	"strings"

	"scene-mirror/core/filter"
	"scene-mirror/core/host"
)

type frame struct {
	name  string
	value any
}

// VisitContext carries the state of one traversal episode: the root identity
// snapshot and the stack of attributes being visited.
//
// The snapshot is taken once, when the context is created. Entities added to the
// live graph afterwards are not recognized as top-level until the next episode.
type VisitContext struct {
	roots    IdentitySet
	stack    []frame
	maxDepth int
}

// NewVisitContext snapshots every entity of every visited top-level collection,
// assigning identifiers to those that lack one.
func NewVisitContext(data host.Data, ctx *filter.Context, maxDepth int) *VisitContext {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	v := &VisitContext{
		roots:    make(IdentitySet),
		maxDepth: maxDepth,
	}
	for _, name := range ctx.Collections() {
		coll, ok := data.Collection(name)
		if !ok {
			continue
		}
		for i := 0; i < coll.Len(); i++ {
			item, ok := coll.At(i)
			if !ok {
				continue
			}
			if e, ok := item.(host.Identified); ok {
				EnsureUUID(e)
			}
			v.roots[item] = struct{}{}
		}
	}
	return v
}

// Roots returns the root identity snapshot.
func (v *VisitContext) Roots() IdentitySet {
	return v.roots
}

// Enter pushes an attribute on the visit stack. The returned function pops it and
// must be called on every exit path, typically with defer. Entering past the depth
// threshold fails with ErrCycleOverflow and pushes nothing.
func (v *VisitContext) Enter(name string, value any) (func(), error) {
	if len(v.stack) >= v.maxDepth {
		return func() {}, fmt.Errorf("%w: %d at %s.%s", ErrCycleOverflow, v.maxDepth, v.Path(), name)
	}
	v.stack = append(v.stack, frame{name: name, value: value})
	depth := len(v.stack)
	return func() {
		v.stack = v.stack[:depth-1]
	}, nil
}

// Depth returns the number of attributes currently being visited.
func (v *VisitContext) Depth() int {
	return len(v.stack)
}

// Path returns the dotted path of the attributes being visited.
func (v *VisitContext) Path() string {
	names := make([]string, len(v.stack))
	for i, f := range v.stack {
		names[i] = f.name
	}
	return strings.Join(names, ".")
}
