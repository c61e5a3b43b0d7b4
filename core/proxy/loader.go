package proxy

import (
	"fmt"
	"slices"
	"strconv"

	"scene-mirror/core/filter"
	"scene-mirror/core/host"
	"scene-mirror/core/schema"

	"go.uber.org/zap"
)

// Loader reads a live graph into proxy nodes. It is the recursive traversal
// engine: every attribute goes through ReadAttribute, which classifies it and
// dispatches to the matching proxy constructor.
//
// A Loader is not safe for concurrent use, and the live graph must not change
// while a pass runs.
type Loader struct {
	recorder
	data     host.Data
	filter   *filter.Context
	registry *schema.Registry
	maxDepth int
	visit    *VisitContext
}

// NewLoader creates a loader over data, visiting what ctx selects.
func NewLoader(data host.Data, ctx *filter.Context, log *zap.Logger, opts ...Option) *Loader {
	o := buildOptions(opts)
	return &Loader{
		recorder: newRecorder(log, o.hook),
		data:     data,
		filter:   ctx,
		registry: ctx.Registry(),
		maxDepth: o.maxDepth,
	}
}

// Data returns the live graph the loader reads.
func (l *Loader) Data() host.Data { return l.data }

// Filter returns the filtering context.
func (l *Loader) Filter() *filter.Context { return l.filter }

// Begin starts a traversal episode with a fresh root identity snapshot and an
// empty visit stack.
func (l *Loader) Begin() *VisitContext {
	l.visit = NewVisitContext(l.data, l.filter, l.maxDepth)
	return l.visit
}

// Visit returns the current visit context, starting an episode if none is active.
func (l *Loader) Visit() *VisitContext {
	if l.visit == nil {
		return l.Begin()
	}
	return l.visit
}

// ReadAttribute loads one attribute value into its proxy form: builtin scalars
// unchanged, vectors, matrices and arrays as plain slices, structs and
// collections as proxy nodes. It returns nil when the attribute has no value or
// cannot be loaded; the latter is recorded as a diagnostic. Errors are fatal to
// the whole pass.
func (l *Loader) ReadAttribute(value any, prop *schema.Property) (any, error) {
	visit := l.Visit()
	if prop == nil {
		l.report(DiagUnsupported, visit.Path(), "", "no property metadata")
		return nil, nil
	}
	leave, err := visit.Enter(prop.Name, value)
	if err != nil {
		return nil, err
	}
	defer leave()

	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64, string:
		return v, nil
	case int:
		return int64(v), nil
	case float32:
		return float64(v), nil
	case host.Vector:
		return slices.Clone([]float64(v)), nil
	case host.Matrix:
		cols := make([][]float64, len(v))
		for i, c := range v {
			cols[i] = slices.Clone(c)
		}
		return cols, nil
	case host.BoolArray:
		return slices.Clone([]bool(v)), nil
	case host.IntArray:
		return slices.Clone([]int64(v)), nil
	case host.FloatArray:
		return slices.Clone([]float64(v)), nil
	case host.Collection:
		return l.loadCollectionAs(Classify(l.registry, prop, v, visit.roots), v)
	case host.Struct:
		if v.Type().Bag {
			return l.loadStruct(v)
		}
		return l.loadStructAs(Classify(l.registry, prop, v, visit.roots), v)
	}

	l.report(DiagUnsupported, visit.Path(), prop.Name, fmt.Sprintf("%s attribute holding %T", prop.Kind, value))
	return nil, nil
}

func (l *Loader) loadStructAs(as LoadAs, s host.Struct) (any, error) {
	switch as {
	case LoadStruct:
		return l.loadStruct(s)
	case LoadIDRef:
		if ref := l.loadReference(s); ref != nil {
			return ref, nil
		}
		return nil, nil
	case LoadIDDef:
		return l.loadEntity(s)
	}
	return nil, fmt.Errorf("%w: struct loaded as %s at %s", ErrUnreachable, as, l.visit.Path())
}

func (l *Loader) loadCollectionAs(as LoadAs, c host.Collection) (any, error) {
	switch as {
	case LoadStruct:
		return l.loadStructCollection(c)
	case LoadIDRef:
		return l.loadReferences(c)
	case LoadIDDef:
		return l.loadEntities(c)
	}
	return nil, fmt.Errorf("%w: collection loaded as %s at %s", ErrUnreachable, as, l.visit.Path())
}

// loadFields reads every visited attribute of s into p. Attributes that load as
// nil are left out.
func (l *Loader) loadFields(p *StructProxy, s host.Struct) error {
	for _, prop := range l.filter.Properties(s) {
		v, ok := s.Get(prop.Name)
		if !ok {
			continue
		}
		loaded, err := l.ReadAttribute(v, prop)
		if err != nil {
			return err
		}
		if loaded != nil {
			p.data[prop.Name] = loaded
		}
	}
	return nil
}

func (l *Loader) loadStruct(s host.Struct) (*StructProxy, error) {
	p := NewStructProxy()
	if err := l.loadFields(p, s); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadEntity loads a top-level entity as an owned copy.
func (l *Loader) LoadEntity(s host.Struct) (*EntityProxy, error) {
	l.Visit()
	return l.loadEntity(s)
}

func (l *Loader) loadEntity(s host.Struct) (*EntityProxy, error) {
	p := NewEntityProxy("")
	if e, ok := s.(host.Identified); ok {
		p.uuid = EnsureUUID(e)
	}
	if err := l.loadFields(&p.StructProxy, s); err != nil {
		return nil, err
	}
	return p, nil
}

// loadReference returns nil when s cannot be reached from its top-level collection.
func (l *Loader) loadReference(s host.Struct) *ReferenceProxy {
	path := l.visit.Path()
	e, ok := s.(host.Identified)
	if !ok {
		l.report(DiagUnsupported, path, "", fmt.Sprintf("reference to unnamed %s", s.Type()))
		return nil
	}
	coll, ok := l.registry.CollectionFor(s.Type())
	if !ok {
		l.report(DiagUnsupported, path, e.Name(), fmt.Sprintf("no top-level collection holds %s", s.Type()))
		return nil
	}
	if live, ok := l.data.Collection(coll); ok {
		if item, found := live.Lookup(e.Name()); found && item == s {
			return &ReferenceProxy{Collection: coll, Key: e.Name()}
		}
	}
	l.report(DiagDanglingReference, path, e.Name(), fmt.Sprintf("not an item of %s", coll))
	return nil
}

type namedItem struct {
	name string
	item host.Struct
}

// items lists a collection with a display key per element: the collection key,
// else the entity name, else the index.
func items(c host.Collection) []namedItem {
	out := make([]namedItem, 0, c.Len())
	if keys := c.Keys(); keys != nil {
		for _, k := range keys {
			if item, ok := c.Lookup(k); ok {
				out = append(out, namedItem{name: k, item: item})
			}
		}
		return out
	}
	for i := 0; i < c.Len(); i++ {
		item, ok := c.At(i)
		if !ok {
			continue
		}
		name := strconv.Itoa(i)
		if e, ok := item.(host.Identified); ok {
			name = e.Name()
		}
		out = append(out, namedItem{name: name, item: item})
	}
	return out
}

func (l *Loader) loadEntities(c host.Collection) (*DataCollectionProxy, error) {
	p := NewDataCollectionProxy()
	for _, it := range items(c) {
		leave, err := l.visit.Enter(it.name, it.item)
		if err != nil {
			return nil, err
		}
		e, err := l.loadEntity(it.item)
		leave()
		if err != nil {
			return nil, err
		}
		p.items[it.name] = e
	}
	return p, nil
}

func (l *Loader) loadReferences(c host.Collection) (*DataCollectionProxy, error) {
	p := NewDataCollectionProxy()
	for _, it := range items(c) {
		leave, err := l.visit.Enter(it.name, it.item)
		if err != nil {
			return nil, err
		}
		ref := l.loadReference(it.item)
		leave()
		if ref != nil {
			p.items[it.name] = ref
		}
	}
	return p, nil
}

func (l *Loader) loadStructCollection(c host.Collection) (*StructCollectionProxy, error) {
	keys := c.Keys()
	if keys == nil {
		if elem := c.ElementType(); c.Len() > 0 && elem != nil && elem.Batchable {
			return l.loadBatched(c), nil
		}
		p := &StructCollectionProxy{layout: LayoutSequence}
		for i := 0; i < c.Len(); i++ {
			item, ok := c.At(i)
			if !ok {
				continue
			}
			sp, err := l.loadElement(strconv.Itoa(i), item)
			if err != nil {
				return nil, err
			}
			p.items = append(p.items, sp)
		}
		return p, nil
	}

	p := &StructCollectionProxy{layout: LayoutMapping, keyed: make(map[string]*StructProxy, len(keys))}
	for _, k := range keys {
		item, ok := c.Lookup(k)
		if !ok {
			continue
		}
		sp, err := l.loadElement(k, item)
		if err != nil {
			return nil, err
		}
		p.keyed[k] = sp
	}
	return p, nil
}

func (l *Loader) loadElement(name string, item host.Struct) (*StructProxy, error) {
	leave, err := l.visit.Enter(name, item)
	if err != nil {
		return nil, err
	}
	defer leave()
	return l.loadStruct(item)
}
