package codec

import (
	"errors"
	"fmt"
	"sort"

	"scene-mirror/core/proxy"
	"scene-mirror/core/utils"
)

// KindTag is the map key carrying the variant of an encoded node or value.
const KindTag = "$kind"

// Value tags for attribute values whose type does not survive JSON as is.
const (
	tagFloat    = "float"
	tagFloats   = "floats"
	tagFloat32s = "float32s"
	tagInts     = "ints"
	tagBools    = "bools"
	tagMatrix   = "matrix"
)

var (
	// ErrMalformed is returned when a generic tree is not a valid encoded proxy.
	ErrMalformed = errors.New("malformed encoded proxy")
	// ErrUnknownKind is returned for an unknown variant tag.
	ErrUnknownKind = errors.New("unknown variant")
)

// Encode converts a proxy tree into its generic form: nested map[string]any and
// []any values, every proxy node tagged with its variant under KindTag.
func Encode(p proxy.Proxy) any {
	switch n := p.(type) {
	case *proxy.Root:
		colls := make(map[string]any)
		for _, name := range n.Names() {
			c, _ := n.Collection(name)
			colls[name] = Encode(c)
		}
		return tagged(n, map[string]any{"collections": colls})
	case *proxy.DataCollectionProxy:
		items := make(map[string]any)
		for _, key := range n.Keys() {
			item, _ := n.Find(key)
			items[key] = Encode(item)
		}
		return tagged(n, map[string]any{"items": items})
	case *proxy.EntityProxy:
		return tagged(n, map[string]any{"uuid": n.UUID(), "data": encodeFields(&n.StructProxy)})
	case *proxy.StructProxy:
		return tagged(n, map[string]any{"data": encodeFields(n)})
	case *proxy.ReferenceProxy:
		return tagged(n, map[string]any{"collection": n.Collection, "key": n.Key})
	case *proxy.StructCollectionProxy:
		return encodeStructCollection(n)
	case *proxy.SoaElement:
		return tagged(n, map[string]any{"buffer": encodeValue(n.Buffer())})
	case *proxy.AosElement:
		return tagged(n, map[string]any{})
	}
	return nil
}

func tagged(p proxy.Proxy, m map[string]any) map[string]any {
	m[KindTag] = p.Kind().String()
	return m
}

func encodeFields(p *proxy.StructProxy) map[string]any {
	out := make(map[string]any, p.Len())
	for _, name := range p.Names() {
		v, _ := p.Get(name)
		out[name] = encodeValue(v)
	}
	return out
}

func encodeStructCollection(n *proxy.StructCollectionProxy) map[string]any {
	m := map[string]any{"layout": n.Layout().String()}
	switch n.Layout() {
	case proxy.LayoutSequence:
		items := make([]any, 0, n.Len())
		for _, item := range n.Items() {
			items = append(items, Encode(item))
		}
		m["items"] = items
	case proxy.LayoutMapping:
		items := make(map[string]any)
		for _, key := range n.Keys() {
			item, _ := n.Item(key)
			items[key] = Encode(item)
		}
		m["items"] = items
	case proxy.LayoutBatched:
		fields := make(map[string]any)
		for _, name := range n.Keys() {
			f, _ := n.Field(name)
			fields[name] = Encode(f)
		}
		m["length"] = int64(n.Len())
		m["fields"] = fields
	}
	return tagged(n, m)
}

// encodeValue encodes an attribute value. Strings, booleans and integers are
// written as is; floats and typed arrays carry a tag.
func encodeValue(v any) any {
	switch x := v.(type) {
	case proxy.Proxy:
		return Encode(x)
	case float64:
		return map[string]any{KindTag: tagFloat, "value": x}
	case []float64:
		return map[string]any{KindTag: tagFloats, "value": toAny(x)}
	case []float32:
		return map[string]any{KindTag: tagFloat32s, "value": toAny(x)}
	case []int64:
		return map[string]any{KindTag: tagInts, "value": toAny(x)}
	case []bool:
		return map[string]any{KindTag: tagBools, "value": toAny(x)}
	case [][]float64:
		cols := make([]any, len(x))
		for i, c := range x {
			cols[i] = toAny(c)
		}
		return map[string]any{KindTag: tagMatrix, "value": cols}
	}
	return v
}

func toAny[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// Decode rebuilds a proxy tree from its generic form.
func Decode(v any) (proxy.Proxy, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object, got %T", ErrMalformed, v)
	}
	tag, _ := m[KindTag].(string)
	kind, ok := proxy.ParseNodeKind(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
	}

	switch kind {
	case proxy.KindRoot:
		root := proxy.NewRoot()
		colls, err := object(m, "collections")
		if err != nil {
			return nil, err
		}
		for _, name := range sortedKeys(colls) {
			p, err := Decode(colls[name])
			if err != nil {
				return nil, fmt.Errorf("collection %s: %w", name, err)
			}
			c, ok := p.(*proxy.DataCollectionProxy)
			if !ok {
				return nil, fmt.Errorf("%w: collection %s is a %s", ErrMalformed, name, p.Kind())
			}
			root.Put(name, c)
		}
		return root, nil
	case proxy.KindDataCollection:
		c := proxy.NewDataCollectionProxy()
		items, err := object(m, "items")
		if err != nil {
			return nil, err
		}
		for _, key := range sortedKeys(items) {
			p, err := Decode(items[key])
			if err != nil {
				return nil, fmt.Errorf("item %s: %w", key, err)
			}
			c.Put(key, p)
		}
		return c, nil
	case proxy.KindEntity:
		uuid, _ := m["uuid"].(string)
		e := proxy.NewEntityProxy(uuid)
		if err := decodeFields(&e.StructProxy, m); err != nil {
			return nil, err
		}
		return e, nil
	case proxy.KindStruct:
		return decodeStruct(m)
	case proxy.KindReference:
		coll, _ := m["collection"].(string)
		key, _ := m["key"].(string)
		if coll == "" || key == "" {
			return nil, fmt.Errorf("%w: reference without collection or key", ErrMalformed)
		}
		return &proxy.ReferenceProxy{Collection: coll, Key: key}, nil
	case proxy.KindStructCollection:
		return decodeStructCollection(m)
	case proxy.KindSoaElement:
		buf, err := decodeValue(m["buffer"])
		if err != nil {
			return nil, err
		}
		return proxy.NewSoaElement(buf), nil
	case proxy.KindAosElement:
		return &proxy.AosElement{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

func decodeStruct(v any) (*proxy.StructProxy, error) {
	m, ok := v.(map[string]any)
	if !ok || m[KindTag] != proxy.KindStruct.String() {
		return nil, fmt.Errorf("%w: expected a struct", ErrMalformed)
	}
	p := proxy.NewStructProxy()
	if err := decodeFields(p, m); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeFields(p *proxy.StructProxy, m map[string]any) error {
	data, err := object(m, "data")
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(data) {
		v, err := decodeValue(data[name])
		if err != nil {
			return fmt.Errorf("attribute %s: %w", name, err)
		}
		p.Set(name, v)
	}
	return nil
}

func decodeStructCollection(m map[string]any) (proxy.Proxy, error) {
	layout, _ := m["layout"].(string)
	switch layout {
	case proxy.LayoutSequence.String():
		raw, ok := m["items"].([]any)
		if !ok && m["items"] != nil {
			return nil, fmt.Errorf("%w: sequence items must be a list", ErrMalformed)
		}
		items := make([]*proxy.StructProxy, 0, len(raw))
		for i, r := range raw {
			s, err := decodeStruct(r)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			items = append(items, s)
		}
		return proxy.NewSequenceProxy(items), nil
	case proxy.LayoutMapping.String():
		raw, err := object(m, "items")
		if err != nil {
			return nil, err
		}
		items := make(map[string]*proxy.StructProxy, len(raw))
		for _, key := range sortedKeys(raw) {
			s, err := decodeStruct(raw[key])
			if err != nil {
				return nil, fmt.Errorf("element %s: %w", key, err)
			}
			items[key] = s
		}
		return proxy.NewMappingProxy(items), nil
	case proxy.LayoutBatched.String():
		raw, err := object(m, "fields")
		if err != nil {
			return nil, err
		}
		fields := make(map[string]proxy.Proxy, len(raw))
		for _, name := range sortedKeys(raw) {
			f, err := Decode(raw[name])
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", name, err)
			}
			fields[name] = f
		}
		return proxy.NewBatchedProxy(utils.ToInt(m["length"]), fields), nil
	default:
		return nil, fmt.Errorf("%w: layout %q", ErrUnknownKind, layout)
	}
}

// decodeValue decodes an attribute value written by encodeValue.
func decodeValue(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, int64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case map[string]any:
		tag, _ := x[KindTag].(string)
		if _, isNode := proxy.ParseNodeKind(tag); isNode {
			return Decode(x)
		}
		return decodeTagged(tag, x["value"])
	}
	return nil, fmt.Errorf("%w: untagged %T value", ErrMalformed, v)
}

func decodeTagged(tag string, raw any) (any, error) {
	if tag == tagFloat {
		return utils.ToFloat(raw), nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s value must be a list", ErrMalformed, tag)
	}
	switch tag {
	case tagFloats:
		return mapItems(items, utils.ToFloat), nil
	case tagFloat32s:
		return mapItems(items, func(v any) float32 { return float32(utils.ToFloat(v)) }), nil
	case tagInts:
		return mapItems(items, utils.ToInt64), nil
	case tagBools:
		return mapItems(items, utils.ToBool), nil
	case tagMatrix:
		cols := make([][]float64, len(items))
		for i, c := range items {
			col, ok := c.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: matrix column %d must be a list", ErrMalformed, i)
			}
			cols[i] = mapItems(col, utils.ToFloat)
		}
		return cols, nil
	}
	return nil, fmt.Errorf("%w: value tag %q", ErrUnknownKind, tag)
}

func mapItems[T any](items []any, conv func(any) T) []T {
	out := make([]T, len(items))
	for i, v := range items {
		out[i] = conv(v)
	}
	return out
}

func object(m map[string]any, key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	o, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an object", ErrMalformed, key)
	}
	return o, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
