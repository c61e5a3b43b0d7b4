package codec

import (
	"fmt"

	"scene-mirror/core/proxy"

	"github.com/ohler55/ojg/jp"
)

// View converts a proxy tree into a plain JSON-like form meant for reading:
// structs and entities become objects of their attributes, references become
// "<collection>/<key>" strings, struct collections become lists or objects and
// batched fields their raw buffers. Unlike Encode, the result cannot be decoded.
func View(p proxy.Proxy) any {
	switch n := p.(type) {
	case *proxy.Root:
		out := make(map[string]any)
		for _, name := range n.Names() {
			c, _ := n.Collection(name)
			out[name] = View(c)
		}
		return out
	case *proxy.DataCollectionProxy:
		out := make(map[string]any)
		for _, key := range n.Keys() {
			item, _ := n.Find(key)
			out[key] = View(item)
		}
		return out
	case *proxy.EntityProxy:
		return viewFields(&n.StructProxy)
	case *proxy.StructProxy:
		return viewFields(n)
	case *proxy.ReferenceProxy:
		return n.Collection + "/" + n.Key
	case *proxy.StructCollectionProxy:
		switch n.Layout() {
		case proxy.LayoutSequence:
			out := make([]any, 0, n.Len())
			for _, item := range n.Items() {
				out = append(out, View(item))
			}
			return out
		case proxy.LayoutMapping:
			out := make(map[string]any)
			for _, key := range n.Keys() {
				item, _ := n.Item(key)
				out[key] = View(item)
			}
			return out
		default:
			out := make(map[string]any)
			for _, name := range n.Keys() {
				f, _ := n.Field(name)
				out[name] = View(f)
			}
			return out
		}
	case *proxy.SoaElement:
		return viewValue(n.Buffer())
	case *proxy.AosElement:
		return nil
	}
	return nil
}

func viewFields(p *proxy.StructProxy) map[string]any {
	out := make(map[string]any, p.Len())
	for _, name := range p.Names() {
		v, _ := p.Get(name)
		out[name] = viewValue(v)
	}
	return out
}

func viewValue(v any) any {
	switch x := v.(type) {
	case proxy.Proxy:
		return View(x)
	case []float64:
		return toAny(x)
	case []float32:
		return toAny(x)
	case []int64:
		return toAny(x)
	case []bool:
		return toAny(x)
	case [][]float64:
		cols := make([]any, len(x))
		for i, c := range x {
			cols[i] = toAny(c)
		}
		return cols
	}
	return v
}

// Query evaluates a JSONPath expression against the View of a proxy tree.
func Query(p proxy.Proxy, path string) ([]any, error) {
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", path, err)
	}
	return x.Get(View(p)), nil
}
