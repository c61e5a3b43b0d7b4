package host

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"scene-mirror/core/schema"
	"scene-mirror/core/utils"

	"gopkg.in/yaml.v3"
)

// LoadScene reads a YAML scene document from path.
func LoadScene(reg *schema.Registry, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	doc, err := ParseScene(reg, data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return doc, nil
}

// ParseScene decodes a YAML scene document.
//
// The document maps top-level collection names to entities, and entities to their
// attributes:
//
//	objects:
//	  Cube:
//	    location: [0, 0, 1]
//	    data: {ref: meshes/CubeMesh}
//	meshes:
//	  CubeMesh:
//	    vertices:
//	      - {co: [0, 0, 0], select: true}
//
// References are written {ref: "<collection>/<name>"}; collections of entities are
// lists of "<collection>/<name>" strings. Every entity is created before any attribute
// is decoded, so references may point forward. A top-level entity may carry its
// identifier under the reserved "_uuid" key.
func ParseScene(reg *schema.Registry, data []byte) (*Document, error) {
	var raw map[string]map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	doc := NewDocument(reg)
	collections := sortedKeys(raw)
	for _, coll := range collections {
		if _, ok := doc.lists[coll]; !ok {
			return nil, fmt.Errorf("unknown collection %q", coll)
		}
		for _, name := range sortedKeys(raw[coll]) {
			obj, err := doc.New(coll, name)
			if err != nil {
				return nil, err
			}
			if id, ok := raw[coll][name][uuidKey]; ok {
				obj.SetUUID(utils.ToString(id))
				delete(raw[coll][name], uuidKey)
			}
		}
	}

	d := &sceneDecoder{doc: doc}
	for _, coll := range collections {
		for _, name := range sortedKeys(raw[coll]) {
			obj, _ := doc.Entity(coll, name)
			if err := d.decodeStruct(obj, raw[coll][name], coll+"/"+name); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

const uuidKey = "_uuid"

type sceneDecoder struct {
	doc *Document
}

func (d *sceneDecoder) decodeStruct(obj *Object, fields map[string]any, path string) error {
	keys := sortedKeys(fields)
	// the discriminator selects which other attributes exist
	if disc := obj.typ.Discriminator; disc != "" {
		if _, ok := fields[disc]; ok {
			keys = append([]string{disc}, removeKey(keys, disc)...)
		}
	}
	for _, key := range keys {
		raw := fields[key]
		if obj.typ.Bag {
			v, err := d.decodeBagValue(raw, path+"."+key)
			if err != nil {
				return err
			}
			obj.Init(key, v)
			continue
		}
		prop := obj.Property(key)
		if prop == nil {
			return fmt.Errorf("%s.%s: %w", path, key, ErrNoSuchProperty)
		}
		v, err := d.decodeValue(prop, raw, path+"."+key)
		if err != nil {
			return err
		}
		obj.Init(key, v)
	}
	return nil
}

func (d *sceneDecoder) decodeValue(prop *schema.Property, raw any, path string) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch prop.Kind {
	case schema.KindBool:
		return asBool(raw, path)
	case schema.KindInt:
		return asInt(raw, path)
	case schema.KindFloat:
		return asFloat(raw, path)
	case schema.KindString, schema.KindEnum:
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%s: %v is not a string: %w", path, raw, ErrTypeMismatch)
		}
		return str, nil
	case schema.KindVector:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: vector must be a list: %w", path, ErrTypeMismatch)
		}
		return toVector(items, path)
	case schema.KindMatrix:
		cols, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: matrix must be a list of columns: %w", path, ErrTypeMismatch)
		}
		m := make(Matrix, len(cols))
		for i, c := range cols {
			col, ok := c.([]any)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: column must be a list: %w", path, i, ErrTypeMismatch)
			}
			v, err := toVector(col, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			m[i] = v
		}
		return m, nil
	case schema.KindArray:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: array must be a list: %w", path, ErrTypeMismatch)
		}
		return toArray(prop.ElemKind, items, path)
	case schema.KindPointer, schema.KindStruct:
		fields, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: struct must be a mapping: %w", path, ErrTypeMismatch)
		}
		if ref, ok := fields["ref"]; ok && len(fields) == 1 {
			return d.resolve(utils.ToString(ref), path)
		}
		nested := NewObject(prop.FixedType, lastSegment(path))
		if err := d.decodeStruct(nested, fields, path); err != nil {
			return nil, err
		}
		return nested, nil
	case schema.KindCollection:
		return d.decodeCollection(prop, raw, path)
	}
	return nil, fmt.Errorf("%s: unsupported kind %s", path, prop.Kind)
}

func (d *sceneDecoder) decodeCollection(prop *schema.Property, raw any, path string) (any, error) {
	elem := prop.FixedType
	if d.doc.registry.IsEntityType(elem) {
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: entity collection must be a list of references: %w", path, ErrTypeMismatch)
		}
		list := NewMapping(elem)
		for i, item := range items {
			target := utils.ToString(item)
			if m, ok := item.(map[string]any); ok {
				target = utils.ToString(m["ref"])
			}
			ref, err := d.resolve(target, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			if err := list.Add(ref.Name(), ref); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
		return list, nil
	}

	switch v := raw.(type) {
	case []any:
		list := NewSequence(elem)
		for i, item := range v {
			fields, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: element must be a mapping: %w", path, i, ErrTypeMismatch)
			}
			o := NewObject(elem, "")
			if err := d.decodeStruct(o, fields, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return nil, err
			}
			_ = list.Append(o)
		}
		return list, nil
	case map[string]any:
		list := NewMapping(elem)
		for _, key := range sortedKeys(v) {
			fields, ok := v[key].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s.%s: element must be a mapping: %w", path, key, ErrTypeMismatch)
			}
			o := NewObject(elem, key)
			if err := d.decodeStruct(o, fields, path+"."+key); err != nil {
				return nil, err
			}
			_ = list.Add(key, o)
		}
		return list, nil
	}
	return nil, fmt.Errorf("%s: collection must be a list or a mapping: %w", path, ErrTypeMismatch)
}

func (d *sceneDecoder) decodeBagValue(raw any, path string) (any, error) {
	switch v := raw.(type) {
	case bool, string, float64:
		return v, nil
	case int:
		return int64(v), nil
	case []any:
		return toVector(v, path)
	case map[string]any:
		if ref, ok := v["ref"]; ok && len(v) == 1 {
			return d.resolve(utils.ToString(ref), path)
		}
	}
	return nil, fmt.Errorf("%s: unsupported custom property value %T", path, raw)
}

func (d *sceneDecoder) resolve(ref, path string) (*Object, error) {
	coll, name, ok := strings.Cut(ref, "/")
	if !ok {
		return nil, fmt.Errorf("%s: reference %q is not <collection>/<name>", path, ref)
	}
	obj, ok := d.doc.Entity(coll, name)
	if !ok {
		return nil, fmt.Errorf("%s: dangling reference %q", path, ref)
	}
	return obj, nil
}

func asBool(raw any, path string) (bool, error) {
	if b, ok := raw.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("%s: %v is not a boolean: %w", path, raw, ErrTypeMismatch)
}

// asInt accepts integers and floats without a fractional part.
func asInt(raw any, path string) (int64, error) {
	switch v := raw.(type) {
	case int, int64, uint64:
		return utils.ToInt64(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int64(v), nil
		}
	}
	return 0, fmt.Errorf("%s: %v is not an integer: %w", path, raw, ErrTypeMismatch)
}

func asFloat(raw any, path string) (float64, error) {
	switch raw.(type) {
	case int, int64, uint64, float64:
		return utils.ToFloat(raw), nil
	}
	return 0, fmt.Errorf("%s: %v is not a number: %w", path, raw, ErrTypeMismatch)
}

func convertItems[T any](items []any, path string, conv func(any, string) (T, error)) ([]T, error) {
	out := make([]T, len(items))
	for i, item := range items {
		v, err := conv(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func toVector(items []any, path string) (Vector, error) {
	return convertItems(items, path, asFloat)
}

func toArray(kind schema.Kind, items []any, path string) (any, error) {
	switch kind {
	case schema.KindBool:
		out, err := convertItems(items, path, asBool)
		if err != nil {
			return nil, err
		}
		return BoolArray(out), nil
	case schema.KindInt:
		out, err := convertItems(items, path, asInt)
		if err != nil {
			return nil, err
		}
		return IntArray(out), nil
	default:
		out, err := convertItems(items, path, asFloat)
		if err != nil {
			return nil, err
		}
		return FloatArray(out), nil
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func removeKey(keys []string, key string) []string {
	out := keys[:0:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}

func lastSegment(path string) string {
	if i := strings.LastIndexAny(path, "./"); i >= 0 {
		return path[i+1:]
	}
	return path
}
