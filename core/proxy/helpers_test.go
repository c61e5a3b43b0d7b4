package proxy

import (
	"strconv"
	"testing"

	"scene-mirror/core/filter"
	"scene-mirror/core/host"
	"scene-mirror/core/schema"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testScene = `
scenes:
  Scene:
    frame_start: 1
    frame_end: 120
    use_nodes: true
    compositor_quality: HIGH
    world: {ref: worlds/World}
    camera: {ref: objects/Camera}
    collection:
      objects: [objects/Cube, objects/Camera]
    render: {resolution_x: 1920, resolution_y: 1080}
    sequence_editor: {show_overlay: true}
worlds:
  World:
    color: [0.1, 0.1, 0.1]
objects:
  Cube:
    location: [0, 0, 1]
    layers: [true, false, false, false]
    data: {ref: meshes/CubeMesh}
    active_material: {ref: materials/Red}
    modifiers:
      Subsurf: {type: SUBSURF, levels: 2}
  Camera:
    location: [7, -6, 5]
    rotation_euler: [1.1, 0, 0.8]
    parent: {ref: objects/Cube}
    active_material: {ref: materials/Red}
    custom: {rig: hero, weight: 0.5}
meshes:
  CubeMesh:
    materials: [materials/Red]
    vertices:
      - {co: [-1, -1, -1], select: true, bevel_weight: 0, index: 0}
      - {co: [1, -1, -1], select: false, bevel_weight: 0.25, index: 1}
      - {co: [1, 1, -1], select: true, bevel_weight: 0.5, index: 2}
      - {co: [-1, 1, -1], select: false, bevel_weight: 1, index: 3}
    loops:
      - {vertex_index: 0, edge_index: 0}
      - {vertex_index: 1, edge_index: 1}
materials:
  Red:
    diffuse_color: [0.8, 0.1, 0.1, 1]
    roughness: 0.4
  Blue:
    diffuse_color: [0.1, 0.1, 0.8, 1]
lights:
  Key:
    type: SPOT
    energy: 1000
    spot_size: 0.785
`

func parseScene(t *testing.T) *host.Document {
	t.Helper()
	doc, err := host.ParseScene(schema.Builtin(), []byte(testScene))
	require.NoError(t, err)
	return doc
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

func newTestLoader(doc *host.Document, opts ...Option) (*Loader, *observer.ObservedLogs) {
	log, logs := observed()
	return NewLoader(doc, filter.Default(doc.Registry()), log, opts...), logs
}

func newTestWriter(doc *host.Document) (*Writer, *observer.ObservedLogs) {
	log, logs := observed()
	return NewWriter(doc, log), logs
}

func entity(t *testing.T, doc *host.Document, collection, name string) *host.Object {
	t.Helper()
	o, ok := doc.Entity(collection, name)
	require.True(t, ok, "%s/%s", collection, name)
	return o
}

func lookupType(t *testing.T, reg *schema.Registry, name string) *schema.Type {
	t.Helper()
	typ, ok := reg.Lookup(name)
	require.True(t, ok)
	return typ
}

func diagKinds(diags []Diagnostic) []DiagKind {
	kinds := make([]DiagKind, len(diags))
	for i, d := range diags {
		kinds[i] = d.Kind
	}
	return kinds
}

// walk calls fn for every proxy node below p, with the attribute path leading to it.
func walk(p Proxy, path string, fn func(path string, p Proxy)) {
	fn(path, p)
	switch n := p.(type) {
	case *Root:
		for _, name := range n.Names() {
			c, _ := n.Collection(name)
			walk(c, name, fn)
		}
	case *DataCollectionProxy:
		for _, k := range n.Keys() {
			item, _ := n.Find(k)
			walk(item, path+"/"+k, fn)
		}
	case *EntityProxy:
		walkStruct(&n.StructProxy, path, fn)
	case *StructProxy:
		walkStruct(n, path, fn)
	case *StructCollectionProxy:
		for i, item := range n.Items() {
			walk(item, path+"["+strconv.Itoa(i)+"]", fn)
		}
		for _, k := range n.Keys() {
			if item, ok := n.Item(k); ok {
				walk(item, path+"["+k+"]", fn)
			} else if f, ok := n.Field(k); ok {
				walk(f, path+"."+k, fn)
			}
		}
	}
}

func walkStruct(s *StructProxy, path string, fn func(string, Proxy)) {
	for _, name := range s.Names() {
		v, _ := s.Get(name)
		if child, ok := v.(Proxy); ok {
			walk(child, path+"."+name, fn)
		}
	}
}
