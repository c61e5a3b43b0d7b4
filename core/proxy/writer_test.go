package proxy

import (
	"testing"

	"scene-mirror/core/filter"
	"scene-mirror/core/host"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityProxy_RoundTrip(t *testing.T) {
	tests := []struct {
		collection string
		name       string
	}{
		{"objects", "Camera"},
		{"materials", "Red"},
		{"worlds", "World"},
		{"lights", "Key"},
	}
	for _, tt := range tests {
		t.Run(tt.collection+"/"+tt.name, func(t *testing.T) {
			doc := parseScene(t)
			l, _ := newTestLoader(doc)
			original, err := l.LoadEntity(entity(t, doc, tt.collection, tt.name))
			require.NoError(t, err)

			fresh, err := doc.New(tt.collection, "Copy")
			require.NoError(t, err)
			list, _ := doc.List(tt.collection)

			w, _ := newTestWriter(doc)
			w.WriteAttribute(list, NameKey("Copy"), original)
			assert.Empty(t, w.Diagnostics())

			reloaded, err := l.LoadEntity(fresh)
			require.NoError(t, err)
			assert.True(t, original.Equal(reloaded), "reloaded copy differs")
			assert.NotEqual(t, original.UUID(), reloaded.UUID())
		})
	}
}

func TestEntityProxy_TwoPhaseWrite(t *testing.T) {
	doc := parseScene(t)
	l, _ := newTestLoader(doc)
	key, err := l.LoadEntity(entity(t, doc, "lights", "Key"))
	require.NoError(t, err)

	newPointLight := func(name string) *host.Object {
		o, err := doc.New("lights", name)
		require.NoError(t, err)
		require.NoError(t, o.Set("type", "POINT"))
		return o
	}
	list, _ := doc.List("lights")

	t.Run("gate written first", func(t *testing.T) {
		dest := newPointLight("Fill")
		w, _ := newTestWriter(doc)
		key.Save(w, list, NameKey("Fill"))

		assert.Empty(t, w.Diagnostics())
		v, _ := dest.Get("type")
		assert.Equal(t, "SPOT", v)
		v, ok := dest.Get("spot_size")
		assert.True(t, ok)
		assert.Equal(t, 0.785, v)
	})

	t.Run("bulk write alone misses dependent attributes", func(t *testing.T) {
		dest := newPointLight("Rim")
		w, _ := newTestWriter(doc)
		key.StructProxy.Save(w, list, NameKey("Rim"))

		failed := filterDiags(w.Diagnostics(), DiagWriteFailed)
		require.Len(t, failed, 1)
		assert.Equal(t, "spot_size", failed[0].Attribute)
		// exposed once the type is written last, but never assigned
		v, _ := dest.Get("spot_size")
		assert.Nil(t, v)
	})

	t.Run("scene gate and created sub-struct", func(t *testing.T) {
		scene, err := l.LoadEntity(entity(t, doc, "scenes", "Scene"))
		require.NoError(t, err)
		dest, err := doc.New("scenes", "Shot")
		require.NoError(t, err)
		scenes, _ := doc.List("scenes")

		w, _ := newTestWriter(doc)
		scene.Save(w, scenes, NameKey("Shot"))

		v, _ := dest.Get("compositor_quality")
		assert.Equal(t, "HIGH", v)
		v, _ = dest.Get("sequence_editor")
		require.NotNil(t, v)
		overlay, _ := v.(host.Struct).Get("show_overlay")
		assert.Equal(t, true, overlay)

		// read-only pointers of a fresh scene have nothing to write into
		for _, d := range w.Diagnostics() {
			assert.Contains(t, []string{"collection", "render"}, d.Attribute)
			assert.Equal(t, DiagDestinationMissing, d.Kind)
		}
	})
}

func TestWriter_WriteAttribute(t *testing.T) {
	doc := parseScene(t)
	cube := entity(t, doc, "objects", "Cube")
	scene := entity(t, doc, "scenes", "Scene")
	list, _ := doc.List("materials")

	tests := []struct {
		name   string
		target any
		key    Key
		value  any
		want   DiagKind
	}{
		{"Read-only attribute", cube, NameKey("matrix_world"), [][]float64{{1}}, DiagReadOnly},
		{"Type mismatch", cube, NameKey("location"), "up", DiagWriteFailed},
		{"Unknown attribute", cube, NameKey("wings"), 2.0, DiagWriteFailed},
		{"Plain value into a collection", list, NameKey("Red"), 1.0, DiagUnsupported},
		{"Reference into a collection", list, NameKey("Red"), &ReferenceProxy{Collection: "materials", Key: "Red"}, DiagUnimplemented},
		{"Reference into a read-only pointer", scene, NameKey("collection"), &ReferenceProxy{Collection: "collections", Key: "Any"}, DiagReadOnly},
		{"Unresolved reference", cube, NameKey("active_material"), &ReferenceProxy{Collection: "materials", Key: "Missing"}, DiagDestinationMissing},
		{"Reference to unknown attribute", cube, NameKey("wings"), &ReferenceProxy{Collection: "materials", Key: "Red"}, DiagDestinationMissing},
		{"Struct without destination", cube, NameKey("custom"), NewStructProxy(), DiagDestinationMissing},
		{"Batched collection", cube, NameKey("modifiers"), NewBatchedProxy(0, nil), DiagUnimplemented},
		{"Soa element", cube, NameKey("modifiers"), NewSoaElement([]bool{true}), DiagUnimplemented},
		{"Aos element", cube, NameKey("modifiers"), &AosElement{}, DiagUnimplemented},
		{"Sequence without destination", cube, NameKey("nothing"), NewSequenceProxy(nil), DiagDestinationMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, logs := newTestWriter(doc)
			assert.NotPanics(t, func() { w.WriteAttribute(tt.target, tt.key, tt.value) })
			require.Len(t, w.Diagnostics(), 1)
			assert.Equal(t, tt.want, w.Diagnostics()[0].Kind)
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestWriter_ReferenceAssignment(t *testing.T) {
	doc := parseScene(t)
	cube := entity(t, doc, "objects", "Cube")
	blue := entity(t, doc, "materials", "Blue")

	w, _ := newTestWriter(doc)
	w.WriteAttribute(cube, NameKey("active_material"), &ReferenceProxy{Collection: "materials", Key: "Blue"})

	assert.Empty(t, w.Diagnostics())
	v, _ := cube.Get("active_material")
	assert.Same(t, blue, v)
}

func TestStructCollectionProxy_Save(t *testing.T) {
	doc := parseScene(t)
	cube := entity(t, doc, "objects", "Cube")
	mesh := entity(t, doc, "meshes", "CubeMesh")

	t.Run("mapping", func(t *testing.T) {
		sub := NewStructProxy()
		sub.Set("levels", int64(4))
		missing := NewStructProxy()
		missing.Set("levels", int64(1))
		p := NewMappingProxy(map[string]*StructProxy{"Subsurf": sub, "Bevel": missing})

		w, _ := newTestWriter(doc)
		w.WriteAttribute(cube, NameKey("modifiers"), p)

		v, _ := cube.Get("modifiers")
		live, _ := v.(host.Collection).Lookup("Subsurf")
		levels, _ := live.Get("levels")
		assert.Equal(t, int64(4), levels)
		// elements are never created
		assert.Equal(t, []DiagKind{DiagDestinationMissing}, diagKinds(w.Diagnostics()))
	})

	t.Run("sequence", func(t *testing.T) {
		first := NewStructProxy()
		first.Set("edge_index", int64(7))
		p := NewSequenceProxy([]*StructProxy{first, NewStructProxy(), NewStructProxy()})

		w, _ := newTestWriter(doc)
		w.WriteAttribute(mesh, NameKey("loops"), p)

		v, _ := mesh.Get("loops")
		live, _ := v.(host.Collection).At(0)
		edge, _ := live.Get("edge_index")
		assert.Equal(t, int64(7), edge)
		assert.Equal(t, []DiagKind{DiagDestinationMissing}, diagKinds(w.Diagnostics()))
	})
}

func TestNilLogger(t *testing.T) {
	doc := parseScene(t)
	cube := entity(t, doc, "objects", "Cube")

	var hooked []DiagKind
	hook := WithDiagnosticHook(func(d Diagnostic) { hooked = append(hooked, d.Kind) })

	w := NewWriter(doc, nil, hook)
	assert.NotPanics(t, func() { w.WriteAttribute(cube, NameKey("matrix_world"), [][]float64{{1}}) })
	assert.Equal(t, []DiagKind{DiagReadOnly}, diagKinds(w.Diagnostics()))

	l := NewLoader(doc, filter.Default(doc.Registry()), nil, hook)
	assert.NotPanics(t, func() { l.report(DiagUnimplemented, "objects.Cube", "modifiers", "aos element") })
	assert.Equal(t, []DiagKind{DiagUnimplemented}, diagKinds(l.Diagnostics()))
	assert.Equal(t, []DiagKind{DiagReadOnly, DiagUnimplemented}, hooked)
}
