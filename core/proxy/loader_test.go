package proxy

import (
	"errors"
	"strings"
	"testing"

	"scene-mirror/core/filter"
	"scene-mirror/core/host"
	"scene-mirror/core/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadRoot(t *testing.T, doc *host.Document) (*Root, *Loader) {
	t.Helper()
	l, _ := newTestLoader(doc)
	root := NewRoot()
	require.NoError(t, root.Load(l))
	return root, l
}

func TestRoot_Load(t *testing.T) {
	doc := parseScene(t)
	root, _ := loadRoot(t, doc)

	assert.Equal(t, doc.CollectionNames(), root.Names())

	cube, ok := root.Find("objects", "Cube")
	require.True(t, ok)
	assert.Equal(t, entity(t, doc, "objects", "Cube").UUID(), cube.UUID())

	v, _ := cube.Get("location")
	assert.Equal(t, []float64{0, 0, 1}, v)
	v, _ = cube.Get("layers")
	assert.Equal(t, []bool{true, false, false, false}, v)
	v, _ = cube.Get("data")
	assert.Equal(t, &ReferenceProxy{Collection: "meshes", Key: "CubeMesh"}, v)

	t.Run("unset attributes are omitted", func(t *testing.T) {
		_, ok := cube.Get("parent")
		assert.False(t, ok)
		_, ok = cube.Get("custom")
		assert.False(t, ok)
	})

	t.Run("mapping of structs", func(t *testing.T) {
		v, _ := cube.Get("modifiers")
		mods, ok := v.(*StructCollectionProxy)
		require.True(t, ok)
		assert.Equal(t, LayoutMapping, mods.Layout())
		sub, ok := mods.Item("Subsurf")
		require.True(t, ok)
		levels, _ := sub.Get("levels")
		assert.Equal(t, int64(2), levels)
	})

	t.Run("sequence of plain structs", func(t *testing.T) {
		mesh, _ := root.Find("meshes", "CubeMesh")
		v, _ := mesh.Get("loops")
		loops := v.(*StructCollectionProxy)
		assert.Equal(t, LayoutSequence, loops.Layout())
		assert.Len(t, loops.Items(), 2)
	})

	t.Run("nested entity at a defining slot", func(t *testing.T) {
		scene, _ := root.Find("scenes", "Scene")
		v, _ := scene.Get("collection")
		master, ok := v.(*EntityProxy)
		require.True(t, ok)
		objs, _ := master.Get("objects")
		refs := objs.(*DataCollectionProxy)
		assert.Equal(t, []string{"Camera", "Cube"}, refs.Keys())
		ref, _ := refs.Find("Cube")
		assert.Equal(t, &ReferenceProxy{Collection: "objects", Key: "Cube"}, ref)

		v, _ = scene.Get("render")
		_, ok = v.(*StructProxy)
		assert.True(t, ok)
	})

	t.Run("property bag", func(t *testing.T) {
		camera, _ := root.Find("objects", "Camera")
		v, _ := camera.Get("custom")
		bag := v.(*StructProxy)
		assert.Equal(t, []string{"rig", "weight"}, bag.Names())
	})
}

func TestRoot_Load_ReferenceIntegrity(t *testing.T) {
	doc := parseScene(t)
	root, _ := loadRoot(t, doc)
	reg := doc.Registry()

	count := 0
	walk(root, "", func(path string, p Proxy) {
		ref, ok := p.(*ReferenceProxy)
		if !ok {
			return
		}
		count++
		live, ok := ref.Resolve(doc)
		require.True(t, ok, path)
		require.NotNil(t, live, path)
		want, _ := reg.TypeForCollection(ref.Collection)
		assert.True(t, live.Type().IsA(want), path)
	})
	assert.Greater(t, count, 5)
}

func TestRoot_Load_NoDuplication(t *testing.T) {
	doc := parseScene(t)
	root, _ := loadRoot(t, doc)

	rootUUIDs := make(map[string]bool)
	for _, name := range doc.CollectionNames() {
		l, _ := doc.List(name)
		for _, o := range l.Objects() {
			rootUUIDs[o.UUID()] = true
		}
	}

	walk(root, "", func(path string, p Proxy) {
		e, ok := p.(*EntityProxy)
		if !ok {
			return
		}
		// only the canonical slot, <collection>/<name>, may own a top-level entity
		canonical := strings.Count(path, "/") == 1 && !strings.Contains(path, ".")
		if rootUUIDs[e.UUID()] {
			assert.True(t, canonical, "top-level entity copied at %s", path)
		}
	})
}

func TestRoot_Load_BatchedCollection(t *testing.T) {
	doc := parseScene(t)
	root, l := loadRoot(t, doc)

	mesh, _ := root.Find("meshes", "CubeMesh")
	v, _ := mesh.Get("vertices")
	verts := v.(*StructCollectionProxy)
	require.Equal(t, LayoutBatched, verts.Layout())
	assert.Equal(t, 4, verts.Len())

	tests := []struct {
		field string
		want  any
	}{
		{"co", []float32{-1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1, -1}},
		{"select", []bool{true, false, true, false}},
		{"bevel_weight", []float32{0, 0.25, 0.5, 1}},
		{"index", []int64{0, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f, ok := verts.Field(tt.field)
			require.True(t, ok)
			soa, ok := f.(*SoaElement)
			require.True(t, ok)
			assert.Equal(t, tt.want, soa.Buffer())
		})
	}

	t.Run("buffer sizing", func(t *testing.T) {
		f, _ := verts.Field("co")
		assert.Equal(t, 4*3, f.(*SoaElement).Len())
		f, _ = verts.Field("select")
		assert.Equal(t, 4, f.(*SoaElement).Len())
	})

	t.Run("nested collections stay array-of-structs", func(t *testing.T) {
		f, ok := verts.Field("groups")
		require.True(t, ok)
		assert.IsType(t, &AosElement{}, f)
		assert.Contains(t, diagKinds(l.Diagnostics()), DiagUnimplemented)
	})

	t.Run("vector fields without value are skipped", func(t *testing.T) {
		_, ok := verts.Field("normal")
		assert.False(t, ok)
		assert.Contains(t, diagKinds(l.Diagnostics()), DiagUnsupported)
	})
}

// plainCollection hides the batch reader of the wrapped collection.
type plainCollection struct {
	host.Collection
}

func TestLoader_BatchedFallsBackToElementReads(t *testing.T) {
	doc := parseScene(t)
	mesh := entity(t, doc, "meshes", "CubeMesh")
	v, _ := mesh.Get("vertices")
	mesh.Init("vertices", plainCollection{v.(*host.List)})

	l, _ := newTestLoader(doc)
	loaded, err := l.LoadEntity(mesh)
	require.NoError(t, err)

	verts, _ := loaded.Get("vertices")
	f, ok := verts.(*StructCollectionProxy).Field("co")
	require.True(t, ok)
	assert.Equal(t, []float32{-1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1, -1}, f.(*SoaElement).Buffer())
}

func TestLoader_Leniency(t *testing.T) {
	doc := parseScene(t)
	camera := entity(t, doc, "objects", "Camera")
	bag, _ := camera.Get("custom")
	bag.(*host.Object).Init("blob", struct{ X int }{1})

	l, logs := newTestLoader(doc)
	loaded, err := l.LoadEntity(camera)
	require.NoError(t, err)

	v, _ := loaded.Get("custom")
	custom := v.(*StructProxy)
	_, ok := custom.Get("blob")
	assert.False(t, ok)
	assert.Equal(t, []string{"rig", "weight"}, custom.Names())

	require.Len(t, l.Diagnostics(), 1)
	d := l.Diagnostics()[0]
	assert.Equal(t, DiagUnsupported, d.Kind)
	assert.Equal(t, "blob", d.Attribute)
	assert.Equal(t, "custom.blob", d.Path)

	entries := logs.FilterField(zap.String("attribute", "blob")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Attribute skipped", entries[0].Message)
}

func TestLoader_ReadAttributeWithoutMetadata(t *testing.T) {
	doc := parseScene(t)
	l, _ := newTestLoader(doc)

	v, err := l.ReadAttribute(1.5, nil)
	assert.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, []DiagKind{DiagUnsupported}, diagKinds(l.Diagnostics()))
}

func TestLoader_PlainValues(t *testing.T) {
	doc := parseScene(t)
	l, _ := newTestLoader(doc)

	tests := []struct {
		name  string
		value any
		kind  schema.Kind
		want  any
	}{
		{"bool", true, schema.KindBool, true},
		{"int", 3, schema.KindInt, int64(3)},
		{"float", 1.5, schema.KindFloat, 1.5},
		{"string", "x", schema.KindString, "x"},
		{"vector", host.Vector{1, 2}, schema.KindVector, []float64{1, 2}},
		{"matrix", host.Matrix{{1, 0}, {0, 1}}, schema.KindMatrix, [][]float64{{1, 0}, {0, 1}}},
		{"int array", host.IntArray{1, 2}, schema.KindArray, []int64{1, 2}},
		{"float array", host.FloatArray{0.5}, schema.KindArray, []float64{0.5}},
		{"nil", nil, schema.KindPointer, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.ReadAttribute(tt.value, &schema.Property{Name: tt.name, Kind: tt.kind})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("vectors are copied", func(t *testing.T) {
		src := host.Vector{1, 2, 3}
		got, _ := l.ReadAttribute(src, &schema.Property{Name: "v", Kind: schema.KindVector})
		src[0] = 9
		assert.Equal(t, []float64{1, 2, 3}, got)
	})
	assert.Empty(t, l.Diagnostics())
}

func TestLoader_DanglingReference(t *testing.T) {
	doc := parseScene(t)
	reg := doc.Registry()
	mesh := entity(t, doc, "meshes", "CubeMesh")
	v, _ := mesh.Get("materials")
	ghost := host.NewObject(lookupType(t, reg, "Material"), "Ghost")
	require.NoError(t, v.(*host.List).Add("Ghost", ghost))

	l, _ := newTestLoader(doc)
	loaded, err := l.LoadEntity(mesh)
	require.NoError(t, err)

	mats, _ := loaded.Get("materials")
	assert.Equal(t, []string{"Red"}, mats.(*DataCollectionProxy).Keys())
	assert.Equal(t, []DiagKind{DiagDanglingReference}, diagKinds(filterDiags(l.Diagnostics(), DiagDanglingReference)))
}

func filterDiags(diags []Diagnostic, kind DiagKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func TestLoader_CycleOverflow(t *testing.T) {
	reg := schema.NewRegistry()
	link := reg.Define(&schema.Type{Name: "Link"})
	link.Properties = []*schema.Property{
		{Name: "value", Kind: schema.KindInt},
		{Name: "next", Kind: schema.KindPointer, FixedType: link},
	}
	chain := reg.Define(&schema.Type{Name: "Chain", Base: reg.ID(), Properties: []*schema.Property{
		{Name: "head", Kind: schema.KindPointer, FixedType: link},
	}})
	require.NoError(t, reg.MapCollection("chains", chain))

	// a cycle of plain structs escapes reference classification
	a := host.NewObject(link, "a")
	b := host.NewObject(link, "b")
	a.Init("next", b)
	b.Init("next", a)

	doc := host.NewDocument(reg)
	c, err := doc.New("chains", "Loop")
	require.NoError(t, err)
	c.Init("head", a)

	l, _ := newTestLoader(doc, WithMaxDepth(10))
	root := NewRoot()
	root.Put("stale", NewDataCollectionProxy())

	err = root.Load(l)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycleOverflow))
	// a failed load leaves the previous content in place
	assert.Equal(t, []string{"stale"}, root.Names())
}

func TestLoader_Unreachable(t *testing.T) {
	doc := parseScene(t)
	l, _ := newTestLoader(doc)
	l.Begin()

	_, err := l.loadStructAs(LoadAs(7), entity(t, doc, "materials", "Red"))
	assert.ErrorIs(t, err, ErrUnreachable)

	v, _ := entity(t, doc, "meshes", "CubeMesh").Get("loops")
	_, err = l.loadCollectionAs(LoadAs(7), v.(host.Collection))
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestLoader_FilteredProperties(t *testing.T) {
	doc := parseScene(t)
	log, _ := observed()
	ctx := filter.New(doc.Registry(), filter.Config{ExcludeProperties: []string{"Object.location"}})
	l := NewLoader(doc, ctx, log)

	root := NewRoot()
	require.NoError(t, root.Load(l))
	cube, _ := root.Find("objects", "Cube")
	_, ok := cube.Get("location")
	assert.False(t, ok)
	_, ok = cube.Get("layers")
	assert.True(t, ok)
}

func TestLoader_DiagnosticHook(t *testing.T) {
	doc := parseScene(t)
	var seen []Diagnostic
	l, _ := newTestLoader(doc, WithDiagnosticHook(func(d Diagnostic) { seen = append(seen, d) }))

	root := NewRoot()
	require.NoError(t, root.Load(l))
	assert.Equal(t, l.Diagnostics(), seen)

	l.ResetDiagnostics()
	assert.Empty(t, l.Diagnostics())
}
