package reconcile

import (
	"testing"

	"scene-mirror/core/filter"
	"scene-mirror/core/host"
	"scene-mirror/core/proxy"
	"scene-mirror/core/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const scene = `
scenes:
  Scene:
    frame_end: 120
    camera: {ref: objects/Camera}
    render: {resolution_x: 1920, resolution_y: 1080}
objects:
  Cube:
    location: [0, 0, 1]
    active_material: {ref: materials/Red}
  Camera:
    location: [7, -6, 5]
materials:
  Red: {roughness: 0.4}
  Blue: {roughness: 0.2}
`

func parse(t *testing.T, src string) *host.Document {
	t.Helper()
	doc, err := host.ParseScene(schema.Builtin(), []byte(src))
	require.NoError(t, err)
	return doc
}

func newLoader(doc *host.Document) *proxy.Loader {
	return proxy.NewLoader(doc, filter.Default(doc.Registry()), zap.NewNop())
}

func load(t *testing.T, doc *host.Document) (*proxy.Root, *proxy.Loader) {
	t.Helper()
	l := newLoader(doc)
	root := proxy.NewRoot()
	require.NoError(t, root.Load(l))
	return root, l
}

func entity(t *testing.T, doc *host.Document, collection, name string) *host.Object {
	t.Helper()
	o, ok := doc.Entity(collection, name)
	require.True(t, ok, "%s/%s", collection, name)
	return o
}

func find(plan *Plan, collection, key string) (Result, bool) {
	for _, r := range plan.Results {
		if r.Collection == collection && r.Key == key {
			return r, true
		}
	}
	return Result{}, false
}

func TestCompute_Unchanged(t *testing.T) {
	doc := parse(t, scene)
	root, l := load(t, doc)

	delta, plan, err := Compute(root, l)
	require.NoError(t, err)

	assert.True(t, delta.Empty())
	assert.Empty(t, delta.Collections)
	assert.Equal(t, 5, plan.Summary.TotalItems)
	assert.Equal(t, 5, plan.Summary.Unchanged)
	assert.False(t, plan.Summary.Changed())
	for _, r := range plan.Results {
		assert.Equal(t, StatusUnchanged, r.Status, "%s/%s", r.Collection, r.Key)
		assert.NotEmpty(t, r.UUID)
	}
}

func TestCompute_Classification(t *testing.T) {
	doc := parse(t, scene)
	root, l := load(t, doc)

	require.NoError(t, doc.Rename("materials", "Red", "Crimson"))
	require.NoError(t, doc.Rename("materials", "Blue", "Navy"))
	require.NoError(t, entity(t, doc, "materials", "Navy").Set("roughness", 0.7))
	_, err := doc.New("materials", "Green")
	require.NoError(t, err)
	require.NoError(t, doc.Remove("objects", "Camera"))
	require.NoError(t, entity(t, doc, "objects", "Cube").Set("location", []float64{1, 2, 3}))
	render, _ := entity(t, doc, "scenes", "Scene").Get("render")
	require.NoError(t, render.(host.Struct).Set("resolution_x", int64(3840)))

	delta, plan, err := Compute(root, l)
	require.NoError(t, err)

	tests := []struct {
		collection string
		key        string
		status     Status
		previous   string
		changes    []string
	}{
		{"materials", "Crimson", StatusRenamed, "Red", []string{}},
		{"materials", "Navy", StatusRenamed, "Blue", []string{"roughness"}},
		{"materials", "Green", StatusAdded, "", []string{}},
		{"objects", "Camera", StatusRemoved, "", []string{}},
		{"objects", "Cube", StatusUpdated, "", []string{"active_material", "location"}},
		{"scenes", "Scene", StatusUpdated, "", []string{"camera", "render.resolution_x"}},
	}
	for _, tt := range tests {
		t.Run(tt.collection+"/"+tt.key, func(t *testing.T) {
			r, ok := find(plan, tt.collection, tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.status, r.Status)
			assert.Equal(t, tt.previous, r.Previous)
			assert.Equal(t, tt.changes, r.Changes)
		})
	}

	assert.Equal(t, PlanSummary{TotalItems: 6, Added: 1, Removed: 1, Renamed: 2, Updated: 3}, plan.Summary)

	mats := delta.Collections["materials"]
	require.NotNil(t, mats)
	assert.Equal(t, []string{"Green"}, mats.AddedNames())
	assert.Empty(t, mats.Removed)
	assert.Equal(t, []proxy.Rename{{Old: "Red", New: "Crimson"}, {Old: "Blue", New: "Navy"}}, mats.Renamed)
	require.Len(t, mats.Updated, 1)
	assert.Equal(t, "Navy", mats.Updated[0].Key)

	objs := delta.Collections["objects"]
	require.NotNil(t, objs)
	assert.Equal(t, []string{"Camera"}, objs.Removed)

	// a pointer to an entity no collection holds anymore loads as a definition
	scenes := delta.Collections["scenes"]
	require.Len(t, scenes.Updated, 1)
	assert.IsType(t, &proxy.EntityProxy{}, scenes.Updated[0].Delta.Set["camera"])
	assert.Contains(t, scenes.Updated[0].Delta.Nested, "render")
}

func TestCompute_ApplyConverges(t *testing.T) {
	doc := parse(t, scene)
	root, l := load(t, doc)

	require.NoError(t, doc.Rename("materials", "Red", "Crimson"))
	require.NoError(t, doc.Remove("materials", "Blue"))
	green, err := doc.New("materials", "Green")
	require.NoError(t, err)
	require.NoError(t, green.Set("roughness", 0.9))
	require.NoError(t, entity(t, doc, "objects", "Camera").Set("location", []float64{0, 0, 10}))

	plan, touched, err := Sync(root, l, Options{})
	require.NoError(t, err)
	assert.True(t, plan.Summary.Changed())
	// Green added, Blue removed, Red renamed, Cube and Camera updated
	assert.Equal(t, 5, touched)

	fresh, _ := load(t, doc)
	assert.True(t, root.Equal(fresh), "updated root differs from a fresh load")

	delta, plan, err := Compute(root, l)
	require.NoError(t, err)
	assert.True(t, delta.Empty())
	assert.False(t, plan.Summary.Changed())
}

func TestApply_DryRun(t *testing.T) {
	doc := parse(t, scene)
	root, l := load(t, doc)
	before, _ := load(t, doc)

	require.NoError(t, doc.Remove("materials", "Blue"))
	plan, touched, err := Sync(root, l, Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 0, touched)
	assert.Equal(t, 1, plan.Summary.Removed)
	assert.True(t, root.Equal(before))

	n, err := Apply(root, l, nil, Options{})
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCompute_AcrossDocuments(t *testing.T) {
	old := parse(t, `
materials:
  Red: {_uuid: m-1, roughness: 0.4}
  Blue: {_uuid: m-2}
`)
	cur := parse(t, `
materials:
  Crimson: {_uuid: m-1, roughness: 0.4}
  Blue: {_uuid: m-3}
`)
	root, _ := load(t, old)

	delta, plan, err := Compute(root, newLoader(cur))
	require.NoError(t, err)

	r, ok := find(plan, "materials", "Crimson")
	require.True(t, ok)
	assert.Equal(t, StatusRenamed, r.Status)
	assert.Equal(t, "Red", r.Previous)

	// same name, different identity: compared by name
	r, ok = find(plan, "materials", "Blue")
	require.True(t, ok)
	assert.Equal(t, StatusUnchanged, r.Status)
	assert.Equal(t, "m-3", r.UUID)

	assert.Equal(t, []proxy.Rename{{Old: "Red", New: "Crimson"}}, delta.Collections["materials"].Renamed)
}

func TestDiff(t *testing.T) {
	inner := proxy.NewStructProxy()
	inner.Set("resolution_x", int64(1920))
	inner.Set("resolution_y", int64(1080))
	old := proxy.NewStructProxy()
	old.Set("frame_end", int64(120))
	old.Set("frame_start", int64(1))
	old.Set("render", inner)
	old.Set("layers", []bool{true, false})

	innerCur := proxy.NewStructProxy()
	innerCur.Set("resolution_x", int64(1920))
	innerCur.Set("resolution_y", int64(720))
	cur := proxy.NewStructProxy()
	cur.Set("frame_end", int64(250))
	cur.Set("render", innerCur)
	cur.Set("layers", []bool{true, false})
	cur.Set("world", &proxy.ReferenceProxy{Collection: "worlds", Key: "World"})

	d := Diff(old, cur)
	assert.Equal(t, []string{"frame_end", "frame_start", "render.resolution_y", "world"}, d.Paths())
	assert.Equal(t, []string{"frame_start"}, d.Unset)

	d.Apply(old, func(attr, reason string) { t.Errorf("unexpected report for %s: %s", attr, reason) })
	assert.True(t, old.Equal(cur))
	assert.True(t, Diff(old, cur).Empty())
}
