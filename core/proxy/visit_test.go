package proxy

import (
	"errors"
	"testing"

	"scene-mirror/core/filter"
	"scene-mirror/core/host"
	"scene-mirror/core/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitContext_Snapshot(t *testing.T) {
	doc := parseScene(t)
	reg := doc.Registry()
	v := NewVisitContext(doc, filter.Default(reg), 0)

	total := 0
	for _, name := range doc.CollectionNames() {
		l, _ := doc.List(name)
		for _, o := range l.Objects() {
			total++
			assert.True(t, v.Roots().Contains(o), "%s/%s", name, o.Name())
			assert.NotEmpty(t, o.UUID())
		}
	}
	assert.Len(t, v.Roots(), total)

	// the nested master collection is not a top-level entity
	scene := entity(t, doc, "scenes", "Scene")
	master, _ := scene.Get("collection")
	assert.False(t, v.Roots().Contains(master.(host.Struct)))

	// entities added later are not part of this snapshot
	late, err := doc.New("materials", "Late")
	require.NoError(t, err)
	assert.False(t, v.Roots().Contains(late))
}

func TestVisitContext_ExcludedCollections(t *testing.T) {
	doc := parseScene(t)
	ctx := filter.New(doc.Registry(), filter.Config{ExcludeCollections: []string{"materials"}})
	v := NewVisitContext(doc, ctx, 0)

	assert.False(t, v.Roots().Contains(entity(t, doc, "materials", "Red")))
	assert.True(t, v.Roots().Contains(entity(t, doc, "objects", "Cube")))
}

func TestVisitContext_Enter(t *testing.T) {
	doc := host.NewDocument(schema.Builtin())
	v := NewVisitContext(doc, filter.Default(doc.Registry()), 3)

	leaveA, err := v.Enter("objects", nil)
	require.NoError(t, err)
	leaveB, err := v.Enter("Cube", nil)
	require.NoError(t, err)
	leaveC, err := v.Enter("location", nil)
	require.NoError(t, err)
	assert.Equal(t, "objects.Cube.location", v.Path())
	assert.Equal(t, 3, v.Depth())

	_, err = v.Enter("x", nil)
	assert.True(t, errors.Is(err, ErrCycleOverflow))
	assert.Contains(t, err.Error(), "objects.Cube.location.x")
	assert.Equal(t, 3, v.Depth())

	leaveC()
	leaveB()
	assert.Equal(t, "objects", v.Path())
	leaveA()
	assert.Equal(t, 0, v.Depth())
	assert.Equal(t, "", v.Path())
}

func TestEnsureUUID_Idempotent(t *testing.T) {
	reg := schema.Builtin()
	mat, _ := reg.Lookup("Material")
	o := host.NewObject(mat, "Red")

	first := EnsureUUID(o)
	second := EnsureUUID(o)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, first, o.UUID())

	other := host.NewObject(mat, "Blue")
	assert.NotEqual(t, first, EnsureUUID(other))
}
