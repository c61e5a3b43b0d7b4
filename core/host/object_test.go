package host_test

import (
	"errors"
	"testing"

	"scene-mirror/core/host"
	"scene-mirror/core/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(t *testing.T, reg *schema.Registry, name string) *schema.Type {
	t.Helper()
	typ, ok := reg.Lookup(name)
	require.True(t, ok, "type %s", name)
	return typ
}

func TestObject_Set(t *testing.T) {
	reg := schema.Builtin()
	obj := host.NewObject(lookup(t, reg, "Object"), "Cube")

	tests := []struct {
		name    string
		attr    string
		value   any
		wantErr error
	}{
		{"Vector", "location", []float64{1, 2, 3}, nil},
		{"Vector wrong width", "location", []float64{1, 2}, host.ErrTypeMismatch},
		{"Int from int", "pass_index", 3, nil},
		{"Bool", "hide_render", true, nil},
		{"Bool from string", "hide_render", "yes", host.ErrTypeMismatch},
		{"Read-only", "matrix_world", [][]float64{{1}}, host.ErrReadOnly},
		{"Unknown", "does_not_exist", 1, host.ErrNoSuchProperty},
		{"Array", "layers", []bool{true, false, false, true}, nil},
		{"Array wrong element kind", "layers", []int64{1, 0, 0, 1}, host.ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := obj.Set(tt.attr, tt.value)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	v, ok := obj.Get("location")
	assert.True(t, ok)
	assert.Equal(t, host.Vector{1, 2, 3}, v)

	v, _ = obj.Get("pass_index")
	assert.Equal(t, int64(3), v)
}

func TestObject_PointerTypeCheck(t *testing.T) {
	reg := schema.Builtin()
	obj := host.NewObject(lookup(t, reg, "Object"), "Cube")
	mat := host.NewObject(lookup(t, reg, "Material"), "Red")
	mesh := host.NewObject(lookup(t, reg, "Mesh"), "CubeMesh")

	assert.NoError(t, obj.Set("active_material", mat))
	assert.ErrorIs(t, obj.Set("active_material", mesh), host.ErrTypeMismatch)
	// data accepts any ID
	assert.NoError(t, obj.Set("data", mesh))
	assert.NoError(t, obj.Set("data", nil))

	v, ok := obj.Get("data")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestObject_DiscriminatorSwitchesVariant(t *testing.T) {
	reg := schema.Builtin()
	light := host.NewObject(lookup(t, reg, "Light"), "Lamp")
	require.NoError(t, light.Set("type", "POINT"))

	assert.ErrorIs(t, light.Set("spot_size", 0.5), host.ErrNoSuchProperty)

	require.NoError(t, light.Set("type", "SPOT"))
	assert.NoError(t, light.Set("spot_size", 0.5))

	v, ok := light.Get("spot_size")
	assert.True(t, ok)
	assert.Equal(t, 0.5, v)

	// hidden again once the variant no longer exposes it
	require.NoError(t, light.Set("type", "SUN"))
	_, ok = light.Get("spot_size")
	assert.False(t, ok)
}

func TestObject_BagProperties(t *testing.T) {
	reg := schema.Builtin()
	bag := host.NewObject(lookup(t, reg, "CustomProperties"), "custom")

	require.NoError(t, bag.Set("weight", 2.5))
	require.NoError(t, bag.Set("label", "hero"))

	props := bag.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, "label", props[0].Name)
	assert.Equal(t, schema.KindString, props[0].Kind)
	assert.Equal(t, "weight", props[1].Name)
	assert.Equal(t, schema.KindFloat, props[1].Kind)
}

func TestObject_Create(t *testing.T) {
	reg := schema.Builtin()
	scene := host.NewObject(lookup(t, reg, "Scene"), "Scene")

	v, _ := scene.Get("sequence_editor")
	assert.Nil(t, v)

	require.NoError(t, scene.Create("sequence_editor"))
	v, _ = scene.Get("sequence_editor")
	require.NotNil(t, v)
	first := v

	// creating twice keeps the existing struct
	require.NoError(t, scene.Create("sequence_editor"))
	v, _ = scene.Get("sequence_editor")
	assert.Same(t, first, v)

	assert.ErrorIs(t, scene.Create("frame_start"), host.ErrTypeMismatch)
}
