package schema

// Builtin returns the scene schema used by scene documents and the mirror service.
//
// Collections: scenes, objects, meshes, materials, lights, worlds, collections.
func Builtin() *Registry {
	r := NewRegistry()
	id := r.ID()

	custom := r.Define(&Type{Name: "CustomProperties", Bag: true})

	world := r.Define(&Type{Name: "World", Base: id, Properties: []*Property{
		vector("color", 3),
		{Name: "strength", Kind: KindFloat},
		{Name: "use_nodes", Kind: KindBool},
	}})

	material := r.Define(&Type{Name: "Material", Base: id, Creates: []string{"custom"}, Properties: []*Property{
		vector("diffuse_color", 4),
		{Name: "roughness", Kind: KindFloat},
		{Name: "metallic", Kind: KindFloat},
		{Name: "use_nodes", Kind: KindBool},
		{Name: "custom", Kind: KindStruct, FixedType: custom},
	}})

	groupElement := r.Define(&Type{Name: "VertexGroupElement", Properties: []*Property{
		{Name: "group", Kind: KindInt},
		{Name: "weight", Kind: KindFloat},
	}})

	vertex := r.Define(&Type{Name: "MeshVertex", Batchable: true, Properties: []*Property{
		vector("co", 3),
		vector("normal", 3),
		{Name: "select", Kind: KindBool},
		{Name: "bevel_weight", Kind: KindFloat},
		{Name: "index", Kind: KindInt, ReadOnly: true},
		{Name: "groups", Kind: KindCollection, FixedType: groupElement},
	}})

	loop := r.Define(&Type{Name: "MeshLoop", Properties: []*Property{
		{Name: "vertex_index", Kind: KindInt},
		{Name: "edge_index", Kind: KindInt},
	}})

	mesh := r.Define(&Type{Name: "Mesh", Base: id, Creates: []string{"custom"}, Properties: []*Property{
		{Name: "vertices", Kind: KindCollection, FixedType: vertex},
		{Name: "loops", Kind: KindCollection, FixedType: loop},
		{Name: "materials", Kind: KindCollection, FixedType: material},
		{Name: "use_auto_smooth", Kind: KindBool},
		{Name: "custom", Kind: KindStruct, FixedType: custom},
	}})

	light := r.Define(&Type{
		Name: "Light",
		Base: id,
		Properties: []*Property{
			{Name: "type", Kind: KindEnum},
			vector("color", 3),
			{Name: "energy", Kind: KindFloat},
		},
		Gates:         []Gate{{Property: "type", Reresolve: true}},
		Discriminator: "type",
		Variants: map[string][]*Property{
			"POINT": {{Name: "shadow_soft_size", Kind: KindFloat}},
			"SPOT": {
				{Name: "spot_size", Kind: KindFloat},
				{Name: "spot_blend", Kind: KindFloat},
				{Name: "shadow_soft_size", Kind: KindFloat},
			},
			"SUN": {{Name: "angle", Kind: KindFloat}},
		},
	})

	modifier := r.Define(&Type{Name: "Modifier", Properties: []*Property{
		{Name: "type", Kind: KindEnum, ReadOnly: true},
		{Name: "levels", Kind: KindInt},
		{Name: "show_viewport", Kind: KindBool},
	}})

	object := r.Define(&Type{Name: "Object", Base: id, Creates: []string{"custom"}})
	object.Properties = []*Property{
		vector("location", 3),
		vector("rotation_euler", 3),
		vector("scale", 3),
		{Name: "matrix_world", Kind: KindMatrix, Components: 4, ReadOnly: true},
		{Name: "pass_index", Kind: KindInt},
		{Name: "hide_render", Kind: KindBool},
		{Name: "layers", Kind: KindArray, ElemKind: KindBool, Components: 4},
		{Name: "data", Kind: KindPointer, FixedType: id},
		{Name: "parent", Kind: KindPointer, FixedType: object},
		{Name: "active_material", Kind: KindPointer, FixedType: material},
		{Name: "modifiers", Kind: KindCollection, FixedType: modifier},
		{Name: "custom", Kind: KindStruct, FixedType: custom},
	}

	collection := r.Define(&Type{Name: "Collection", Base: id})
	collection.Properties = []*Property{
		{Name: "objects", Kind: KindCollection, FixedType: object, ReadOnly: true},
		{Name: "children", Kind: KindCollection, FixedType: collection, ReadOnly: true},
		{Name: "hide_viewport", Kind: KindBool},
	}

	render := r.Define(&Type{Name: "RenderSettings", Properties: []*Property{
		{Name: "resolution_x", Kind: KindInt},
		{Name: "resolution_y", Kind: KindInt},
		{Name: "fps", Kind: KindInt},
		{Name: "engine", Kind: KindEnum},
	}})

	sequencer := r.Define(&Type{Name: "SequenceEditor", Properties: []*Property{
		{Name: "show_overlay", Kind: KindBool},
		{Name: "proxy_storage", Kind: KindEnum},
	}})

	scene := r.Define(&Type{
		Name: "Scene",
		Base: id,
		Properties: []*Property{
			{Name: "frame_start", Kind: KindInt},
			{Name: "frame_end", Kind: KindInt},
			{Name: "use_nodes", Kind: KindBool},
			{Name: "world", Kind: KindPointer, FixedType: world},
			{Name: "camera", Kind: KindPointer, FixedType: object},
			{Name: "collection", Kind: KindPointer, FixedType: collection, ReadOnly: true},
			{Name: "render", Kind: KindPointer, FixedType: render, ReadOnly: true},
			{Name: "sequence_editor", Kind: KindPointer, FixedType: sequencer, ReadOnly: true},
			{Name: "custom", Kind: KindStruct, FixedType: custom},
		},
		Gates:         []Gate{{Property: "use_nodes"}},
		Creates:       []string{"sequence_editor", "custom"},
		Discriminator: "use_nodes",
		Variants: map[string][]*Property{
			"true": {{Name: "compositor_quality", Kind: KindEnum}},
		},
	})

	for name, t := range map[string]*Type{
		"scenes":      scene,
		"objects":     object,
		"meshes":      mesh,
		"materials":   material,
		"lights":      light,
		"worlds":      world,
		"collections": collection,
	} {
		// every type above is a direct ID child, so mapping cannot fail
		_ = r.MapCollection(name, t)
	}
	return r
}

func vector(name string, components int) *Property {
	return &Property{Name: name, Kind: KindVector, Components: components}
}
