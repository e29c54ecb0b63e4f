package galaxy

// Geometry is the GPU-resident copy of one set of attribute buffers.
type Geometry interface {
	// Count returns the number of stars stored in the geometry.
	Count() int

	// Release frees the GPU buffers. It must be safe to call more than once.
	Release()
}

// Material is the compiled star program together with its uniform values.
type Material interface {
	// SetTime pushes the elapsed time, in seconds, into the time uniform.
	SetTime(seconds float32)

	// SetRotation sets the model rotation about the Y axis, in radians.
	SetRotation(radians float32)

	// Release frees the uniform buffer and bind group. It must be safe to call more than once.
	Release()
}

// Points is the drawable point cloud that pairs a Geometry with a Material.
type Points interface {
	Geometry() Geometry
	Material() Material
}

// MaterialUniforms are the values fixed when a Material is created.
type MaterialUniforms struct {
	// StarSize is the sprite size already multiplied by the capped pixel ratio.
	StarSize  float32
	SpinSpeed float32
	Pattern   Pattern
}

// ResourceFactory creates the GPU side of a galaxy.
type ResourceFactory interface {
	CreateGeometry(buffers *AttributeBuffers) (Geometry, error)
	CreateMaterial(uniforms MaterialUniforms) (Material, error)
	CreatePoints(geometry Geometry, material Material) (Points, error)
}

// SceneHost owns the scene the point cloud is drawn in.
type SceneHost interface {
	AddChild(points Points)
	RemoveChild(points Points)

	// Exclusive runs fn while no frame is being drawn, so fn can swap children without a frame
	// observing the intermediate state.
	Exclusive(fn func())
}

// ResourceState is the lifecycle state of a Resource: either Unbuilt or *Attached.
type ResourceState interface {
	isResourceState()
}

// Unbuilt is the state of a Resource that holds no GPU objects.
type Unbuilt struct{}

// Attached is the state of a Resource whose point cloud is in the scene.
// Its handles are only reachable by switching on the state.
type Attached struct {
	Points   Points
	Geometry Geometry
	Material Material

	host SceneHost
}

func (Unbuilt) isResourceState()   {}
func (*Attached) isResourceState() {}

// Resource owns exactly one geometry, material and point cloud triple. The zero value is Unbuilt.
// A Resource is owned by a single controller and is not safe for concurrent use.
type Resource struct {
	state ResourceState
}

// State returns the current lifecycle state.
func (r *Resource) State() ResourceState {
	if r.state == nil {
		return Unbuilt{}
	}
	return r.state
}

// Attached reports whether the point cloud is currently in the scene.
func (r *Resource) Attached() bool {
	_, ok := r.state.(*Attached)
	return ok
}

// Dispose removes the point cloud from the scene, then releases the geometry and then the material.
// Disposing an Unbuilt resource is a no-op.
func (r *Resource) Dispose() {
	a, ok := r.state.(*Attached)
	r.state = Unbuilt{}
	if !ok {
		return
	}
	a.host.RemoveChild(a.Points)
	a.Geometry.Release()
	a.Material.Release()
}

// Animate pushes the elapsed time and rotation into the material of an attached resource.
func (r *Resource) Animate(seconds, rotation float32) {
	if a, ok := r.state.(*Attached); ok {
		a.Material.SetTime(seconds)
		a.Material.SetRotation(rotation)
	}
}

// Count returns the number of stars in the attached geometry, or 0 when Unbuilt.
func (r *Resource) Count() int {
	if a, ok := r.state.(*Attached); ok {
		return a.Geometry.Count()
	}
	return 0
}

// buildHandles creates every GPU object of a resource without touching the scene.
// On failure, everything created so far is released.
func buildHandles(factory ResourceFactory, buffers *AttributeBuffers, uniforms MaterialUniforms) (*Attached, error) {
	geometry, err := factory.CreateGeometry(buffers)
	if err != nil {
		return nil, WrapResource("failed to create geometry", err)
	}
	material, err := factory.CreateMaterial(uniforms)
	if err != nil {
		geometry.Release()
		return nil, WrapResource("failed to create material", err)
	}
	points, err := factory.CreatePoints(geometry, material)
	if err != nil {
		geometry.Release()
		material.Release()
		return nil, WrapResource("failed to create point cloud", err)
	}
	return &Attached{Points: points, Geometry: geometry, Material: material}, nil
}

// attachResource inserts the handles into host and returns the Attached resource.
func attachResource(host SceneHost, handles *Attached) Resource {
	handles.host = host
	host.AddChild(handles.Points)
	return Resource{state: handles}
}
