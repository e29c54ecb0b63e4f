package point_cloud

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-galaxy/common"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-galaxy/galaxy"
)

// quadVertices are the corners of the unit sprite quad, centered on the star.
var quadVertices = []float32{
	-0.5, -0.5,
	0.5, -0.5,
	0.5, 0.5,
	-0.5, 0.5,
}

var quadIndices = []uint32{0, 1, 2, 0, 2, 3}

// Factory creates the GPU side of a galaxy: a storage buffer of stars, a uniform buffer of material
// values and a drawable that instances the shared sprite quad once per star.
type Factory struct {
	r      renderer.Renderer
	p      pipeline.Pipeline
	quad   bind_group_provider.BindGroupProvider
	logger *slog.Logger

	nextID atomic.Uint64
}

var _ galaxy.ResourceFactory = &Factory{}

// NewFactory uploads the sprite quad and returns a factory drawing with p.
//
// Parameters:
//   - r: the renderer the buffers are created on
//   - p: the star pipeline from NewPipeline
//   - options: functional options for the factory
//
// Returns:
//   - *Factory: the factory; call Release when done
//   - error: an error if the quad buffers cannot be created
func NewFactory(r renderer.Renderer, p pipeline.Pipeline, options ...FactoryBuilderOption) (*Factory, error) {
	f := &Factory{
		r:      r,
		p:      p,
		quad:   bind_group_provider.NewBindGroupProvider("galaxy_quad"),
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(f)
	}

	vertexData := make([]byte, 4*len(quadVertices))
	common.PutFloat32s(vertexData, 0, quadVertices...)
	indexData := make([]byte, 4*len(quadIndices))
	for i, idx := range quadIndices {
		common.PutUint32s(indexData, 4*i, idx)
	}

	if err := r.InitMeshBuffers(f.quad, vertexData, indexData, len(quadIndices)); err != nil {
		f.quad.Release()
		return nil, fmt.Errorf("galaxy quad: %w", err)
	}
	return f, nil
}

// Release frees the shared quad buffers.
func (f *Factory) Release() {
	f.quad.Release()
}

func (f *Factory) CreateGeometry(buffers *galaxy.AttributeBuffers) (galaxy.Geometry, error) {
	count := buffers.Count()
	provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("galaxy_geometry_%d", f.nextID.Add(1)))

	// A zero-sized storage binding is invalid.
	size := uint64(max(count, 1) * GPUStarSize)
	err := f.r.InitBindGroup(provider, f.p.BindGroupLayoutDescriptor(geometryGroup), nil, map[int]uint64{0: size})
	if err != nil {
		provider.Release()
		return nil, err
	}

	f.r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: provider,
		Binding:  0,
		Data:     PackStars(buffers),
	}})

	f.logger.Debug("galaxy geometry created", "label", provider.Label(), "stars", count, "bytes", size)
	return &geometry{provider: provider, count: count}, nil
}

func (f *Factory) CreateMaterial(uniforms galaxy.MaterialUniforms) (galaxy.Material, error) {
	provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("galaxy_material_%d", f.nextID.Add(1)))
	if err := f.r.InitBindGroup(provider, f.p.BindGroupLayoutDescriptor(materialGroup), nil, nil); err != nil {
		provider.Release()
		return nil, err
	}

	m := &material{
		mu:       &sync.Mutex{},
		r:        f.r,
		provider: provider,
		uniforms: GPUGalaxyUniforms{
			StarSize:  uniforms.StarSize,
			SpinSpeed: uniforms.SpinSpeed,
			Pattern:   uint32(uniforms.Pattern),
		},
	}
	common.Identity(m.uniforms.Model[:])
	m.write(0, m.uniforms.Marshal())
	return m, nil
}

func (f *Factory) CreatePoints(g galaxy.Geometry, m galaxy.Material) (galaxy.Points, error) {
	geo, ok := g.(*geometry)
	if !ok {
		return nil, errors.New("galaxy points: geometry was not created by this factory")
	}
	mat, ok := m.(*material)
	if !ok {
		return nil, errors.New("galaxy points: material was not created by this factory")
	}
	return &points{geometry: geo, material: mat, mesh: f.quad}, nil
}

// geometry is a storage buffer of packed stars.
type geometry struct {
	provider bind_group_provider.BindGroupProvider
	count    int
}

func (g *geometry) Count() int {
	return g.count
}

func (g *geometry) Release() {
	g.provider.Release()
}

// material owns the GalaxyUniforms buffer. Setters upload only the bytes they change.
type material struct {
	mu       *sync.Mutex
	r        renderer.Renderer
	provider bind_group_provider.BindGroupProvider
	uniforms GPUGalaxyUniforms
	released bool
}

// Byte offsets of the animated fields in GalaxyUniforms.
const (
	modelOffset = 0
	timeOffset  = 68
)

func (m *material) SetTime(seconds float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uniforms.Time = seconds

	buf := make([]byte, 4)
	common.PutFloat32s(buf, 0, seconds)
	m.write(timeOffset, buf)
}

func (m *material) SetRotation(radians float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	common.RotationY(m.uniforms.Model[:], radians)

	buf := make([]byte, 64)
	common.PutFloat32s(buf, 0, m.uniforms.Model[:]...)
	m.write(modelOffset, buf)
}

func (m *material) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = true
	m.provider.Release()
}

// Uniforms returns a copy of the values last uploaded.
func (m *material) Uniforms() GPUGalaxyUniforms {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uniforms
}

// write uploads data at offset. Caller must hold mu, except during construction.
func (m *material) write(offset uint64, data []byte) {
	if m.released {
		return
	}
	m.r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: m.provider,
		Binding:  0,
		Offset:   offset,
		Data:     data,
	}})
}

// points draws the sprite quad once per star of its geometry.
type points struct {
	geometry *geometry
	material *material
	mesh     bind_group_provider.BindGroupProvider
}

func (p *points) Geometry() galaxy.Geometry {
	return p.geometry
}

func (p *points) Material() galaxy.Material {
	return p.material
}

func (p *points) PipelineKey() string {
	return PipelineKey
}

func (p *points) Mesh() bind_group_provider.BindGroupProvider {
	return p.mesh
}

func (p *points) InstanceCount() uint32 {
	return uint32(p.geometry.count)
}

// BindGroups returns the material and geometry groups, in group order after the camera.
func (p *points) BindGroups() []bind_group_provider.BindGroupProvider {
	return []bind_group_provider.BindGroupProvider{p.material.provider, p.geometry.provider}
}
