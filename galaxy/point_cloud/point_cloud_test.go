package point_cloud

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-galaxy/engine/camera"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/scene"
	"github.com/Carmen-Shannon/oxy-galaxy/galaxy"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type initCall struct {
	label string
	desc  wgpu.BindGroupLayoutDescriptor
	sizes map[int]uint64
}

type drawCall struct {
	key       string
	instances uint32
	groups    []bind_group_provider.BindGroupProvider
}

type fakeRenderer struct {
	meshVertex, meshIndex []byte
	meshIndexCount        int

	inits  []initCall
	writes []bind_group_provider.BufferWrite
	draws  []drawCall

	initErr error
}

var _ renderer.Renderer = &fakeRenderer{}

func (f *fakeRenderer) Pipeline(string) pipeline.Pipeline            { return nil }
func (f *fakeRenderer) RegisterPipelines(...pipeline.Pipeline) error { return nil }
func (f *fakeRenderer) Resize(int, int)                              {}
func (f *fakeRenderer) SetPresentMode(renderer.PresentMode)          {}
func (f *fakeRenderer) BeginFrame() error                            { return nil }
func (f *fakeRenderer) EndFrame()                                    {}
func (f *fakeRenderer) Present()                                     {}
func (f *fakeRenderer) Release()                                     {}

func (f *fakeRenderer) InitMeshBuffers(_ bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	f.meshVertex, f.meshIndex, f.meshIndexCount = vertexData, indexData, indexCount
	return nil
}

func (f *fakeRenderer) InitBindGroup(p bind_group_provider.BindGroupProvider, desc wgpu.BindGroupLayoutDescriptor, _ map[int]wgpu.BufferUsage, sizes map[int]uint64) error {
	if f.initErr != nil {
		return f.initErr
	}
	f.inits = append(f.inits, initCall{label: p.Label(), desc: desc, sizes: sizes})
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeRenderer) DrawCall(key string, _ bind_group_provider.BindGroupProvider, instances uint32, groups []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, drawCall{key: key, instances: instances, groups: append([]bind_group_provider.BindGroupProvider(nil), groups...)})
	return nil
}

func float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func testBuffers() *galaxy.AttributeBuffers {
	b := galaxy.NewAttributeBuffers(2)
	copy(b.Positions, []float32{1, 2, 3, 4, 5, 6})
	copy(b.Scales, []float32{0.25, 0.75})
	copy(b.Colors, []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})
	copy(b.Randomness, []float32{-1, -2, -3, -4, -5, -6})
	return b
}

func newTestFactory(t *testing.T) (*Factory, *fakeRenderer, pipeline.Pipeline) {
	t.Helper()
	p, err := NewPipeline()
	require.NoError(t, err)
	r := &fakeRenderer{}
	f, err := NewFactory(r, p)
	require.NoError(t, err)
	return f, r, p
}

func TestPackStars(t *testing.T) {
	buf := PackStars(testBuffers())
	require.Len(t, buf, 2*GPUStarSize)

	second := buf[GPUStarSize:]
	assert.Equal(t, float32(4), float32At(second, 0))
	assert.Equal(t, float32(6), float32At(second, 8))
	assert.Equal(t, float32(0.75), float32At(second, 12))
	assert.Equal(t, float32(0.4), float32At(second, 16))
	assert.Equal(t, float32(0.6), float32At(second, 24))
	assert.Equal(t, float32(0), float32At(second, 28), "padding")
	assert.Equal(t, float32(-4), float32At(second, 32))
	assert.Equal(t, float32(-6), float32At(second, 40))
}

func TestGPUGalaxyUniforms_Marshal(t *testing.T) {
	u := GPUGalaxyUniforms{StarSize: 30, Time: 2.5, SpinSpeed: -1, Pattern: 2}
	u.Model[15] = 1
	buf := u.Marshal()

	require.Len(t, buf, GPUGalaxyUniformsSize)
	assert.Equal(t, float32(1), float32At(buf, 60))
	assert.Equal(t, float32(30), float32At(buf, 64))
	assert.Equal(t, float32(2.5), float32At(buf, 68))
	assert.Equal(t, float32(-1), float32At(buf, 72))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[76:]))
}

func TestNewPipeline_Layouts(t *testing.T) {
	p, err := NewPipeline()
	require.NoError(t, err)

	assert.Equal(t, PipelineKey, p.PipelineKey())
	assert.False(t, p.DepthWriteEnabled())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.BlendFactorOne, p.BlendState().Color.DstFactor)
	assert.Equal(t, 3, pipeline.GroupCount(p.BindGroupLayoutDescriptors()))

	cam := p.BindGroupLayoutDescriptor(0)
	require.Len(t, cam.Entries, 1)
	assert.Equal(t, uint64(camera.GPUCameraUniformSize), cam.Entries[0].Buffer.MinBindingSize)

	mat := p.BindGroupLayoutDescriptor(materialGroup)
	require.Len(t, mat.Entries, 1)
	assert.Equal(t, uint64(GPUGalaxyUniformsSize), mat.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, mat.Entries[0].Visibility)

	geo := p.BindGroupLayoutDescriptor(geometryGroup)
	require.Len(t, geo.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, geo.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(GPUStarSize), geo.Entries[0].Buffer.MinBindingSize)

	vs := p.Shader(shader.ShaderTypeVertex)
	require.NotNil(t, vs)
	layouts := vs.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(8), layouts[0].ArrayStride)
	assert.Equal(t, "fs_main", p.Shader(shader.ShaderTypeFragment).EntryPoint())
}

func TestNewFactory_UploadsQuad(t *testing.T) {
	_, r, _ := newTestFactory(t)

	assert.Equal(t, 6, r.meshIndexCount)
	require.Len(t, r.meshVertex, 32)
	assert.Equal(t, float32(-0.5), float32At(r.meshVertex, 0))
	assert.Equal(t, float32(0.5), float32At(r.meshVertex, 16))
	require.Len(t, r.meshIndex, 24)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(r.meshIndex[20:]))
}

func TestFactory_CreateGeometry(t *testing.T) {
	f, r, _ := newTestFactory(t)

	g, err := f.CreateGeometry(testBuffers())
	require.NoError(t, err)
	assert.Equal(t, 2, g.Count())

	require.Len(t, r.inits, 1)
	assert.Equal(t, uint64(2*GPUStarSize), r.inits[0].sizes[0])
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, r.inits[0].desc.Entries[0].Buffer.Type)

	require.Len(t, r.writes, 1)
	assert.Equal(t, PackStars(testBuffers()), r.writes[0].Data)

	g.Release()
	g.Release()
}

func TestFactory_CreateGeometryError(t *testing.T) {
	f, r, _ := newTestFactory(t)
	r.initErr = errors.New("out of memory")

	_, err := f.CreateGeometry(testBuffers())
	assert.ErrorContains(t, err, "out of memory")
	assert.Empty(t, r.writes)
}

func TestFactory_Material(t *testing.T) {
	f, r, _ := newTestFactory(t)

	m, err := f.CreateMaterial(galaxy.MaterialUniforms{StarSize: 60, SpinSpeed: 1, Pattern: galaxy.PatternLightPoint})
	require.NoError(t, err)

	require.Len(t, r.writes, 1)
	initial := r.writes[0]
	assert.Equal(t, uint64(0), initial.Offset)
	require.Len(t, initial.Data, GPUGalaxyUniformsSize)
	assert.Equal(t, float32(1), float32At(initial.Data, 0), "identity model")
	assert.Equal(t, float32(60), float32At(initial.Data, 64))
	assert.Equal(t, uint32(galaxy.PatternLightPoint), binary.LittleEndian.Uint32(initial.Data[76:]))

	m.SetTime(3)
	last := r.writes[len(r.writes)-1]
	assert.Equal(t, uint64(timeOffset), last.Offset)
	assert.Equal(t, float32(3), float32At(last.Data, 0))

	m.SetRotation(math.Pi / 2)
	last = r.writes[len(r.writes)-1]
	assert.Equal(t, uint64(modelOffset), last.Offset)
	require.Len(t, last.Data, 64)
	assert.InDelta(t, 0, float32At(last.Data, 0), 1e-6)
	assert.Equal(t, float32(3), m.(*material).Uniforms().Time)

	m.Release()
	writes := len(r.writes)
	m.SetTime(4)
	assert.Len(t, r.writes, writes, "released material does not upload")
	m.Release()
}

func TestFactory_CreatePoints(t *testing.T) {
	f, _, _ := newTestFactory(t)
	g, err := f.CreateGeometry(testBuffers())
	require.NoError(t, err)
	m, err := f.CreateMaterial(galaxy.MaterialUniforms{})
	require.NoError(t, err)

	p, err := f.CreatePoints(g, m)
	require.NoError(t, err)
	assert.Equal(t, g, p.Geometry())
	assert.Equal(t, m, p.Material())

	d, ok := p.(scene.Drawable)
	require.True(t, ok)
	assert.Equal(t, PipelineKey, d.PipelineKey())
	assert.Equal(t, uint32(2), d.InstanceCount())
	groups := d.BindGroups()
	require.Len(t, groups, 2)
	assert.Contains(t, groups[0].Label(), "galaxy_material_")
	assert.Contains(t, groups[1].Label(), "galaxy_geometry_")

	_, err = f.CreatePoints(nil, m)
	assert.Error(t, err)
}

func TestSceneHost_DrawsPoints(t *testing.T) {
	f, r, p := newTestFactory(t)
	s, err := scene.NewScene("galaxy", camera.NewCamera(), r, p)
	require.NoError(t, err)
	host := NewSceneHost(s)

	g, err := f.CreateGeometry(testBuffers())
	require.NoError(t, err)
	m, err := f.CreateMaterial(galaxy.MaterialUniforms{})
	require.NoError(t, err)
	pts, err := f.CreatePoints(g, m)
	require.NoError(t, err)

	host.Exclusive(func() { host.AddChild(pts) })
	assert.Equal(t, 1, s.Count())

	require.NoError(t, s.Render())
	require.Len(t, r.draws, 1)
	assert.Equal(t, PipelineKey, r.draws[0].key)
	assert.Equal(t, uint32(2), r.draws[0].instances)
	require.Len(t, r.draws[0].groups, 3)
	assert.Equal(t, s.Camera().BindGroupProvider(), r.draws[0].groups[0])

	host.RemoveChild(pts)
	assert.Equal(t, 0, s.Count())
}
