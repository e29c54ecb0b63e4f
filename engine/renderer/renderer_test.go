package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct{ width, height int }

func (s fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (s fakeSurface) Width() int                                 { return s.width }
func (s fakeSurface) Height() int                                { return s.height }

type fakeBackend struct {
	configured  [][2]int
	resizes     [][2]int
	presentMode *PresentMode
	registered  []string
	registerErr error
	draws       []uint32
	writes      int
	released    bool
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configured = append(f.configured, [2]int{width, height})
}
func (f *fakeBackend) RequestResize(width, height int) {
	f.resizes = append(f.resizes, [2]int{width, height})
}
func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = &mode }
func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}
func (f *fakeBackend) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}
func (f *fakeBackend) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	return nil
}
func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) { f.writes += len(writes) }
func (f *fakeBackend) BeginFrame() error                                     { return nil }
func (f *fakeBackend) DrawCall(_ pipeline.Pipeline, _ bind_group_provider.BindGroupProvider, instanceCount uint32, _ []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, instanceCount)
	return nil
}
func (f *fakeBackend) EndFrame() {}
func (f *fakeBackend) Present()  {}
func (f *fakeBackend) Release()  { f.released = true }

func newTestRenderer(t *testing.T, opts ...RendererBuilderOption) (Renderer, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	r := NewRenderer(BackendTypeWGPU, fakeSurface{800, 600}, append(opts, withBackend(backend))...)
	return r, backend
}

func TestNewRenderer_ConfiguresSurface(t *testing.T) {
	_, backend := newTestRenderer(t, WithPresentMode(PresentModeUncapped))

	assert.Equal(t, [][2]int{{800, 600}}, backend.configured)
	require.NotNil(t, backend.presentMode)
	assert.Equal(t, PresentModeUncapped, *backend.presentMode)
}

func TestRenderer_ResizeIsDeferred(t *testing.T) {
	r, backend := newTestRenderer(t)

	r.Resize(1024, 768)
	r.Resize(0, 0)

	assert.Len(t, backend.configured, 1, "resize never configures the surface directly")
	assert.Equal(t, [][2]int{{1024, 768}, {0, 0}}, backend.resizes)
}

func TestRenderer_RegisterPipelines(t *testing.T) {
	r, backend := newTestRenderer(t)

	stars := pipeline.NewPipeline("stars")
	require.NoError(t, r.RegisterPipelines(stars, pipeline.NewPipeline("stars")))
	require.NoError(t, r.RegisterPipelines(stars))

	assert.Equal(t, []string{"stars"}, backend.registered)
	assert.Same(t, stars, r.Pipeline("stars"))
	assert.Nil(t, r.Pipeline("missing"))
}

func TestRenderer_RegisterPipelinesError(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.registerErr = errors.New("boom")

	err := r.RegisterPipelines(pipeline.NewPipeline("stars"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `register pipeline "stars"`)
	assert.Nil(t, r.Pipeline("stars"))
}

func TestRenderer_DrawCall(t *testing.T) {
	r, backend := newTestRenderer(t)
	mesh := bind_group_provider.NewBindGroupProvider("quad")

	err := r.DrawCall("stars", mesh, 10, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("stars")))
	require.NoError(t, r.DrawCall("stars", mesh, 100000, nil))
	assert.Equal(t, []uint32{100000}, backend.draws)
}

func TestRenderer_WriteBuffersSkipsEmpty(t *testing.T) {
	r, backend := newTestRenderer(t)
	p := bind_group_provider.NewBindGroupProvider("camera")

	r.WriteBuffers(nil)
	r.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: p, Data: []byte{1}}})
	assert.Equal(t, 1, backend.writes)
}

func TestRenderer_Release(t *testing.T) {
	r, backend := newTestRenderer(t)
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("stars")))

	r.Release()
	assert.True(t, backend.released)
	assert.Nil(t, r.Pipeline("stars"))
}

func TestPreferredSurfaceFormat(t *testing.T) {
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb,
		preferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb}))
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm,
		preferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm}))
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, preferredSurfaceFormat(nil))
}

func TestClearValue(t *testing.T) {
	c, err := colorful.Hex("#0a0b07")
	require.NoError(t, err)

	raw := clearValue(c, wgpu.TextureFormatBGRA8Unorm)
	assert.InDelta(t, 10.0/255.0, raw.R, 1e-9)
	assert.Equal(t, 1.0, raw.A)

	linear := clearValue(c, wgpu.TextureFormatBGRA8UnormSrgb)
	assert.Less(t, linear.R, raw.R, "sRGB targets clear with linear values")
	assert.Greater(t, linear.R, 0.0)

	assert.InDelta(t, defaultClearColor.R, c.R, 1e-9)
}
