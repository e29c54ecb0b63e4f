package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples per pixel for multisample anti-aliasing.
// WebGPU guarantees 1 and 4; higher counts are adapter-dependent.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
	MSAA8x  MSAASampleCount = 8
	MSAA16x MSAASampleCount = 16
)

// ErrSurfaceUnavailable is returned by BeginFrame while the surface has no area, e.g. when the window is minimized.
// Callers skip the frame.
var ErrSurfaceUnavailable = errors.New("renderer: surface unavailable")

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

type wgpuRendererBackend interface {
	// ConfigureSurface configures the surface and its attachments for a size immediately.
	// Only safe while no frame is in flight.
	ConfigureSurface(width, height int)

	// RequestResize records a new surface size, applied by the next BeginFrame.
	RequestResize(width, height int)

	// SetPresentMode changes the present mode, applied by the next surface configuration.
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the shader modules, the pipeline layout and the render pipeline for p
	// and stores the result via p.SetRenderPipeline.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data into new buffers stored on provider.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the buffers and the bind group described by descriptor and stores them on provider.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers queues every write on the device queue.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	BeginFrame() error

	// DrawCall encodes an instanced indexed draw in the current render pass.
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame()

	// Present presents the surface and releases the swapchain texture.
	Present()

	// Release frees the device, the surface and every attachment.
	Release()
}
