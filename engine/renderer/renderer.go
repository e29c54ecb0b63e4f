package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/lucasb-eyer/go-colorful"
)

// defaultClearColor is the near-black background behind the galaxy.
var defaultClearColor = colorful.Color{R: 0x0a / 255.0, G: 0x0b / 255.0, B: 0x07 / 255.0}

// SurfaceSource is the part of a window the renderer draws into.
// engine/window.Window satisfies it.
type SurfaceSource interface {
	// SurfaceDescriptor returns the platform-specific descriptor used to create the WebGPU surface.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	// Width returns the framebuffer width in pixels.
	Width() int
	// Height returns the framebuffer height in pixels.
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu     *sync.Mutex
	logger *slog.Logger

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	config             wgpuBackendConfig
	pendingPresentMode *PresentMode
}

// Renderer draws instanced point sprites into a window surface.
//
// Pipelines are registered once and looked up by key; bind group providers carry the
// per-object GPU resources. A frame is BeginFrame, any number of DrawCall, EndFrame, Present,
// all on the render goroutine. Resize may be called from any goroutine.
type Renderer interface {
	// Pipeline retrieves a registered Pipeline by key, or nil.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the registered pipeline, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for each pipeline and caches it by PipelineKey.
	// Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize records a new surface size. The surface is reconfigured at the start of the next frame.
	//
	// Parameters:
	//   - width: the new framebuffer width in pixels
	//   - height: the new framebuffer height in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode, applied by the next Resize.
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers uploads vertex and index data and stores the buffers on provider for DrawCall.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex bytes
	//   - indexData: the raw uint32 index bytes
	//   - indexCount: the number of indices drawn per instance
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the buffers of every binding in descriptor and the bind group over them,
	// storing both on provider. Buffers already present on provider are reused.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created resources on
	//   - descriptor: the layout descriptor, normally from Pipeline.BindGroupLayoutDescriptor
	//   - bufferUsageOverrides: extra usage flags ORed into the derived usage, keyed by binding (nil safe)
	//   - bufferSizeOverrides: buffer sizes used instead of MinBindingSize, keyed by binding (nil safe)
	//
	// Returns:
	//   - error: an error if creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers queues buffer uploads. Writes targeting a binding with no buffer are dropped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Returns ErrSurfaceUnavailable while the surface has no area.
	BeginFrame() error

	// DrawCall encodes one instanced draw of meshProvider's indices in the current render pass.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered Pipeline
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: providers bound to groups 0..n-1 in order
	//
	// Returns:
	//   - error: an error if the pipeline is not registered or no frame is in progress
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits it. Call Present afterwards.
	EndFrame()

	// Present displays the frame and releases the swapchain texture.
	Present()

	// Release frees every registered pipeline and the GPU device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into surface. Device creation failures panic.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - surface: the window to draw into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		logger:        slog.Default(),
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		config: wgpuBackendConfig{
			sampleCount: MSAA4x,
			clearColor:  defaultClearColor,
		},
	}

	// Options go first so adapter flags are known before the device is requested.
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.config, r.logger)
		}
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(surface.Width(), surface.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.RequestResize(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
		r.logger.Debug("pipeline registered", "pipeline", key)
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	if len(writes) == 0 {
		return
	}
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	return r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
