package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label, also used for the GPU objects created from this provider.
	label string

	// The fields below are GPU resources populated by the Renderer, never by the owner.

	// bindGroup is nil until the Renderer initializes this provider.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is the layout bindGroup was created against.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the uniform and storage buffers, keyed by binding index.
	buffers map[int]*wgpu.Buffer

	// vertexBuffer and indexBuffer hold per-vertex geometry for providers that are drawn directly.
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	// indexCount is the number of indices drawn per instance.
	indexCount int
}

// BindGroupProvider owns the GPU resources behind one @group of a pipeline.
// The camera, the star geometry and the star material each hold one; the Renderer creates
// and writes the resources, the owner only describes and reads them.
//
// Usage pattern:
//  1. The owner creates a provider with a label
//  2. Renderer.InitBindGroup(provider, descriptor, ...) creates the buffers and the bind group
//  3. Renderer.WriteBuffers(...) uploads data to a binding
//  4. The scene binds BindGroup() at draw time
//  5. The owner calls Release() when it is discarded
type BindGroupProvider interface {
	// Release releases every GPU resource held by this provider. Safe to call more than once.
	Release()

	// Label returns the debug label for this provider.
	Label() string

	// BindGroup returns the created bind group, or nil if GPU resources have not been initialized.
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created against, or nil.
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer for a binding, or nil.
	//
	// Parameters:
	//   - binding: the @binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Buffers returns all buffers, keyed by binding index.
	Buffers() map[int]*wgpu.Buffer

	VertexBuffer() *wgpu.Buffer
	IndexBuffer() *wgpu.Buffer
	IndexCount() int

	// SetBindGroup stores the bind group. Called by Renderer.InitBindGroup().
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout stores the bind group layout. Called by Renderer.InitBindGroup().
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores the buffer for a binding. Called by Renderer.InitBindGroup().
	//
	// Parameters:
	//   - binding: the @binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetVertexBuffer stores the vertex buffer. Called by Renderer.InitMesh().
	SetVertexBuffer(buf *wgpu.Buffer)

	// SetIndexBuffer stores the index buffer. Called by Renderer.InitMesh().
	SetIndexBuffer(buf *wgpu.Buffer)

	// SetIndexCount sets the number of indices drawn per instance.
	SetIndexCount(count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a BindGroupProvider with no GPU resources.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Buffers() map[int]*wgpu.Buffer {
	return p.buffers
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if p.buffers == nil {
		p.buffers = make(map[int]*wgpu.Buffer)
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}
