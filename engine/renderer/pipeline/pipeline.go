package pipeline

import (
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// bindGroupLayouts holds the layout descriptors of both stages merged per group
	bindGroupLayouts map[int]wgpu.BindGroupLayoutDescriptor

	// renderPipeline is set by the renderer once the GPU object exists
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes a render pipeline: its two shader stages and the fixed-function state used
// when the renderer creates the GPU object.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	PipelineKey() string

	// Shader retrieves the shader for a stage, or nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage to look up
	//
	// Returns:
	//   - shader.Shader: the shader, or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// BindGroupLayoutDescriptors returns the bind group layouts of the vertex and fragment stages merged per group.
	// A binding declared by both stages is visible to both.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptor returns the merged layout for one group, the descriptor bind groups
	// drawn with this pipeline must be created from.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the merged descriptor, or an empty descriptor
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// RenderPipeline returns the GPU pipeline, or nil until the renderer has registered this pipeline.
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the GPU pipeline. Called by the renderer.
	SetRenderPipeline(p *wgpu.RenderPipeline)

	DepthTestEnabled() bool
	DepthWriteEnabled() bool
	BlendEnabled() bool
	CullMode() wgpu.CullMode
	Topology() wgpu.PrimitiveTopology
	FrontFace() wgpu.FrontFace
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state, only applied when BlendEnabled is true.
	BlendState() *wgpu.BlendState

	// Release frees the GPU pipeline. Safe to call more than once.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render Pipeline. Depth test and depth write are on, blending is off and
// triangles are listed counter-clockwise without culling until options say otherwise.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the configured pipeline
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	var vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor
	if p.vertexShader != nil {
		vertexLayouts = p.vertexShader.BindGroupLayoutDescriptors()
	}
	if p.fragmentShader != nil {
		fragmentLayouts = p.fragmentShader.BindGroupLayoutDescriptors()
	}
	p.bindGroupLayouts = mergeBindGroupLayouts(vertexLayouts, fragmentLayouts)
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return p.bindGroupLayouts
}

func (p *pipeline) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return p.bindGroupLayouts[group]
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
