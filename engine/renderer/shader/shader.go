package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is written for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	entryPoint                 string

	includes []Include
	pp       PreProcessor
}

// Shader is a pre-processed and parsed WGSL shader stage. It exposes everything the renderer needs to build
// a pipeline: the final source, the entry point, the vertex buffer layouts and the bind group layouts.
type Shader interface {
	// Key returns the unique identifier for this shader, used as the shader module label.
	Key() string

	// Source returns the pre-processed WGSL source.
	Source() string

	// ShaderType returns the stage this shader is written for.
	ShaderType() ShaderType

	// EntryPoint returns the name of the @vertex or @fragment function.
	EntryPoint() string

	// BindGroupLayoutDescriptor returns the layout descriptor for a group index, or an empty descriptor.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor parsed from the source
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every parsed layout descriptor keyed by group index.
	// Buffer entries carry a MinBindingSize computed from the WGSL struct layout rules.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the variable name declared at a group and binding, or "".
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName finds the binding index of a variable within a group.
	//
	// Parameters:
	//   - group: the @group index
	//   - varName: the declared variable name
	//
	// Returns:
	//   - int: the binding index, or -1
	//   - bool: true if the variable was found
	BindGroupFromVarName(group int, varName string) (int, bool)

	// VertexLayouts returns the vertex buffer layouts parsed from @location input structs, in source order.
	// Fragment shaders always return nil.
	VertexLayouts() []wgpu.VertexBufferLayout

	// Declarations returns the //@oxy:group annotations found in the original source.
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes and parses a WGSL stage.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the source is written for
//   - source: the annotated WGSL source, usually embedded with go:embed
//   - options: functional options, e.g. WithIncludes
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if pre-processing fails, the entry point is missing or a binding type is unsupported
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		shaderType: shaderType,
	}
	for _, opt := range options {
		opt(s)
	}
	s.pp = NewPreProcessor(s.includes...)

	if err := s.parseSource(source); err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}

// parseSource runs the pre-processor and extracts the entry point, vertex layouts and bind group layouts.
func (s *shader) parseSource(raw string) error {
	source, err := s.pp.Process(raw)
	if err != nil {
		return err
	}
	s.source = source

	s.entryPoint = parseEntryPoint(source, s.shaderType)
	if s.entryPoint == "" {
		return fmt.Errorf("no @%s entry point found", s.shaderType)
	}

	var visibility wgpu.ShaderStage
	switch s.shaderType {
	case ShaderTypeVertex:
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(source)
	case ShaderTypeFragment:
		visibility = wgpu.ShaderStageFragment
	}

	s.bindGroupLayoutDescriptors, s.bindingVarNames, err = parseBindGroupLayouts(source, visibility)
	return err
}
