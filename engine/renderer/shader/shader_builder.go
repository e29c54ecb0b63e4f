package shader

// ShaderBuilderOption is a functional option applied to a shader during NewShader.
type ShaderBuilderOption func(*shader)

// WithIncludes registers struct definitions for //@oxy:include and //@oxy:group annotations.
//
// Parameters:
//   - includes: the struct definitions to register; later entries replace earlier ones with the same name
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithIncludes(includes ...Include) ShaderBuilderOption {
	return func(s *shader) {
		s.includes = append(s.includes, includes...)
	}
}
