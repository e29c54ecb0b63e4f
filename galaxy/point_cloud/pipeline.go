package point_cloud

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-galaxy/engine/camera"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/shader"
)

// PipelineKey is the key the star pipeline is registered under.
const PipelineKey = "galaxy_stars"

// Bind group indices of the star pipeline. Group 0 is the scene camera.
const (
	materialGroup = 1
	geometryGroup = 2
)

// Includes returns the WGSL structs the star shaders reference.
func Includes() []shader.Include {
	return []shader.Include{
		{Name: "camera", Type: "CameraUniform", Source: camera.GPUCameraUniformSource},
		{Name: "galaxy", Type: "GalaxyUniforms", Source: GPUGalaxyUniformsSource},
		{Name: "star", Type: "Star", Source: GPUStarSource},
	}
}

// NewPipeline compiles the star shaders into a pipeline that draws one camera-facing quad per star.
// Stars blend additively and do not write depth, so overlapping stars brighten each other.
//
// Returns:
//   - pipeline.Pipeline: the unregistered pipeline
//   - error: an error if either shader fails to parse
func NewPipeline() (pipeline.Pipeline, error) {
	includes := shader.WithIncludes(Includes()...)

	vs, err := shader.NewShader("galaxy_stars.vert", shader.ShaderTypeVertex, starVertexSource, includes)
	if err != nil {
		return nil, fmt.Errorf("star pipeline: %w", err)
	}
	fs, err := shader.NewShader("galaxy_stars.frag", shader.ShaderTypeFragment, starFragmentSource, includes)
	if err != nil {
		return nil, fmt.Errorf("star pipeline: %w", err)
	}

	return pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithAdditiveBlending(),
	), nil
}
