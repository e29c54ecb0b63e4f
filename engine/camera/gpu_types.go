package camera

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-galaxy/common"
)

// GPUCameraUniformSource is the WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (160 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniformSize is the size of the CameraUniform struct in bytes.
const GPUCameraUniformSize = 160

// GPUCameraUniform is the GPU-aligned camera uniform buffer (see GPUCameraUniformSource).
type GPUCameraUniform struct {
	View       [16]float32 // offset   0: world to view (mat4x4<f32>)
	Projection [16]float32 // offset  64: view to clip (mat4x4<f32>)
	Position   [3]float32  // offset 128: eye position (vec3<f32>), padded to 144
	Viewport   [2]float32  // offset 144: framebuffer size in pixels (vec2<f32>), padded to 160
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: GPUCameraUniformSize bytes, little-endian
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, GPUCameraUniformSize)
	common.PutFloat32s(buf, 0, g.View[:]...)
	common.PutFloat32s(buf, 64, g.Projection[:]...)
	common.PutFloat32s(buf, 128, g.Position[:]...)
	common.PutFloat32s(buf, 144, g.Viewport[:]...)
	return buf
}
