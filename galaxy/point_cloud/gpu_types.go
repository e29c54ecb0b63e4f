package point_cloud

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-galaxy/common"
	"github.com/Carmen-Shannon/oxy-galaxy/galaxy"
)

//go:embed assets/star.wgsl
var GPUStarSource string

//go:embed assets/galaxy_uniforms.wgsl
var GPUGalaxyUniformsSource string

//go:embed assets/star.vert.wgsl
var starVertexSource string

//go:embed assets/star.frag.wgsl
var starFragmentSource string

// GPUStarSize is the size of one Star element in the storage buffer, in bytes.
const GPUStarSize = 48

// GPUGalaxyUniformsSize is the size of the GalaxyUniforms struct in bytes.
const GPUGalaxyUniformsSize = 80

// PackStars interleaves the attribute arrays into the Star layout of the storage buffer:
//
//	offset  0: position (vec3<f32>)
//	offset 12: scale (f32)
//	offset 16: color (vec3<f32>), padded to 32
//	offset 32: randomness (vec3<f32>), padded to 48
//
// Parameters:
//   - b: the generated attribute buffers
//
// Returns:
//   - []byte: Count()*GPUStarSize bytes, little-endian
func PackStars(b *galaxy.AttributeBuffers) []byte {
	n := b.Count()
	buf := make([]byte, n*GPUStarSize)
	for i := range n {
		off := i * GPUStarSize
		off = common.PutFloat32s(buf, off, b.Positions[3*i:3*i+3]...)
		off = common.PutFloat32s(buf, off, b.Scales[i])
		off = common.PutFloat32s(buf, off, b.Colors[3*i:3*i+3]...)
		common.PutFloat32s(buf, off+4, b.Randomness[3*i:3*i+3]...)
	}
	return buf
}

// GPUGalaxyUniforms mirrors the GalaxyUniforms WGSL struct.
type GPUGalaxyUniforms struct {
	Model     [16]float32 // offset  0: model matrix (mat4x4<f32>)
	StarSize  float32     // offset 64
	Time      float32     // offset 68: elapsed seconds
	SpinSpeed float32     // offset 72: 0 disables the shader spin
	Pattern   uint32      // offset 76
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: GPUGalaxyUniformsSize bytes, little-endian
func (g *GPUGalaxyUniforms) Marshal() []byte {
	buf := make([]byte, GPUGalaxyUniformsSize)
	off := common.PutFloat32s(buf, 0, g.Model[:]...)
	off = common.PutFloat32s(buf, off, g.StarSize, g.Time, g.SpinSpeed)
	common.PutUint32s(buf, off, g.Pattern)
	return buf
}
