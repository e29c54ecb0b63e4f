package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIncludes = []Include{
	{Name: "camera", Type: "CameraUniform", Source: `struct CameraUniform {
    view: mat4x4<f32>,
    proj: mat4x4<f32>,
    position: vec3f,
    _pad0: f32,
    viewport: vec2f,
    _pad1: vec2f,
}
`},
	{Name: "star", Type: "Star", Source: `struct Star {
    position: vec3f,
    scale: f32,
    color: vec3f,
    _pad0: f32,
    randomness: vec3f,
    _pad1: f32,
}
`},
	{Name: "params", Type: "Params", Source: `struct Params {
    size: f32,
    pattern: u32,
}
`},
}

const testVertexSource = `//@oxy:include camera
//@oxy:include star
//@oxy:include camera

//@oxy:group 0 0 uniform camera camera
//@oxy:group 2 0 storage_read stars array<star>
@group(1) @binding(0) var<uniform> params: Params;
//@oxy:include params

struct QuadInput {
    @location(0) corner: vec2f,
}

struct Varyings {
    @builtin(position) position: vec4f,
    @location(0) color: vec3f,
}

/* @vertex fn decoy() /* nested */ */
@vertex
fn vs_main(input: QuadInput, @builtin(instance_index) instance: u32) -> Varyings {
    var out: Varyings;
    let star = stars[instance];
    out.position = camera.proj * camera.view * vec4f(star.position, 1.0);
    out.color = star.color * params.size;
    return out;
}
`

const testFragmentSource = `//@oxy:include params
//@oxy:group 1 0 uniform params params

struct Varyings {
    @builtin(position) position: vec4f,
    @location(0) color: vec3f,
}

@fragment
fn fs_main(in: Varyings) -> @location(0) vec4f {
    return vec4f(in.color, 1.0);
}
`

func TestNewShader_Vertex(t *testing.T) {
	s, err := NewShader("stars.vert", ShaderTypeVertex, testVertexSource, WithIncludes(testIncludes...))
	require.NoError(t, err)

	assert.Equal(t, "stars.vert", s.Key())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, 1, strings.Count(s.Source(), "struct CameraUniform"), "repeated include is emitted once")
	assert.Contains(t, s.Source(), "@group(2) @binding(0) var<storage, read> stars: array<Star>;")
	assert.NotContains(t, s.Source(), "@oxy:")

	camera := s.BindGroupLayoutDescriptor(0)
	require.Len(t, camera.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, camera.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(160), camera.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, camera.Entries[0].Visibility)

	params := s.BindGroupLayoutDescriptor(1)
	require.Len(t, params.Entries, 1)
	assert.Equal(t, uint64(8), params.Entries[0].Buffer.MinBindingSize)

	stars := s.BindGroupLayoutDescriptor(2)
	require.Len(t, stars.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, stars.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(48), stars.Entries[0].Buffer.MinBindingSize, "runtime arrays bind one element")

	assert.Equal(t, "stars", s.BindGroupVarName(2, 0))
	assert.Equal(t, "", s.BindGroupVarName(5, 0))
	binding, ok := s.BindGroupFromVarName(0, "camera")
	assert.True(t, ok)
	assert.Equal(t, 0, binding)
	_, ok = s.BindGroupFromVarName(0, "missing")
	assert.False(t, ok)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1, "only the @location-only struct is a vertex input")
	assert.Equal(t, uint64(8), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 1)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layouts[0].Attributes[0].Format)
	assert.Equal(t, uint32(0), layouts[0].Attributes[0].ShaderLocation)

	decls := s.Declarations()
	require.Len(t, decls, 2)
	assert.Equal(t, 0, decls[0].Group)
	assert.Equal(t, []string{"storage_read", "stars", "array<star>"}, decls[1].Args)
}

func TestNewShader_Fragment(t *testing.T) {
	s, err := NewShader("stars.frag", ShaderTypeFragment, testFragmentSource, WithIncludes(testIncludes...))
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Nil(t, s.VertexLayouts())

	params := s.BindGroupLayoutDescriptor(1)
	require.Len(t, params.Entries, 1)
	assert.Equal(t, wgpu.ShaderStageFragment, params.Entries[0].Visibility)
}

func TestNewShader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown include", "//@oxy:include nope\n@vertex fn main() {}", "unknown @oxy:include"},
		{"unknown annotation", "//@oxy:define X\n@vertex fn main() {}", "unknown @oxy annotation type"},
		{"short group", "//@oxy:group 0 0 uniform camera\n@vertex fn main() {}", "requires group"},
		{"bad group index", "//@oxy:group x 0 uniform camera camera\n@vertex fn main() {}", "invalid group number"},
		{"bad address space", "//@oxy:group 0 0 private camera camera\n@vertex fn main() {}", "unknown address space"},
		{"unknown group type", "//@oxy:group 0 0 uniform cam nope\n@vertex fn main() {}", "unknown struct type"},
		{"unknown array type", "//@oxy:group 0 0 storage_read xs array<nope>\n@vertex fn main() {}", "unknown array element type"},
		{"texture binding", "@group(0) @binding(0) var tex: texture_2d<f32>;\n@vertex fn main() {}", "unsupported binding type"},
		{"duplicate binding", "@group(0) @binding(0) var<uniform> a: f32;\n@group(0) @binding(0) var<uniform> b: f32;\n@vertex fn main() {}", "declared twice"},
		{"no entry point", "//@oxy:include camera\n@fragment fn main() {}", "no @vertex entry point"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader("bad", ShaderTypeVertex, tt.source, WithIncludes(testIncludes...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "shader bad")
		})
	}
}

func TestResolveTypeLayout(t *testing.T) {
	known := map[string]wgslTypeLayout{"Star": {48, 16}}
	tests := []struct {
		typeName string
		want     wgslTypeLayout
		ok       bool
	}{
		{"f32", wgslTypeLayout{4, 4}, true},
		{"vec3f", wgslTypeLayout{12, 16}, true},
		{"array<vec3f, 4>", wgslTypeLayout{64, 16}, true},
		{"array<f32, 3>", wgslTypeLayout{12, 4}, true},
		{"array<Star>", wgslTypeLayout{48, 16}, true},
		{"array<Star, x>", wgslTypeLayout{}, false},
		{"Unknown", wgslTypeLayout{}, false},
	}
	for _, tt := range tests {
		got, ok := resolveTypeLayout(tt.typeName, known)
		assert.Equal(t, tt.ok, ok, tt.typeName)
		assert.Equal(t, tt.want, got, tt.typeName)
	}
}

func TestComputeStructSizes_NestedStructs(t *testing.T) {
	structs := parseStructBlocks(`
struct Outer { inner: Inner, flag: u32, }
struct Inner { a: vec3f, b: f32, c: vec2f, }
struct Broken { x: Missing, }
`)
	sizes := computeStructSizes(structs)

	assert.Equal(t, wgslTypeLayout{32, 16}, sizes["Inner"])
	assert.Equal(t, wgslTypeLayout{48, 16}, sizes["Outer"])
	assert.NotContains(t, sizes, "Broken")
}

func TestStripComments(t *testing.T) {
	src := "a // line\nb /* block /* nested */ still */ c\n/* multi\nline */d"
	assert.Equal(t, "a \nb  c\n\nd", stripComments(src))
}
