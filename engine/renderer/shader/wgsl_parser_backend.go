package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslPrimitiveLayoutMap holds the size and alignment of the host-shareable WGSL types the engine uses.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"bool": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},
	"vec2<u32>": {8, 8},
	"vec2u":     {8, 8},
	"vec4<u32>": {16, 16},
	"vec4u":     {16, 16},

	"mat3x3<f32>": {48, 16},
	"mat3x3f":     {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

// roundUpAlign rounds value up to a multiple of alignment, which must be a power of two.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// elementType splits "array<T>" or "array<T, N>" into T and the count text, which is empty for runtime-sized arrays.
func elementType(typeName string) (elem, count string, ok bool) {
	inner, found := strings.CutPrefix(typeName, "array<")
	if !found || !strings.HasSuffix(inner, ">") {
		return "", "", false
	}
	inner = strings.TrimSuffix(inner, ">")
	elem, count, _ = strings.Cut(inner, ",")
	return strings.TrimSpace(elem), strings.TrimSpace(count), true
}

// resolveTypeLayout resolves a WGSL type to its size and alignment.
// A runtime-sized array resolves to the stride of one element, which is the smallest
// binding that is still useful; callers size the real buffer from the element count.
//
// Parameters:
//   - typeName: the WGSL type, e.g. "vec3f", "CameraUniform" or "array<Star>"
//   - knownTypes: struct layouts resolved so far
//
// Returns:
//   - wgslTypeLayout: the resolved layout
//   - bool: false for unknown types
func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	if layout, ok := knownTypes[typeName]; ok {
		return layout, true
	}

	elem, count, ok := elementType(typeName)
	if !ok {
		return wgslTypeLayout{}, false
	}
	elemLayout, ok := resolveTypeLayout(elem, knownTypes)
	if !ok {
		return wgslTypeLayout{}, false
	}
	stride := roundUpAlign(elemLayout.align, elemLayout.size)
	if count == "" {
		return wgslTypeLayout{stride, elemLayout.align}, true
	}
	n, err := strconv.ParseUint(count, 10, 64)
	if err != nil {
		return wgslTypeLayout{}, false
	}
	return wgslTypeLayout{n * stride, elemLayout.align}, true
}

// computeStructLayout lays out one struct: every field starts at its aligned offset and the total
// is rounded up to the largest field alignment. @builtin fields take no space.
// A trailing runtime-sized array contributes nothing to the fixed size.
func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	var offset uint64
	align := uint64(1)

	for i, field := range ps.fields {
		if field.isBuiltin {
			continue
		}
		if _, count, isArray := elementType(field.typeName); isArray && count == "" && i == len(ps.fields)-1 {
			if offset == 0 {
				return resolveTypeLayout(field.typeName, knownTypes)
			}
			break
		}

		layout, ok := resolveTypeLayout(field.typeName, knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = roundUpAlign(layout.align, offset) + layout.size
		align = max(align, layout.align)
	}

	return wgslTypeLayout{roundUpAlign(align, offset), align}, true
}

// computeStructSizes resolves every struct layout, repeating passes until structs that
// reference other structs have all been resolved or no further progress is possible.
//
// Parameters:
//   - structs: all parsed struct blocks from the WGSL source
//
// Returns:
//   - map[string]wgslTypeLayout: layouts keyed by struct name
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	resolved := make(map[string]wgslTypeLayout, len(structs))
	pending := append([]parsedStruct(nil), structs...)

	for len(pending) > 0 {
		var unresolved []parsedStruct
		for _, ps := range pending {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
			} else {
				unresolved = append(unresolved, ps)
			}
		}
		if len(unresolved) == len(pending) {
			break
		}
		pending = unresolved
	}
	return resolved
}

// classifyResource creates the layout entry for a buffer declaration.
// Handle types such as textures and samplers have no address space and are rejected.
//
// Parameters:
//   - binding: the binding index from @binding(N)
//   - visibility: the shader stage visibility flag
//   - addressSpace: the address space qualifier, e.g. "uniform" or "storage, read"
//   - typeName: the declared WGSL type, used in the error message
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
//   - error: an error if the declaration is not a buffer
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) (wgpu.BindGroupLayoutEntry, error) {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage") && strings.Contains(addressSpace, "read_write"):
		entry.Buffer.Type = wgpu.BufferBindingTypeStorage
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	default:
		return entry, fmt.Errorf("unsupported binding type %q", typeName)
	}
	return entry, nil
}

// stripComments removes line comments and nested block comments from WGSL source.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))

	depth := 0
	for i := 0; i < len(source); i++ {
		switch {
		case strings.HasPrefix(source[i:], "/*"):
			depth++
			i++
		case depth > 0 && strings.HasPrefix(source[i:], "*/"):
			depth--
			i++
		case depth > 0:
			if source[i] == '\n' {
				sb.WriteByte('\n')
			}
		case strings.HasPrefix(source[i:], "//"):
			end := strings.IndexByte(source[i:], '\n')
			if end < 0 {
				return sb.String()
			}
			i += end - 1
		default:
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// isVertexInputStruct reports whether a struct feeds the vertex stage: it has @location fields and no @builtin ones.
// Stage output structs always carry @builtin(position) and are excluded.
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// buildVertexBufferLayout packs the fields of a vertex input struct tightly, in declaration order.
//
// Parameters:
//   - ps: the parsed vertex input struct
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout with one attribute per field
//   - bool: false if a field type has no vertex format
func buildVertexBufferLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(ps.fields))
	var stride uint64

	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         stride,
			ShaderLocation: uint32(f.location),
		})
		stride += info.size
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: stride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}

// splitAtTopLevelCommas splits a struct body at commas outside angle brackets,
// so a field typed array<vec4f, 4> stays in one piece.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
