package common

import (
	"encoding/binary"

	"github.com/chewxy/math32"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two column-major 4x4 matrices: out = a * b. out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective writes a right-handed perspective projection mapping depth into the WebGPU clip range [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / math32.Tan(fovY/2.0)
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
}

// RotationY writes a rotation of angle radians about the Y axis.
func RotationY(out []float32, angle float32) {
	s, c := math32.Sincos(angle)
	Identity(out)
	out[0] = c
	out[2] = -s
	out[8] = s
	out[10] = c
}

// LookAt writes the view matrix of a camera at eye looking at center.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eyeX, eyeY, eyeZ: camera position in world space
//   - centerX, centerY, centerZ: target point the camera looks at
//   - upX, upY, upZ: up vector, typically (0, 1, 0)
func LookAt(out []float32, eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ float32) {
	z0, z1, z2 := normalize3(eyeX-centerX, eyeY-centerY, eyeZ-centerZ)
	x0, x1, x2 := normalize3(upY*z2-upZ*z1, upZ*z0-upX*z2, upX*z1-upY*z0)

	y0 := z1*x2 - z2*x1
	y1 := z2*x0 - z0*x2
	y2 := z0*x1 - z1*x0

	out[0], out[4], out[8], out[12] = x0, x1, x2, -(x0*eyeX + x1*eyeY + x2*eyeZ)
	out[1], out[5], out[9], out[13] = y0, y1, y2, -(y0*eyeX + y1*eyeY + y2*eyeZ)
	out[2], out[6], out[10], out[14] = z0, z1, z2, -(z0*eyeX + z1*eyeY + z2*eyeZ)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// normalize3 returns v scaled to unit length, or v unchanged when it has no length.
func normalize3(x, y, z float32) (float32, float32, float32) {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return x, y, z
	}
	return x / l, y / l, z / l
}

// PutFloat32s writes values little-endian into buf starting at offset and returns the offset past the last value.
//
// Parameters:
//   - buf: destination, must hold offset+4*len(values) bytes
//   - offset: byte offset of the first value
//   - values: the floats to write
//
// Returns:
//   - int: the byte offset following the written values
func PutFloat32s(buf []byte, offset int, values ...float32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[offset:], math32.Float32bits(v))
		offset += 4
	}
	return offset
}

// PutUint32s writes values little-endian into buf starting at offset and returns the offset past the last value.
func PutUint32s(buf []byte, offset int, values ...uint32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[offset:], v)
		offset += 4
	}
	return offset
}
