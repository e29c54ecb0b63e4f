package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mulVec(m []float32, x, y, z, w float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row]*x + m[4+row]*y + m[8+row]*z + m[12+row]*w
	}
	return out
}

func TestMul4_Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i)
	}

	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)

	Mul4(m[:], m[:], id[:])
	assert.Equal(t, out, m, "aliasing the output is allowed")
}

func TestRotationY(t *testing.T) {
	var m [16]float32
	RotationY(m[:], math.Pi/2)

	v := mulVec(m[:], 1, 0, 0, 1)
	assert.InDelta(t, 0, v[0], 1e-6)
	assert.InDelta(t, 0, v[1], 1e-6)
	assert.InDelta(t, -1, v[2], 1e-6, "+X turns toward -Z")
	assert.InDelta(t, 1, v[3], 1e-6)
}

func TestLookAt_MapsTargetOntoNegativeZ(t *testing.T) {
	var m [16]float32
	LookAt(m[:], 1.15, 1.15, 1.15, 0, 0, 0, 0, 1, 0)

	v := mulVec(m[:], 0, 0, 0, 1)
	dist := float32(math.Sqrt(3 * 1.15 * 1.15))
	assert.InDelta(t, 0, v[0], 1e-5)
	assert.InDelta(t, 0, v[1], 1e-5)
	assert.InDelta(t, -dist, v[2], 1e-5)

	eye := mulVec(m[:], 1.15, 1.15, 1.15, 1)
	assert.InDelta(t, 0, eye[2], 1e-5)
}

func TestPerspective_DepthRange(t *testing.T) {
	var m [16]float32
	Perspective(m[:], math.Pi/4, 1.5, 0.1, 100)

	near := mulVec(m[:], 0, 0, -0.1, 1)
	far := mulVec(m[:], 0, 0, -100, 1)
	assert.InDelta(t, 0, near[2]/near[3], 1e-5)
	assert.InDelta(t, 1, far[2]/far[3], 1e-4)
	assert.InDelta(t, m[5]/1.5, m[0], 1e-6)
}

func TestPutFloat32s(t *testing.T) {
	buf := make([]byte, 12)
	next := PutFloat32s(buf, 4, 1.5, -2)

	assert.Equal(t, 12, next)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf))
	assert.Equal(t, math.Float32bits(1.5), binary.LittleEndian.Uint32(buf[4:]))
	assert.Equal(t, math.Float32bits(-2), binary.LittleEndian.Uint32(buf[8:]))
}

func TestPutUint32s(t *testing.T) {
	buf := make([]byte, 8)
	next := PutUint32s(buf, 0, 7, 1<<31)

	assert.Equal(t, 8, next)
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(buf))
	assert.Equal(t, uint32(1<<31), binary.LittleEndian.Uint32(buf[4:]))
}
