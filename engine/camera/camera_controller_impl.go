package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// polarEpsilon keeps the polar angle off the poles, where the up vector degenerates.
const polarEpsilon = 1e-6

// motionEpsilon is the smallest change Update reports as movement.
const motionEpsilon = 1e-5

type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32

	// pending motion, consumed by Update
	deltaTheta float32
	deltaPhi   float32
	panOffset  [3]float32
	scale      float32

	dampingFactor   float32
	minDistance     float32
	maxDistance     float32
	maxTargetRadius float32
}

var _ CameraController = &cameraControllerImpl{}

// NewOrbitController creates an orbit controller at (1.15, 1.15, 1.15) looking at the origin,
// with damping factor 0.05 and the target kept within 2 units of the origin.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the controller
func NewOrbitController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:              &sync.Mutex{},
		position:        [3]float32{1.15, 1.15, 1.15},
		scale:           1,
		dampingFactor:   0.05,
		minDistance:     0,
		maxDistance:     math32.Inf(1),
		maxTargetRadius: 2,
	}
	for _, option := range options {
		option(cc)
	}
	cc.target = clampLength(cc.target, cc.maxTargetRadius)
	return cc
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = [3]float32{x, y, z}
	cc.resetMotion()
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = clampLength([3]float32{x, y, z}, cc.maxTargetRadius)
	cc.resetMotion()
}

func (cc *cameraControllerImpl) RotateLeft(angle float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaTheta -= angle
}

func (cc *cameraControllerImpl) RotateUp(angle float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaPhi -= angle
}

func (cc *cameraControllerImpl) Pan(dx, dy, dz float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.panOffset[0] += dx
	cc.panOffset[1] += dy
	cc.panOffset[2] += dz
}

func (cc *cameraControllerImpl) Dolly(scale float32) {
	if scale <= 0 {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.scale *= scale
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return length(sub(cc.position, cc.target))
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingFactor
}

func (cc *cameraControllerImpl) MaxTargetRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxTargetRadius
}

func (cc *cameraControllerImpl) Update() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	prevPosition, prevTarget := cc.position, cc.target
	offset := sub(cc.position, cc.target)

	// Spherical coordinates with the polar angle measured from +Y and the azimuth from +Z.
	radius := length(offset)
	theta := math32.Atan2(offset[0], offset[2])
	phi := float32(0)
	if radius > 0 {
		phi = math32.Acos(clamp(offset[1]/radius, -1, 1))
	}

	f := cc.dampingFactor
	theta += cc.deltaTheta * f
	phi = clamp(phi+cc.deltaPhi*f, polarEpsilon, math32.Pi-polarEpsilon)

	for i := range cc.target {
		cc.target[i] += cc.panOffset[i] * f
	}
	cc.target = clampLength(cc.target, cc.maxTargetRadius)

	radius = clamp(radius*cc.scale, cc.minDistance, cc.maxDistance)

	sinPhi := math32.Sin(phi)
	cc.position = [3]float32{
		cc.target[0] + radius*sinPhi*math32.Sin(theta),
		cc.target[1] + radius*math32.Cos(phi),
		cc.target[2] + radius*sinPhi*math32.Cos(theta),
	}

	keep := 1 - f
	cc.deltaTheta *= keep
	cc.deltaPhi *= keep
	for i := range cc.panOffset {
		cc.panOffset[i] *= keep
	}
	cc.scale = 1

	return length(sub(cc.position, prevPosition)) > motionEpsilon ||
		length(sub(cc.target, prevTarget)) > motionEpsilon
}

// resetMotion drops pending motion. Caller must hold the mutex.
func (cc *cameraControllerImpl) resetMotion() {
	cc.deltaTheta, cc.deltaPhi = 0, 0
	cc.panOffset = [3]float32{}
	cc.scale = 1
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func length(v [3]float32) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(hi, v))
}

// clampLength shortens v to at most maxLen.
func clampLength(v [3]float32, maxLen float32) [3]float32 {
	l := length(v)
	if l <= maxLen || l == 0 {
		return v
	}
	s := maxLen / l
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}
