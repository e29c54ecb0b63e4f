package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-galaxy/common"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
)

// cameraCount is used to give each camera's bind group provider a unique label.
var cameraCount atomic.Uint64

// DragMode selects what a pointer drag does to the camera.
type DragMode int

const (
	// DragRotate orbits the eye around the target.
	DragRotate DragMode = iota
	// DragPan moves eye and target together in the view plane.
	DragPan
)

// scrollZoomBase is the distance scale of one scroll notch.
const scrollZoomBase = 0.95

type cameraImpl struct {
	mu *sync.Mutex

	up [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewportWidth  float32
	viewportHeight float32

	viewMatrix       [16]float32
	projectionMatrix [16]float32

	controller        CameraController
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera is a perspective camera driven by a CameraController.
// Pointer input goes in through Drag and Scroll; Update advances the controller and rebuilds the matrices.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the current column-major view matrix.
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current column-major projection matrix.
	ProjectionMatrix() [16]float32

	// Controller returns the attached CameraController, or nil.
	Controller() CameraController

	// BindGroupProvider returns the provider holding the camera uniform buffer.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetViewport records the framebuffer size and updates the aspect ratio. Zero sizes are ignored.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	SetViewport(width, height int)

	// Drag feeds a pointer movement, in pixels, to the controller.
	// A drag across the full viewport height turns the eye by a full circle.
	//
	// Parameters:
	//   - mode: rotate or pan
	//   - dx, dy: pointer movement since the previous event, y pointing down
	Drag(mode DragMode, dx, dy float32)

	// Scroll dollies the eye. Positive deltas (wheel up) move closer.
	Scroll(delta float32)

	// Update advances the controller and recomputes the matrices. Called once per tick.
	Update()

	// Uniform returns the current GPU camera uniform.
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with a 45 degree field of view and near and far planes at 0.001 and 100.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:             &sync.Mutex{},
		up:             [3]float32{0, 1, 0},
		fov:            45.0 * (math32.Pi / 180.0),
		aspect:         1.0,
		near:           0.001,
		far:            100.0,
		viewportWidth:  1,
		viewportHeight: 1,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Add(1)-1, 10),
		),
	}
	common.Identity(c.viewMatrix[:])
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewportWidth = float32(width)
	c.viewportHeight = float32(height)
	c.aspect = c.viewportWidth / c.viewportHeight
	c.updateMatrices()
}

func (c *cameraImpl) Drag(mode DragMode, dx, dy float32) {
	c.mu.Lock()
	ctrl := c.controller
	height := c.viewportHeight
	fov := c.fov
	view := c.viewMatrix
	c.mu.Unlock()

	if ctrl == nil {
		return
	}

	switch mode {
	case DragRotate:
		ctrl.RotateLeft(2 * math32.Pi * dx / height)
		ctrl.RotateUp(2 * math32.Pi * dy / height)
	case DragPan:
		// Scale so the point under the cursor at the target's depth follows the pointer.
		dist := ctrl.Radius() * math32.Tan(fov/2)
		left := 2 * dx * dist / height
		up := 2 * dy * dist / height
		// Rows 0 and 1 of the view matrix are the camera's right and up axes in world space.
		ctrl.Pan(
			-view[0]*left+view[1]*up,
			-view[4]*left+view[5]*up,
			-view[8]*left+view[9]*up,
		)
	}
}

func (c *cameraImpl) Scroll(delta float32) {
	ctrl := c.Controller()
	if ctrl == nil || delta == 0 {
		return
	}
	ctrl.Dolly(math32.Pow(scrollZoomBase, delta))
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	ctrl := c.controller
	c.mu.Unlock()
	if ctrl == nil {
		return
	}

	ctrl.Update()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()

	u := GPUCameraUniform{
		View:       c.viewMatrix,
		Projection: c.projectionMatrix,
		Viewport:   [2]float32{c.viewportWidth, c.viewportHeight},
	}
	if c.controller != nil {
		u.Position[0], u.Position[1], u.Position[2] = c.controller.Position()
	}
	return u
}

// updateMatrices recomputes the projection and, with a controller attached, the view matrix.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)

	if c.controller == nil {
		return
	}
	px, py, pz := c.controller.Position()
	tx, ty, tz := c.controller.Target()
	common.LookAt(c.viewMatrix[:],
		px, py, pz,
		tx, ty, tz,
		c.up[0], c.up[1], c.up[2],
	)
}
