package camera

import (
	"github.com/chewxy/math32"
)

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithFovDegrees sets the vertical field of view.
//
// Parameters:
//   - degrees: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFovDegrees(degrees float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = degrees * (math32.Pi / 180.0)
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance, greater than zero
//   - far: far plane distance, greater than near
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithViewport sets the initial framebuffer size and the aspect ratio derived from it.
func WithViewport(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		if width > 0 && height > 0 {
			c.viewportWidth = float32(width)
			c.viewportHeight = float32(height)
			c.aspect = c.viewportWidth / c.viewportHeight
		}
	}
}

// WithController attaches the controller that positions the eye.
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
