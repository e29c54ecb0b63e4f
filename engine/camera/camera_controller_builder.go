package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial eye position.
//
// Parameters:
//   - x, y, z: the eye position in world space
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = [3]float32{x, y, z}
	}
}

// WithTarget sets the look-at point.
//
// Parameters:
//   - x, y, z: the target in world space
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = [3]float32{x, y, z}
	}
}

// WithDamping sets the share of pending motion applied per Update, in (0, 1].
// A factor of 1 applies motion immediately. Values outside the range are ignored.
//
// Parameters:
//   - factor: the damping factor
//
// Returns:
//   - CameraControllerOption: functional option to set the damping factor
func WithDamping(factor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if factor > 0 && factor <= 1 {
			cc.dampingFactor = factor
		}
	}
}

// WithDistanceBounds limits the eye distance from the target.
func WithDistanceBounds(minDistance, maxDistance float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minDistance = minDistance
		cc.maxDistance = maxDistance
	}
}

// WithMaxTargetRadius limits how far panning may move the target from the origin.
func WithMaxTargetRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.maxTargetRadius = radius
	}
}
