package camera

// CameraController moves an eye point around a target. The Camera reads Position and Target
// after every Update to build its view matrix.
type CameraController interface {
	orbitCameraController

	// Position returns the eye position in world space.
	Position() (x, y, z float32)

	// Target returns the point the eye looks at.
	Target() (x, y, z float32)

	// SetPosition moves the eye and discards pending motion.
	SetPosition(x, y, z float32)

	// SetTarget moves the target, clamped to the max target radius, and discards pending motion.
	SetTarget(x, y, z float32)

	// Update applies pending motion, damped when damping is enabled.
	// It is called once per tick.
	//
	// Returns:
	//   - bool: true if the eye or the target moved
	Update() bool
}

type orbitCameraController interface {
	// RotateLeft queues a rotation about the target's Y axis, in radians.
	RotateLeft(angle float32)

	// RotateUp queues a rotation toward the pole, in radians.
	RotateUp(angle float32)

	// Pan queues a translation of both eye and target, in world units.
	Pan(dx, dy, dz float32)

	// Dolly queues a scale of the eye distance. A scale below 1 moves the eye closer.
	Dolly(scale float32)

	// Radius returns the eye distance from the target.
	Radius() float32

	// DampingFactor returns the share of pending motion applied per Update, 1 when damping is off.
	DampingFactor() float32

	// MaxTargetRadius returns how far the target may be panned from the origin.
	MaxTargetRadius() float32
}
