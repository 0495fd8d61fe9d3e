package camera

import (
	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/go-gl/mathgl/mgl32"
)

type CameraBuilderOption func(*Camera)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - pos: world-space position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(pos mgl32.Vec3) CameraBuilderOption {
	return func(c *Camera) {
		c.position = pos
	}
}

// WithYaw sets the initial yaw in degrees. 90 looks down +Z.
//
// Parameters:
//   - yaw: yaw angle in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's yaw
func WithYaw(yaw float32) CameraBuilderOption {
	return func(c *Camera) {
		c.yaw = yaw
	}
}

// WithPitch sets the initial pitch in degrees. Values beyond MaxPitch are clamped.
//
// Parameters:
//   - pitch: pitch angle in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pitch
func WithPitch(pitch float32) CameraBuilderOption {
	return func(c *Camera) {
		c.pitch = pitch
	}
}

// WithSensitivity sets the mouse-look sensitivity (degrees per input unit).
//
// Parameters:
//   - sensitivity: multiplier applied to look deltas
//
// Returns:
//   - CameraBuilderOption: a function that sets the sensitivity
func WithSensitivity(sensitivity float32) CameraBuilderOption {
	return func(c *Camera) {
		c.sensitivity = sensitivity
	}
}

// WithSpeed sets the movement speed in world units per second.
//
// Parameters:
//   - speed: movement speed
//
// Returns:
//   - CameraBuilderOption: a function that sets the movement speed
func WithSpeed(speed float32) CameraBuilderOption {
	return func(c *Camera) {
		c.speed = speed
	}
}

// WithWorldUp sets the world up direction used for the view basis and vertical movement.
// Yaw turns about this axis and pitch is measured against it.
//
// Parameters:
//   - up: world up direction (normalized on use)
//
// Returns:
//   - CameraBuilderOption: a function that sets the world up vector
func WithWorldUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *Camera) {
		c.worldUp = common.MustNormalize(up)
	}
}

// WithProjection replaces all projection parameters at once.
//
// Parameters:
//   - p: the projection parameters
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithProjection(p Projection) CameraBuilderOption {
	return func(c *Camera) {
		c.projection = p
	}
}

// WithFovY sets the vertical field of view in radians.
//
// Parameters:
//   - fovY: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the field of view
func WithFovY(fovY float32) CameraBuilderOption {
	return func(c *Camera) {
		c.projection.FovY = fovY
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *Camera) {
		c.projection.Aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *Camera) {
		c.projection.Near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *Camera) {
		c.projection.Far = far
	}
}

// WithClipDepth selects the clip-space depth range of the projection matrix.
// Use common.ClipDepthZeroToOne when the matrix is consumed by WebGPU.
//
// Parameters:
//   - depth: the clip depth convention
//
// Returns:
//   - CameraBuilderOption: functional option to set the clip depth
func WithClipDepth(depth common.ClipDepth) CameraBuilderOption {
	return func(c *Camera) {
		c.projection.Depth = depth
	}
}
