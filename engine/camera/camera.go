package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch is the pitch limit in degrees. Pitch never reaches +/-90 where
// cross(front, worldUp) would vanish.
const MaxPitch float32 = 89.0

// sprintMultiplier scales movement speed while sprinting.
const sprintMultiplier float32 = 10.0

// Movement is a camera translation direction.
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
	Up
	Down
)

// Projection holds the perspective parameters of a camera.
type Projection struct {
	FovY   float32 // vertical field of view in radians
	Aspect float32 // width / height
	Near   float32
	Far    float32
	Depth  common.ClipDepth
}

// Matrix builds the perspective projection matrix for p.
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func (p Projection) Matrix() mgl32.Mat4 {
	return common.Perspective(p.FovY, p.Aspect, p.Near, p.Far, p.Depth)
}

// Camera is a yaw/pitch free-fly camera.
// The front, right and up vectors are always derived from yaw and pitch and are
// recomputed together with the cached view matrix on every mutating call.
// A Camera is owned by a single goroutine (the frame driver).
type Camera struct {
	position mgl32.Vec3
	front    mgl32.Vec3
	right    mgl32.Vec3
	up       mgl32.Vec3
	worldUp  mgl32.Vec3

	yaw   float32 // degrees
	pitch float32 // degrees

	sensitivity float32
	speed       float32
	sprint      bool

	projection Projection
	view       mgl32.Mat4
}

var _ common.CameraPose = &Camera{}

// NewCamera creates a new Camera. Without options it sits at (0, 0, -3) looking down +Z
// with a 45 degree vertical field of view, a 1280x720 aspect and a 0.1 to 1000 depth range.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - *Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) *Camera {
	c := &Camera{
		position:    mgl32.Vec3{0, 0, -3},
		worldUp:     common.WorldUp,
		yaw:         90,
		pitch:       0,
		sensitivity: 0.1,
		speed:       10,
		projection: Projection{
			FovY:   mgl32.DegToRad(45),
			Aspect: 1280.0 / 720.0,
			Near:   0.1,
			Far:    1000,
			Depth:  common.ClipDepthNegativeOneToOne,
		},
	}
	for _, option := range options {
		option(c)
	}
	c.pitch = clampPitch(c.pitch)
	c.updateVectors()
	return c
}

// Update applies a mouse-look delta. The deltas are scaled by the sensitivity; the
// vertical delta is inverted so that moving the mouse up looks up in window coordinates.
// Pitch is clamped to [-MaxPitch, MaxPitch].
//
// Parameters:
//   - deltaYaw: horizontal input delta
//   - deltaPitch: vertical input delta (window coordinates, y grows downward)
func (c *Camera) Update(deltaYaw, deltaPitch float32) {
	c.yaw += deltaYaw * c.sensitivity
	c.pitch = clampPitch(c.pitch - deltaPitch*c.sensitivity)
	c.updateVectors()
}

// Move translates the camera for dt seconds in the given direction.
// Left and Right follow the horizontal strafe axis, Up and Down follow the world up axis.
//
// Parameters:
//   - direction: the movement direction
//   - dt: elapsed time in seconds
func (c *Camera) Move(direction Movement, dt float32) {
	velocity := c.speed * dt
	if c.sprint {
		velocity *= sprintMultiplier
	}

	switch direction {
	case Forward:
		c.position = c.position.Add(c.front.Mul(velocity))
	case Backward:
		c.position = c.position.Sub(c.front.Mul(velocity))
	case Left:
		c.position = c.position.Sub(c.right.Mul(velocity))
	case Right:
		c.position = c.position.Add(c.right.Mul(velocity))
	case Up:
		c.position = c.position.Add(c.worldUp.Mul(velocity))
	case Down:
		c.position = c.position.Sub(c.worldUp.Mul(velocity))
	default:
		return
	}
	c.view = c.GetViewMatrix()
}

// ToggleSprint flips the sprint flag.
func (c *Camera) ToggleSprint() {
	c.sprint = !c.sprint
}

// GetViewMatrix recomputes the view matrix from the current position and orientation.
//
// Returns:
//   - mgl32.Mat4: the world-to-view matrix
func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return common.LookAt(c.position, c.position.Add(c.front), c.worldUp)
}

// View returns the view matrix cached by the last mutating call.
func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

// Position returns the camera position in world space.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// Front returns the unit view direction.
func (c *Camera) Front() mgl32.Vec3 { return c.front }

// Right returns the unit strafe axis, cross(front, worldUp).
func (c *Camera) Right() mgl32.Vec3 { return c.right }

// Up returns the camera's unit up axis, orthogonal to front and right.
func (c *Camera) Up() mgl32.Vec3 { return c.up }

// WorldUp returns the world up direction that yaw turns about.
func (c *Camera) WorldUp() mgl32.Vec3 { return c.worldUp }

// Yaw returns the yaw angle in degrees.
func (c *Camera) Yaw() float32 { return c.yaw }

// Pitch returns the pitch angle in degrees.
func (c *Camera) Pitch() float32 { return c.pitch }

// Sensitivity returns the degrees of rotation per unit of mouse delta.
func (c *Camera) Sensitivity() float32 { return c.sensitivity }

// Speed returns the movement speed in world units per second, before sprinting.
func (c *Camera) Speed() float32 { return c.speed }

// Sprinting reports whether the sprint multiplier is active.
func (c *Camera) Sprinting() bool { return c.sprint }

// SetPosition moves the camera to pos.
//
// Parameters:
//   - pos: world-space position
func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.position = pos
	c.view = c.GetViewMatrix()
}

// SetOrientation sets yaw and pitch directly. Pitch is clamped.
//
// Parameters:
//   - yaw: yaw in degrees
//   - pitch: pitch in degrees
func (c *Camera) SetOrientation(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = clampPitch(pitch)
	c.updateVectors()
}

// Projection returns the camera's projection parameters.
func (c *Camera) Projection() Projection {
	return c.projection
}

// SetProjection replaces the projection parameters.
//
// Parameters:
//   - p: the new projection
func (c *Camera) SetProjection(p Projection) {
	c.projection = p
}

// SetAspect updates the aspect ratio, typically after a framebuffer resize.
// Non-positive values are ignored (a minimized window reports a zero height).
//
// Parameters:
//   - aspect: width / height
func (c *Camera) SetAspect(aspect float32) {
	if aspect <= 0 || math.IsInf(float64(aspect), 0) || math.IsNaN(float64(aspect)) {
		return
	}
	c.projection.Aspect = aspect
}

// ProjectionMatrix builds the projection matrix from the current projection parameters.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection.Matrix()
}

// ViewProjectionMatrix returns projection * view using the cached view matrix.
// This is the matrix both uploaded to the GPU and used for frustum extraction.
func (c *Camera) ViewProjectionMatrix() mgl32.Mat4 {
	return c.projection.Matrix().Mul4(c.view)
}

// Uniform packs the current view-projection matrix and position for GPU upload.
//
// Returns:
//   - GPUCameraUniform: the uniform block contents
func (c *Camera) Uniform() GPUCameraUniform {
	return NewGPUCameraUniform(c.ViewProjectionMatrix(), c.position)
}

// updateVectors recomputes front, right, up and the cached view matrix from yaw and pitch.
// Yaw turns about worldUp starting from the horizon axis; pitch tilts toward worldUp.
func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))
	axis, side := horizonBasis(c.worldUp)

	c.front = common.MustNormalize(axis.Mul(float32(math.Cos(yaw) * math.Cos(pitch))).
		Add(c.worldUp.Mul(float32(math.Sin(pitch)))).
		Add(side.Mul(float32(math.Sin(yaw) * math.Cos(pitch)))))
	c.right = common.MustNormalize(c.front.Cross(c.worldUp))
	c.up = common.MustNormalize(c.right.Cross(c.front))
	c.view = c.GetViewMatrix()
}

// horizonBasis returns two unit axes spanning the plane orthogonal to up, with
// axis x up = side. For +Y up these are +X and +Z.
func horizonBasis(up mgl32.Vec3) (axis, side mgl32.Vec3) {
	ref := mgl32.Vec3{1, 0, 0}
	if math.Abs(float64(up.Dot(ref))) > 0.999 {
		ref = mgl32.Vec3{0, 0, 1}
	}
	axis = common.MustNormalize(ref.Sub(up.Mul(up.Dot(ref))))
	side = axis.Cross(up)
	return axis, side
}

func clampPitch(pitch float32) float32 {
	return mgl32.Clamp(pitch, -MaxPitch, MaxPitch)
}
