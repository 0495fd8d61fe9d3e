package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/Carmen-Shannon/oxy-frustum/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id      uint64
	enabled atomic.Bool
	mdl     model.Model

	position      mgl32.Vec3
	rotation      mgl32.Vec3 // radians, applied Y * X * Z
	rotationSpeed mgl32.Vec3 // radians per second
	scale         mgl32.Vec3

	// derived on every transform change so concurrent readers never recompute
	modelMatrix mgl32.Mat4
	worldBounds common.AABB
}

// GameObject defines the interface for a scene entity: a model placed in the world.
// The model matrix and world-space bounds are recomputed whenever the transform or model
// changes, so the read methods are safe to call from several goroutines while no writer
// is active.
type GameObject interface {
	common.Bounded

	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object takes part in culling and rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Position returns the world-space position.
	Position() mgl32.Vec3

	// Rotation returns the Euler rotation in radians.
	Rotation() mgl32.Vec3

	// RotationSpeed returns the rotation rate in radians per second applied by Advance.
	RotationSpeed() mgl32.Vec3

	// Scale returns the scale factors.
	Scale() mgl32.Vec3

	// ModelMatrix returns the model-to-world matrix built from position, rotation and scale.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix() mgl32.Mat4

	// WorldBounds returns the world-space box enclosing the transformed model bounds.
	// An object without a model is a point at its position.
	//
	// Returns:
	//   - common.AABB: the world bounds
	WorldBounds() common.AABB

	// BoundingSphere returns the sphere enclosing WorldBounds.
	//
	// Returns:
	//   - common.Sphere: the world bounding sphere
	BoundingSphere() common.Sphere

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetModel assigns a Model to this object.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// SetPosition moves the object.
	//
	// Parameters:
	//   - pos: world-space position
	SetPosition(pos mgl32.Vec3)

	// SetRotation sets the Euler rotation.
	//
	// Parameters:
	//   - rot: rotation angles in radians
	SetRotation(rot mgl32.Vec3)

	// SetRotationSpeed sets the rotation rate used by Advance.
	//
	// Parameters:
	//   - speed: radians per second around each axis
	SetRotationSpeed(speed mgl32.Vec3)

	// SetScale sets the scale factors.
	//
	// Parameters:
	//   - scale: scale along each axis
	SetScale(scale mgl32.Vec3)

	// SetTransform sets position, rotation and scale at once.
	//
	// Parameters:
	//   - pos: world-space position
	//   - rot: rotation angles in radians
	//   - scale: scale along each axis
	SetTransform(pos, rot, scale mgl32.Vec3)

	// Advance applies the rotation speed for dt seconds. Objects without a rotation speed
	// are left untouched.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Advance(dt float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	obj.refresh()
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Position() mgl32.Vec3      { return g.position }
func (g *gameObject) Rotation() mgl32.Vec3      { return g.rotation }
func (g *gameObject) RotationSpeed() mgl32.Vec3 { return g.rotationSpeed }
func (g *gameObject) Scale() mgl32.Vec3         { return g.scale }

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	return g.modelMatrix
}

func (g *gameObject) WorldBounds() common.AABB {
	return g.worldBounds
}

func (g *gameObject) BoundingBox() (min, max mgl32.Vec3) {
	return g.worldBounds.Min, g.worldBounds.Max
}

func (g *gameObject) BoundingSphere() common.Sphere {
	return g.worldBounds.BoundingSphere()
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetModel(m model.Model) {
	g.mdl = m
	g.refresh()
}

func (g *gameObject) SetPosition(pos mgl32.Vec3) {
	g.position = pos
	g.refresh()
}

func (g *gameObject) SetRotation(rot mgl32.Vec3) {
	g.rotation = rot
	g.refresh()
}

func (g *gameObject) SetRotationSpeed(speed mgl32.Vec3) {
	g.rotationSpeed = speed
}

func (g *gameObject) SetScale(scale mgl32.Vec3) {
	g.scale = scale
	g.refresh()
}

func (g *gameObject) SetTransform(pos, rot, scale mgl32.Vec3) {
	g.position, g.rotation, g.scale = pos, rot, scale
	g.refresh()
}

func (g *gameObject) Advance(dt float32) {
	if g.rotationSpeed == (mgl32.Vec3{}) {
		return
	}
	g.rotation = g.rotation.Add(g.rotationSpeed.Mul(dt))
	g.refresh()
}

// refresh rebuilds the model matrix and world bounds from the current transform.
func (g *gameObject) refresh() {
	g.modelMatrix = common.BuildModelMatrix(g.position, g.rotation, g.scale)
	if g.mdl == nil {
		g.worldBounds = common.AABB{Min: g.position, Max: g.position}
		return
	}
	g.worldBounds = g.mdl.Bounds().Transform(g.modelMatrix)
}
