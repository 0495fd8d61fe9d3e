package instancing

import (
	"math"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/Carmen-Shannon/oxy-frustum/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frustum/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// ringYJitter scales the vertical displacement of ring instances so the ring stays flat.
const ringYJitter float32 = 0.4

// Instance is the transform of one instanced copy of a model.
type Instance struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // radians, applied Y * X * Z
	Scale    float32
}

// ModelMatrix returns translate * rotate * uniform scale for the instance.
func (i Instance) ModelMatrix() mgl32.Mat4 {
	return common.BuildModelMatrix(i.Position, i.Rotation, mgl32.Vec3{i.Scale, i.Scale, i.Scale})
}

// Generator produces instance transforms from an explicitly seeded random source.
// Two generators built with the same seed and options produce identical layouts.
type Generator struct {
	seed         int64
	rng          *rand.Rand
	baseRotation mgl32.Vec3
}

// NewGenerator creates a Generator seeded with seed.
//
// Parameters:
//   - seed: the random seed
//   - options: functional options to configure the generator
//
// Returns:
//   - *Generator: the new generator
func NewGenerator(seed int64, options ...GeneratorOption) *Generator {
	g := &Generator{seed: seed}
	g.Reset()
	for _, option := range options {
		option(g)
	}
	return g
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Reset rewinds the random source to the start of the seed's sequence.
func (g *Generator) Reset() {
	s := uint64(g.seed)
	g.rng = rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Ring lays count instances out on a horizontal ring around the origin.
// Each instance sits at its base angle i/count*360 degrees, is displaced by up to offset
// on x and z (and up to offset*0.4 on y) and is yawed by its base angle.
//
// Parameters:
//   - count: number of instances
//   - radius: ring radius
//   - offset: maximum displacement from the ring
//   - scaleMin, scaleMax: uniform scale range
//
// Returns:
//   - []Instance: the instance transforms in angle order
func (g *Generator) Ring(count int, radius, offset, scaleMin, scaleMax float32) []Instance {
	if count <= 0 {
		return nil
	}
	out := make([]Instance, count)
	for i := range out {
		angle := float32(i) / float32(count) * 2 * math.Pi
		x := float32(math.Sin(float64(angle)))*radius + g.jitter(offset)
		y := g.jitter(offset) * ringYJitter
		z := float32(math.Cos(float64(angle)))*radius + g.jitter(offset)

		out[i] = Instance{
			Position: mgl32.Vec3{x, y, z},
			Rotation: g.baseRotation.Add(mgl32.Vec3{0, angle, 0}),
			Scale:    g.between(scaleMin, scaleMax),
		}
	}
	return out
}

// Field scatters count instances uniformly inside the box bounds, each with a random yaw.
//
// Parameters:
//   - count: number of instances
//   - bounds: the box instance positions are drawn from
//   - scaleMin, scaleMax: uniform scale range
//
// Returns:
//   - []Instance: the instance transforms
func (g *Generator) Field(count int, bounds common.AABB, scaleMin, scaleMax float32) []Instance {
	if count <= 0 {
		return nil
	}
	out := make([]Instance, count)
	for i := range out {
		var pos mgl32.Vec3
		for axis := range 3 {
			pos[axis] = g.between(bounds.Min[axis], bounds.Max[axis])
		}
		out[i] = Instance{
			Position: pos,
			Rotation: g.baseRotation.Add(mgl32.Vec3{0, g.between(0, 2*math.Pi), 0}),
			Scale:    g.between(scaleMin, scaleMax),
		}
	}
	return out
}

// jitter returns a value in [-offset, offset).
func (g *Generator) jitter(offset float32) float32 {
	return (g.rng.Float32()*2 - 1) * offset
}

func (g *Generator) between(lo, hi float32) float32 {
	return lo + g.rng.Float32()*(hi-lo)
}

// ModelMatrices returns the model matrix of every instance.
//
// Parameters:
//   - instances: the instance transforms
//
// Returns:
//   - []mgl32.Mat4: one matrix per instance
func ModelMatrices(instances []Instance) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(instances))
	for i, inst := range instances {
		out[i] = inst.ModelMatrix()
	}
	return out
}

// GameObjects wraps every instance in a GameObject sharing mdl, numbering IDs from firstID.
//
// Parameters:
//   - instances: the instance transforms
//   - mdl: the model every object renders
//   - firstID: the ID of the first object
//
// Returns:
//   - []game_object.GameObject: one enabled object per instance
func GameObjects(instances []Instance, mdl model.Model, firstID uint64) []game_object.GameObject {
	out := make([]game_object.GameObject, len(instances))
	for i, inst := range instances {
		out[i] = game_object.NewGameObject(
			game_object.WithID(firstID+uint64(i)),
			game_object.WithModel(mdl),
			game_object.WithPosition(inst.Position),
			game_object.WithRotation(inst.Rotation),
			game_object.WithUniformScale(inst.Scale),
		)
	}
	return out
}
