package instancing

import "github.com/go-gl/mathgl/mgl32"

// GeneratorOption is a functional option for configuring a Generator.
type GeneratorOption func(*Generator)

// WithBaseRotation sets a rotation added to every generated instance, e.g. to stand up a
// model authored with +Z up.
//
// Parameters:
//   - rot: Euler rotation in radians
//
// Returns:
//   - GeneratorOption: functional option to set the base rotation
func WithBaseRotation(rot mgl32.Vec3) GeneratorOption {
	return func(g *Generator) {
		g.baseRotation = rot
	}
}
