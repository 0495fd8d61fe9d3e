package model

import (
	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a single indexed triangle mesh in model space.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Positions are the vertex positions in model space.
	Positions []mgl32.Vec3

	// Indices are the triangle indices into Positions.
	Indices []uint32
}

// Bounds returns the model-space box around every vertex of the mesh.
// A mesh without vertices yields the zero box at the origin.
func (m *Mesh) Bounds() common.AABB {
	return common.AABBFromPoints(m.Positions)
}

// NewCubeMesh builds an axis-aligned cube centered on the origin.
//
// Parameters:
//   - size: the edge length
//
// Returns:
//   - *Mesh: 8 vertices, 12 triangles
func NewCubeMesh(size float32) *Mesh {
	h := size / 2
	corners := common.BoxCorners(mgl32.Vec3{-h, -h, -h}, mgl32.Vec3{h, h, h})
	return &Mesh{
		Name:      "cube",
		Positions: corners[:],
		// corner bits: x=4, y=2, z=1
		Indices: []uint32{
			0, 1, 3, 0, 3, 2, // -x
			4, 6, 7, 4, 7, 5, // +x
			0, 4, 5, 0, 5, 1, // -y
			2, 3, 7, 2, 7, 6, // +y
			0, 2, 6, 0, 6, 4, // -z
			1, 5, 7, 1, 7, 3, // +z
		},
	}
}

// NewQuadMesh builds a square in the XZ plane centered on the origin, facing +Y.
//
// Parameters:
//   - size: the edge length
//
// Returns:
//   - *Mesh: 4 vertices, 2 triangles
func NewQuadMesh(size float32) *Mesh {
	h := size / 2
	return &Mesh{
		Name: "quad",
		Positions: []mgl32.Vec3{
			{-h, 0, -h},
			{-h, 0, h},
			{h, 0, h},
			{h, 0, -h},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
