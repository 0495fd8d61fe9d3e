package model

import (
	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/go-gl/mathgl/mgl32"
)

// model is the implementation of the Model interface.
type model struct {
	name           string
	meshes         []*Mesh
	bounds         common.AABB
	boundingRadius float32
}

// Model defines the interface for a renderable 3D model.
// A Model is a named set of meshes in model space. It knows its own bounds so that
// objects placed in the world can be culled without touching the vertex data again.
type Model interface {
	common.Bounded

	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Meshes retrieves the meshes making up this model.
	//
	// Returns:
	//   - []*Mesh: the meshes
	Meshes() []*Mesh

	// AddMesh appends a mesh and grows the model bounds to include it.
	//
	// Parameters:
	//   - mesh: the mesh to add
	AddMesh(mesh *Mesh)

	// Bounds returns the model-space box around every vertex of every mesh.
	//
	// Returns:
	//   - common.AABB: the model bounds
	Bounds() common.AABB

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// VertexCount returns the total number of vertices over all meshes.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the total number of indices over all meshes.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	m.recomputeBounds()
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []*Mesh {
	return m.meshes
}

func (m *model) AddMesh(mesh *Mesh) {
	if mesh == nil {
		return
	}
	m.meshes = append(m.meshes, mesh)
	m.recomputeBounds()
}

func (m *model) Bounds() common.AABB {
	return m.bounds
}

func (m *model) BoundingBox() (min, max mgl32.Vec3) {
	return m.bounds.Min, m.bounds.Max
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) VertexCount() int {
	n := 0
	for _, mesh := range m.meshes {
		n += len(mesh.Positions)
	}
	return n
}

func (m *model) IndexCount() int {
	n := 0
	for _, mesh := range m.meshes {
		n += len(mesh.Indices)
	}
	return n
}

// recomputeBounds rebuilds the box and radius from every vertex.
// A model without vertices keeps the zero box at the origin.
func (m *model) recomputeBounds() {
	first := true
	m.bounds = common.AABB{}
	m.boundingRadius = 0
	for _, mesh := range m.meshes {
		for _, p := range mesh.Positions {
			if first {
				m.bounds = common.AABB{Min: p, Max: p}
				first = false
			} else {
				m.bounds = m.bounds.Extend(p)
			}
			if l := p.Len(); l > m.boundingRadius {
				m.boundingRadius = l
			}
		}
	}
}
