package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/go-gl/mathgl/mgl32"
)

func TestEmptyModelHasZeroBounds(t *testing.T) {
	m := NewModel(WithName("empty"))
	min, max := m.BoundingBox()
	if min != (mgl32.Vec3{}) || max != (mgl32.Vec3{}) {
		t.Errorf("BoundingBox() = %v, %v, want zero box", min, max)
	}
	if m.BoundingRadius() != 0 || m.VertexCount() != 0 {
		t.Errorf("empty model reports radius %f, %d vertices", m.BoundingRadius(), m.VertexCount())
	}
}

func TestBoundsSpanAllMeshes(t *testing.T) {
	a := &Mesh{Positions: []mgl32.Vec3{{1, 2, 3}, {-1, 0, 0}}}
	b := &Mesh{Positions: []mgl32.Vec3{{0, -5, 4}}, Indices: []uint32{0, 0, 0}}

	m := NewModel(WithName("pair"), WithMeshes(a, nil))
	m.AddMesh(b)
	m.AddMesh(nil)

	want := common.AABB{Min: mgl32.Vec3{-1, -5, 0}, Max: mgl32.Vec3{1, 2, 4}}
	if m.Bounds() != want {
		t.Errorf("Bounds() = %v, want %v", m.Bounds(), want)
	}
	if got := m.BoundingRadius(); math.Abs(float64(got)-math.Sqrt(41)) > 1e-5 {
		t.Errorf("BoundingRadius() = %f, want sqrt(41)", got)
	}
	if len(m.Meshes()) != 2 || m.VertexCount() != 3 || m.IndexCount() != 3 {
		t.Errorf("meshes=%d vertices=%d indices=%d", len(m.Meshes()), m.VertexCount(), m.IndexCount())
	}
}

func TestPrimitives(t *testing.T) {
	tests := []struct {
		name     string
		mesh     *Mesh
		verts    int
		indices  int
		min, max mgl32.Vec3
	}{
		{"cube", NewCubeMesh(2), 8, 36, mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}},
		{"quad", NewQuadMesh(4), 4, 6, mgl32.Vec3{-2, 0, -2}, mgl32.Vec3{2, 0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.mesh.Positions) != tt.verts || len(tt.mesh.Indices) != tt.indices {
				t.Fatalf("got %d vertices %d indices", len(tt.mesh.Positions), len(tt.mesh.Indices))
			}
			for _, idx := range tt.mesh.Indices {
				if int(idx) >= tt.verts {
					t.Fatalf("index %d out of range", idx)
				}
			}
			b := tt.mesh.Bounds()
			if b.Min != tt.min || b.Max != tt.max {
				t.Errorf("Bounds() = %v, want %v..%v", b, tt.min, tt.max)
			}
		})
	}
}

func TestMeshBufferData(t *testing.T) {
	m := &Mesh{Positions: []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}}, Indices: []uint32{1, 0, 1}}

	v := m.VertexData()
	if len(v) != 2*GPUVertexStride {
		t.Fatalf("vertex data len = %d", len(v))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(v[GPUVertexStride+8:])); got != 6 {
		t.Errorf("second vertex z = %f, want 6", got)
	}

	i := m.IndexData()
	if len(i) != 12 || binary.LittleEndian.Uint32(i[0:]) != 1 || binary.LittleEndian.Uint32(i[4:]) != 0 {
		t.Errorf("index data = %v", i)
	}
}
