package model

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPUVertexSource is the WGSL declaration of the VertexInput struct for position-only meshes.
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertexStride is the byte stride of one vertex in the vertex buffer (float32x3).
const GPUVertexStride = 12

// VertexData packs the mesh positions as tightly packed little-endian float32x3.
//
// Returns:
//   - []byte: len(Positions) * GPUVertexStride bytes
func (m *Mesh) VertexData() []byte {
	buf := make([]byte, 0, len(m.Positions)*GPUVertexStride)
	for _, p := range m.Positions {
		for i := range 3 {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(p[i]))
		}
	}
	return buf
}

// IndexData packs the mesh indices as little-endian uint32.
// The result is padded to a multiple of 4 bytes, which uint32 indices always satisfy.
//
// Returns:
//   - []byte: len(Indices) * 4 bytes
func (m *Mesh) IndexData() []byte {
	buf := make([]byte, 0, len(m.Indices)*4)
	for _, idx := range m.Indices {
		buf = binary.LittleEndian.AppendUint32(buf, idx)
	}
	return buf
}
