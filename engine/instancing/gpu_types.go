package instancing

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUInstanceDataSource is the WGSL declaration of the per-instance storage element.
//
//go:embed assets/instance_data.wgsl
var GPUInstanceDataSource string

// GPUInstanceDataSize is the byte size of one GPUInstanceData element.
const GPUInstanceDataSize = 64

// GPUInstanceData mirrors the WGSL InstanceData struct: one column-major model matrix.
type GPUInstanceData struct {
	Model [16]float32 // offset 0: mat4x4<f32>
}

// AppendTo appends the little-endian element to dst.
func (g *GPUInstanceData) AppendTo(dst []byte) []byte {
	for _, v := range g.Model {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// Marshal serializes the element for GPU upload.
//
// Returns:
//   - []byte: GPUInstanceDataSize bytes
func (g *GPUInstanceData) Marshal() []byte {
	return g.AppendTo(make([]byte, 0, GPUInstanceDataSize))
}

// MarshalMatrices packs model matrices into one contiguous instance buffer.
//
// Parameters:
//   - matrices: the per-instance model matrices
//
// Returns:
//   - []byte: len(matrices) * GPUInstanceDataSize bytes
func MarshalMatrices(matrices []mgl32.Mat4) []byte {
	buf := make([]byte, 0, len(matrices)*GPUInstanceDataSize)
	for _, m := range matrices {
		d := GPUInstanceData{Model: [16]float32(m)}
		buf = d.AppendTo(buf)
	}
	return buf
}
