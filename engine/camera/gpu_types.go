package camera

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the WGSL declaration of the CameraUniform struct.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniformSize is the byte size of the CameraUniform block.
const GPUCameraUniformSize = 80

// GPUCameraUniform mirrors the WGSL CameraUniform struct (see GPUCameraUniformSource).
// ViewProj must be built with common.ClipDepthZeroToOne when consumed by WebGPU.
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset  0: mat4x4<f32>
	CameraPosition [3]float32  // offset 64: vec3<f32>, padded to 16 bytes
}

// NewGPUCameraUniform packs a view-projection matrix and eye position.
//
// Parameters:
//   - viewProj: projection * view
//   - position: world-space camera position
//
// Returns:
//   - GPUCameraUniform: the uniform block contents
func NewGPUCameraUniform(viewProj mgl32.Mat4, position mgl32.Vec3) GPUCameraUniform {
	return GPUCameraUniform{ViewProj: [16]float32(viewProj), CameraPosition: [3]float32(position)}
}

// Size returns the size of the uniform block in bytes.
func (g *GPUCameraUniform) Size() int {
	return GPUCameraUniformSize
}

// AppendTo appends the little-endian uniform block to dst.
//
// Parameters:
//   - dst: the buffer to append to (may be nil)
//
// Returns:
//   - []byte: dst extended by GPUCameraUniformSize bytes
func (g *GPUCameraUniform) AppendTo(dst []byte) []byte {
	for _, v := range g.ViewProj {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	for _, v := range g.CameraPosition {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return binary.LittleEndian.AppendUint32(dst, 0)
}

// Marshal serializes the uniform block for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	return g.AppendTo(make([]byte, 0, GPUCameraUniformSize))
}
