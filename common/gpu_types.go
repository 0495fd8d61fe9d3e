package common

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPUFrustumSource is the WGSL declaration of the FrustumPlanes struct and a sphere test
// matching Frustum.IsSphereInFrustum.
//
//go:embed assets/frustum.wgsl
var GPUFrustumSource string

// GPUFrustumSize is the byte size of the FrustumPlanes block.
const GPUFrustumSize = PlaneCount * 16

// GPUFrustumPlane is one vec4<f32> of the FrustumPlanes block.
type GPUFrustumPlane struct {
	Normal   [3]float32
	Distance float32
}

// GPUFrustum mirrors the WGSL FrustumPlanes struct, planes in FrustumPlane order.
type GPUFrustum struct {
	Planes [PlaneCount]GPUFrustumPlane
}

// GPU packs the frustum planes for upload.
func (f Frustum) GPU() GPUFrustum {
	var g GPUFrustum
	for i, p := range f.Planes {
		g.Planes[i] = GPUFrustumPlane{Normal: [3]float32(p.Normal), Distance: p.Distance}
	}
	return g
}

// AppendTo appends the little-endian FrustumPlanes block to dst.
//
// Parameters:
//   - dst: the buffer to append to (may be nil)
//
// Returns:
//   - []byte: dst extended by GPUFrustumSize bytes
func (g *GPUFrustum) AppendTo(dst []byte) []byte {
	for _, p := range g.Planes {
		for _, v := range p.Normal {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
		}
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(p.Distance))
	}
	return dst
}

// Marshal serializes the FrustumPlanes block for GPU upload.
func (g *GPUFrustum) Marshal() []byte {
	return g.AppendTo(make([]byte, 0, GPUFrustumSize))
}
