package common

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGPUFrustumMarshal(t *testing.T) {
	var f Frustum
	for i := range f.Planes {
		f.Planes[i] = Plane{Normal: mgl32.Vec3{float32(i), 1, 2}, Distance: float32(10 + i)}
	}
	g := f.GPU()
	data := g.Marshal()
	if len(data) != GPUFrustumSize {
		t.Fatalf("len = %d, want %d", len(data), GPUFrustumSize)
	}

	word := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	for i := range PlaneCount {
		base := i * 4
		if word(base) != float32(i) || word(base+1) != 1 || word(base+2) != 2 {
			t.Errorf("plane %s normal = (%g, %g, %g)", FrustumPlane(i), word(base), word(base+1), word(base+2))
		}
		if word(base+3) != float32(10+i) {
			t.Errorf("plane %s distance = %g", FrustumPlane(i), word(base+3))
		}
	}
}

func TestGPUFrustumSource(t *testing.T) {
	if !strings.Contains(GPUFrustumSource, "struct FrustumPlanes") {
		t.Errorf("embedded WGSL is missing FrustumPlanes")
	}
}
