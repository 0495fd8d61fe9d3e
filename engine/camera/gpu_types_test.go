package camera

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGPUCameraUniformMarshal(t *testing.T) {
	vp := mgl32.Ident4()
	vp[12] = 7
	u := NewGPUCameraUniform(vp, mgl32.Vec3{1, 2, 3})
	buf := u.Marshal()

	if len(buf) != GPUCameraUniformSize || u.Size() != GPUCameraUniformSize {
		t.Fatalf("len = %d, want %d", len(buf), GPUCameraUniformSize)
	}
	read := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	if read(0) != 1 || read(12*4) != 7 {
		t.Errorf("matrix not written column-major")
	}
	if read(64) != 1 || read(68) != 2 || read(72) != 3 || read(76) != 0 {
		t.Errorf("position block = %v %v %v pad %v", read(64), read(68), read(72), read(76))
	}
}

func TestGPUCameraUniformSource(t *testing.T) {
	if !strings.Contains(GPUCameraUniformSource, "struct CameraUniform") {
		t.Errorf("embedded WGSL does not declare CameraUniform")
	}
}
