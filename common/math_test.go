package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPerspectiveDepthRange(t *testing.T) {
	const near, far = 0.5, 200
	tests := []struct {
		depth           ClipDepth
		nearNDC, farNDC float32
	}{
		{ClipDepthNegativeOneToOne, -1, 1},
		{ClipDepthZeroToOne, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.depth.String(), func(t *testing.T) {
			p := Perspective(mgl32.DegToRad(60), 1.5, near, far, tt.depth)
			for _, c := range []struct {
				z, want float32
			}{{-near, tt.nearNDC}, {-far, tt.farNDC}} {
				clip := p.Mul4x1(mgl32.Vec4{0, 0, c.z, 1})
				if got := clip[2] / clip[3]; !approx(got, c.want, 1e-4) {
					t.Errorf("ndc depth at z=%f = %f, want %f", c.z, got, c.want)
				}
			}
		})
	}
}

func TestMustNormalize(t *testing.T) {
	if got := MustNormalize(mgl32.Vec3{3, 0, 4}); !vecApprox(got, mgl32.Vec3{0.6, 0, 0.8}, 1e-6) {
		t.Errorf("MustNormalize() = %v", got)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("MustNormalize of the zero vector did not panic")
		}
	}()
	MustNormalize(mgl32.Vec3{})
}

func TestBuildModelMatrixMatchesComposition(t *testing.T) {
	pos := mgl32.Vec3{1, -2, 3}
	rot := mgl32.Vec3{0.3, -1.1, 0.7}
	scale := mgl32.Vec3{2, 0.5, 1.5}

	want := mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(mgl32.HomogRotate3DY(rot[1])).
		Mul4(mgl32.HomogRotate3DX(rot[0])).
		Mul4(mgl32.HomogRotate3DZ(rot[2])).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))

	if got := BuildModelMatrix(pos, rot, scale); !matApprox(got, want, 1e-5) {
		t.Errorf("BuildModelMatrix() = %v, want %v", got, want)
	}
}

func TestClipDepthString(t *testing.T) {
	if ClipDepthZeroToOne.String() != "zero_to_one" || ClipDepthNegativeOneToOne.String() != "negative_one_to_one" {
		t.Errorf("unexpected clip depth names")
	}
}

func TestSliceToBytes(t *testing.T) {
	if SliceToBytes([]float32(nil)) != nil {
		t.Errorf("empty slice should give nil")
	}
	if got := len(SliceToBytes([]mgl32.Vec4{{}, {}})); got != 32 {
		t.Errorf("len = %d, want 32", got)
	}
}

func TestKeyByName(t *testing.T) {
	if k, ok := KeyByName("left_shift"); !ok || k != KeyLeftShift {
		t.Errorf("KeyByName(left_shift) = %d, %v", k, ok)
	}
	if _, ok := KeyByName("nope"); ok {
		t.Errorf("unknown key name resolved")
	}
}

func matApprox(a, b mgl32.Mat4, eps float32) bool {
	for i := range 16 {
		if !approx(a[i], b[i], eps) {
			return false
		}
	}
	return true
}
