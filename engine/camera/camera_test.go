package camera

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func vecApprox(a, b mgl32.Vec3, eps float32) bool {
	for i := range 3 {
		if !approx(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

func assertBasis(t *testing.T, c *Camera) {
	t.Helper()
	f, r, u := c.Front(), c.Right(), c.Up()
	for name, v := range map[string]mgl32.Vec3{"front": f, "right": r, "up": u} {
		if l := v.Len(); !approx(l, 1, eps) {
			t.Fatalf("|%s| = %f, want 1", name, l)
		}
	}
	if d := f.Dot(r); !approx(d, 0, eps) {
		t.Fatalf("front.right = %f", d)
	}
	if d := f.Dot(u); !approx(d, 0, eps) {
		t.Fatalf("front.up = %f", d)
	}
	if d := r.Dot(u); !approx(d, 0, eps) {
		t.Fatalf("right.up = %f", d)
	}
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	if c.Position() != (mgl32.Vec3{0, 0, -3}) {
		t.Errorf("position = %v", c.Position())
	}
	if !vecApprox(c.Front(), mgl32.Vec3{0, 0, 1}, eps) {
		t.Errorf("front = %v, want +Z", c.Front())
	}
	if !vecApprox(c.Up(), mgl32.Vec3{0, 1, 0}, eps) {
		t.Errorf("up = %v, want +Y", c.Up())
	}
	p := c.Projection()
	if !approx(p.FovY, mgl32.DegToRad(45), eps) || p.Near != 0.1 || p.Far != 1000 {
		t.Errorf("projection = %+v", p)
	}
	if c.View() != c.GetViewMatrix() {
		t.Errorf("cached view differs from a fresh computation")
	}
	assertBasis(t, c)
}

func TestPitchIsClamped(t *testing.T) {
	c := NewCamera(WithPitch(200))
	if c.Pitch() != MaxPitch {
		t.Fatalf("initial pitch = %f, want %f", c.Pitch(), MaxPitch)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		c.Update(rng.Float32()*4000-2000, rng.Float32()*4000-2000)
		if c.Pitch() < -MaxPitch || c.Pitch() > MaxPitch {
			t.Fatalf("pitch %f escaped the clamp", c.Pitch())
		}
		assertBasis(t, c)
	}
}

func TestUpdateScalesBySensitivity(t *testing.T) {
	c := NewCamera(WithSensitivity(0.5), WithYaw(0), WithPitch(0))
	c.Update(10, 20)
	if !approx(c.Yaw(), 5, eps) {
		t.Errorf("yaw = %f, want 5", c.Yaw())
	}
	// Moving the cursor down in window coordinates looks down.
	if !approx(c.Pitch(), -10, eps) {
		t.Errorf("pitch = %f, want -10", c.Pitch())
	}
	if c.View() != c.GetViewMatrix() {
		t.Errorf("view not refreshed after Update")
	}
}

func TestMoveKeepsBasisOrthonormal(t *testing.T) {
	c := NewCamera()
	rng := rand.New(rand.NewPCG(7, 7))
	for i := range 300 {
		if i%3 == 0 {
			c.Update(rng.Float32()*200-100, rng.Float32()*200-100)
		}
		c.Move(Movement(rng.IntN(6)), rng.Float32()*0.1)
		assertBasis(t, c)
	}
}

func TestMoveUpThenDownRoundTrips(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{1, 2, 3}), WithYaw(37), WithPitch(-20))
	start := c.Position()
	c.Move(Up, 0.016)
	if c.Position() == start {
		t.Fatalf("Move(Up) did not move the camera")
	}
	c.Move(Down, 0.016)
	if !vecApprox(c.Position(), start, eps) {
		t.Errorf("position after up/down = %v, want %v", c.Position(), start)
	}
}

func TestMoveDirections(t *testing.T) {
	tests := []struct {
		name      string
		direction Movement
		want      mgl32.Vec3
	}{
		{"forward", Forward, mgl32.Vec3{0, 0, 10}},
		{"backward", Backward, mgl32.Vec3{0, 0, -10}},
		{"right", Right, mgl32.Vec3{-10, 0, 0}},
		{"left", Left, mgl32.Vec3{10, 0, 0}},
		{"up", Up, mgl32.Vec3{0, 10, 0}},
		{"down", Down, mgl32.Vec3{0, -10, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(WithPosition(mgl32.Vec3{}))
			c.Move(tt.direction, 1)
			if !vecApprox(c.Position(), tt.want, eps) {
				t.Errorf("position = %v, want %v", c.Position(), tt.want)
			}
			if c.View() != c.GetViewMatrix() {
				t.Errorf("view not refreshed after Move")
			}
		})
	}
}

func TestSprintMultipliesSpeed(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{}), WithSpeed(2))
	c.ToggleSprint()
	if !c.Sprinting() {
		t.Fatalf("ToggleSprint did not enable sprint")
	}
	c.Move(Forward, 0.5)
	if !approx(c.Position()[2], 10, eps) {
		t.Errorf("sprinting z = %f, want 10", c.Position()[2])
	}
	before := c.View()
	c.ToggleSprint()
	if c.Sprinting() || c.View() != before {
		t.Errorf("second toggle should only clear the flag")
	}
}

func TestViewMatrixMapsFrontToNegativeZ(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{5, -1, 2}), WithYaw(-30), WithPitch(15))
	ahead := c.Position().Add(c.Front().Mul(4))
	got := common.TransformPoint(c.View(), ahead)
	if !vecApprox(got, mgl32.Vec3{0, 0, -4}, 1e-3) {
		t.Errorf("point ahead of the camera maps to %v, want (0, 0, -4)", got)
	}
}

func TestSetAspectIgnoresInvalid(t *testing.T) {
	c := NewCamera(WithAspect(2))
	c.SetAspect(0)
	c.SetAspect(-1)
	if c.Projection().Aspect != 2 {
		t.Errorf("aspect = %f, want 2", c.Projection().Aspect)
	}
	c.SetAspect(1.5)
	if c.Projection().Aspect != 1.5 {
		t.Errorf("aspect = %f, want 1.5", c.Projection().Aspect)
	}
}

func TestViewProjectionFrustumContainsPointAhead(t *testing.T) {
	for _, depth := range []common.ClipDepth{common.ClipDepthNegativeOneToOne, common.ClipDepthZeroToOne} {
		t.Run(depth.String(), func(t *testing.T) {
			c := NewCamera(WithClipDepth(depth), WithYaw(10), WithPitch(5))
			f := common.ExtractFrustum(c.ViewProjectionMatrix(), depth)
			if !f.ContainsPoint(c.Position().Add(c.Front().Mul(50))) {
				t.Errorf("point ahead of the camera is outside its frustum")
			}
			if f.ContainsPoint(c.Position().Sub(c.Front().Mul(50))) {
				t.Errorf("point behind the camera is inside its frustum")
			}
		})
	}
}

func TestWorldUpOrientsBasis(t *testing.T) {
	tests := []struct {
		name    string
		worldUp mgl32.Vec3
	}{
		{"y up", mgl32.Vec3{0, 1, 0}},
		{"x up", mgl32.Vec3{1, 0, 0}},
		{"z up", mgl32.Vec3{0, 0, 1}},
		{"negative z up", mgl32.Vec3{0, 0, -1}},
		{"oblique up", mgl32.Vec3{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(WithWorldUp(tt.worldUp))
			up := c.WorldUp()
			for _, o := range []struct{ yaw, pitch float32 }{
				{0, 0}, {90, 0}, {-135, 30}, {270, -60}, {45, 89}, {10, -89},
			} {
				c.SetOrientation(o.yaw, o.pitch)
				assertBasis(t, c)
				want := float32(math.Sin(float64(mgl32.DegToRad(o.pitch))))
				if d := c.Front().Dot(up); !approx(d, want, eps) {
					t.Fatalf("yaw %v pitch %v: front.worldUp = %f, want %f", o.yaw, o.pitch, d, want)
				}
				if d := c.Right().Dot(up); !approx(d, 0, eps) {
					t.Fatalf("yaw %v pitch %v: right.worldUp = %f, want 0", o.yaw, o.pitch, d)
				}
				if d := c.Up().Dot(up); d <= 0 {
					t.Fatalf("yaw %v pitch %v: up.worldUp = %f, want > 0", o.yaw, o.pitch, d)
				}
			}

			c.SetOrientation(0, 0)
			start := c.Position()
			c.Move(Up, 1)
			if got := c.Position().Sub(start); !vecApprox(got, up.Mul(c.Speed()), eps) {
				t.Errorf("Move(Up) displaced %v, want %v", got, up.Mul(c.Speed()))
			}
		})
	}
}
