package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/go-gl/mathgl/mgl32"
)

func newTestController(options ...ControllerOption) (Controller, *Camera) {
	cam := NewCamera(WithPosition(mgl32.Vec3{}), WithSpeed(1))
	return NewController(cam, options...), cam
}

func TestControllerDefaultBindings(t *testing.T) {
	tests := []struct {
		name string
		key  uint32
		want mgl32.Vec3
	}{
		{"w forward", common.KeyW, mgl32.Vec3{0, 0, 1}},
		{"s backward", common.KeyS, mgl32.Vec3{0, 0, -1}},
		{"a left", common.KeyA, mgl32.Vec3{1, 0, 0}},
		{"d right", common.KeyD, mgl32.Vec3{-1, 0, 0}},
		{"space up", common.KeySpace, mgl32.Vec3{0, 1, 0}},
		{"control down", common.KeyLeftControl, mgl32.Vec3{0, -1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, cam := newTestController()
			ctrl.KeyDown(tt.key)
			ctrl.Apply(1)
			if !vecApprox(cam.Position(), tt.want, eps) {
				t.Errorf("position = %v, want %v", cam.Position(), tt.want)
			}
			ctrl.KeyUp(tt.key)
			ctrl.Apply(1)
			if !vecApprox(cam.Position(), tt.want, eps) {
				t.Errorf("released key still moved the camera to %v", cam.Position())
			}
		})
	}
}

func TestControllerSprintTogglesOnPressOnly(t *testing.T) {
	ctrl, cam := newTestController()

	ctrl.KeyDown(common.KeyLeftShift)
	ctrl.KeyDown(common.KeyLeftShift) // key repeat
	if !cam.Sprinting() {
		t.Fatalf("sprint not enabled by press")
	}
	ctrl.KeyUp(common.KeyLeftShift)
	if !cam.Sprinting() {
		t.Fatalf("release should not toggle sprint")
	}
	ctrl.KeyDown(common.KeyLeftShift)
	if cam.Sprinting() {
		t.Errorf("second press should disable sprint")
	}
}

func TestControllerMouseMovePrimesThenAccumulates(t *testing.T) {
	ctrl, cam := newTestController()
	yaw, pitch := cam.Yaw(), cam.Pitch()

	ctrl.MouseMove(400, 300)
	ctrl.Apply(0.016)
	if cam.Yaw() != yaw || cam.Pitch() != pitch {
		t.Fatalf("first cursor sample rotated the camera")
	}

	ctrl.MouseMove(410, 300)
	ctrl.MouseMove(420, 280)
	ctrl.Apply(0.016)
	if !approx(cam.Yaw(), yaw+2, eps) {
		t.Errorf("yaw = %f, want %f", cam.Yaw(), yaw+2)
	}
	if !approx(cam.Pitch(), pitch+2, eps) {
		t.Errorf("pitch = %f, want %f", cam.Pitch(), pitch+2)
	}

	// Motion is consumed by Apply.
	ctrl.Apply(0.016)
	if !approx(cam.Yaw(), yaw+2, eps) {
		t.Errorf("look motion applied twice")
	}
}

func TestControllerInvertY(t *testing.T) {
	ctrl, cam := newTestController(WithInvertY(true))
	ctrl.MouseDelta(0, 10)
	ctrl.Apply(0)
	if !approx(cam.Pitch(), 1, eps) {
		t.Errorf("pitch = %f, want 1", cam.Pitch())
	}
}

func TestControllerCustomBindings(t *testing.T) {
	ctrl, cam := newTestController(
		WithoutDefaultBindings(),
		WithBinding(common.KeyE, Up),
		WithBinding(common.KeyQ, Down),
		WithSprintKey(common.KeyF),
	)

	ctrl.KeyDown(common.KeyW)
	ctrl.Apply(1)
	if cam.Position() != (mgl32.Vec3{}) {
		t.Errorf("unbound key moved the camera")
	}
	ctrl.KeyUp(common.KeyW)

	ctrl.KeyDown(common.KeyE)
	ctrl.Apply(1)
	if !vecApprox(cam.Position(), mgl32.Vec3{0, 1, 0}, eps) {
		t.Errorf("position = %v, want (0, 1, 0)", cam.Position())
	}

	ctrl.KeyDown(common.KeyLeftShift)
	if cam.Sprinting() {
		t.Errorf("old sprint key still toggles sprint")
	}
	ctrl.KeyDown(common.KeyF)
	if !cam.Sprinting() {
		t.Errorf("custom sprint key did not toggle sprint")
	}
}

func TestControllerReset(t *testing.T) {
	ctrl, cam := newTestController()
	ctrl.KeyDown(common.KeyW)
	ctrl.MouseDelta(50, 50)
	ctrl.Reset()
	ctrl.Apply(1)
	if ctrl.IsHeld(common.KeyW) || cam.Position() != (mgl32.Vec3{}) || cam.Pitch() != 0 {
		t.Errorf("Reset left input state behind")
	}
}
