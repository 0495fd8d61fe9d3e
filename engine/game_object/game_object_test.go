package game_object

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/Carmen-Shannon/oxy-frustum/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b mgl32.Vec3) bool {
	for i := range 3 {
		if math.Abs(float64(a[i]-b[i])) > 1e-4 {
			return false
		}
	}
	return true
}

func unitCube() model.Model {
	return model.NewModel(model.WithName("cube"), model.WithMeshes(model.NewCubeMesh(2)))
}

func TestDefaults(t *testing.T) {
	obj := NewGameObject(WithID(3))
	if !obj.Enabled() || obj.ID() != 3 {
		t.Errorf("enabled=%v id=%d", obj.Enabled(), obj.ID())
	}
	if obj.Scale() != (mgl32.Vec3{1, 1, 1}) || obj.ModelMatrix() != mgl32.Ident4() {
		t.Errorf("default transform is not identity")
	}
	min, max := obj.BoundingBox()
	if min != (mgl32.Vec3{}) || max != (mgl32.Vec3{}) {
		t.Errorf("object without a model should be a point at its position, got %v %v", min, max)
	}
}

func TestWorldBoundsFollowTransform(t *testing.T) {
	obj := NewGameObject(
		WithModel(unitCube()),
		WithPosition(mgl32.Vec3{10, 0, 0}),
		WithUniformScale(3),
	)
	b := obj.WorldBounds()
	if !near(b.Min, mgl32.Vec3{7, -3, -3}) || !near(b.Max, mgl32.Vec3{13, 3, 3}) {
		t.Fatalf("WorldBounds() = %v", b)
	}

	obj.SetPosition(mgl32.Vec3{0, 5, 0})
	if b := obj.WorldBounds(); !near(b.Center(), mgl32.Vec3{0, 5, 0}) {
		t.Errorf("bounds center after move = %v", b.Center())
	}

	obj.SetScale(mgl32.Vec3{1, 1, 1})
	obj.SetRotation(mgl32.Vec3{0, mgl32.DegToRad(45), 0})
	if b := obj.WorldBounds(); math.Abs(float64(b.Max[0])-math.Sqrt2) > 1e-4 {
		t.Errorf("rotated bounds max x = %f, want sqrt(2)", b.Max[0])
	}

	s := obj.BoundingSphere()
	if !near(s.Center, mgl32.Vec3{0, 5, 0}) {
		t.Errorf("sphere center = %v", s.Center)
	}
}

func TestAdvanceAppliesRotationSpeed(t *testing.T) {
	obj := NewGameObject(WithModel(unitCube()), WithRotationSpeed(mgl32.Vec3{0, 1, 0}))
	before := obj.ModelMatrix()
	obj.Advance(0.5)
	if !near(obj.Rotation(), mgl32.Vec3{0, 0.5, 0}) {
		t.Errorf("rotation = %v", obj.Rotation())
	}
	if obj.ModelMatrix() == before {
		t.Errorf("model matrix not refreshed")
	}

	still := NewGameObject(WithRotation(mgl32.Vec3{1, 2, 3}))
	still.Advance(10)
	if still.Rotation() != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("object without rotation speed rotated")
	}
}

func TestObjectsAreBoundedForCulling(t *testing.T) {
	var _ common.Bounded = NewGameObject()

	f := common.ExtractFrustum(
		common.Perspective(mgl32.DegToRad(60), 1, 0.1, 100, common.ClipDepthZeroToOne).
			Mul4(common.LookAt(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, common.WorldUp)),
		common.ClipDepthZeroToOne,
	)
	ahead := NewGameObject(WithModel(unitCube()), WithPosition(mgl32.Vec3{0, 0, 20}))
	behind := NewGameObject(WithModel(unitCube()), WithPosition(mgl32.Vec3{0, 0, -20}))
	if !f.IsObjectInFrustum(ahead) || f.IsObjectInFrustum(behind) {
		t.Errorf("ahead=%v behind=%v", f.IsObjectInFrustum(ahead), f.IsObjectInFrustum(behind))
	}
}
