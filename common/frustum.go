package common

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane is a half-space given by a unit normal and a distance from the origin.
// A point p is inside when dot(Normal, p) - Distance >= 0.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// NewPlane builds the plane through point with the given normal.
// The normal is normalized; a zero-length normal panics.
//
// Parameters:
//   - point: any point on the plane
//   - normal: the inward-facing normal (any length > 0)
//
// Returns:
//   - Plane: the plane with unit normal
func NewPlane(point, normal mgl32.Vec3) Plane {
	n := MustNormalize(normal)
	return Plane{Normal: n, Distance: n.Dot(point)}
}

// SignedDistance returns the signed distance from p to the plane.
// Positive values lie on the inside.
func (p Plane) SignedDistance(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) - p.Distance
}

// FrustumPlane indexes the six planes of a Frustum.
type FrustumPlane int

const (
	PlaneNear FrustumPlane = iota
	PlaneFar
	PlaneLeft
	PlaneRight
	PlaneTop
	PlaneBottom

	// PlaneCount is the number of planes bounding a frustum.
	PlaneCount = 6
)

var frustumPlaneNames = [PlaneCount]string{"near", "far", "left", "right", "top", "bottom"}

func (fp FrustumPlane) String() string {
	if fp < 0 || int(fp) >= PlaneCount {
		return fmt.Sprintf("FrustumPlane(%d)", int(fp))
	}
	return frustumPlaneNames[fp]
}

// CameraPose is the camera state the analytic frustum construction reads.
// Front, Right and Up must be an orthonormal right-handed basis (Right = Front x Up).
type CameraPose interface {
	Position() mgl32.Vec3
	Front() mgl32.Vec3
	Right() mgl32.Vec3
	Up() mgl32.Vec3
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that the positive half-space is inside the frustum and are
// addressed by FrustumPlane.
type Frustum struct {
	Planes [PlaneCount]Plane
}

// Plane returns the plane at the given index.
func (f Frustum) Plane(which FrustumPlane) Plane {
	return f.Planes[which]
}

// NewFrustumFromCamera builds a frustum analytically from a camera pose and projection parameters.
//
// Parameters:
//   - pose: camera position and orthonormal basis
//   - aspect: viewport aspect ratio (width/height)
//   - fovY: vertical field of view in radians
//   - zNear: near plane distance
//   - zFar: far plane distance
//
// Returns:
//   - Frustum: the frustum with inward-facing unit normals
func NewFrustumFromCamera(pose CameraPose, aspect, fovY, zNear, zFar float32) Frustum {
	var f Frustum
	f.CreateFromCamera(pose, aspect, fovY, zNear, zFar)
	return f
}

// CreateFromCamera rebuilds every plane analytically from the camera pose.
// The side planes all pass through the camera position; their normals come from crossing
// the far-plane edge directions with the camera's right/up axes. Swapping any cross-product
// operand order flips that plane inside out.
//
// Parameters:
//   - pose: camera position and orthonormal basis
//   - aspect: viewport aspect ratio (width/height)
//   - fovY: vertical field of view in radians
//   - zNear: near plane distance
//   - zFar: far plane distance
func (f *Frustum) CreateFromCamera(pose CameraPose, aspect, fovY, zNear, zFar float32) {
	pos := pose.Position()
	front := pose.Front()
	right := pose.Right()
	up := pose.Up()

	halfVSide := zFar * float32(math.Tan(float64(fovY)*0.5))
	halfHSide := halfVSide * aspect
	frontMultFar := front.Mul(zFar)

	f.Planes[PlaneNear] = NewPlane(pos.Add(front.Mul(zNear)), front)
	f.Planes[PlaneFar] = NewPlane(pos.Add(frontMultFar), front.Mul(-1))
	f.Planes[PlaneLeft] = NewPlane(pos, frontMultFar.Sub(right.Mul(halfHSide)).Cross(up))
	f.Planes[PlaneRight] = NewPlane(pos, up.Cross(frontMultFar.Add(right.Mul(halfHSide))))
	f.Planes[PlaneTop] = NewPlane(pos, frontMultFar.Add(up.Mul(halfVSide)).Cross(right))
	f.Planes[PlaneBottom] = NewPlane(pos, right.Cross(frontMultFar.Sub(up.Mul(halfVSide))))
}

// ExtractFrustum extracts frustum planes from a combined projection * view matrix.
// Uses the Gribb/Hartmann method for plane extraction.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - projView: the column-major projection * view matrix
//   - depth: the clip depth range projView was built for
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(projView mgl32.Mat4, depth ClipDepth) Frustum {
	var f Frustum
	f.UpdateWithDepth(projView, depth)
	return f
}

// Update re-extracts every plane from a projection * view matrix built for the OpenGL
// [-1, 1] clip depth range.
func (f *Frustum) Update(projView mgl32.Mat4) {
	f.UpdateWithDepth(projView, ClipDepthNegativeOneToOne)
}

// UpdateWithDepth re-extracts every plane from a projection * view matrix.
// Each plane is row3 +/- row{0,1,2} of the matrix; with a zero-to-one depth range the
// near plane is row2 alone.
//
// Parameters:
//   - projView: the column-major projection * view matrix
//   - depth: the clip depth range projView was built for
func (f *Frustum) UpdateWithDepth(projView mgl32.Mat4, depth ClipDepth) {
	// For column-major matrix M, element M[row][col] is at index col*4 + row.
	row0 := projView.Row(0)
	row1 := projView.Row(1)
	row2 := projView.Row(2)
	row3 := projView.Row(3)

	f.Planes[PlaneLeft] = planeFromRow(row3.Add(row0))
	f.Planes[PlaneRight] = planeFromRow(row3.Sub(row0))
	f.Planes[PlaneBottom] = planeFromRow(row3.Add(row1))
	f.Planes[PlaneTop] = planeFromRow(row3.Sub(row1))
	if depth == ClipDepthZeroToOne {
		f.Planes[PlaneNear] = planeFromRow(row2)
	} else {
		f.Planes[PlaneNear] = planeFromRow(row3.Add(row2))
	}
	f.Planes[PlaneFar] = planeFromRow(row3.Sub(row2))
}

// planeFromRow turns a clip-space row combination (a, b, c, d), inside where
// ax + by + cz + d >= 0, into a unit-normal Plane. Both the normal and the distance
// are divided by the normal's length so signed distances are in world units.
func planeFromRow(r mgl32.Vec4) Plane {
	n := mgl32.Vec3{r[0], r[1], r[2]}
	l := n.Len()
	if l == 0 {
		panic(fmt.Sprintf("common: degenerate frustum plane %v", r))
	}
	return Plane{Normal: n.Mul(1 / l), Distance: -r[3] / l}
}

// ContainsPoint reports whether p lies inside or on every plane.
func (f Frustum) ContainsPoint(p mgl32.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// IsSphereInFrustum reports whether the sphere is at least partly inside the frustum.
// The test is conservative: a sphere near a frustum corner can be reported inside while
// lying outside the planes' intersection, but a visible sphere is never reported outside.
//
// Parameters:
//   - s: the sphere to test
//
// Returns:
//   - bool: false only if the sphere is entirely behind some plane
func (f Frustum) IsSphereInFrustum(s Sphere) bool {
	for i := range f.Planes {
		if f.Planes[i].SignedDistance(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// IsAABBInFrustum reports whether the box spanned by min and max is at least partly inside
// the frustum. A plane rejects the box only when all eight corners are outside it.
//
// Parameters:
//   - min: minimum corner
//   - max: maximum corner
//
// Returns:
//   - bool: false only if some plane has every corner outside
func (f Frustum) IsAABBInFrustum(min, max mgl32.Vec3) bool {
	return f.cornersInFrustum(BoxCorners(min, max))
}

// IsCubeInFrustum reports whether the cube is at least partly inside the frustum using the
// same eight-corner test as IsAABBInFrustum.
//
// Parameters:
//   - center: cube center
//   - halfSize: half the cube edge length
//
// Returns:
//   - bool: false only if some plane has every corner outside
func (f Frustum) IsCubeInFrustum(center mgl32.Vec3, halfSize float32) bool {
	return f.cornersInFrustum(Cube{Center: center, HalfSize: halfSize}.Corners())
}

// IsObjectInFrustum tests the object's bounding box against the frustum.
//
// Parameters:
//   - obj: anything reporting an axis-aligned bounding box
//
// Returns:
//   - bool: the IsAABBInFrustum result for the object's box
func (f Frustum) IsObjectInFrustum(obj Bounded) bool {
	min, max := obj.BoundingBox()
	return f.IsAABBInFrustum(min, max)
}

func (f Frustum) cornersInFrustum(corners [8]mgl32.Vec3) bool {
	for i := range f.Planes {
		plane := &f.Planes[i]
		allOutside := true
		for _, c := range corners {
			if plane.SignedDistance(c) >= 0 {
				allOutside = false
				break
			}
		}
		if allOutside {
			return false
		}
	}
	return true
}
