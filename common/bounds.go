package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Sphere is a bounding sphere given by its center and radius.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// AABB is an axis-aligned bounding box defined by its minimum and maximum corners.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Cube is an axis-aligned cube given by its center and half edge length.
type Cube struct {
	Center   mgl32.Vec3
	HalfSize float32
}

// Bounded is implemented by anything that can report an axis-aligned bounding box.
type Bounded interface {
	// BoundingBox returns the minimum and maximum corners of the box.
	BoundingBox() (min, max mgl32.Vec3)
}

// BoxCorners returns the eight corners of the box spanned by min and max.
// Corner i takes the max component on x when bit 2 is set, y when bit 1 is set and z when bit 0 is set.
//
// Parameters:
//   - min: minimum corner
//   - max: maximum corner
//
// Returns:
//   - [8]mgl32.Vec3: the box corners
func BoxCorners(min, max mgl32.Vec3) [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{min[0], min[1], min[2]},
		{min[0], min[1], max[2]},
		{min[0], max[1], min[2]},
		{min[0], max[1], max[2]},
		{max[0], min[1], min[2]},
		{max[0], min[1], max[2]},
		{max[0], max[1], min[2]},
		{max[0], max[1], max[2]},
	}
}

// AABBFromPoints computes the tightest box around points.
// An empty input yields the zero box at the origin.
//
// Parameters:
//   - points: the points to enclose
//
// Returns:
//   - AABB: the enclosing box
func AABBFromPoints(points []mgl32.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Extend(p)
	}
	return box
}

// Extend returns the box grown to include p.
func (b AABB) Extend(p mgl32.Vec3) AABB {
	for i := range 3 {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return b.Extend(o.Min).Extend(o.Max)
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]mgl32.Vec3 {
	return BoxCorners(b.Min, b.Max)
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns the half size of the box along each axis.
func (b AABB) Extents() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Transform returns the axis-aligned box enclosing b after it has been transformed by m.
// The result is conservative for rotations: it bounds all eight transformed corners.
//
// Parameters:
//   - m: an affine transform (typically a model matrix)
//
// Returns:
//   - AABB: the world-space enclosing box
func (b AABB) Transform(m mgl32.Mat4) AABB {
	corners := b.Corners()
	out := AABB{Min: TransformPoint(m, corners[0]), Max: TransformPoint(m, corners[0])}
	for _, c := range corners[1:] {
		out = out.Extend(TransformPoint(m, c))
	}
	return out
}

// BoundingSphere returns the sphere centered on the box that passes through its corners.
func (b AABB) BoundingSphere() Sphere {
	return Sphere{Center: b.Center(), Radius: b.Extents().Len()}
}

// Corners returns the eight corners of the cube.
func (c Cube) Corners() [8]mgl32.Vec3 {
	h := mgl32.Vec3{c.HalfSize, c.HalfSize, c.HalfSize}
	return BoxCorners(c.Center.Sub(h), c.Center.Add(h))
}

// AABB returns the cube as an axis-aligned box.
func (c Cube) AABB() AABB {
	h := mgl32.Vec3{c.HalfSize, c.HalfSize, c.HalfSize}
	return AABB{Min: c.Center.Sub(h), Max: c.Center.Add(h)}
}
