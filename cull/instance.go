package cull

import "github.com/go-gl/mathgl/mgl32"

// CullFlags is a per-instance bitset controlling how the culling stages
// treat an instance.
type CullFlags uint32

// Cull flags.
const (
	// FlagCastsShadow marks the instance as a shadow caster.
	FlagCastsShadow CullFlags = 1 << 0

	// FlagStatic marks the instance as static geometry.
	FlagStatic CullFlags = 1 << 1

	// FlagNoFrustumCull exempts the instance from frustum culling.
	FlagNoFrustumCull CullFlags = 1 << 2

	// FlagNoOcclusionCull exempts the instance from occlusion culling.
	FlagNoOcclusionCull CullFlags = 1 << 3

	// FlagAlwaysRender exempts the instance from every culling stage.
	FlagAlwaysRender CullFlags = 1 << 4

	// FlagLodParent marks the instance as an LOD group parent.
	FlagLodParent CullFlags = 1 << 5

	// FlagCulled marks the instance as pre-culled; it never survives.
	FlagCulled CullFlags = 1 << 6
)

// Has reports whether all bits of f are set.
func (c CullFlags) Has(f CullFlags) bool { return c&f == f }

// Sphere is a bounding sphere in local space.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the box center.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Corners returns the eight box corners.
func (b AABB) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min.X(), b.Min.Y(), b.Min.Z()},
		{b.Max.X(), b.Min.Y(), b.Min.Z()},
		{b.Min.X(), b.Max.Y(), b.Min.Z()},
		{b.Max.X(), b.Max.Y(), b.Min.Z()},
		{b.Min.X(), b.Min.Y(), b.Max.Z()},
		{b.Max.X(), b.Min.Y(), b.Max.Z()},
		{b.Min.X(), b.Max.Y(), b.Max.Z()},
		{b.Max.X(), b.Max.Y(), b.Max.Z()},
	}
}

// IdentityTransform returns the identity 3x4 world transform.
func IdentityTransform() mgl32.Mat3x4 {
	// Column-major: three basis columns plus a zero translation column.
	return mgl32.Mat3x4{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		0, 0, 0,
	}
}

// CullInstance is one candidate for the culling pipeline.
type CullInstance struct {
	// Bounds is the local-space bounding sphere.
	Bounds Sphere

	// Box is the local-space axis-aligned bounding box.
	Box AABB

	// Transform is the 3x4 world transform (rotation/scale columns plus
	// a translation column).
	Transform mgl32.Mat3x4

	// LODDistance is the distance at which the instance switches LOD.
	LODDistance float32

	// Flags control how the culling stages treat the instance.
	Flags CullFlags
}

// transformPoint applies the 3x4 world transform to a point.
func transformPoint(m mgl32.Mat3x4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(mgl32.Vec4{p.X(), p.Y(), p.Z(), 1})
}

// WorldSphere returns the bounding sphere in world space. The radius is
// scaled by the largest column scale so the result stays conservative
// under non-uniform scaling.
func (c *CullInstance) WorldSphere() Sphere {
	scale := c.Transform.Col(0).Len()
	if s := c.Transform.Col(1).Len(); s > scale {
		scale = s
	}
	if s := c.Transform.Col(2).Len(); s > scale {
		scale = s
	}
	return Sphere{
		Center: transformPoint(c.Transform, c.Bounds.Center),
		Radius: c.Bounds.Radius * scale,
	}
}

// WorldAABB returns the axis-aligned bounding box of the transformed local
// box.
func (c *CullInstance) WorldAABB() AABB {
	corners := c.Box.Corners()
	out := AABB{}
	for i, corner := range corners {
		p := transformPoint(c.Transform, corner)
		if i == 0 {
			out.Min, out.Max = p, p
			continue
		}
		for axis := 0; axis < 3; axis++ {
			if p[axis] < out.Min[axis] {
				out.Min[axis] = p[axis]
			}
			if p[axis] > out.Max[axis] {
				out.Max[axis] = p[axis]
			}
		}
	}
	return out
}
