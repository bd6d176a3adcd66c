package cull

import "github.com/go-gl/mathgl/mgl32"

// Plane is a half-space in the form dot(N, p) + D >= 0 for inside points.
type Plane struct {
	N mgl32.Vec3
	D float32
}

// distance returns the signed distance of a point to the plane.
func (pl Plane) distance(p mgl32.Vec3) float32 {
	return pl.N.Dot(p) + pl.D
}

// Frustum is the six clip planes of a view-projection matrix, normals
// pointing inward.
type Frustum [6]Plane

// Frustum plane indices.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// FrustumFromMatrix extracts the six frustum planes from a view-projection
// matrix (Gribb/Hartmann). Works for any projection the matrix encodes.
func FrustumFromMatrix(m mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	var f Frustum
	f[PlaneLeft] = planeFromVec4(r3.Add(r0))
	f[PlaneRight] = planeFromVec4(r3.Sub(r0))
	f[PlaneBottom] = planeFromVec4(r3.Add(r1))
	f[PlaneTop] = planeFromVec4(r3.Sub(r1))
	f[PlaneNear] = planeFromVec4(r3.Add(r2))
	f[PlaneFar] = planeFromVec4(r3.Sub(r2))
	return f
}

// planeFromVec4 normalizes a raw plane row (a, b, c, d).
func planeFromVec4(v mgl32.Vec4) Plane {
	n := mgl32.Vec3{v.X(), v.Y(), v.Z()}
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{N: n.Mul(1 / l), D: v.W() / l}
}

// TestSphere reports whether the sphere intersects the frustum.
func (f Frustum) TestSphere(s Sphere) bool {
	for _, pl := range f {
		if pl.distance(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// TestAABB reports whether the box intersects the frustum, using the
// positive-vertex test against each plane.
func (f Frustum) TestAABB(b AABB) bool {
	for _, pl := range f {
		// The corner furthest along the plane normal.
		p := mgl32.Vec3{b.Min.X(), b.Min.Y(), b.Min.Z()}
		if pl.N.X() >= 0 {
			p[0] = b.Max.X()
		}
		if pl.N.Y() >= 0 {
			p[1] = b.Max.Y()
		}
		if pl.N.Z() >= 0 {
			p[2] = b.Max.Z()
		}
		if pl.distance(p) < 0 {
			return false
		}
	}
	return true
}
