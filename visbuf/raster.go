package visbuf

import "github.com/go-gl/mathgl/mgl32"

// Fragment is one covered pixel produced by the software rasterizer.
type Fragment struct {
	X int
	Y int

	// Depth is the interpolated NDC depth at the pixel center.
	Depth float32

	// ID identifies the (instance, triangle) the pixel belongs to.
	ID VisibilityID

	// Barycentrics are the screen-space barycentric weights of the pixel
	// center; perspective correction is the interpolator's job.
	Barycentrics mgl32.Vec3
}

// SoftwareRasterizer rasterizes small triangles on the compute path. Screen
// dimensions are fixed per instance; triangles come in as clip-space
// positions.
type SoftwareRasterizer struct {
	width  int
	height int
}

// NewSoftwareRasterizer creates a rasterizer for the given target size.
func NewSoftwareRasterizer(width, height int) *SoftwareRasterizer {
	return &SoftwareRasterizer{width: width, height: height}
}

// screenVertex is a post-divide vertex: pixel position, NDC depth and the
// clip-space W kept for perspective correction.
type screenVertex struct {
	x, y float32
	z    float32
	w    float32
}

func (r *SoftwareRasterizer) toScreen(v mgl32.Vec4) (screenVertex, bool) {
	if v.W() <= 0 {
		return screenVertex{}, false
	}
	inv := 1 / v.W()
	return screenVertex{
		x: (v.X()*inv*0.5 + 0.5) * float32(r.width),
		y: (v.Y()*inv*0.5 + 0.5) * float32(r.height),
		z: v.Z() * inv,
		w: v.W(),
	}, true
}

// edge evaluates the edge function of (a, b) at point (px, py). Positive on
// the interior side for counter-clockwise screen-space winding.
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether the directed edge (a, b) is a top or left edge.
// Pixels exactly on such an edge are owned by this triangle; pixels on any
// other edge belong to the neighbor, so shared edges fill exactly once.
func topLeft(ax, ay, bx, by float32) bool {
	if ay == by {
		return bx < ax // horizontal: top edge runs right-to-left in CCW order
	}
	return by > ay // left edge descends in y-up screen coordinates
}

// RasterizeTriangle rasterizes one clip-space triangle and returns its
// fragments. Back-facing triangles (signed screen area <= 0) and triangles
// crossing the camera plane produce no fragments.
func (r *SoftwareRasterizer) RasterizeTriangle(v0, v1, v2 mgl32.Vec4, id VisibilityID) []Fragment {
	s0, ok0 := r.toScreen(v0)
	s1, ok1 := r.toScreen(v1)
	s2, ok2 := r.toScreen(v2)
	if !ok0 || !ok1 || !ok2 {
		return nil
	}

	area := edge(s0.x, s0.y, s1.x, s1.y, s2.x, s2.y)
	if area <= 0 {
		return nil
	}
	invArea := 1 / area

	minX := clampi(int(floorf(min3f(s0.x, s1.x, s2.x))), 0, r.width-1)
	maxX := clampi(int(ceilf(max3f(s0.x, s1.x, s2.x))), 0, r.width-1)
	minY := clampi(int(floorf(min3f(s0.y, s1.y, s2.y))), 0, r.height-1)
	maxY := clampi(int(ceilf(max3f(s0.y, s1.y, s2.y))), 0, r.height-1)

	tl01 := topLeft(s0.x, s0.y, s1.x, s1.y)
	tl12 := topLeft(s1.x, s1.y, s2.x, s2.y)
	tl20 := topLeft(s2.x, s2.y, s0.x, s0.y)

	var frags []Fragment
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			// Edge opposite each vertex; e0 weights v2, etc.
			e0 := edge(s0.x, s0.y, s1.x, s1.y, px, py)
			e1 := edge(s1.x, s1.y, s2.x, s2.y, px, py)
			e2 := edge(s2.x, s2.y, s0.x, s0.y, px, py)

			if !inside(e0, tl01) || !inside(e1, tl12) || !inside(e2, tl20) {
				continue
			}

			b0 := e1 * invArea // weight of v0
			b1 := e2 * invArea // weight of v1
			b2 := e0 * invArea // weight of v2
			frags = append(frags, Fragment{
				X:            x,
				Y:            y,
				Depth:        b0*s0.z + b1*s1.z + b2*s2.z,
				ID:           id,
				Barycentrics: mgl32.Vec3{b0, b1, b2},
			})
		}
	}
	return frags
}

// inside applies the fill rule: interior pixels always pass, pixels exactly
// on an edge pass only when the edge is top-left.
func inside(e float32, topLeftEdge bool) bool {
	if e > 0 {
		return true
	}
	return e == 0 && topLeftEdge
}

func min3f(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3f(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorf(v float32) float32 {
	i := float32(int(v))
	if v < 0 && i != v {
		return i - 1
	}
	return i
}

func ceilf(v float32) float32 {
	i := float32(int(v))
	if v > 0 && i != v {
		return i + 1
	}
	return i
}
