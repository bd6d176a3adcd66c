package visbuf

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func nearf(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}

func mustID(t *testing.T, instance, triangle uint32) VisibilityID {
	t.Helper()
	id, err := NewVisibilityID(instance, triangle)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestRasterizeTriangle(t *testing.T) {
	r := NewSoftwareRasterizer(16, 16)
	id := mustID(t, 1, 1)

	// A half-screen triangle in NDC; w=1 keeps screen mapping direct.
	frags := r.RasterizeTriangle(
		mgl32.Vec4{-1, -1, 0.5, 1},
		mgl32.Vec4{1, -1, 0.5, 1},
		mgl32.Vec4{-1, 1, 0.5, 1},
		id,
	)
	if len(frags) == 0 {
		t.Fatal("no fragments")
	}
	// Half of a 16x16 screen, minus the diagonal's partial pixels.
	if len(frags) < 100 || len(frags) > 136 {
		t.Errorf("fragment count = %d, want roughly half of 256", len(frags))
	}
	for _, f := range frags {
		if f.ID != id {
			t.Fatalf("fragment ID = %v, want %v", f.ID, id)
		}
		if f.X < 0 || f.X >= 16 || f.Y < 0 || f.Y >= 16 {
			t.Fatalf("fragment (%d, %d) outside target", f.X, f.Y)
		}
		sum := f.Barycentrics.X() + f.Barycentrics.Y() + f.Barycentrics.Z()
		if sum < 0.999 || sum > 1.001 {
			t.Fatalf("barycentrics %v do not sum to 1", f.Barycentrics)
		}
		if !nearf(f.Depth, 0.5) {
			t.Fatalf("depth = %v, want 0.5", f.Depth)
		}
	}
}

func TestRasterizeBackface(t *testing.T) {
	r := NewSoftwareRasterizer(16, 16)
	id := mustID(t, 0, 0)

	// Clockwise winding: signed area negative.
	frags := r.RasterizeTriangle(
		mgl32.Vec4{-1, 1, 0.5, 1},
		mgl32.Vec4{1, -1, 0.5, 1},
		mgl32.Vec4{-1, -1, 0.5, 1},
		id,
	)
	if len(frags) != 0 {
		t.Errorf("back-facing triangle produced %d fragments", len(frags))
	}
}

func TestRasterizeBehindCamera(t *testing.T) {
	r := NewSoftwareRasterizer(16, 16)
	frags := r.RasterizeTriangle(
		mgl32.Vec4{-1, -1, 0.5, -1},
		mgl32.Vec4{1, -1, 0.5, 1},
		mgl32.Vec4{0, 1, 0.5, 1},
		mustID(t, 0, 0),
	)
	if len(frags) != 0 {
		t.Errorf("triangle crossing the camera plane produced %d fragments", len(frags))
	}
}

// Two triangles sharing a diagonal must fill every covered pixel exactly
// once: the shared edge belongs to exactly one of them under the top-left
// rule.
func TestRasterizeSharedEdgeFillsOnce(t *testing.T) {
	r := NewSoftwareRasterizer(8, 8)
	a := mustID(t, 0, 0)
	b := mustID(t, 0, 1)

	v00 := mgl32.Vec4{-1, -1, 0.5, 1}
	v10 := mgl32.Vec4{1, -1, 0.5, 1}
	v01 := mgl32.Vec4{-1, 1, 0.5, 1}
	v11 := mgl32.Vec4{1, 1, 0.5, 1}

	// Quad split along the diagonal, both counter-clockwise.
	fragsA := r.RasterizeTriangle(v00, v10, v11, a)
	fragsB := r.RasterizeTriangle(v00, v11, v01, b)

	covered := make(map[[2]int]int)
	for _, f := range fragsA {
		covered[[2]int{f.X, f.Y}]++
	}
	for _, f := range fragsB {
		covered[[2]int{f.X, f.Y}]++
	}

	if len(covered) != 64 {
		t.Errorf("covered %d pixels, want all 64", len(covered))
	}
	for px, n := range covered {
		if n != 1 {
			t.Errorf("pixel %v filled %d times", px, n)
		}
	}
}

func TestRasterizeDepthGradient(t *testing.T) {
	r := NewSoftwareRasterizer(16, 16)
	frags := r.RasterizeTriangle(
		mgl32.Vec4{-1, -1, 0, 1},
		mgl32.Vec4{1, -1, 1, 1},
		mgl32.Vec4{-1, 1, 0, 1},
		mustID(t, 0, 0),
	)
	if len(frags) == 0 {
		t.Fatal("no fragments")
	}
	for _, f := range frags {
		// Depth is the weight of the z=1 vertex, which grows with x.
		if !nearf(f.Depth, f.Barycentrics.Y()) {
			t.Fatalf("depth %v != v1 weight %v at (%d, %d)",
				f.Depth, f.Barycentrics.Y(), f.X, f.Y)
		}
		if f.Depth < 0 || f.Depth > 1 {
			t.Fatalf("depth %v out of range at (%d, %d)", f.Depth, f.X, f.Y)
		}
	}
}
