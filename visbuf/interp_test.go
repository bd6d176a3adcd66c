package visbuf

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestInterpolatorEqualW(t *testing.T) {
	// With equal vertex W the perspective correction cancels and
	// interpolation is plain barycentric.
	bi := NewBarycentricInterpolator(2, 2, 2)
	b := mgl32.Vec3{0.25, 0.25, 0.5}

	if got := bi.Scalar(b, 0, 4, 8); !nearf(got, 5) {
		t.Errorf("Scalar() = %v, want 5", got)
	}
	if got := bi.W(b); !nearf(got, 2) {
		t.Errorf("W() = %v, want 2", got)
	}
}

func TestInterpolatorPerspective(t *testing.T) {
	// Screen-space midpoint of an edge whose endpoints have w=1 and w=3.
	// Interpolating 1/w linearly gives (1 + 1/3)/2 = 2/3, so w = 1.5. An
	// attribute running 0 to 3 lands at (0.5*0*1 + 0.5*3/3) / (2/3) = 0.75,
	// pulled toward the near endpoint instead of the naive 1.5.
	bi := NewBarycentricInterpolator(1, 3, 1)
	b := mgl32.Vec3{0.5, 0.5, 0}

	if got := bi.W(b); !nearf(got, 1.5) {
		t.Errorf("W() = %v, want 1.5", got)
	}
	if got := bi.Scalar(b, 0, 3, 0); !nearf(got, 0.75) {
		t.Errorf("Scalar() = %v, want 0.75", got)
	}
}

func TestInterpolatorVectors(t *testing.T) {
	bi := NewBarycentricInterpolator(1, 1, 1)
	b := mgl32.Vec3{1, 0, 0}

	uv := bi.Vec2(b, mgl32.Vec2{0.25, 0.75}, mgl32.Vec2{}, mgl32.Vec2{})
	if !nearf(uv.X(), 0.25) || !nearf(uv.Y(), 0.75) {
		t.Errorf("Vec2() = %v, want {0.25 0.75}", uv)
	}

	n := bi.Vec3(b, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{}, mgl32.Vec3{})
	if !nearf(n.Y(), 1) {
		t.Errorf("Vec3() = %v, want {0 1 0}", n)
	}

	c := bi.Vec4(b, mgl32.Vec4{1, 2, 3, 4}, mgl32.Vec4{}, mgl32.Vec4{})
	if !nearf(c.Z(), 3) || !nearf(c.W(), 4) {
		t.Errorf("Vec4() = %v, want {1 2 3 4}", c)
	}
}

func TestMipLevel(t *testing.T) {
	var dc DerivativeComputer

	tests := []struct {
		name     string
		ddx, ddy mgl32.Vec2
		want     float32
	}{
		// One texel per pixel on a 256 texture: footprint 1, level 0.
		{"one to one", mgl32.Vec2{1.0 / 256, 0}, mgl32.Vec2{0, 1.0 / 256}, 0},
		// Four texels per pixel: level 2.
		{"minified", mgl32.Vec2{4.0 / 256, 0}, mgl32.Vec2{0, 4.0 / 256}, 2},
		// Anisotropic footprint picks the larger axis.
		{"anisotropic", mgl32.Vec2{8.0 / 256, 0}, mgl32.Vec2{0, 1.0 / 256}, 3},
		// Magnification clamps at 0.
		{"magnified", mgl32.Vec2{1.0 / 1024, 0}, mgl32.Vec2{0, 1.0 / 1024}, 0},
		{"zero gradient", mgl32.Vec2{}, mgl32.Vec2{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dc.MipLevel(tt.ddx, tt.ddy, 256, 256)
			if !nearf(got, tt.want) {
				t.Errorf("MipLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDerivatives(t *testing.T) {
	var dc DerivativeComputer
	center := mgl32.Vec2{0.5, 0.5}
	right := mgl32.Vec2{0.6, 0.5}
	down := mgl32.Vec2{0.5, 0.7}

	ddx := dc.Ddx(center, right)
	if !nearf(ddx.X(), 0.1) || !nearf(ddx.Y(), 0) {
		t.Errorf("Ddx() = %v, want {0.1 0}", ddx)
	}
	ddy := dc.Ddy(center, down)
	if !nearf(ddy.Y(), 0.2) {
		t.Errorf("Ddy() = %v, want {0 0.2}", ddy)
	}
}
