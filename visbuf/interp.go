package visbuf

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BarycentricInterpolator performs perspective-correct attribute
// interpolation over one triangle. The hardware interpolates 1/w linearly in
// screen space; the same identity reconstructs any attribute a from its
// per-vertex values:
//
//	a(p) = (Σ bᵢ·aᵢ/wᵢ) / (Σ bᵢ/wᵢ)
type BarycentricInterpolator struct {
	invW [3]float32
}

// NewBarycentricInterpolator creates an interpolator from the clip-space W
// of the three triangle vertices.
func NewBarycentricInterpolator(w0, w1, w2 float32) *BarycentricInterpolator {
	return &BarycentricInterpolator{invW: [3]float32{1 / w0, 1 / w1, 1 / w2}}
}

// invWSum returns the linearly interpolated 1/w at the given screen-space
// barycentrics.
func (bi *BarycentricInterpolator) invWSum(b mgl32.Vec3) float32 {
	return b.X()*bi.invW[0] + b.Y()*bi.invW[1] + b.Z()*bi.invW[2]
}

// W recovers the perspective-correct clip-space W at the pixel.
func (bi *BarycentricInterpolator) W(b mgl32.Vec3) float32 {
	return 1 / bi.invWSum(b)
}

// Scalar interpolates one float attribute.
func (bi *BarycentricInterpolator) Scalar(b mgl32.Vec3, a0, a1, a2 float32) float32 {
	num := b.X()*a0*bi.invW[0] + b.Y()*a1*bi.invW[1] + b.Z()*a2*bi.invW[2]
	return num / bi.invWSum(b)
}

// Vec2 interpolates a two-component attribute.
func (bi *BarycentricInterpolator) Vec2(b mgl32.Vec3, a0, a1, a2 mgl32.Vec2) mgl32.Vec2 {
	inv := 1 / bi.invWSum(b)
	return mgl32.Vec2{
		(b.X()*a0.X()*bi.invW[0] + b.Y()*a1.X()*bi.invW[1] + b.Z()*a2.X()*bi.invW[2]) * inv,
		(b.X()*a0.Y()*bi.invW[0] + b.Y()*a1.Y()*bi.invW[1] + b.Z()*a2.Y()*bi.invW[2]) * inv,
	}
}

// Vec3 interpolates a three-component attribute.
func (bi *BarycentricInterpolator) Vec3(b mgl32.Vec3, a0, a1, a2 mgl32.Vec3) mgl32.Vec3 {
	inv := 1 / bi.invWSum(b)
	var out mgl32.Vec3
	for i := 0; i < 3; i++ {
		out[i] = (b.X()*a0[i]*bi.invW[0] + b.Y()*a1[i]*bi.invW[1] + b.Z()*a2[i]*bi.invW[2]) * inv
	}
	return out
}

// Vec4 interpolates a four-component attribute.
func (bi *BarycentricInterpolator) Vec4(b mgl32.Vec3, a0, a1, a2 mgl32.Vec4) mgl32.Vec4 {
	inv := 1 / bi.invWSum(b)
	var out mgl32.Vec4
	for i := 0; i < 4; i++ {
		out[i] = (b.X()*a0[i]*bi.invW[0] + b.Y()*a1[i]*bi.invW[1] + b.Z()*a2[i]*bi.invW[2]) * inv
	}
	return out
}

// DerivativeComputer derives screen-space attribute gradients from the
// values at a pixel and its right and lower neighbors, the way a 2x2
// hardware quad does.
type DerivativeComputer struct{}

// Ddx returns the horizontal gradient of a Vec2 attribute.
func (DerivativeComputer) Ddx(center, right mgl32.Vec2) mgl32.Vec2 {
	return right.Sub(center)
}

// Ddy returns the vertical gradient of a Vec2 attribute.
func (DerivativeComputer) Ddy(center, down mgl32.Vec2) mgl32.Vec2 {
	return down.Sub(center)
}

// MipLevel converts UV gradients to a texture LOD for a texture of the
// given size: 0.5 * log2 of the larger squared texel footprint. Negative
// levels clamp to 0 (magnification).
func (DerivativeComputer) MipLevel(ddx, ddy mgl32.Vec2, texWidth, texHeight float32) float32 {
	dx := mgl32.Vec2{ddx.X() * texWidth, ddx.Y() * texHeight}
	dy := mgl32.Vec2{ddy.X() * texWidth, ddy.Y() * texHeight}
	d := dx.LenSqr()
	if l := dy.LenSqr(); l > d {
		d = l
	}
	if d <= 0 {
		return 0
	}
	level := 0.5 * float32(math.Log2(float64(d)))
	if level < 0 {
		return 0
	}
	return level
}
