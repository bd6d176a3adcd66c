package cull

import "github.com/go-gl/mathgl/mgl32"

// View carries the camera state a culling frame is evaluated against.
type View struct {
	// View is the world-to-camera matrix.
	View mgl32.Mat4

	// Proj is the camera-to-clip matrix.
	Proj mgl32.Mat4

	// ViewProj is Proj * View.
	ViewProj mgl32.Mat4

	// CameraPos is the camera position in world space.
	CameraPos mgl32.Vec3

	// Width and Height are the viewport size in pixels.
	Width  uint32
	Height uint32

	// NearPlane is the near clip distance.
	NearPlane float32

	// ReverseZ selects the reversed depth convention (near = 1, far = 0).
	ReverseZ bool
}

// NewView builds a View from its component matrices.
func NewView(view, proj mgl32.Mat4, cameraPos mgl32.Vec3, width, height uint32) *View {
	return &View{
		View:      view,
		Proj:      proj,
		ViewProj:  proj.Mul4(view),
		CameraPos: cameraPos,
		Width:     width,
		Height:    height,
		NearPlane: 0.1,
	}
}

// projectAABB projects a world-space box through the view-projection matrix
// and returns the NDC bounds after perspective divide. The second return is
// false when the box crosses the camera plane; callers treat that as
// visible since a screen-space bound cannot be formed.
func (v *View) projectAABB(box AABB) (AABB, bool) {
	corners := box.Corners()
	out := AABB{}
	for i, c := range corners {
		clip := v.ViewProj.Mul4x1(mgl32.Vec4{c.X(), c.Y(), c.Z(), 1})
		w := clip.W()
		if w <= 0 {
			return AABB{}, false
		}
		p := mgl32.Vec3{clip.X() / w, clip.Y() / w, clip.Z() / w}
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
	return out, true
}
