package cull

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph/graph"
)

// ErrHZBNotInitialized is returned when a hierarchical-Z buffer is built or
// tested before Initialize allocated its mip storage.
var ErrHZBNotInitialized = errors.New("cull: hierarchical-Z buffer not initialized")

// ReductionMode selects the depth reduction used when building mips.
// Max pairs with reversed depth (near = 1), Min with forward depth.
type ReductionMode uint8

// Reduction modes.
const (
	// ReductionMax keeps the maximum depth of each 2x2 block.
	ReductionMax ReductionMode = iota

	// ReductionMin keeps the minimum depth of each 2x2 block.
	ReductionMin
)

// HierarchicalZBuffer is a mip chain of conservative depth values used for
// cheap occlusion rejection. Dimensions are rounded up to the next power of
// two; the mip count is ceil(log2(max(width, height))), and MipSize is
// defined for levels 0 through the mip count inclusive (the last level is
// 1x1).
type HierarchicalZBuffer struct {
	width    uint32
	height   uint32
	mipCount int
	mode     ReductionMode

	// mips holds levels 0..mipCount; nil until Initialize.
	mips [][]float32
}

// nextPow2 rounds v up to the next power of two.
func nextPow2(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	return v + 1
}

// NewHierarchicalZBuffer creates a hierarchical-Z buffer for a viewport of
// the given size. Call Initialize before Build or TestAABB.
func NewHierarchicalZBuffer(width, height uint32, mode ReductionMode) *HierarchicalZBuffer {
	w, h := nextPow2(width), nextPow2(height)
	maxDim := w
	if h > maxDim {
		maxDim = h
	}
	mipCount := 0
	for d := uint32(1); d < maxDim; d <<= 1 {
		mipCount++
	}
	return &HierarchicalZBuffer{
		width:    w,
		height:   h,
		mipCount: mipCount,
		mode:     mode,
	}
}

// Width returns the power-of-two width.
func (z *HierarchicalZBuffer) Width() uint32 { return z.width }

// Height returns the power-of-two height.
func (z *HierarchicalZBuffer) Height() uint32 { return z.height }

// MipCount returns ceil(log2(max(width, height))).
func (z *HierarchicalZBuffer) MipCount() int { return z.mipCount }

// Mode returns the reduction mode.
func (z *HierarchicalZBuffer) Mode() ReductionMode { return z.mode }

// Initialized reports whether mip storage has been allocated.
func (z *HierarchicalZBuffer) Initialized() bool { return z.mips != nil }

// MipSize returns the dimensions of a mip level. Level 0 is the full
// power-of-two size; sizes clamp at 1x1.
func (z *HierarchicalZBuffer) MipSize(level int) (uint32, uint32) {
	w := z.width >> uint(level)
	h := z.height >> uint(level)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// farValue returns the least-occluding depth for the mode: no geometry
// stored there can reject anything.
func (z *HierarchicalZBuffer) farValue() float32 {
	if z.mode == ReductionMax {
		return 0 // reversed depth: far plane is 0
	}
	return 1
}

// reduce combines two depths under the reduction mode.
func (z *HierarchicalZBuffer) reduce(a, b float32) float32 {
	if z.mode == ReductionMax {
		if a > b {
			return a
		}
		return b
	}
	if a < b {
		return a
	}
	return b
}

// relax combines two depths toward the least-occluding value; used when
// sampling a footprint so the test stays biased toward visibility.
func (z *HierarchicalZBuffer) relax(a, b float32) float32 {
	if z.mode == ReductionMax {
		if a < b {
			return a
		}
		return b
	}
	if a > b {
		return a
	}
	return b
}

// Initialize allocates the mip chain and clears every level to the far
// plane.
func (z *HierarchicalZBuffer) Initialize() {
	z.mips = make([][]float32, z.mipCount+1)
	for level := 0; level <= z.mipCount; level++ {
		w, h := z.MipSize(level)
		mip := make([]float32, w*h)
		far := z.farValue()
		for i := range mip {
			mip[i] = far
		}
		z.mips[level] = mip
	}
}

// Build fills mip 0 from a depth buffer of the given dimensions and
// reduces the full chain. Source texels outside the power-of-two extent
// keep the far value.
func (z *HierarchicalZBuffer) Build(depth []float32, width, height int) error {
	if !z.Initialized() {
		return ErrHZBNotInitialized
	}
	if len(depth) != width*height {
		return fmt.Errorf("cull: depth buffer is %d texels, want %d", len(depth), width*height)
	}

	mip0 := z.mips[0]
	far := z.farValue()
	for i := range mip0 {
		mip0[i] = far
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := depth[y*width+x]
			idx := uint32(y)*z.width + uint32(x)
			mip0[idx] = z.reduce(mip0[idx], d)
		}
	}

	for level := 1; level <= z.mipCount; level++ {
		w, h := z.MipSize(level)
		pw, ph := z.MipSize(level - 1)
		prev := z.mips[level-1]
		cur := z.mips[level]
		for y := uint32(0); y < h; y++ {
			// Non-square chains collapse one axis early; clamp the
			// second sample back onto the edge texel.
			y2 := min32(2*y+1, ph-1)
			for x := uint32(0); x < w; x++ {
				x2 := min32(2*x+1, pw-1)
				v := prev[(2*y)*pw+2*x]
				v = z.reduce(v, prev[(2*y)*pw+x2])
				v = z.reduce(v, prev[y2*pw+2*x])
				v = z.reduce(v, prev[y2*pw+x2])
				cur[y*w+x] = v
			}
		}
	}
	return nil
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// SelectMip returns the mip level whose texel footprint matches a
// screen-space extent of dx by dy pixels:
// min(mipCount-1, ceil(log2(max(dx, dy)))).
func (z *HierarchicalZBuffer) SelectMip(dx, dy float32) int {
	d := dx
	if dy > d {
		d = dy
	}
	if d <= 1 {
		return 0
	}
	mip := int(math.Ceil(math.Log2(float64(d))))
	if mip > z.mipCount-1 {
		mip = z.mipCount - 1
	}
	return mip
}

// TestAABB tests an NDC-space box (X/Y in [-1,1], Z in depth-buffer units)
// against the stored conservative depth. The box is projected to screen
// space, the mip whose texel footprint matches the screen extent is
// selected, and the box is visible iff its nearest depth is not fully
// behind the stored value.
func (z *HierarchicalZBuffer) TestAABB(ndc AABB) (bool, error) {
	if !z.Initialized() {
		return false, ErrHZBNotInitialized
	}

	fw, fh := float32(z.width), float32(z.height)
	x0 := (ndc.Min.X()*0.5 + 0.5) * fw
	x1 := (ndc.Max.X()*0.5 + 0.5) * fw
	y0 := (ndc.Min.Y()*0.5 + 0.5) * fh
	y1 := (ndc.Max.Y()*0.5 + 0.5) * fh

	x0, x1 = clampf(x0, 0, fw-1), clampf(x1, 0, fw-1)
	y0, y1 = clampf(y0, 0, fh-1), clampf(y1, 0, fh-1)

	mip := z.SelectMip(x1-x0, y1-y0)
	return z.testRect(ndc, x0, y0, x1, y1, mip), nil
}

// TestAABBCoarse tests the box against the coarsest mip only. Used as the
// cheap first phase of two-phase occlusion culling.
func (z *HierarchicalZBuffer) TestAABBCoarse(ndc AABB) (bool, error) {
	if !z.Initialized() {
		return false, ErrHZBNotInitialized
	}
	fw, fh := float32(z.width), float32(z.height)
	x0 := clampf((ndc.Min.X()*0.5+0.5)*fw, 0, fw-1)
	x1 := clampf((ndc.Max.X()*0.5+0.5)*fw, 0, fw-1)
	y0 := clampf((ndc.Min.Y()*0.5+0.5)*fh, 0, fh-1)
	y1 := clampf((ndc.Max.Y()*0.5+0.5)*fh, 0, fh-1)
	return z.testRect(ndc, x0, y0, x1, y1, z.mipCount), nil
}

// testRect compares the box depth against the stored depth over a screen
// rectangle at one mip level.
func (z *HierarchicalZBuffer) testRect(ndc AABB, x0, y0, x1, y1 float32, mip int) bool {
	mw, mh := z.MipSize(mip)
	tx0 := min32(uint32(x0)>>uint(mip), mw-1)
	tx1 := min32(uint32(x1)>>uint(mip), mw-1)
	ty0 := min32(uint32(y0)>>uint(mip), mh-1)
	ty1 := min32(uint32(y1)>>uint(mip), mh-1)

	stored := z.farValue()
	first := true
	data := z.mips[mip]
	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			v := data[ty*mw+tx]
			if first {
				stored = v
				first = false
				continue
			}
			stored = z.relax(stored, v)
		}
	}

	if z.mode == ReductionMax {
		// Reversed depth: nearest point of the box is its max Z.
		return ndc.Max.Z() >= stored
	}
	return ndc.Min.Z() <= stored
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TextureDesc returns the physical description of the HZB mip chain for
// the external allocator: a single-channel float texture with one mip per
// reduction level.
func (z *HierarchicalZBuffer) TextureDesc(label string) graph.TextureDesc {
	return graph.TextureDesc{
		Label:         label,
		Size:          gputypes.Extent3D{Width: z.width, Height: z.height, DepthOrArrayLayers: 1},
		MipLevelCount: uint32(z.mipCount + 1),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR32Float,
		Usage: gputypes.TextureUsageStorageBinding |
			gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopySrc,
	}
}
