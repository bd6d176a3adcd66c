package cull

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestHZBDimensions(t *testing.T) {
	tests := []struct {
		name     string
		w, h     uint32
		wantW    uint32
		wantH    uint32
		wantMips int
	}{
		{"1080p", 1920, 1080, 2048, 2048, 11},
		{"720p", 1280, 720, 2048, 1024, 11},
		{"square pow2", 512, 512, 512, 512, 9},
		{"tiny", 1, 1, 1, 1, 0},
		{"narrow", 4, 1, 4, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := NewHierarchicalZBuffer(tt.w, tt.h, ReductionMax)
			if z.Width() != tt.wantW || z.Height() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", z.Width(), z.Height(), tt.wantW, tt.wantH)
			}
			if z.MipCount() != tt.wantMips {
				t.Errorf("MipCount() = %d, want %d", z.MipCount(), tt.wantMips)
			}
		})
	}
}

func TestHZBMipSize(t *testing.T) {
	z := NewHierarchicalZBuffer(1920, 1080, ReductionMax)
	if w, h := z.MipSize(0); w != 2048 || h != 2048 {
		t.Errorf("MipSize(0) = %dx%d, want 2048x2048", w, h)
	}
	if w, h := z.MipSize(11); w != 1 || h != 1 {
		t.Errorf("MipSize(11) = %dx%d, want 1x1", w, h)
	}
	if w, h := z.MipSize(5); w != 64 || h != 64 {
		t.Errorf("MipSize(5) = %dx%d, want 64x64", w, h)
	}
}

func TestHZBBuildRequiresInitialize(t *testing.T) {
	z := NewHierarchicalZBuffer(4, 4, ReductionMax)
	err := z.Build(make([]float32, 16), 4, 4)
	if !errors.Is(err, ErrHZBNotInitialized) {
		t.Fatalf("Build() error = %v, want ErrHZBNotInitialized", err)
	}
	if _, err := z.TestAABB(AABB{}); !errors.Is(err, ErrHZBNotInitialized) {
		t.Fatalf("TestAABB() error = %v, want ErrHZBNotInitialized", err)
	}
}

func TestHZBBuildSizeMismatch(t *testing.T) {
	z := NewHierarchicalZBuffer(4, 4, ReductionMax)
	z.Initialize()
	if err := z.Build(make([]float32, 3), 4, 4); err == nil {
		t.Fatal("Build() with short depth buffer succeeded")
	}
}

func TestHZBReduction(t *testing.T) {
	depth := []float32{
		0.1, 0.2, 0.3, 0.4,
		0.5, 0.6, 0.7, 0.8,
		0.1, 0.1, 0.9, 0.9,
		0.1, 0.1, 0.9, 0.9,
	}

	t.Run("max keeps nearest reversed depth", func(t *testing.T) {
		z := NewHierarchicalZBuffer(4, 4, ReductionMax)
		z.Initialize()
		if err := z.Build(depth, 4, 4); err != nil {
			t.Fatal(err)
		}
		// Top level holds the single maximum of the whole buffer.
		if got := z.mips[z.MipCount()][0]; got != 0.9 {
			t.Errorf("top mip = %v, want 0.9", got)
		}
		// First reduction of the top-left 2x2 block.
		if got := z.mips[1][0]; got != 0.6 {
			t.Errorf("mip1[0] = %v, want 0.6", got)
		}
	})

	t.Run("min keeps nearest forward depth", func(t *testing.T) {
		z := NewHierarchicalZBuffer(4, 4, ReductionMin)
		z.Initialize()
		if err := z.Build(depth, 4, 4); err != nil {
			t.Fatal(err)
		}
		if got := z.mips[z.MipCount()][0]; !nearf(got, 0.1) {
			t.Errorf("top mip = %v, want 0.1", got)
		}
	})
}

func TestHZBOcclusion(t *testing.T) {
	// Forward-depth buffer fully covered by an occluder at depth 0.2.
	depth := make([]float32, 16)
	for i := range depth {
		depth[i] = 0.2
	}
	z := NewHierarchicalZBuffer(4, 4, ReductionMin)
	z.Initialize()
	if err := z.Build(depth, 4, 4); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		box     AABB
		visible bool
	}{
		{
			name:    "behind occluder",
			box:     AABB{Min: mgl32.Vec3{-0.5, -0.5, 0.6}, Max: mgl32.Vec3{0.5, 0.5, 0.8}},
			visible: false,
		},
		{
			name:    "in front of occluder",
			box:     AABB{Min: mgl32.Vec3{-0.5, -0.5, 0.05}, Max: mgl32.Vec3{0.5, 0.5, 0.1}},
			visible: true,
		},
		{
			name:    "straddling occluder depth",
			box:     AABB{Min: mgl32.Vec3{-0.5, -0.5, 0.1}, Max: mgl32.Vec3{0.5, 0.5, 0.9}},
			visible: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := z.TestAABB(tt.box)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.visible {
				t.Errorf("TestAABB() = %v, want %v", got, tt.visible)
			}
			coarse, err := z.TestAABBCoarse(tt.box)
			if err != nil {
				t.Fatal(err)
			}
			// The coarse test may only err toward visibility.
			if got && !coarse {
				t.Error("coarse test rejected a box the full test accepted")
			}
		})
	}
}

func TestHZBEmptyBufferRejectsNothing(t *testing.T) {
	for _, mode := range []ReductionMode{ReductionMax, ReductionMin} {
		z := NewHierarchicalZBuffer(8, 8, mode)
		z.Initialize()
		box := AABB{Min: mgl32.Vec3{-0.9, -0.9, 0.1}, Max: mgl32.Vec3{0.9, 0.9, 0.9}}
		visible, err := z.TestAABB(box)
		if err != nil {
			t.Fatal(err)
		}
		if !visible {
			t.Errorf("mode %d: empty buffer occluded a box", mode)
		}
	}
}

func TestHZBSelectMip(t *testing.T) {
	z := NewHierarchicalZBuffer(1024, 1024, ReductionMax)
	tests := []struct {
		name   string
		dx, dy float32
		want   int
	}{
		{"subpixel", 0.5, 0.5, 0},
		{"single texel", 1, 1, 0},
		{"two texels", 2, 2, 1},
		{"wide footprint", 100, 4, 7},
		{"clamped to coarsest", 1 << 20, 1, z.MipCount() - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := z.SelectMip(tt.dx, tt.dy); got != tt.want {
				t.Errorf("SelectMip(%v, %v) = %d, want %d", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func nearf(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}
