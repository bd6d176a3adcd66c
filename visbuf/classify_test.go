package visbuf

import (
	"testing"

	"github.com/gogpu/rendergraph/graph"
)

func TestClassifyTiles(t *testing.T) {
	// 16x16 image, default 8px tiles: a 2x2 grid. Left half instance 1
	// (material 10), right half instance 2 (material 20), except the
	// bottom-right tile stays background.
	ids := make([]VisibilityID, 16*16)
	id1 := mustID(t, 1, 0)
	id2 := mustID(t, 2, 0)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			switch {
			case x < 8:
				ids[y*16+x] = id1
			case y < 8:
				ids[y*16+x] = id2
			}
		}
	}

	lookup := func(instance uint32) uint32 { return instance * 10 }
	c := NewMaterialClassifier(0, 0, lookup)
	if c.TileSize() != DefaultTileSize {
		t.Fatalf("TileSize() = %d, want %d", c.TileSize(), DefaultTileSize)
	}

	tiles, err := c.Classify(ids, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 4 {
		t.Fatalf("got %d tiles, want 4", len(tiles))
	}

	tests := []struct {
		idx  int
		want []uint32
	}{
		{0, []uint32{10}},
		{1, []uint32{20}},
		{2, []uint32{10}},
		{3, nil},
	}
	for _, tt := range tests {
		tile := tiles[tt.idx]
		if len(tile.Materials) != len(tt.want) {
			t.Errorf("tile %d materials = %v, want %v", tt.idx, tile.Materials, tt.want)
			continue
		}
		for i := range tt.want {
			if tile.Materials[i] != tt.want[i] {
				t.Errorf("tile %d materials = %v, want %v", tt.idx, tile.Materials, tt.want)
			}
		}
		if tile.Overflow {
			t.Errorf("tile %d overflowed", tt.idx)
		}
	}
}

func TestClassifyOverflow(t *testing.T) {
	// One 8x8 tile where every pixel is a distinct material: only the
	// per-tile limit fits, the rest set the overflow flag.
	ids := make([]VisibilityID, 64)
	for i := range ids {
		ids[i] = mustID(t, uint32(i+1), 0)
	}
	c := NewMaterialClassifier(8, 4, func(instance uint32) uint32 { return instance })

	tiles, err := c.Classify(ids, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 1 {
		t.Fatalf("got %d tiles, want 1", len(tiles))
	}
	if len(tiles[0].Materials) != 4 {
		t.Errorf("kept %d materials, want 4", len(tiles[0].Materials))
	}
	if !tiles[0].Overflow {
		t.Error("overflow not flagged")
	}
}

func TestClassifyPartialTiles(t *testing.T) {
	c := NewMaterialClassifier(8, 16, func(uint32) uint32 { return 0 })
	tx, ty := c.TilesFor(20, 9)
	if tx != 3 || ty != 2 {
		t.Errorf("TilesFor(20, 9) = (%d, %d), want (3, 2)", tx, ty)
	}

	ids := make([]VisibilityID, 20*9)
	tiles, err := c.Classify(ids, 20, 9)
	if err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 6 {
		t.Errorf("got %d tiles, want 6", len(tiles))
	}
}

func TestClassifyErrors(t *testing.T) {
	c := NewMaterialClassifier(8, 16, func(uint32) uint32 { return 0 })
	if _, err := c.Classify(make([]VisibilityID, 10), 16, 16); err == nil {
		t.Error("size mismatch accepted")
	}
	nc := NewMaterialClassifier(8, 16, nil)
	if _, err := nc.Classify(make([]VisibilityID, 64), 8, 8); err == nil {
		t.Error("nil lookup accepted")
	}
}

func TestRendererAddPasses(t *testing.T) {
	b := graph.NewBuilder()
	r := NewRenderer(NewMaterialClassifier(0, 0, func(uint32) uint32 { return 0 }))

	verts := b.ImportBuffer(graph.BufferDesc{Label: "verts", Size: 1024})
	tris := b.ImportBuffer(graph.BufferDesc{Label: "small-tris", Size: 1024})

	out, err := r.AddPasses(b, Inputs{
		Width:                  64,
		Height:                 64,
		VertexBuffer:           verts,
		SoftwareTriangleBuffer: tris,
		MaterialCount:          3,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !out.Visibility.IsValid() || !out.Velocity.IsValid() || !out.Depth.IsValid() {
		t.Error("visibility targets not declared")
	}
	if !out.Albedo.IsValid() || !out.Normal.IsValid() || !out.Material.IsValid() {
		t.Error("G-buffer targets not declared")
	}
	if !out.SoftwarePass.IsValid() {
		t.Error("software pass not registered")
	}
	if len(out.MaterialPasses) != 3 {
		t.Errorf("got %d material passes, want 3", len(out.MaterialPasses))
	}

	// The chain must compile: raster before classify before materials.
	sched, err := b.Compile()
	if err != nil {
		t.Fatal(err)
	}
	if sched.PassIndex(out.VisibilityPass) > sched.PassIndex(out.ClassifyPass) {
		t.Error("classification scheduled before the visibility raster")
	}
	for _, mp := range out.MaterialPasses {
		if sched.PassIndex(out.ClassifyPass) > sched.PassIndex(mp) {
			t.Error("material pass scheduled before classification")
		}
	}
}

func TestRendererNoSoftwarePath(t *testing.T) {
	b := graph.NewBuilder()
	r := NewRenderer(NewMaterialClassifier(0, 0, func(uint32) uint32 { return 0 }))
	out, err := r.AddPasses(b, Inputs{Width: 32, Height: 32})
	if err != nil {
		t.Fatal(err)
	}
	if out.SoftwarePass.IsValid() {
		t.Error("software pass registered without a triangle buffer")
	}
	if len(out.MaterialPasses) != 0 {
		t.Errorf("got %d material passes, want 0", len(out.MaterialPasses))
	}
}
