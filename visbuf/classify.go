package visbuf

import "fmt"

// Classification defaults.
const (
	DefaultTileSize            = 8
	DefaultMaxMaterialsPerTile = 16
)

// MaterialLookup resolves the material of an instance. Supplied by the
// material system; instances are opaque here.
type MaterialLookup func(instance uint32) uint32

// Tile is one screen tile of the classification output.
type Tile struct {
	// X and Y are the tile coordinates, in tiles.
	X int
	Y int

	// Materials are the distinct material IDs present, in first-seen
	// order, capped at the per-tile limit.
	Materials []uint32

	// Overflow is set when the tile held more distinct materials than
	// the limit; the surplus pixels fall back to the slow shading path.
	Overflow bool
}

// MaterialClassifier partitions a visibility buffer into screen tiles and
// records which materials each tile touches, so deferred material passes
// dispatch only over tiles that contain their material.
type MaterialClassifier struct {
	tileSize   int
	maxPerTile int
	lookup     MaterialLookup
}

// NewMaterialClassifier creates a classifier. Zero tileSize or maxPerTile
// select the defaults.
func NewMaterialClassifier(tileSize, maxPerTile int, lookup MaterialLookup) *MaterialClassifier {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	if maxPerTile <= 0 {
		maxPerTile = DefaultMaxMaterialsPerTile
	}
	return &MaterialClassifier{tileSize: tileSize, maxPerTile: maxPerTile, lookup: lookup}
}

// TileSize returns the tile edge length in pixels.
func (c *MaterialClassifier) TileSize() int { return c.tileSize }

// TilesFor returns the tile grid dimensions for an image size, rounding
// partial edge tiles up.
func (c *MaterialClassifier) TilesFor(width, height int) (int, int) {
	return (width + c.tileSize - 1) / c.tileSize, (height + c.tileSize - 1) / c.tileSize
}

// Classify scans a visibility buffer and returns one Tile per screen tile,
// in row-major order. A zero ID marks an empty pixel (background); empty
// pixels contribute no material.
func (c *MaterialClassifier) Classify(ids []VisibilityID, width, height int) ([]Tile, error) {
	if len(ids) != width*height {
		return nil, fmt.Errorf("visbuf: visibility buffer is %d pixels, want %d", len(ids), width*height)
	}
	if c.lookup == nil {
		return nil, fmt.Errorf("visbuf: classifier has no material lookup")
	}

	tilesX, tilesY := c.TilesFor(width, height)
	tiles := make([]Tile, tilesX*tilesY)

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			tile := &tiles[ty*tilesX+tx]
			tile.X, tile.Y = tx, ty

			y1 := (ty + 1) * c.tileSize
			if y1 > height {
				y1 = height
			}
			x1 := (tx + 1) * c.tileSize
			if x1 > width {
				x1 = width
			}
			for y := ty * c.tileSize; y < y1; y++ {
				for x := tx * c.tileSize; x < x1; x++ {
					id := ids[y*width+x]
					if id == 0 {
						continue
					}
					mat := c.lookup(id.Instance())
					if containsU32(tile.Materials, mat) {
						continue
					}
					if len(tile.Materials) >= c.maxPerTile {
						tile.Overflow = true
						continue
					}
					tile.Materials = append(tile.Materials, mat)
				}
			}
		}
	}
	return tiles, nil
}

func containsU32(s []uint32, v uint32) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
