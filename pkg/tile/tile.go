package tile

import "fmt"

// Tile identifies one fixed-size map image in a rastering scheme. Depth is
// the zoom level index into the scheme's constants table; X and Y are the
// column and row offsets east and south of the scheme's origin tile at that
// depth. Tile is a plain comparable value: two tiles with the same
// (Depth, X, Y) are interchangeable, which is what the image-fetch layer
// relies on for deduplication.
type Tile struct {
	Depth int
	X     int
	Y     int
}

// Offset returns the tile one column east and one row south. The upper-left
// corner of the offset tile is this tile's lower-right corner.
func (t Tile) Offset() Tile {
	return Tile{Depth: t.Depth, X: t.X + 1, Y: t.Y + 1}
}

// String returns the filename the tile image is stored under.
func (t Tile) String() string {
	return fmt.Sprintf("d%d_x%d_y%d.jpg", t.Depth, t.X, t.Y)
}
