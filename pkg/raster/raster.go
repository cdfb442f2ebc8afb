// Package raster computes the minimal grid of map tiles covering a
// geographic bounding box at a caller-chosen zoom depth. The grid, read
// row-major, reconstructs the queried region north-to-south and
// west-to-east, which is the order the image-composition front end
// concatenates tile images in.
package raster

import (
	"github.com/rasterd/rasterd/pkg/tile"
)

// Query is a bounding-box rasterization request: the viewport's upper-left
// and lower-right corners plus the zoom depth. The depth is chosen by the
// caller; this package only materializes the grid for it. Box ordering
// (ULLat >= LRLat, ULLon <= LRLon) is the caller's responsibility — an
// inverted box degenerates to an unpopulated grid rather than an error.
type Query struct {
	ULLat float64 `json:"ullat"`
	ULLon float64 `json:"ullon"`
	LRLat float64 `json:"lrlat"`
	LRLon float64 `json:"lrlon"`
	Depth int     `json:"depth"`
}

// Resolver materializes tile grids against one scheme. It is stateless
// beyond the scheme reference and safe for concurrent use.
type Resolver struct {
	scheme *tile.Scheme
}

// New returns a Resolver backed by the given scheme.
func New(scheme *tile.Scheme) *Resolver {
	return &Resolver{scheme: scheme}
}

// Scheme returns the scheme the resolver was built with.
func (r *Resolver) Scheme() *tile.Scheme {
	return r.scheme
}

// Rasterize converts the query box corners to tile-grid coordinates and
// returns the covering grid. It fails only with tile.ErrInvalidDepth; no
// other validation is performed here.
//
// The float-to-int conversions truncate toward zero, not floor. Boundary
// tile selection for coordinates north or west of the scheme root depends
// on that distinction.
func (r *Resolver) Rasterize(q Query) (*Grid, error) {
	lv, err := r.scheme.Level(q.Depth)
	if err != nil {
		return nil, err
	}

	leftY := int((q.ULLat - r.scheme.RootLat) / -lv.LatPerTile)
	rightY := int((q.LRLat - r.scheme.RootLat) / -lv.LatPerTile)
	leftX := int((q.ULLon - r.scheme.RootLon) / lv.LonPerTile)
	rightX := int((q.LRLon - r.scheme.RootLon) / lv.LonPerTile)

	height := abs(leftY - rightY)
	width := abs(leftX - rightX)

	rows := make([][]tile.Tile, height+1)
	for i := range rows {
		rows[i] = make([]tile.Tile, width+1)
	}

	// Loop bounds are deliberately not normalized: an inverted box runs
	// zero iterations and leaves the grid unpopulated.
	for y := leftY; y <= rightY; y++ {
		for x := leftX; x <= rightX; x++ {
			rows[y-leftY][x-leftX] = tile.Tile{Depth: q.Depth, X: x, Y: y}
		}
	}

	return &Grid{
		scheme:    r.scheme,
		Tiles:     rows,
		Depth:     q.Depth,
		populated: leftY <= rightY && leftX <= rightX,
	}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
