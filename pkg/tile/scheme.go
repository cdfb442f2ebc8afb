package tile

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// ErrInvalidDepth is returned when a depth does not index into a scheme's
// constants table.
var ErrInvalidDepth = errors.New("depth outside scheme range")

// Level holds the per-depth constants of a scheme: the angular size of one
// tile edge and the absolute slippy index of the scheme's origin tile.
type Level struct {
	LatPerTile float64
	LonPerTile float64
	MinXTile   int
	MinYTile   int
}

// Scheme is the constants table of a tiling scheme: a fixed geographic
// origin plus per-depth tile sizes and origin-tile indices. A Scheme is
// read-only after construction and safe to share across goroutines.
type Scheme struct {
	RootLat float64
	RootLon float64
	MinZoom int
	Levels  []Level
}

// NewScheme derives the constants table for a scheme whose origin tile
// contains the given upper-left coordinate, covering slippy zoom levels
// minZoom through maxZoom (depth 0 through maxZoom-minZoom). The latitude
// size of a tile is taken from the origin row at each zoom, matching the
// fixed-origin derivation the raster layer expects.
func NewScheme(rootLat, rootLon float64, minZoom, maxZoom int) (*Scheme, error) {
	if rootLat < -90 || rootLat > 90 || rootLon < -180 || rootLon > 180 {
		return nil, fmt.Errorf("root coordinate (%f, %f) out of range", rootLat, rootLon)
	}
	if minZoom < 0 || maxZoom < minZoom {
		return nil, fmt.Errorf("invalid zoom range %d..%d", minZoom, maxZoom)
	}

	s := &Scheme{
		RootLat: rootLat,
		RootLon: rootLon,
		MinZoom: minZoom,
		Levels:  make([]Level, 0, maxZoom-minZoom+1),
	}

	for z := minZoom; z <= maxZoom; z++ {
		minX, minY := LatLonToSlippy(rootLat, rootLon, z)
		rowTop, _ := SlippyToLatLon(minX, minY, z)
		rowBottom, _ := SlippyToLatLon(minX, minY+1, z)

		s.Levels = append(s.Levels, Level{
			LatPerTile: rowTop - rowBottom,
			LonPerTile: 360 / float64(int64(1)<<uint(z)),
			MinXTile:   minX,
			MinYTile:   minY,
		})
	}

	return s, nil
}

// Depths returns the number of zoom depths the scheme covers.
func (s *Scheme) Depths() int {
	return len(s.Levels)
}

// Level returns the per-depth constants for the given depth.
func (s *Scheme) Level(depth int) (Level, error) {
	if depth < 0 || depth >= len(s.Levels) {
		return Level{}, fmt.Errorf("depth %d: %w", depth, ErrInvalidDepth)
	}
	return s.Levels[depth], nil
}

// Lat returns the latitude of the tile's upper-left corner. The tile's
// depth must be valid for this scheme.
func (s *Scheme) Lat(t Tile) float64 {
	lat, _ := SlippyToLatLon(0, s.Levels[t.Depth].MinYTile+t.Y, s.MinZoom+t.Depth)
	return lat
}

// Lon returns the longitude of the tile's upper-left corner. The tile's
// depth must be valid for this scheme.
func (s *Scheme) Lon(t Tile) float64 {
	_, lon := SlippyToLatLon(s.Levels[t.Depth].MinXTile+t.X, 0, s.MinZoom+t.Depth)
	return lon
}

// Bound returns the tile's geographic footprint. The lower-right corner is
// the upper-left corner of the offset tile.
func (s *Scheme) Bound(t Tile) orb.Bound {
	lr := t.Offset()
	return orb.Bound{
		Min: orb.Point{s.Lon(t), s.Lat(lr)},
		Max: orb.Point{s.Lon(lr), s.Lat(t)},
	}
}
