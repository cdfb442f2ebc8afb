package raster

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/rasterd/rasterd/pkg/tile"
)

// Grid is the ordered result of a rasterization: rows run north to south,
// columns west to east. A Grid is immutable once returned.
type Grid struct {
	scheme *tile.Scheme

	Tiles [][]tile.Tile
	Depth int

	populated bool
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return len(g.Tiles)
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	if len(g.Tiles) == 0 {
		return 0
	}
	return len(g.Tiles[0])
}

// Populated reports whether every cell holds a tile. It is false when the
// query box was inverted and the fill loop ran zero iterations.
func (g *Grid) Populated() bool {
	return g.populated
}

// Bound returns the geographic extent of the rastered region, from the
// upper-left corner of the first tile to the lower-right corner of the
// last. Meaningful only for populated grids.
func (g *Grid) Bound() orb.Bound {
	ul := g.Tiles[0][0]
	lr := g.Tiles[g.Height()-1][g.Width()-1].Offset()

	return orb.Bound{
		Min: orb.Point{g.scheme.Lon(ul), g.scheme.Lat(lr)},
		Max: orb.Point{g.scheme.Lon(lr), g.scheme.Lat(ul)},
	}
}

// Result is the envelope handed to the image-composition front end: the
// tile image filenames in render order plus the geographic bounds it needs
// to georeference the stitched raster.
type Result struct {
	QuerySuccess bool       `json:"query_success"`
	Depth        int        `json:"depth"`
	RenderGrid   [][]string `json:"render_grid"`
	ULLat        float64    `json:"raster_ul_lat"`
	ULLon        float64    `json:"raster_ul_lon"`
	LRLat        float64    `json:"raster_lr_lat"`
	LRLon        float64    `json:"raster_lr_lon"`
}

// Result builds the render envelope for the grid.
func (g *Grid) Result() Result {
	res := Result{
		QuerySuccess: g.populated,
		Depth:        g.Depth,
		RenderGrid:   make([][]string, g.Height()),
	}

	for i, row := range g.Tiles {
		res.RenderGrid[i] = make([]string, len(row))
		for j, t := range row {
			res.RenderGrid[i][j] = t.String()
		}
	}

	if g.populated {
		b := g.Bound()
		res.ULLat = b.Max[1]
		res.ULLon = b.Min[0]
		res.LRLat = b.Min[1]
		res.LRLon = b.Max[0]
	}

	return res
}

// FeatureCollection exports the grid as GeoJSON tile footprints, one
// polygon feature per tile, for inspection in any GeoJSON viewer.
func (g *Grid) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if !g.populated {
		return fc
	}

	for _, row := range g.Tiles {
		for _, t := range row {
			f := geojson.NewFeature(g.scheme.Bound(t).ToPolygon())
			f.Properties["depth"] = t.Depth
			f.Properties["x"] = t.X
			f.Properties["y"] = t.Y
			f.Properties["filename"] = t.String()
			fc.Append(f)
		}
	}

	return fc
}
