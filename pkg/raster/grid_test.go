package raster

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultEnvelope(t *testing.T) {
	r := New(worldScheme())

	grid, err := r.Rasterize(Query{ULLat: 90, ULLon: -180, LRLat: 0, LRLon: 0, Depth: 1})
	require.NoError(t, err)

	res := grid.Result()
	assert.True(t, res.QuerySuccess)
	assert.Equal(t, 1, res.Depth)
	assert.Equal(t, [][]string{
		{"d1_x0_y0.jpg", "d1_x1_y0.jpg"},
		{"d1_x0_y1.jpg", "d1_x1_y1.jpg"},
	}, res.RenderGrid)

	// Corner coordinates come from the slippy projection at MinZoom+depth,
	// here zoom 1: the quadrant grid spans the whole mercator world.
	assert.InDelta(t, 85.05112877980659, res.ULLat, 1e-9)
	assert.InDelta(t, -180.0, res.ULLon, 1e-9)
	assert.InDelta(t, -85.05112877980659, res.LRLat, 1e-9)
	assert.InDelta(t, 180.0, res.LRLon, 1e-9)
}

func TestResultMarshalsReferenceKeys(t *testing.T) {
	r := New(worldScheme())

	grid, err := r.Rasterize(Query{ULLat: 90, ULLon: -180, LRLat: 45, LRLon: -90, Depth: 1})
	require.NoError(t, err)

	data, err := json.Marshal(grid.Result())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{
		"query_success", "depth", "render_grid",
		"raster_ul_lat", "raster_ul_lon", "raster_lr_lat", "raster_lr_lon",
	} {
		assert.Contains(t, m, key)
	}
}

func TestFeatureCollection(t *testing.T) {
	r := New(worldScheme())

	grid, err := r.Rasterize(Query{ULLat: 90, ULLon: -180, LRLat: 0, LRLon: 0, Depth: 1})
	require.NoError(t, err)

	fc := grid.FeatureCollection()
	require.Len(t, fc.Features, 4)

	f := fc.Features[0]
	assert.Equal(t, 1, f.Properties["depth"])
	assert.Equal(t, 0, f.Properties["x"])
	assert.Equal(t, 0, f.Properties["y"])
	assert.Equal(t, "d1_x0_y0.jpg", f.Properties["filename"])

	// Footprints are polygons.
	assert.Equal(t, "Polygon", f.Geometry.GeoJSONType())

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}

func TestFeatureCollectionEmptyForUnpopulatedGrid(t *testing.T) {
	r := New(worldScheme())

	grid, err := r.Rasterize(Query{ULLat: 0, ULLon: -180, LRLat: 90, LRLon: 0, Depth: 1})
	require.NoError(t, err)
	require.False(t, grid.Populated())

	fc := grid.FeatureCollection()
	assert.Empty(t, fc.Features)
}
