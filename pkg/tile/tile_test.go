package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileEquality(t *testing.T) {
	a := Tile{Depth: 2, X: 3, Y: 4}
	b := Tile{Depth: 2, X: 3, Y: 4}

	assert.Equal(t, a, b)
	assert.True(t, a == b)

	assert.NotEqual(t, a, Tile{Depth: 1, X: 3, Y: 4})
	assert.NotEqual(t, a, Tile{Depth: 2, X: 0, Y: 4})
	assert.NotEqual(t, a, Tile{Depth: 2, X: 3, Y: 0})

	// Interchangeable as map keys, which the fetch layer relies on for
	// deduplication.
	seen := map[Tile]int{}
	seen[a]++
	seen[b]++
	assert.Len(t, seen, 1)
	assert.Equal(t, 2, seen[a])
}

func TestTileOffset(t *testing.T) {
	a := Tile{Depth: 3, X: 10, Y: 20}
	off := a.Offset()

	assert.Equal(t, Tile{Depth: 3, X: 11, Y: 21}, off)
	// Original is untouched.
	assert.Equal(t, Tile{Depth: 3, X: 10, Y: 20}, a)
}

func TestTileString(t *testing.T) {
	assert.Equal(t, "d1_x2_y3.jpg", Tile{Depth: 1, X: 2, Y: 3}.String())
	assert.Equal(t, "d0_x-1_y0.jpg", Tile{Depth: 0, X: -1, Y: 0}.String())
}

func TestSlippyToLatLonWorldTile(t *testing.T) {
	lat, lon := SlippyToLatLon(0, 0, 0)
	assert.InDelta(t, 85.05112877980659, lat, 1e-9)
	assert.InDelta(t, -180.0, lon, 1e-9)

	lat, lon = SlippyToLatLon(1, 1, 1)
	assert.InDelta(t, 0.0, lat, 1e-9)
	assert.InDelta(t, 0.0, lon, 1e-9)
}

func TestProjectionRoundTrip(t *testing.T) {
	const (
		seattleLat = 47.6062
		seattleLon = -122.3321
		zoom       = 15
	)

	x, y := LatLonToSlippy(seattleLat, seattleLon, zoom)

	// The tile's upper-left corner must be north-west of the coordinate,
	// and the next tile's corner south-east of it.
	ulLat, ulLon := SlippyToLatLon(x, y, zoom)
	lrLat, lrLon := SlippyToLatLon(x+1, y+1, zoom)

	require.LessOrEqual(t, ulLon, seattleLon)
	require.Greater(t, lrLon, seattleLon)
	require.GreaterOrEqual(t, ulLat, seattleLat)
	require.Less(t, lrLat, seattleLat)

	// Projecting the tile's center recovers the same indices.
	cx, cy := LatLonToSlippy((ulLat+lrLat)/2, (ulLon+lrLon)/2, zoom)
	assert.Equal(t, x, cx)
	assert.Equal(t, y, cy)

	// Corner spacing matches the analytic tile width at this zoom.
	assert.InDelta(t, 360.0/float64(int64(1)<<zoom), lrLon-ulLon, 1e-9)
}
