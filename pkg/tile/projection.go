package tile

import "math"

// LatLonToSlippy converts a coordinate to absolute slippy-map tile indices
// at the given zoom level.
// http://wiki.openstreetmap.org/wiki/Slippy_map_tilenames
func LatLonToSlippy(lat, lon float64, zoom int) (x, y int) {
	latRad := lat * math.Pi / 180
	n := float64(int64(1) << uint(zoom))

	x = int(n * ((lon + 180) / 360))
	y = int(n * (1 - (math.Log(math.Tan(latRad)+1/math.Cos(latRad)) / math.Pi)) / 2)

	return x, y
}

// SlippyToLatLon returns the upper-left corner of the absolute slippy tile
// (x, y) at the given zoom level.
func SlippyToLatLon(x, y, zoom int) (lat, lon float64) {
	n := float64(int64(1) << uint(zoom))

	lon = 360.0*float64(x)/n - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2.0*float64(y)/n)))
	lat = latRad * 180 / math.Pi

	return lat, lon
}
