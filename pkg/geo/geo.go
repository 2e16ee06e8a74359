// Package geo provides great-circle distance math and the movement
// policies built on it: jitter suppression for incoming GPS fixes and
// the re-route necessity check.
package geo

import (
	"math"

	"github.com/teryaq/coldtrack/pkg/types"
)

// earthRadiusMeters is the spherical-earth approximation radius.
const earthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle distance between two points
// using the haversine formula.
func DistanceMeters(a, b types.GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// MovedBeyond reports whether b lies at least thresholdMeters away
// from a. Used for jitter suppression on incoming GPS fixes and for
// deciding whether a route recomputation is warranted.
func MovedBeyond(a, b types.GeoPoint, thresholdMeters float64) bool {
	return DistanceMeters(a, b) >= thresholdMeters
}
