// internal/matching/geo.go
package matching

import (
	"math"

	"carematch-workers/internal/models"
)

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometres between two
// points, rounded to two decimal places. Out-of-range coordinates produce a
// deterministic but meaningless number; validating them is the caller's job.
func Distance(a, b models.Coordinate) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLon := degreesToRadians(b.Longitude - a.Longitude)

	rLat1 := degreesToRadians(a.Latitude)
	rLat2 := degreesToRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return round2(earthRadiusKm * c)
}

// WithinRadius reports whether target lies within radiusKm of center.
func WithinRadius(center, target models.Coordinate, radiusKm float64) bool {
	return Distance(center, target) <= radiusKm
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
