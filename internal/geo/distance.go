// Package geo is the pure geospatial math behind the quest engine:
// great-circle distances, geofence containment and the proximity
// buckets shown on quest cards. Everything here is stateless.
package geo

import (
	"fmt"
	"math"
)

// Coordinates is a WGS84 point in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Proximity is the distance bucket used for quest-card display.
type Proximity string

const (
	ProximityAvailable Proximity = "available"
	ProximityNearby    Proximity = "nearby"
	ProximityFar       Proximity = "far"
)

const (
	earthRadiusMeters = 6371000.0

	availableMeters = 50.0
	nearbyMeters    = 2000.0
)

// DistanceMeters returns the haversine distance between two points in
// meters, using the mean Earth radius.
func DistanceMeters(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

// IsWithinRadius reports whether user is within radiusMeters of target.
func IsWithinRadius(user, target Coordinates, radiusMeters float64) bool {
	return DistanceMeters(user, target) <= radiusMeters
}

// Classify maps a distance to a proximity bucket: available within
// scanning range (50 m), nearby within walking range (2 km), far
// beyond that. The thresholds are fixed policy, not per-quest.
func Classify(meters float64) Proximity {
	switch {
	case meters <= availableMeters:
		return ProximityAvailable
	case meters <= nearbyMeters:
		return ProximityNearby
	default:
		return ProximityFar
	}
}

// FormatDistance renders a distance for display: whole meters below
// 1 km, tenths of a kilometer above.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}
