package entities

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000.0

// Coordinates represents a geographical point. It is an immutable value
// type; equality is plain field comparison.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Accuracy is the reported positional accuracy in meters, 0 when unknown.
	Accuracy float64 `json:"accuracy,omitempty"`
}

// NewCoordinates creates validated coordinates
func NewCoordinates(lat, lon float64) (Coordinates, error) {
	c := Coordinates{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("coordinates out of range: lat=%f lon=%f", lat, lon)
	}
	return c, nil
}

// Valid reports whether the coordinates fall inside the legal ranges
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180 &&
		c.Accuracy >= 0
}

// IsZero reports whether both components are exactly zero. Upstream feeds
// use 0/0 as a "no coordinates" marker.
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

// DistanceTo returns the great-circle distance to other in meters,
// computed with the Haversine formula.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	lat1 := c.Latitude * math.Pi / 180
	lat2 := other.Latitude * math.Pi / 180
	dLat := (other.Latitude - c.Latitude) * math.Pi / 180
	dLon := (other.Longitude - c.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceToKm returns the great-circle distance to other in kilometers
func (c Coordinates) DistanceToKm(other Coordinates) float64 {
	return c.DistanceTo(other) / 1000
}
