// Package geo provides great-circle distance math and coordinate validation
// for the location catalog. Distances are meters on a spherical earth.
package geo

import (
	"math"

	perr "pincast/internal/platform/errors"
)

// EarthRadiusM is the mean earth radius in meters
const EarthRadiusM = 6371000.0

// Point is a WGS84 coordinate pair in decimal degrees
type Point struct {
	Lat float64
	Lng float64
}

// Validate checks the point against WGS84 bounds
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return perr.InvalidArgf("Latitude must be between -90 and 90")
	}
	if p.Lng < -180 || p.Lng > 180 {
		return perr.InvalidArgf("Longitude must be between -180 and 180")
	}
	return nil
}

// Haversine returns the great-circle distance between two points in meters
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	return 2 * EarthRadiusM * math.Asin(math.Sqrt(h))
}

// WithinRadius reports whether b lies within radiusM meters of a
func WithinRadius(a, b Point, radiusM float64) bool {
	return Haversine(a, b) <= radiusM
}
