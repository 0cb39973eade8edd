// Package domain holds DTOs for catalog http and service contracts
package domain

import "pincast/internal/core/geo"

// Sort modes accepted by the catalog
const (
	SortDistance   = "distance"
	SortPopularity = "popularity"
	SortNewest     = "newest"
)

// DefaultRadiusM is applied when the caller omits a radius
const DefaultRadiusM = 50000.0

// MaxRadiusM caps the search radius; larger requests are clamped, not rejected
const MaxRadiusM = 200000.0

// Query is the parsed catalog request
type Query struct {
	Sort    string
	Origin  *geo.Point
	RadiusM float64
}

// Item is one ranked catalog entry.
// DistanceMeters is only present for distance sort
type Item struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	HeroURL        string `json:"heroUrl,omitempty"`
	Sessions7d     int64  `json:"sessions7d"`
	DistanceMeters *int64 `json:"distanceMeters,omitempty"`
}
