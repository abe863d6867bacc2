package models

import (
	"fmt"
	"math"

	"github.com/taskport/worker-match-system/internal/domain/types"
)

// Point is a raw coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both coordinates are finite and in range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) {
		return false
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

// ResolvedLocation is the outcome of one location-resolution attempt.
// Created per search request, never persisted by this service.
type ResolvedLocation struct {
	Latitude   float64              `json:"latitude"`
	Longitude  float64              `json:"longitude"`
	Label      string               `json:"label"`
	PostalCode string               `json:"postal_code,omitempty"`
	Source     types.LocationSource `json:"source"`
}

// Point returns the location's coordinate pair.
func (l ResolvedLocation) Point() Point {
	return Point{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Degraded reports whether coordinates may be a placeholder sentinel and
// distance computation against them is unreliable.
func (l ResolvedLocation) Degraded() bool {
	return l.Source.Degraded()
}

// CoordinateLabel formats a "(lat, lng)" fallback label used when
// reverse geocoding yields nothing.
func CoordinateLabel(lat, lng float64) string {
	return fmt.Sprintf("(%.5f, %.5f)", lat, lng)
}

// StoredLocation is a requester's saved profile location. Either the
// coordinates, the postal code, or both may be missing.
type StoredLocation struct {
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Label      string   `json:"label,omitempty"`
	PostalCode string   `json:"postal_code,omitempty"`
}

// Place is a geocoding provider result for a coordinate pair.
type Place struct {
	Label      string `json:"label"`
	PostalCode string `json:"postal_code,omitempty"`
}
