package discovery

import (
	"math"

	"github.com/taskport/worker-match-system/internal/domain/models"
)

const (
	// EarthRadiusMiles is the mean Earth radius used by the haversine formula.
	EarthRadiusMiles = 3959.0

	// Degree-per-mile approximations used only by the bounding-box prefilter.
	// One degree of longitude shrinks with latitude; 54.6 mi/deg is exact
	// around 38° and the box clips its east-west edges further north. The
	// exact haversine pass downstream is the source of truth, the box is an
	// optimization.
	DefaultMilesPerDegreeLat = 69.0
	DefaultMilesPerDegreeLon = 54.6
)

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// DistanceMiles computes the great-circle distance between two points using
// the haversine formula. Symmetric, deterministic, zero for identical points.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lon1Rad := degreesToRadians(lon1)
	lat2Rad := degreesToRadians(lat2)
	lon2Rad := degreesToRadians(lon2)

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	a := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Pow(math.Sin(deltaLon/2), 2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}

// RoundMiles rounds a distance to one decimal place for presentation and
// ranking output.
func RoundMiles(d float64) float64 {
	return math.Round(d*10) / 10
}

// BoundingBox is an axis-aligned coordinate box around a search center.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Contains reports whether the point falls inside the box.
func (b BoundingBox) Contains(p models.Point) bool {
	return p.Latitude >= b.MinLat && p.Latitude <= b.MaxLat &&
		p.Longitude >= b.MinLon && p.Longitude <= b.MaxLon
}

// boxAround converts a radius in miles to an approximate degree box around
// the center. The box is a superset of the true circle at the latitudes the
// per-degree constants were derived for; candidates are always re-checked
// with DistanceMiles.
func boxAround(center models.Point, radiusMiles, milesPerDegLat, milesPerDegLon float64) BoundingBox {
	if milesPerDegLat <= 0 {
		milesPerDegLat = DefaultMilesPerDegreeLat
	}
	if milesPerDegLon <= 0 {
		milesPerDegLon = DefaultMilesPerDegreeLon
	}

	latDelta := radiusMiles / milesPerDegLat
	lonDelta := radiusMiles / milesPerDegLon

	return BoundingBox{
		MinLat: center.Latitude - latDelta,
		MaxLat: center.Latitude + latDelta,
		MinLon: center.Longitude - lonDelta,
		MaxLon: center.Longitude + lonDelta,
	}
}
