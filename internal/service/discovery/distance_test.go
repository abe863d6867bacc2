package discovery

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskport/worker-match-system/internal/domain/models"
)

func TestDistanceMiles_IdenticalPoints(t *testing.T) {
	d := DistanceMiles(51.5074, -0.1278, 51.5074, -0.1278)
	assert.Zero(t, d)
}

func TestDistanceMiles_Symmetry(t *testing.T) {
	a := DistanceMiles(51.5074, -0.1278, 40.7128, -74.0060)
	b := DistanceMiles(40.7128, -74.0060, 51.5074, -0.1278)
	assert.InDelta(t, a, b, 1e-9)
}

func TestDistanceMiles_KnownPair(t *testing.T) {
	// Central London to Whitechapel, roughly 1.6 miles apart.
	d := DistanceMiles(51.5074, -0.1278, 51.5155, -0.0922)
	assert.InDelta(t, 1.63, d, 0.1)
}

func TestDistanceMiles_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is about 69 miles everywhere.
	d := DistanceMiles(40.0, -74.0, 41.0, -74.0)
	assert.InDelta(t, 69.1, d, 0.2)
}

func TestRoundMiles(t *testing.T) {
	assert.Equal(t, 1.6, RoundMiles(1.6301))
	assert.Equal(t, 2.0, RoundMiles(1.95))
	assert.Equal(t, 0.0, RoundMiles(0.04))
}

func TestBoxAround_ContainsCircle(t *testing.T) {
	// 54.6 mi/deg of longitude holds as a lower bound up to ~38° latitude, so
	// the box is a superset of the circle there.
	center := models.Point{Latitude: 35.0, Longitude: -100.0}
	radius := 10.0

	box := boxAround(center, radius, DefaultMilesPerDegreeLat, DefaultMilesPerDegreeLon)

	// Sweep points on the true circle; every one must be inside the box.
	for deg := 0; deg < 360; deg += 15 {
		rad := float64(deg) * math.Pi / 180
		latOffset := radius * math.Cos(rad) * 180 / (math.Pi * EarthRadiusMiles)
		lonOffset := radius * math.Sin(rad) * 180 / (math.Pi * EarthRadiusMiles * math.Cos(center.Latitude*math.Pi/180))

		p := models.Point{
			Latitude:  center.Latitude + latOffset,
			Longitude: center.Longitude + lonOffset,
		}
		assert.True(t, box.Contains(p), "point at bearing %d should be inside the box", deg)
	}
}

func TestBoxAround_FallsBackToDefaults(t *testing.T) {
	center := models.Point{Latitude: 10, Longitude: 20}

	box := boxAround(center, 69, 0, 0)

	assert.InDelta(t, 9.0, box.MinLat, 0.01)
	assert.InDelta(t, 11.0, box.MaxLat, 0.01)
}
