package discovery

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskport/worker-match-system/config"
	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/domain/types"
	"github.com/taskport/worker-match-system/pkg/logger"
)

/*===================== fakes ========================*/

type fakeStore struct {
	box          []models.WorkerCandidate
	boxErr       error
	all          []models.WorkerCandidate
	allErr       error
	unlocated    []models.WorkerCandidate
	unlocatedErr error
	stored       models.StoredLocation
	storedErr    error
	profiles     map[uuid.UUID]*uuid.UUID
}

func (f *fakeStore) QueryByBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]models.WorkerCandidate, error) {
	return f.box, f.boxErr
}

func (f *fakeStore) QueryAll(ctx context.Context) ([]models.WorkerCandidate, error) {
	return f.all, f.allErr
}

func (f *fakeStore) QueryUnlocated(ctx context.Context) ([]models.WorkerCandidate, error) {
	return f.unlocated, f.unlocatedErr
}

func (f *fakeStore) WorkerProfileID(ctx context.Context, personID uuid.UUID) (*uuid.UUID, error) {
	return f.profiles[personID], nil
}

func (f *fakeStore) StoredLocation(ctx context.Context, requesterID uuid.UUID) (models.StoredLocation, error) {
	return f.stored, f.storedErr
}

type fakeGeocoder struct {
	forward    map[string]models.Point
	forwardErr error
	place      models.Place
	reverseErr error
}

func (f *fakeGeocoder) ForwardGeocode(ctx context.Context, text string) (models.Point, error) {
	if f.forwardErr != nil {
		return models.Point{}, f.forwardErr
	}
	p, ok := f.forward[text]
	if !ok {
		return models.Point{}, errors.New("location not found")
	}
	return p, nil
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (models.Place, error) {
	if f.reverseErr != nil {
		return models.Place{}, f.reverseErr
	}
	return f.place, nil
}

type fakeDevice struct {
	point models.Point
	err   error
}

func (f *fakeDevice) CurrentPosition(ctx context.Context, requesterID uuid.UUID, timeout time.Duration, highAccuracy bool) (models.Point, error) {
	if f.err != nil {
		return models.Point{}, f.err
	}
	return f.point, nil
}

/*===================== helpers ========================*/

var testCenter = models.Point{Latitude: 51.5074, Longitude: -0.1278}

func testService(store *fakeStore, geo *fakeGeocoder, dev *fakeDevice) *Service {
	if geo == nil {
		geo = &fakeGeocoder{}
	}
	if dev == nil {
		dev = &fakeDevice{err: types.ErrPositionUnavailable}
	}
	cfg := config.SearchConfig{
		DefaultRadiusMiles: 10,
		MaxRadiusMiles:     50,
		MilesPerDegreeLat:  69,
		MilesPerDegreeLon:  54.6,
	}
	return New(store, geo, dev, cfg, logger.InitLogger("test", logger.LevelError))
}

// workerAt places a worker the given number of miles due north of the center.
// A due-north displacement makes the haversine distance exact.
func workerAt(name string, milesNorth float64, withProfile bool) models.WorkerCandidate {
	lat := testCenter.Latitude + milesNorth*180/(math.Pi*EarthRadiusMiles)
	lon := testCenter.Longitude

	c := models.WorkerCandidate{
		PersonID:    uuid.New(),
		DisplayName: name,
		Latitude:    &lat,
		Longitude:   &lon,
	}
	if withProfile {
		id := uuid.New()
		c.WorkerProfileID = &id
	}
	return c
}

func centerLocation() models.ResolvedLocation {
	return models.ResolvedLocation{
		Latitude:  testCenter.Latitude,
		Longitude: testCenter.Longitude,
		Label:     "Central London",
		Source:    types.SourceExplicitAddress,
	}
}

/*===================== tests ========================*/

func TestSearch_RanksWithinRadius(t *testing.T) {
	store := &fakeStore{
		box: []models.WorkerCandidate{
			workerAt("far", 50.0, true),
			workerAt("near", 2.0, true),
			workerAt("outside", 10.1, true),
			workerAt("mid", 9.9, true),
		},
	}
	svc := testService(store, nil, nil)

	result, err := svc.Search(context.Background(), centerLocation(), 10)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "near", result.Ranked[0].DisplayName)
	assert.Equal(t, "mid", result.Ranked[1].DisplayName)
	assert.Equal(t, 2.0, result.Ranked[0].DistanceMiles)
	assert.Equal(t, 9.9, result.Ranked[1].DistanceMiles)

	// Tier counts come from the same scan, capped at the outermost tier.
	assert.Equal(t, 1, result.TierCounts.Within5)
	assert.Equal(t, 2, result.TierCounts.Within10)
	assert.Equal(t, 3, result.TierCounts.Within20)
	assert.Equal(t, 3, result.TierCounts.Total)
}

func TestSearch_SortIsStableAndAscending(t *testing.T) {
	store := &fakeStore{
		box: []models.WorkerCandidate{
			workerAt("c", 8.0, true),
			workerAt("a", 1.0, true),
			workerAt("b", 4.0, true),
		},
	}
	svc := testService(store, nil, nil)

	result, err := svc.Search(context.Background(), centerLocation(), 10)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 3)
	for i := 1; i < len(result.Ranked); i++ {
		assert.LessOrEqual(t, result.Ranked[i-1].DistanceMiles, result.Ranked[i].DistanceMiles)
	}
}

func TestSearch_MarksIneligibleWorkers(t *testing.T) {
	incomplete := workerAt("no-profile", 3.0, false)
	complete := workerAt("ready", 4.0, true)

	store := &fakeStore{box: []models.WorkerCandidate{incomplete, complete}}
	svc := testService(store, nil, nil)

	result, err := svc.Search(context.Background(), centerLocation(), 10)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 2)
	assert.False(t, result.Ranked[0].EligibleForDispatch)
	assert.Equal(t, "no-profile", result.Ranked[0].DisplayName)
	assert.True(t, result.Ranked[1].EligibleForDispatch)
}

func TestSearch_RecoversPostalOnlyWorkers(t *testing.T) {
	profileID := uuid.New()
	postalWorker := models.WorkerCandidate{
		PersonID:        uuid.New(),
		WorkerProfileID: &profileID,
		DisplayName:     "postal-only",
		PostalCode:      "E1 6AN",
	}

	nearPoint := models.Point{
		Latitude:  testCenter.Latitude + 3.0*180/(math.Pi*EarthRadiusMiles),
		Longitude: testCenter.Longitude,
	}

	store := &fakeStore{
		box:       []models.WorkerCandidate{workerAt("located", 2.0, true)},
		unlocated: []models.WorkerCandidate{postalWorker},
	}
	geo := &fakeGeocoder{forward: map[string]models.Point{"E1 6AN": nearPoint}}
	svc := testService(store, geo, nil)

	result, err := svc.Search(context.Background(), centerLocation(), 10)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "postal-only", result.Ranked[1].DisplayName)
	assert.True(t, result.Ranked[1].EligibleForDispatch)
}

func TestSearch_SkipsWorkersWithoutAnyLocation(t *testing.T) {
	nowhere := models.WorkerCandidate{
		PersonID:    uuid.New(),
		DisplayName: "nowhere",
	}
	store := &fakeStore{box: []models.WorkerCandidate{nowhere, workerAt("here", 1.0, true)}}
	svc := testService(store, nil, nil)

	result, err := svc.Search(context.Background(), centerLocation(), 10)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, "here", result.Ranked[0].DisplayName)
}

func TestSearch_FallsBackToFullScan(t *testing.T) {
	store := &fakeStore{
		boxErr: errors.New("box query unsupported"),
		all:    []models.WorkerCandidate{workerAt("recovered", 5.0, true)},
	}
	svc := testService(store, nil, nil)

	result, err := svc.Search(context.Background(), centerLocation(), 10)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, "recovered", result.Ranked[0].DisplayName)
}

func TestSearch_RadiusOutOfRange(t *testing.T) {
	svc := testService(&fakeStore{}, nil, nil)

	_, err := svc.Search(context.Background(), centerLocation(), 100)
	assert.ErrorIs(t, err, types.ErrInvalidRadius)
}

func TestSearch_ZeroRadiusUsesDefault(t *testing.T) {
	store := &fakeStore{
		box: []models.WorkerCandidate{
			workerAt("in-default", 9.0, true),
			workerAt("outside-default", 12.0, true),
		},
	}
	svc := testService(store, nil, nil)

	result, err := svc.Search(context.Background(), centerLocation(), 0)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, "in-default", result.Ranked[0].DisplayName)
}

func TestSearch_DegradedCenterGeocodesPostalCode(t *testing.T) {
	store := &fakeStore{box: []models.WorkerCandidate{workerAt("near", 2.0, true)}}
	geo := &fakeGeocoder{forward: map[string]models.Point{"SW1A 1AA": testCenter}}
	svc := testService(store, geo, nil)

	center := models.ResolvedLocation{
		Label:      "SW1A 1AA",
		PostalCode: "SW1A 1AA",
		Source:     types.SourcePostalCodeOnly,
	}

	result, err := svc.Search(context.Background(), center, 10)
	require.NoError(t, err)
	require.Len(t, result.Ranked, 1)
}

func TestSearch_DegradedCenterGeocodeFailure(t *testing.T) {
	geo := &fakeGeocoder{forwardErr: errors.New("provider down")}
	svc := testService(&fakeStore{}, geo, nil)

	center := models.ResolvedLocation{
		PostalCode: "XX1 1XX",
		Source:     types.SourcePostalCodeOnly,
	}

	_, err := svc.Search(context.Background(), center, 10)
	assert.ErrorIs(t, err, types.ErrGeocodingFailed)
}
