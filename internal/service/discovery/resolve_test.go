package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/domain/types"
)

func identifiedCtx() context.Context {
	return models.WithRequester(context.Background(), &models.Requester{
		ID:   uuid.New(),
		Name: "test requester",
	})
}

func TestResolve_ExplicitAddress(t *testing.T) {
	svc := testService(&fakeStore{}, nil, nil)

	loc, err := svc.Resolve(context.Background(), ResolveInput{
		Strategy: types.SourceExplicitAddress,
		Place: &PlaceSelection{
			Latitude:   51.5074,
			Longitude:  -0.1278,
			Label:      "Trafalgar Square",
			PostalCode: "WC2N 5DN",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, types.SourceExplicitAddress, loc.Source)
	assert.Equal(t, "Trafalgar Square", loc.Label)
	assert.Equal(t, "WC2N 5DN", loc.PostalCode)
	assert.False(t, loc.Degraded())
}

func TestResolve_ExplicitAddressWithoutPlace(t *testing.T) {
	svc := testService(&fakeStore{}, nil, nil)

	_, err := svc.Resolve(context.Background(), ResolveInput{Strategy: types.SourceExplicitAddress})
	assert.ErrorIs(t, err, types.ErrLocationUnavailable)
}

func TestResolve_ExplicitAddressInvalidCoordinates(t *testing.T) {
	svc := testService(&fakeStore{}, nil, nil)

	_, err := svc.Resolve(context.Background(), ResolveInput{
		Strategy: types.SourceExplicitAddress,
		Place:    &PlaceSelection{Latitude: 123, Longitude: 0},
	})
	assert.ErrorIs(t, err, types.ErrLocationUnavailable)
}

func TestResolve_DeviceGeolocation(t *testing.T) {
	dev := &fakeDevice{point: testCenter}
	geo := &fakeGeocoder{place: models.Place{Label: "Covent Garden", PostalCode: "WC2E 9DD"}}
	svc := testService(&fakeStore{}, geo, dev)

	loc, err := svc.Resolve(identifiedCtx(), ResolveInput{Strategy: types.SourceDeviceGeolocation})
	require.NoError(t, err)

	assert.Equal(t, types.SourceDeviceGeolocation, loc.Source)
	assert.Equal(t, "Covent Garden", loc.Label)
	assert.Equal(t, "WC2E 9DD", loc.PostalCode)
}

func TestResolve_DeviceGeolocationReverseFailure(t *testing.T) {
	dev := &fakeDevice{point: testCenter}
	geo := &fakeGeocoder{reverseErr: errors.New("provider down")}
	svc := testService(&fakeStore{}, geo, dev)

	loc, err := svc.Resolve(identifiedCtx(), ResolveInput{Strategy: types.SourceDeviceGeolocation})
	require.NoError(t, err)

	// The coordinate pair stays usable even without a pretty label.
	assert.Equal(t, models.CoordinateLabel(testCenter.Latitude, testCenter.Longitude), loc.Label)
}

func TestResolve_DevicePermissionDenied(t *testing.T) {
	dev := &fakeDevice{err: types.ErrPermissionDenied}
	svc := testService(&fakeStore{}, nil, dev)

	_, err := svc.Resolve(identifiedCtx(), ResolveInput{Strategy: types.SourceDeviceGeolocation})
	assert.ErrorIs(t, err, types.ErrPermissionDenied)
}

func TestResolve_DeviceNeedsIdentifiedRequester(t *testing.T) {
	svc := testService(&fakeStore{}, nil, &fakeDevice{point: testCenter})

	_, err := svc.Resolve(context.Background(), ResolveInput{Strategy: types.SourceDeviceGeolocation})
	assert.ErrorIs(t, err, types.ErrPositionUnavailable)
}

func TestResolve_StoredProfileWithCoordinates(t *testing.T) {
	lat, lon := 51.5074, -0.1278
	store := &fakeStore{stored: models.StoredLocation{
		Latitude:   &lat,
		Longitude:  &lon,
		Label:      "Home",
		PostalCode: "N1 9GU",
	}}
	svc := testService(store, nil, nil)

	loc, err := svc.Resolve(identifiedCtx(), ResolveInput{Strategy: types.SourceStoredProfile})
	require.NoError(t, err)

	assert.Equal(t, types.SourceStoredProfile, loc.Source)
	assert.Equal(t, "Home", loc.Label)
	assert.False(t, loc.Degraded())
}

func TestResolve_StoredProfilePostalCodeOnly(t *testing.T) {
	store := &fakeStore{stored: models.StoredLocation{PostalCode: "N1 9GU"}}
	svc := testService(store, nil, nil)

	loc, err := svc.Resolve(identifiedCtx(), ResolveInput{Strategy: types.SourceStoredProfile})
	require.NoError(t, err)

	assert.Equal(t, types.SourcePostalCodeOnly, loc.Source)
	assert.True(t, loc.Degraded())
	assert.Equal(t, "N1 9GU", loc.PostalCode)
	assert.Zero(t, loc.Latitude)
	assert.Zero(t, loc.Longitude)
}

func TestResolve_StoredProfileEmpty(t *testing.T) {
	store := &fakeStore{stored: models.StoredLocation{}}
	svc := testService(store, nil, nil)

	_, err := svc.Resolve(identifiedCtx(), ResolveInput{Strategy: types.SourceStoredProfile})
	assert.ErrorIs(t, err, types.ErrLocationUnavailable)
}

func TestResolve_UnknownStrategy(t *testing.T) {
	svc := testService(&fakeStore{}, nil, nil)

	_, err := svc.Resolve(context.Background(), ResolveInput{Strategy: "CARRIER_PIGEON"})
	assert.ErrorIs(t, err, types.ErrLocationUnavailable)
}

func TestResolveBest_PrefersExplicitPlace(t *testing.T) {
	svc := testService(&fakeStore{}, nil, &fakeDevice{point: models.Point{Latitude: 1, Longitude: 1}})

	loc, err := svc.ResolveBest(identifiedCtx(), ResolveInput{
		Place: &PlaceSelection{Latitude: 51.5074, Longitude: -0.1278, Label: "Picked"},
	})
	require.NoError(t, err)

	assert.Equal(t, types.SourceExplicitAddress, loc.Source)
	assert.Equal(t, "Picked", loc.Label)
}

func TestResolveBest_FallsBackToStoredProfile(t *testing.T) {
	lat, lon := 51.5074, -0.1278
	store := &fakeStore{stored: models.StoredLocation{Latitude: &lat, Longitude: &lon, Label: "Home"}}
	dev := &fakeDevice{err: types.ErrPermissionDenied}
	svc := testService(store, nil, dev)

	loc, err := svc.ResolveBest(identifiedCtx(), ResolveInput{})
	require.NoError(t, err)

	assert.Equal(t, types.SourceStoredProfile, loc.Source)
}

func TestResolveBest_AllSourcesExhausted(t *testing.T) {
	store := &fakeStore{stored: models.StoredLocation{}}
	dev := &fakeDevice{err: types.ErrGeolocationTimeout}
	svc := testService(store, nil, dev)

	_, err := svc.ResolveBest(identifiedCtx(), ResolveInput{})
	assert.ErrorIs(t, err, types.ErrLocationUnavailable)
}
