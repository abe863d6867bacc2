package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/pkg/logger"
)

type stubGeocoder struct {
	forwardCalls int
	reverseCalls int
	point        models.Point
	place        models.Place
	err          error
}

func (s *stubGeocoder) ForwardGeocode(ctx context.Context, text string) (models.Point, error) {
	s.forwardCalls++
	return s.point, s.err
}

func (s *stubGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (models.Place, error) {
	s.reverseCalls++
	return s.place, s.err
}

const ttl = time.Hour

func testLog() logger.Logger {
	return logger.InitLogger("test", logger.LevelError)
}

func TestForwardGeocode_CacheMissCallsProviderAndStores(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &stubGeocoder{point: models.Point{Latitude: 51.5, Longitude: -0.12}}
	cache := NewCachedGeocoder(inner, db, ttl, testLog())

	mock.ExpectGet("geo:fwd:SW1A 1AA").RedisNil()
	mock.ExpectSet("geo:fwd:SW1A 1AA", []byte(`{"latitude":51.5,"longitude":-0.12}`), ttl).SetVal("OK")

	point, err := cache.ForwardGeocode(context.Background(), "SW1A 1AA")
	require.NoError(t, err)

	assert.Equal(t, 51.5, point.Latitude)
	assert.Equal(t, 1, inner.forwardCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForwardGeocode_CacheHitSkipsProvider(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &stubGeocoder{}
	cache := NewCachedGeocoder(inner, db, ttl, testLog())

	mock.ExpectGet("geo:fwd:SW1A 1AA").SetVal(`{"latitude":51.5,"longitude":-0.12}`)

	point, err := cache.ForwardGeocode(context.Background(), "SW1A 1AA")
	require.NoError(t, err)

	assert.Equal(t, 51.5, point.Latitude)
	assert.Equal(t, -0.12, point.Longitude)
	assert.Zero(t, inner.forwardCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForwardGeocode_ProviderErrorIsNotCached(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &stubGeocoder{err: errors.New("provider down")}
	cache := NewCachedGeocoder(inner, db, ttl, testLog())

	mock.ExpectGet("geo:fwd:XX").RedisNil()

	_, err := cache.ForwardGeocode(context.Background(), "XX")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForwardGeocode_CacheFailureFallsThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &stubGeocoder{point: models.Point{Latitude: 1, Longitude: 2}}
	cache := NewCachedGeocoder(inner, db, ttl, testLog())

	mock.ExpectGet("geo:fwd:SW1A 1AA").SetErr(errors.New("redis down"))
	mock.ExpectSet("geo:fwd:SW1A 1AA", []byte(`{"latitude":1,"longitude":2}`), ttl).SetErr(errors.New("redis down"))

	point, err := cache.ForwardGeocode(context.Background(), "SW1A 1AA")
	require.NoError(t, err)

	assert.Equal(t, 1.0, point.Latitude)
	assert.Equal(t, 1, inner.forwardCalls)
}

func TestForwardGeocode_CorruptedEntryIsDropped(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &stubGeocoder{point: models.Point{Latitude: 1, Longitude: 2}}
	cache := NewCachedGeocoder(inner, db, ttl, testLog())

	mock.ExpectGet("geo:fwd:SW1A 1AA").SetVal(`not-json`)
	mock.ExpectDel("geo:fwd:SW1A 1AA").SetVal(1)
	mock.ExpectSet("geo:fwd:SW1A 1AA", []byte(`{"latitude":1,"longitude":2}`), ttl).SetVal("OK")

	point, err := cache.ForwardGeocode(context.Background(), "SW1A 1AA")
	require.NoError(t, err)

	assert.Equal(t, 1.0, point.Latitude)
	assert.Equal(t, 1, inner.forwardCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReverseGeocode_RoundsKeyToFiveDecimals(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &stubGeocoder{place: models.Place{Label: "Somewhere", PostalCode: "E1 6AN"}}
	cache := NewCachedGeocoder(inner, db, ttl, testLog())

	mock.ExpectGet("geo:rev:51.50740,-0.12780").RedisNil()
	mock.ExpectSet("geo:rev:51.50740,-0.12780", []byte(`{"label":"Somewhere","postal_code":"E1 6AN"}`), ttl).SetVal("OK")

	place, err := cache.ReverseGeocode(context.Background(), 51.507400001, -0.127800001)
	require.NoError(t, err)

	assert.Equal(t, "Somewhere", place.Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}
