package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/pkg/logger"
	"github.com/taskport/worker-match-system/pkg/metrics"
)

const serviceComponent = "geocode_cache"

// Geocoder is the inner provider the cache wraps.
type Geocoder interface {
	ForwardGeocode(ctx context.Context, text string) (models.Point, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (models.Place, error)
}

// CachedGeocoder fronts a geocoding provider with a Redis TTL cache. Geocode
// results for the same text or coordinates are stable for days, and the
// provider is rate limited, so every hit saves a throttled network call.
// Cache failures degrade to a direct provider call, never to an error.
type CachedGeocoder struct {
	inner Geocoder
	rdb   *redis.Client
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedGeocoder(inner Geocoder, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
		log:   log,
	}
}

func forwardKey(text string) string {
	return fmt.Sprintf("geo:fwd:%s", text)
}

func reverseKey(lat, lng float64) string {
	// Five decimal places is roughly one meter of precision, plenty for
	// sharing reverse results between nearby lookups.
	return fmt.Sprintf("geo:rev:%.5f,%.5f", lat, lng)
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, text string) (models.Point, error) {
	key := forwardKey(text)

	var cached models.Point
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	point, err := c.inner.ForwardGeocode(ctx, text)
	if err != nil {
		return models.Point{}, err
	}

	c.store(ctx, key, point)
	return point, nil
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (models.Place, error) {
	key := reverseKey(lat, lng)

	var cached models.Place
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	place, err := c.inner.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return models.Place{}, err
	}

	c.store(ctx, key, place)
	return place, nil
}

func (c *CachedGeocoder) lookup(ctx context.Context, key string, out any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn(ctx, "geocode cache read failed", "key", key, "reason", err.Error())
		}
		metrics.GeocodeCacheHits.WithLabelValues(serviceComponent, "miss").Inc()
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn(ctx, "geocode cache entry corrupted, dropping", "key", key)
		c.rdb.Del(ctx, key)
		metrics.GeocodeCacheHits.WithLabelValues(serviceComponent, "miss").Inc()
		return false
	}

	metrics.GeocodeCacheHits.WithLabelValues(serviceComponent, "hit").Inc()
	return true
}

func (c *CachedGeocoder) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn(ctx, "geocode cache write failed", "key", key, "reason", err.Error())
	}
}
