// internal/service/geo/cache.go

package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"hackdir/internal/domain/geo"
)

// CachedGeocoder is a read-through Redis cache in front of another
// geocoder. Cache failures degrade to the wrapped geocoder and are
// never surfaced to the visitor.
type CachedGeocoder struct {
	next geo.Geocoder
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachedGeocoder wraps a geocoder with a Redis response cache.
func NewCachedGeocoder(next geo.Geocoder, rdb *redis.Client, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
	}
}

// Geocode forward-geocodes through the cache.
func (c *CachedGeocoder) Geocode(ctx context.Context, address string) ([]geo.Match, error) {
	key := fmt.Sprintf("geocode:fwd:%s", address)
	return c.lookup(ctx, key, func() ([]geo.Match, error) {
		return c.next.Geocode(ctx, address)
	})
}

// ReverseGeocode reverse-geocodes through the cache.
func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) ([]geo.Match, error) {
	key := fmt.Sprintf("geocode:rev:%.6f,%.6f", lat, lng)
	return c.lookup(ctx, key, func() ([]geo.Match, error) {
		return c.next.ReverseGeocode(ctx, lat, lng)
	})
}

func (c *CachedGeocoder) lookup(ctx context.Context, key string, fetch func() ([]geo.Match, error)) ([]geo.Match, error) {
	data, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		var matches []geo.Match
		if err := json.Unmarshal([]byte(data), &matches); err == nil {
			return matches, nil
		}
		// Corrupt entry, fall through to the provider
		log.Printf("Dropping unreadable geocode cache entry %s", key)
	} else if err != redis.Nil {
		log.Printf("Geocode cache read failed for %s: %v", key, err)
	}

	matches, err := fetch()
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(matches); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			log.Printf("Geocode cache write failed for %s: %v", key, err)
		}
	}

	return matches, nil
}
