package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Finix99/smartship/shipping"
)

// cacheKeyPrefix namespaces geocode entries in Redis.
const cacheKeyPrefix = "geocode:address:"

// Cache stores resolved coordinates per address label. A nil point with a
// nil error means a cache miss.
type Cache interface {
	Get(ctx context.Context, address string) (*shipping.Point, error)
	Set(ctx context.Context, address string, point shipping.Point) error
}

// redisCache is the Redis implementation of Cache.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a geocode cache on an existing Redis client.
func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

func cacheKey(address string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(address))
}

func (c *redisCache) Get(ctx context.Context, address string) (*shipping.Point, error) {
	data, err := c.client.Get(ctx, cacheKey(address)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var point shipping.Point
	if err := json.Unmarshal(data, &point); err != nil {
		return nil, fmt.Errorf("unmarshal cached point: %w", err)
	}
	return &point, nil
}

func (c *redisCache) Set(ctx context.Context, address string, point shipping.Point) error {
	data, err := json.Marshal(point)
	if err != nil {
		return fmt.Errorf("marshal point: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(address), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// CachedGeocoder decorates a geocoder with a cache. Cache failures are
// logged and ignored; the lookup still goes to the upstream service.
type CachedGeocoder struct {
	geocoder shipping.Geocoder
	cache    Cache
}

// NewCachedGeocoder wraps a geocoder with a cache.
func NewCachedGeocoder(geocoder shipping.Geocoder, cache Cache) *CachedGeocoder {
	return &CachedGeocoder{geocoder: geocoder, cache: cache}
}

// Geocode implements shipping.Geocoder.
func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (shipping.Point, error) {
	if cached, err := g.cache.Get(ctx, address); err != nil {
		log.Warn().Err(err).Str("address", address).Msg("geocode cache read failed")
	} else if cached != nil {
		return *cached, nil
	}

	point, err := g.geocoder.Geocode(ctx, address)
	if err != nil {
		return shipping.Point{}, err
	}

	if err := g.cache.Set(ctx, address, point); err != nil {
		log.Warn().Err(err).Str("address", address).Msg("geocode cache write failed")
	}
	return point, nil
}
