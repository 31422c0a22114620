// README: Redis-backed geocoding cache keyed by address or geohash cell.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"
	"github.com/redis/go-redis/v9"

	"hirebook/internal/types"
)

const (
	forwardKeyPrefix = "geocode:fwd:"
	reverseKeyPrefix = "geocode:rev:"
	// Addresses and streets change slowly.
	cacheTTL = 30 * 24 * time.Hour
	// Precision 8 is a cell of roughly 38m x 19m, finer than a map click.
	geohashPrecision = 8
)

type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisCache(redis *redis.Client) *RedisCache {
	return &RedisCache{redis: redis, ttl: cacheTTL}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Place, bool, error) {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var places []Place
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, false, err
	}
	return places, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, places []Place) error {
	raw, err := json.Marshal(places)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, raw, c.ttl).Err()
}

// forwardKey folds case and whitespace so trivially different spellings of
// an address share an entry.
func forwardKey(address string) string {
	return forwardKeyPrefix + strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

func reverseKey(p types.Point) string {
	return reverseKeyPrefix + geohash.EncodeWithPrecision(p.Lat, p.Lng, geohashPrecision)
}
