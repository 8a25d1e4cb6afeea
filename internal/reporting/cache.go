package reporting

import (
	"context"
	"encoding/json"
	"time"

	"vendor-platform/internal/provenance"

	"github.com/redis/go-redis/v9"
)

// Cache keeps the per-profile provenance reduction in Redis. It is strictly
// an optimization: every method is safe on a nil receiver (treated as a
// permanent miss) and all Redis failures degrade to recomputation.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func provenanceKey(profileID string) string {
	return "reporting:provenance:current:" + profileID
}

func (c *Cache) getCurrent(ctx context.Context, profileID string) ([]provenance.Record, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, provenanceKey(profileID)).Bytes()
	if err != nil {
		return nil, false
	}
	var rows []provenance.Record
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (c *Cache) setCurrent(ctx context.Context, profileID string, rows []provenance.Record) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, provenanceKey(profileID), raw, c.ttl).Err()
}

func (c *Cache) invalidate(ctx context.Context, profileID string) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, provenanceKey(profileID)).Err()
}
