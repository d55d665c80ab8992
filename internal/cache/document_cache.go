package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// documentTTL bounds how long a rendered report document stays cached.
// Reports are immutable, so entries never need invalidation; the TTL only
// caps memory use.
const documentTTL = 24 * time.Hour

// DocumentCache caches rendered report documents keyed by report ID. All
// methods are best-effort: a nil receiver or a Redis failure degrades to a
// cache miss so report downloads keep working without Redis.
type DocumentCache struct {
	redis *RedisClient
}

// NewDocumentCache creates a new DocumentCache. redis may be nil, which
// disables caching entirely.
func NewDocumentCache(redis *RedisClient) *DocumentCache {
	return &DocumentCache{redis: redis}
}

func (c *DocumentCache) key(reportID string) string {
	return fmt.Sprintf("report:doc:%s", reportID)
}

// Get returns the cached document for a report, or nil on a miss.
func (c *DocumentCache) Get(ctx context.Context, reportID string) []byte {
	if c == nil || c.redis == nil {
		return nil
	}
	val, err := c.redis.Get(ctx, c.key(reportID))
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("report_id", reportID).Msg("report cache read failed")
		}
		return nil
	}
	return []byte(val)
}

// Set stores the rendered document for a report.
func (c *DocumentCache) Set(ctx context.Context, reportID string, doc []byte) {
	if c == nil || c.redis == nil {
		return
	}
	if err := c.redis.Set(ctx, c.key(reportID), string(doc), documentTTL); err != nil {
		log.Warn().Err(err).Str("report_id", reportID).Msg("report cache write failed")
	}
}
