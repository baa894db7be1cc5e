package cache

import (
	"context"
	"time"

	"motostore/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = 48 * time.Hour

type keyStore interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// WebhookDeduplicator remembers processed webhook deliveries in Redis so
// provider retries of an already applied event are skipped.
type WebhookDeduplicator struct {
	rdb keyStore
	ttl time.Duration
}

var _ interfaces.IWebhookDeduplicator = (*WebhookDeduplicator)(nil)

func NewWebhookDeduplicator(rdb *redis.Client, ttl time.Duration) *WebhookDeduplicator {
	return newWebhookDeduplicator(rdb, ttl)
}

func newWebhookDeduplicator(rdb keyStore, ttl time.Duration) *WebhookDeduplicator {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &WebhookDeduplicator{rdb: rdb, ttl: ttl}
}

func (d *WebhookDeduplicator) Seen(ctx context.Context, key string) (bool, error) {
	n, err := d.rdb.Exists(ctx, dedupKey(key)).Result()
	return n > 0, err
}

func (d *WebhookDeduplicator) MarkProcessed(ctx context.Context, key string) error {
	return d.rdb.Set(ctx, dedupKey(key), time.Now().UTC().Format(time.RFC3339), d.ttl).Err()
}

func dedupKey(key string) string {
	return "webhook:dedup:" + key
}
