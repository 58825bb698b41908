package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"ballotaccess/internal/access"
	"ballotaccess/internal/passport"
	"ballotaccess/internal/platform/metrics"
)

const (
	cacheKeyPrefix = "ballot:access:"
	cacheGranted   = "1"
	cacheDenied    = "0"
)

// CachedStore is a Redis read-through cache in front of another Reader.
// Only found records are cached: absence is always re-checked against the
// backing store since records are provisioned externally. Cache failures
// are logged and fall through to the backing store.
type CachedStore struct {
	next    Reader
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewCachedStore wraps next with a Redis cache using ttl for entries.
func NewCachedStore(next Reader, client *redis.Client, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *CachedStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CachedStore{next: next, client: client, ttl: ttl, logger: logger, metrics: m}
}

func (c *CachedStore) Lookup(ctx context.Context, fp passport.Fingerprint) (*access.Record, error) {
	key := cacheKeyPrefix + fp.String()

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil && (val == cacheGranted || val == cacheDenied):
		c.metrics.IncrementCacheLookup("hit")
		return &access.Record{Fingerprint: fp, AccessGranted: val == cacheGranted}, nil
	case err == nil:
		c.metrics.IncrementCacheLookup("error")
		c.logger.WarnContext(ctx, "discarding malformed cache entry", "fingerprint", fp.Short())
	case errors.Is(err, redis.Nil):
		c.metrics.IncrementCacheLookup("miss")
	default:
		c.metrics.IncrementCacheLookup("error")
		c.logger.WarnContext(ctx, "access cache read failed", "fingerprint", fp.Short(), "error", err)
	}

	record, err := c.next.Lookup(ctx, fp)
	if err != nil || record == nil {
		return record, err
	}

	value := cacheDenied
	if record.AccessGranted {
		value = cacheGranted
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "access cache write failed", "fingerprint", fp.Short(), "error", err)
	}
	return record, nil
}

// Ping checks the backing store only; the cache is optional.
func (c *CachedStore) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}
