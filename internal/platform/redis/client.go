package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ballotaccess/internal/platform/config"
)

// New connects to the lookup cache. Returns nil when no URL is configured.
func New(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
