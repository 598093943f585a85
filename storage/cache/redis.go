// Package cache provides a Redis-backed cache for the dashboard statistics,
// keeping the repeated admin aggregation off the database.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/dashboard"
)

const statsKey = "dashboard:stats"

type statsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger core.Logger
}

var _ dashboard.Cache = (*statsCache)(nil) // interface compliance check

func NewStatsCache(conf *core.Config, logger core.Logger) (dashboard.Cache, error) {
	opt, err := redis.ParseURL(conf.Redis.URL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis URL")
	}

	client := redis.NewClient(opt)
	if err = client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "connecting to redis")
	}

	return &statsCache{
		client: client,
		ttl:    conf.Redis.StatsTTL,
		logger: logger,
	}, nil
}

// GetStats returns the cached stats snapshot if present. Cache errors are
// logged and treated as misses.
func (c *statsCache) GetStats() (dashboard.Stats, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	val, err := c.client.Get(ctx, statsKey).Bytes()
	if err == redis.Nil {
		return dashboard.Stats{}, false
	}
	if err != nil {
		c.logger.Warn("dashboard stats cache read failed", "err", err)
		return dashboard.Stats{}, false
	}

	var stats dashboard.Stats
	if err = json.Unmarshal(val, &stats); err != nil {
		c.logger.Warn("dashboard stats cache decode failed", "err", err)
		return dashboard.Stats{}, false
	}
	return stats, true
}

func (c *statsCache) SetStats(stats dashboard.Stats) {
	b, err := json.Marshal(stats)
	if err != nil {
		c.logger.Warn("dashboard stats cache encode failed", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err = c.client.Set(ctx, statsKey, b, c.ttl).Err(); err != nil {
		c.logger.Warn("dashboard stats cache write failed", "err", err)
	}
}
