// Package cache keeps the invoice summary in Redis so repeated dashboard
// loads skip the aggregation query.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/satheeshds/invoicing/models"
)

const (
	summaryKey = "invoicing:stats:summary"
	versionKey = "invoicing:stats:version"
)

// StatsCache wraps a Redis client. A nil *StatsCache is a valid no-op cache.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache returns a cache storing the summary for ttl.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Connect parses addr, pings it and returns a cache. An empty addr returns a
// nil cache.
func Connect(ctx context.Context, addr string, ttl time.Duration) (*StatsCache, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewStatsCache(client, ttl), nil
}

// Version returns the current summary version. A missing version counter
// reads as zero.
func (c *StatsCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

func summaryKeyFor(version int64) string {
	return summaryKey + ":" + strconv.FormatInt(version, 10)
}

// Summary returns the cached summary for the current version together with
// that version, which callers hand back to StoreSummary. ok is false on a
// miss.
func (c *StatsCache) Summary(ctx context.Context) (s models.Summary, version int64, ok bool, err error) {
	if c == nil || c.client == nil {
		return s, 0, false, nil
	}
	version, err = c.Version(ctx)
	if err != nil {
		return s, 0, false, err
	}
	payload, err := c.client.Get(ctx, summaryKeyFor(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return s, version, false, nil
	}
	if err != nil {
		return s, version, false, err
	}
	if err := json.Unmarshal(payload, &s); err != nil {
		return s, version, false, err
	}
	return s, version, true, nil
}

// StoreSummary caches s under the version it was computed at. A summary
// computed before a later Invalidate lands under a superseded key and is
// never served.
func (c *StatsCache) StoreSummary(ctx context.Context, version int64, s models.Summary) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKeyFor(version), raw, c.ttl).Err()
}

// Invalidate bumps the version so every summary cached so far is superseded.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey).Err()
}

// Close releases the client.
func (c *StatsCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
