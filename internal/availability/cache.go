package availability

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "availability:"

// CachedProvider is a read-through Redis cache in front of another Provider.
// Only successful answers are cached. Redis failures fall back to the wrapped provider.
type CachedProvider struct {
	next    Provider
	rdb     *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics *Metrics
}

func NewCachedProvider(next Provider, rdb *redis.Client, ttl time.Duration, logger *zap.Logger, metrics *Metrics) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{
		next:    next,
		rdb:     rdb,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

func cacheKey(date string) string {
	return cacheKeyPrefix + date
}

func (p *CachedProvider) Fetch(ctx context.Context, date string) (*Response, error) {
	key := cacheKey(date)

	data, err := p.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached Response
		if err := json.Unmarshal(data, &cached); err == nil {
			p.metrics.ObserveCache(true)
			return &cached, nil
		}
		p.logger.Warn("discarding unreadable cached availability", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		p.logger.Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
	}
	p.metrics.ObserveCache(false)

	resp, err := p.next.Fetch(ctx, date)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(resp)
	if err != nil {
		p.logger.Warn("availability cache encode failed", zap.String("key", key), zap.Error(err))
		return resp, nil
	}
	if err := p.rdb.Set(ctx, key, data, p.ttl).Err(); err != nil {
		p.logger.Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
	}
	return resp, nil
}

// Invalidate drops the cached answer for date, e.g. after a booking was made on it.
func (p *CachedProvider) Invalidate(ctx context.Context, date string) error {
	if err := p.rdb.Del(ctx, cacheKey(date)).Err(); err != nil {
		return err
	}
	if inv, ok := p.next.(Invalidator); ok {
		return inv.Invalidate(ctx, date)
	}
	return nil
}
