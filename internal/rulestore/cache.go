package rulestore

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"recommender-workers/internal/common/logger"
	"recommender-workers/internal/common/metrics"
	"recommender-workers/internal/inference"
)

// ActiveRulesCacheKey holds the JSON-encoded active rule set.
const ActiveRulesCacheKey = "recommender:rules:active"

// CachedStore is a read-through Redis cache in front of another store.
// Cache failures degrade to the inner store; only inner store errors surface.
type CachedStore struct {
	inner  inference.RuleStore
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

var _ inference.RuleStore = (*CachedStore)(nil)

func NewCachedStore(inner inference.RuleStore, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		inner:  inner,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"ruleSource": "redis", "cacheKey": ActiveRulesCacheKey}),
	}
}

func (c *CachedStore) FetchActiveRules(ctx context.Context) ([]inference.Rule, error) {
	if rules, ok := c.lookup(ctx); ok {
		return rules, nil
	}

	rules, err := c.inner.FetchActiveRules(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(rules)
	if err != nil {
		c.logger.WithError(err).Warn("failed to encode rules for cache", nil)
		return rules, nil
	}
	if err := c.redis.Set(ctx, ActiveRulesCacheKey, payload, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("failed to cache active rules", nil)
	}

	return rules, nil
}

func (c *CachedStore) lookup(ctx context.Context) ([]inference.Rule, bool) {
	start := time.Now()
	defer func() {
		metrics.RuleFetchDuration.WithLabelValues("redis").Observe(time.Since(start).Seconds())
	}()

	data, err := c.redis.Get(ctx, ActiveRulesCacheKey).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.RuleCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		metrics.RuleCacheRequests.WithLabelValues("error").Inc()
		c.logger.WithError(err).Warn("rule cache read failed", nil)
		return nil, false
	}

	var rules []inference.Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		metrics.RuleCacheRequests.WithLabelValues("error").Inc()
		c.logger.WithError(err).Warn("discarding corrupt rule cache entry", nil)
		return nil, false
	}

	metrics.RuleCacheRequests.WithLabelValues("hit").Inc()
	return rules, true
}

// Invalidate drops the cached rule set so the next fetch reads the inner store.
func (c *CachedStore) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, ActiveRulesCacheKey).Err()
}
