package rulestore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"recommender-workers/internal/common/config"
	"recommender-workers/internal/common/logger"
	"recommender-workers/internal/inference"
)

// DefaultQueryTimeout bounds a single active-rules query.
const DefaultQueryTimeout = 5 * time.Second

// New assembles the store chain for cfg.RuleSource. A database source is
// read through the breaker, then the Redis cache when rdb is set and the
// cache TTL is positive.
func New(cfg config.EngineConfig, db *sql.DB, rdb *redis.Client, log logger.Logger) (inference.RuleStore, error) {
	switch cfg.RuleSource {
	case config.RuleSourceFile:
		fs, err := NewFileStore(cfg.RulesFile, log)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.RuleSourceDatabase, "":
	default:
		return nil, fmt.Errorf("unsupported rule source %q", cfg.RuleSource)
	}

	if db == nil {
		return nil, fmt.Errorf("rule source %q needs a database connection", config.RuleSourceDatabase)
	}

	var store inference.RuleStore = NewSQLStore(db, DefaultQueryTimeout, log)

	if cfg.Breaker.Enabled {
		store = NewBreakerStore(store, BreakerSettings{
			Name:                "rule-store",
			MaxRequests:         cfg.Breaker.MaxRequests,
			Interval:            config.GetDuration(cfg.Breaker.Interval),
			Timeout:             config.GetDuration(cfg.Breaker.Timeout),
			ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		}, log)
	}

	if rdb != nil && cfg.RuleCacheTTL > 0 {
		store = NewCachedStore(store, rdb, config.GetDuration(cfg.RuleCacheTTL), log)
	}

	return store, nil
}
