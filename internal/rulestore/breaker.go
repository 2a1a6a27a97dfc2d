package rulestore

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	apperrors "recommender-workers/internal/common/errors"
	"recommender-workers/internal/common/logger"
	"recommender-workers/internal/common/metrics"
	"recommender-workers/internal/inference"
)

// BreakerSettings configures BreakerStore.
type BreakerSettings struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// BreakerStore stops calling a failing store until Timeout has passed.
// Rejected calls fail fast with RULE_STORE_UNAVAILABLE.
type BreakerStore struct {
	inner inference.RuleStore
	cb    *gobreaker.CircuitBreaker[[]inference.Rule]
	name  string
}

var _ inference.RuleStore = (*BreakerStore)(nil)

func NewBreakerStore(inner inference.RuleStore, settings BreakerSettings, log logger.Logger) *BreakerStore {
	name := settings.Name
	if name == "" {
		name = "rule-store"
	}
	threshold := settings.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]inference.Rule](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("rule store circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &BreakerStore{inner: inner, cb: cb, name: name}
}

func (b *BreakerStore) FetchActiveRules(ctx context.Context) ([]inference.Rule, error) {
	rules, err := b.cb.Execute(func() ([]inference.Rule, error) {
		return b.inner.FetchActiveRules(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.NewRuleStoreUnavailableError(b.name, err)
		}
		return nil, err
	}
	return rules, nil
}

// State reports the breaker state, mainly for readiness checks.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
