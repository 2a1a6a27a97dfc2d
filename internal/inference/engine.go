package inference

import (
	"context"
	"time"

	apperrors "recommender-workers/internal/common/errors"
	"recommender-workers/internal/common/logger"
	"recommender-workers/internal/common/metrics"
)

// Config shapes engine output.
type Config struct {
	MaxRecommendations int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{MaxRecommendations: DefaultMaxRecommendations}
}

// Engine runs inference over rules pulled from a RuleStore. It holds no
// per-run state and is safe for concurrent use.
type Engine struct {
	config *Config
	store  RuleStore
	logger logger.Logger
}

func NewEngine(config *Config, store RuleStore, log logger.Logger) *Engine {
	cfg := DefaultConfig()
	if config != nil && config.MaxRecommendations > 0 {
		cfg.MaxRecommendations = config.MaxRecommendations
	}
	return &Engine{
		config: cfg,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "inference"}),
	}
}

// Run is the outcome of one inference pass.
type Run struct {
	Recommendations []Recommendation
	Firings         []FiringResult
	RulesEvaluated  int
	RulesFired      int
	RulesSkipped    int
}

// GenerateRecommendations returns the ranked top-N programs for a profile.
// responseID only correlates log lines. The only error is a rule store failure.
func (e *Engine) GenerateRecommendations(ctx context.Context, p Profile, responseID int64) ([]Recommendation, error) {
	run, err := e.Generate(ctx, p, responseID)
	if err != nil {
		return nil, err
	}
	return run.Recommendations, nil
}

// Generate is GenerateRecommendations with run statistics.
func (e *Engine) Generate(ctx context.Context, p Profile, responseID int64) (*Run, error) {
	start := time.Now()

	rules, err := e.store.FetchActiveRules(ctx)
	if err != nil {
		if _, ok := apperrors.AsStandardError(err); !ok {
			err = apperrors.NewRuleStoreUnavailableError("store", err)
		}
		e.logger.WithError(err).Error("failed to fetch active rules", map[string]interface{}{
			"responseId": responseID,
		})
		return nil, err
	}

	run := e.Infer(rules, p)

	e.logger.Info("inference completed", map[string]interface{}{
		"responseId":      responseID,
		"rulesEvaluated":  run.RulesEvaluated,
		"rulesFired":      run.RulesFired,
		"rulesSkipped":    run.RulesSkipped,
		"recommendations": len(run.Recommendations),
		"durationMs":      time.Since(start).Milliseconds(),
	})

	return run, nil
}

// Infer fires rules in order against p, then aggregates, ranks and
// truncates. Malformed rules are logged and skipped.
func (e *Engine) Infer(rules []Rule, p Profile) *Run {
	run := &Run{Firings: make([]FiringResult, 0, len(rules))}

	for _, rule := range rules {
		run.RulesEvaluated++

		result, fired, err := Fire(rule, p)
		if err != nil {
			run.RulesSkipped++
			stdErr := apperrors.Normalize(err)
			metrics.RuleErrors.WithLabelValues(string(stdErr.Code)).Inc()
			e.logger.Warn("skipping malformed rule", map[string]interface{}{
				"ruleId":    rule.ID,
				"errorCode": string(stdErr.Code),
				"details":   stdErr.Details,
			})
			continue
		}
		if !fired {
			continue
		}

		run.RulesFired++
		run.Firings = append(run.Firings, result)
		metrics.RulesFired.WithLabelValues(rule.ID).Inc()
	}

	metrics.RulesEvaluated.Add(float64(run.RulesEvaluated))

	run.Recommendations = Top(Rank(Aggregate(run.Firings)), e.config.MaxRecommendations)
	metrics.RecommendationsPerRun.Observe(float64(len(run.Recommendations)))

	return run
}
