// Package rulestore provides the rule sources the inference engine pulls from.
package rulestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "recommender-workers/internal/common/errors"
	"recommender-workers/internal/common/logger"
	"recommender-workers/internal/common/metrics"
	"recommender-workers/internal/inference"
)

const activeRulesQuery = `SELECT rule_id, conditions, recommended_program_id, confidence_score, justification, is_active
FROM rules
WHERE is_active = TRUE
ORDER BY rule_id`

// SQLStore reads active rules from the rules table. Works with the postgres
// and sqlite drivers.
type SQLStore struct {
	db      *sql.DB
	timeout time.Duration
	logger  logger.Logger
}

var _ inference.RuleStore = (*SQLStore)(nil)

func NewSQLStore(db *sql.DB, timeout time.Duration, log logger.Logger) *SQLStore {
	return &SQLStore{
		db:      db,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"ruleSource": "sql"}),
	}
}

func (s *SQLStore) FetchActiveRules(ctx context.Context) ([]inference.Rule, error) {
	start := time.Now()
	defer func() {
		metrics.RuleFetchDuration.WithLabelValues("sql").Observe(time.Since(start).Seconds())
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rows, err := s.db.QueryContext(ctx, activeRulesQuery)
	if err != nil {
		return nil, s.wrap(ctx, err)
	}
	defer rows.Close()

	rules := make([]inference.Rule, 0, 32)
	for rows.Next() {
		var (
			rule       inference.Rule
			confidence sql.NullFloat64
		)
		if err := rows.Scan(&rule.ID, &rule.Conditions, &rule.ProgramID, &confidence, &rule.Justification, &rule.Active); err != nil {
			return nil, s.wrap(ctx, fmt.Errorf("scan rule: %w", err))
		}
		if !confidence.Valid {
			s.logger.Warn("skipping rule without confidence score", map[string]interface{}{"ruleId": rule.ID})
			continue
		}
		rule.Confidence = confidence.Float64
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap(ctx, err)
	}

	s.logger.Debug("loaded active rules", map[string]interface{}{"count": len(rules)})
	return rules, nil
}

func (s *SQLStore) wrap(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewRuleStoreUnavailableError("sql", apperrors.NewQueryTimeoutError("fetch_active_rules"))
	}
	return apperrors.NewRuleStoreUnavailableError("sql", err)
}
