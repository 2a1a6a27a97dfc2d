package inference

import (
	"context"

	apperrors "recommender-workers/internal/common/errors"
	"recommender-workers/internal/common/validation"
)

// Rule is one stored production rule. Conditions holds the JSON text of the
// condition tree and is decoded on every firing.
type Rule struct {
	ID            string  `json:"rule_id" validate:"required"`
	Description   string  `json:"description,omitempty"`
	Conditions    string  `json:"conditions" validate:"required"`
	ProgramID     int64   `json:"program_id" validate:"gt=0"`
	Confidence    float64 `json:"confidence" validate:"min=0,max=100"`
	Justification string  `json:"justification"`
	Active        bool    `json:"is_active"`
}

// RuleStore supplies the active rules in a stable order.
type RuleStore interface {
	FetchActiveRules(ctx context.Context) ([]Rule, error)
}

// FiringResult is the conclusion of one rule that matched.
type FiringResult struct {
	RuleID        string  `json:"rule_id"`
	ProgramID     int64   `json:"program_id"`
	Confidence    float64 `json:"confidence"`
	Justification string  `json:"justification"`
}

// Fire evaluates a single rule against a profile. fired is false when the
// conditions do not match. A non-nil error means the rule record itself is
// unusable (fails validation or its conditions cannot be decoded); callers
// treat that as a non-fire.
func Fire(rule Rule, p Profile) (result FiringResult, fired bool, err error) {
	if res := validation.ValidateStruct(rule); !res.Valid {
		return FiringResult{}, false, apperrors.NewInvalidRuleError(rule.ID, res.Summary())
	}

	conditions, err := DecodeConditions([]byte(rule.Conditions))
	if err != nil {
		return FiringResult{}, false, apperrors.NewRuleDecodeFailedError(rule.ID, err)
	}

	if !Evaluate(conditions, p) {
		return FiringResult{}, false, nil
	}

	return FiringResult{
		RuleID:        rule.ID,
		ProgramID:     rule.ProgramID,
		Confidence:    rule.Confidence,
		Justification: rule.Justification,
	}, true, nil
}
