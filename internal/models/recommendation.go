// internal/models/recommendation.go
package models

import "strings"

type Feedback string

const (
	FeedbackHelpful         Feedback = "helpful"
	FeedbackSomewhatHelpful Feedback = "somewhat_helpful"
	FeedbackNotHelpful      Feedback = "not_helpful"
	FeedbackNone            Feedback = "no_feedback"
)

func (f Feedback) Valid() bool {
	switch f {
	case FeedbackHelpful, FeedbackSomewhatHelpful, FeedbackNotHelpful, FeedbackNone:
		return true
	}
	return false
}

// RecommendationRecord is a row of the recommendations table.
type RecommendationRecord struct {
	ID              int64    `json:"recommendationId"`
	StudentID       int64    `json:"studentId"`
	ResponseID      int64    `json:"responseId"`
	ProgramID       int64    `json:"programId"`
	RankPosition    int      `json:"rankPosition"`
	ConfidenceScore float64  `json:"confidenceScore"`
	Justification   string   `json:"justification"`
	RulesTriggered  string   `json:"rulesTriggered"`
	RunID           string   `json:"runId,omitempty"`
	StudentFeedback Feedback `json:"studentFeedback,omitempty"`
}

// JoinRuleIDs encodes rule ids for the rules_triggered column.
func JoinRuleIDs(ids []string) string {
	return strings.Join(ids, ",")
}

// SplitRuleIDs reverses JoinRuleIDs.
func SplitRuleIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
