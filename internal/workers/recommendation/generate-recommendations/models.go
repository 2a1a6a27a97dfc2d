// internal/workers/recommendation/generate-recommendations/models.go
package generaterecommendations

import (
	"recommender-workers/internal/inference"
	"recommender-workers/internal/models"
)

// Input carries either a raw questionnaire submission or an already
// flattened profile. Submission wins when both are present.
type Input struct {
	StudentID  int64                  `json:"studentId"`
	ResponseID int64                  `json:"responseId"`
	Submission *models.Submission     `json:"submission,omitempty"`
	Profile    map[string]interface{} `json:"profile,omitempty"`
}

type Output struct {
	RunID           string                     `json:"runId"`
	StudentID       int64                      `json:"studentId"`
	ResponseID      int64                      `json:"responseId"`
	Recommendations []inference.Recommendation `json:"recommendations"`
	RulesEvaluated  int                        `json:"rulesEvaluated"`
	RulesFired      int                        `json:"rulesFired"`
}
