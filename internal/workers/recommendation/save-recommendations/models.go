// internal/workers/recommendation/save-recommendations/models.go
package saverecommendations

import "recommender-workers/internal/inference"

type Input struct {
	StudentID       int64                      `json:"studentId" validate:"gt=0"`
	ResponseID      int64                      `json:"responseId" validate:"gt=0"`
	RunID           string                     `json:"runId" validate:"omitempty,uuid"`
	Recommendations []inference.Recommendation `json:"recommendations" validate:"dive"`
}

type Output struct {
	SavedCount        int     `json:"savedCount"`
	RecommendationIDs []int64 `json:"recommendationIds"`
}
