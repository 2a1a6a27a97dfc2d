// internal/workers/recommendation/record-feedback/models.go
package recordfeedback

type Input struct {
	RecommendationID int64  `json:"recommendationId" validate:"gt=0"`
	Feedback         string `json:"feedback" validate:"required,oneof=helpful somewhat_helpful not_helpful no_feedback"`
}

type Output struct {
	RecommendationID int64  `json:"recommendationId"`
	Feedback         string `json:"feedback"`
	Recorded         bool   `json:"recorded"`
}
