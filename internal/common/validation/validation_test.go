package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name      string
		profile   map[string]interface{}
		wantValid bool
		wantField string
	}{
		{
			name: "complete STEM profile",
			profile: map[string]interface{}{
				"strand":            "STEM",
				"favorite_subjects": []interface{}{"Mathematics", "Physics"},
				"skills":            map[string]interface{}{"analytical": 5, "technical": 4},
				"interests":         []interface{}{"Technology"},
				"learning_style":    "Hands-on/Practical learning",
			},
			wantValid: true,
		},
		{
			name:      "empty profile is allowed",
			profile:   map[string]interface{}{},
			wantValid: true,
		},
		{
			name: "interests as JSON text",
			profile: map[string]interface{}{
				"interests": `["Technology","Business"]`,
			},
			wantValid: true,
		},
		{
			name: "unlisted strand and odd ratings pass",
			profile: map[string]interface{}{
				"strand": "SPORTS",
				"skills": map[string]interface{}{"analytical": 9, "numerical": "n/a", "technical": 0},
			},
			wantValid: true,
		},
		{
			name:      "skills not an object",
			profile:   map[string]interface{}{"skills": "high"},
			wantValid: false,
			wantField: "skills",
		},
		{
			name:      "interests neither list nor text",
			profile:   map[string]interface{}{"interests": 3},
			wantValid: false,
			wantField: "interests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateProfile(tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid, result.Summary())
			if tt.wantField != "" {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tt.wantField, result.Errors[0].Field)
			}
		})
	}
}

type sampleRecord struct {
	ID         string  `json:"rule_id" validate:"required"`
	Confidence float64 `json:"confidence" validate:"min=0,max=100"`
	Feedback   string  `json:"feedback" validate:"omitempty,oneof=helpful not_helpful"`
}

func TestValidateStruct(t *testing.T) {
	result := ValidateStruct(sampleRecord{ID: "RULE001", Confidence: 95})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Summary())

	result = ValidateStruct(sampleRecord{Confidence: 120, Feedback: "meh"})
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 3)

	fields := map[string]string{}
	for _, e := range result.Errors {
		fields[e.Field] = e.Code
	}
	assert.Equal(t, "REQUIRED", fields["rule_id"])
	assert.Equal(t, "MAX", fields["confidence"])
	assert.Equal(t, "ONEOF", fields["feedback"])
	assert.Contains(t, result.Summary(), "rule_id: is required")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("helpful", "oneof=helpful not_helpful"))
	assert.Error(t, ValidateVar("great", "oneof=helpful not_helpful"))
}
