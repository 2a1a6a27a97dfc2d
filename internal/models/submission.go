// internal/models/submission.go
package models

type Strand string

const (
	StrandSTEM   Strand = "STEM"
	StrandABM    Strand = "ABM"
	StrandHUMSS  Strand = "HUMSS"
	StrandGAS    Strand = "GAS"
	StrandTVLICT Strand = "TVL-ICT"
	StrandTVLHE  Strand = "TVL-HE"
	StrandTVLIA  Strand = "TVL-IA"
)

// Strands lists every senior high school strand a questionnaire may carry.
var Strands = []Strand{StrandSTEM, StrandABM, StrandHUMSS, StrandGAS, StrandTVLICT, StrandTVLHE, StrandTVLIA}

// Skills are self-ratings from 1 to 5. Zero means the question was skipped.
type Skills struct {
	Analytical        int `json:"analytical,omitempty" validate:"omitempty,min=1,max=5"`
	Technical         int `json:"technical,omitempty" validate:"omitempty,min=1,max=5"`
	Communication     int `json:"communication,omitempty" validate:"omitempty,min=1,max=5"`
	Creativity        int `json:"creativity,omitempty" validate:"omitempty,min=1,max=5"`
	Numerical         int `json:"numerical,omitempty" validate:"omitempty,min=1,max=5"`
	Leadership        int `json:"leadership,omitempty" validate:"omitempty,min=1,max=5"`
	AttentionToDetail int `json:"attention_to_detail,omitempty" validate:"omitempty,min=1,max=5"`
	Research          int `json:"research,omitempty" validate:"omitempty,min=1,max=5"`
}

// Submission is one completed questionnaire.
type Submission struct {
	Strand           string   `json:"strand" validate:"required,oneof=STEM ABM HUMSS GAS TVL-ICT TVL-HE TVL-IA"`
	FavoriteSubjects []string `json:"favorite_subjects,omitempty" validate:"dive,required"`
	Skills           Skills   `json:"skills"`
	Interests        []string `json:"interests,omitempty" validate:"dive,required"`
	LearningStyle    string   `json:"learning_style,omitempty"`
	CareerGoals      string   `json:"career_goals,omitempty"`
	CareerPriority   string   `json:"career_priority,omitempty"`
}

// Profile flattens the submission into the document rules are evaluated
// against. Skipped answers are left out so criteria reading them stay false.
func (s *Submission) Profile() map[string]interface{} {
	profile := map[string]interface{}{
		"strand": s.Strand,
	}

	if len(s.FavoriteSubjects) > 0 {
		subjects := stringsToList(s.FavoriteSubjects)
		profile["favorite_subjects"] = subjects
		profile["favorites"] = subjects
	}
	if len(s.Interests) > 0 {
		profile["interests"] = stringsToList(s.Interests)
	}
	if s.LearningStyle != "" {
		profile["learning_style"] = s.LearningStyle
	}
	if s.CareerGoals != "" {
		profile["career_goals"] = s.CareerGoals
	}
	if s.CareerPriority != "" {
		profile["career_priority"] = s.CareerPriority
	}

	skills := make(map[string]interface{}, 8)
	for name, rating := range map[string]int{
		"analytical":          s.Skills.Analytical,
		"technical":           s.Skills.Technical,
		"communication":       s.Skills.Communication,
		"creativity":          s.Skills.Creativity,
		"numerical":           s.Skills.Numerical,
		"leadership":          s.Skills.Leadership,
		"attention_to_detail": s.Skills.AttentionToDetail,
		"research":            s.Skills.Research,
	} {
		if rating > 0 {
			skills[name] = rating
		}
	}
	profile["skills"] = skills

	return profile
}

func stringsToList(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
