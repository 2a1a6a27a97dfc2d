package inference

import "sort"

// DefaultMaxRecommendations is the size of the returned list when no limit is configured.
const DefaultMaxRecommendations = 5

// Recommendation is a ranked candidate. Rank starts at 1.
type Recommendation struct {
	Rank           int      `json:"rank"`
	ProgramID      int64    `json:"program_id"`
	Confidence     float64  `json:"confidence"`
	Justification  string   `json:"justification"`
	RulesTriggered []string `json:"rules_triggered"`
}

// Rank orders candidates by confidence, highest first. Ties keep their input order.
func Rank(candidates []Candidate) []Recommendation {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	ranked := make([]Recommendation, len(sorted))
	for i, c := range sorted {
		ranked[i] = Recommendation{
			Rank:           i + 1,
			ProgramID:      c.ProgramID,
			Confidence:     c.Confidence,
			Justification:  c.Justification,
			RulesTriggered: c.RulesTriggered,
		}
	}
	return ranked
}

// Top keeps the first n ranked recommendations. n <= 0 keeps none.
func Top(ranked []Recommendation, n int) []Recommendation {
	if n <= 0 {
		return []Recommendation{}
	}
	if len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}
