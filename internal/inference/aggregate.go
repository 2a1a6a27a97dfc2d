package inference

import "strings"

const justificationJoiner = " Additionally, "

// Candidate is a program with its merged firings, before ranking.
type Candidate struct {
	ProgramID      int64    `json:"program_id"`
	Confidence     float64  `json:"confidence"`
	Justification  string   `json:"justification"`
	RulesTriggered []string `json:"rules_triggered"`
}

// Aggregate merges firings per program in firing order. Each later firing
// replaces the confidence with the mean of the running value and its own,
// so three firings of 90, 70 and 50 end at 65. A justification is appended
// only when the accumulated text does not already contain it. Candidates are
// returned in order of first firing.
func Aggregate(results []FiringResult) []Candidate {
	candidates := make([]Candidate, 0, len(results))
	index := make(map[int64]int, len(results))

	for _, r := range results {
		i, seen := index[r.ProgramID]
		if !seen {
			index[r.ProgramID] = len(candidates)
			candidates = append(candidates, Candidate{
				ProgramID:      r.ProgramID,
				Confidence:     r.Confidence,
				Justification:  r.Justification,
				RulesTriggered: []string{r.RuleID},
			})
			continue
		}

		c := &candidates[i]
		c.Confidence = (c.Confidence + r.Confidence) / 2
		c.RulesTriggered = append(c.RulesTriggered, r.RuleID)
		if !strings.Contains(c.Justification, r.Justification) {
			c.Justification += justificationJoiner + r.Justification
		}
	}

	return candidates
}
