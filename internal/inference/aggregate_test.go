package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	t.Run("two firings average", func(t *testing.T) {
		got := Aggregate([]FiringResult{
			{RuleID: "R1", ProgramID: 7, Confidence: 90, Justification: "A"},
			{RuleID: "R2", ProgramID: 7, Confidence: 70, Justification: "B"},
		})
		require.Len(t, got, 1)
		assert.Equal(t, Candidate{
			ProgramID:      7,
			Confidence:     80,
			Justification:  "A Additionally, B",
			RulesTriggered: []string{"R1", "R2"},
		}, got[0])
	})

	t.Run("pairwise merge is order dependent", func(t *testing.T) {
		got := Aggregate([]FiringResult{
			{RuleID: "R1", ProgramID: 7, Confidence: 90, Justification: "A"},
			{RuleID: "R2", ProgramID: 7, Confidence: 70, Justification: "B"},
			{RuleID: "R3", ProgramID: 7, Confidence: 50, Justification: "C"},
		})
		require.Len(t, got, 1)
		assert.InDelta(t, 65.0, got[0].Confidence, 1e-9)
		assert.Equal(t, "A Additionally, B Additionally, C", got[0].Justification)
		assert.Equal(t, []string{"R1", "R2", "R3"}, got[0].RulesTriggered)
	})

	t.Run("empty justification adds nothing", func(t *testing.T) {
		got := Aggregate([]FiringResult{
			{RuleID: "R1", ProgramID: 4, Confidence: 90, Justification: "A"},
			{RuleID: "R2", ProgramID: 4, Confidence: 80, Justification: ""},
		})
		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0].Justification)
		assert.Equal(t, []string{"R1", "R2"}, got[0].RulesTriggered)
	})

	t.Run("repeated justification is not appended", func(t *testing.T) {
		got := Aggregate([]FiringResult{
			{RuleID: "R1", ProgramID: 2, Confidence: 80, Justification: "Strong technical skills."},
			{RuleID: "R2", ProgramID: 2, Confidence: 80, Justification: "technical"},
			{RuleID: "R3", ProgramID: 2, Confidence: 80, Justification: ""},
		})
		require.Len(t, got, 1)
		assert.Equal(t, "Strong technical skills.", got[0].Justification)
		assert.Equal(t, []string{"R1", "R2", "R3"}, got[0].RulesTriggered)
	})

	t.Run("distinct programs keep first firing order", func(t *testing.T) {
		got := Aggregate([]FiringResult{
			{RuleID: "R1", ProgramID: 3, Confidence: 70, Justification: "x"},
			{RuleID: "R2", ProgramID: 1, Confidence: 90, Justification: "y"},
			{RuleID: "R3", ProgramID: 3, Confidence: 90, Justification: "z"},
		})
		require.Len(t, got, 2)
		assert.Equal(t, int64(3), got[0].ProgramID)
		assert.Equal(t, float64(80), got[0].Confidence)
		assert.Equal(t, int64(1), got[1].ProgramID)
	})

	t.Run("no firings", func(t *testing.T) {
		assert.Empty(t, Aggregate(nil))
	})
}
