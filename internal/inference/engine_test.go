package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "recommender-workers/internal/common/errors"
	"recommender-workers/internal/common/logger"
)

type mockRuleStore struct {
	mock.Mock
}

func (m *mockRuleStore) FetchActiveRules(ctx context.Context) ([]Rule, error) {
	args := m.Called(ctx)
	rules, _ := args.Get(0).([]Rule)
	return rules, args.Error(1)
}

func strandRule(id string, programID int64, confidence float64, strand string) Rule {
	return newRule(id, programID, confidence,
		`{"operator":"AND","criteria":[{"field":"strand","operator":"==","value":"`+strand+`"}]}`)
}

// ==========================
// End-to-end
// ==========================

func TestGenerateRecommendations_SingleRule(t *testing.T) {
	store := new(mockRuleStore)
	store.On("FetchActiveRules", mock.Anything).Return([]Rule{newRule("RULE001", 1, 95, rule001Conditions)}, nil)

	engine := NewEngine(DefaultConfig(), store, logger.NewTestLogger(t))

	profile := Profile{
		"strand":            "STEM",
		"skills":            map[string]interface{}{"analytical": 5, "technical": 4},
		"interests":         []interface{}{"Technology"},
		"favorite_subjects": []interface{}{"Mathematics"},
	}

	recs, err := engine.GenerateRecommendations(context.Background(), profile, 101)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, Recommendation{
		Rank:           1,
		ProgramID:      1,
		Confidence:     95,
		Justification:  "Justification for RULE001",
		RulesTriggered: []string{"RULE001"},
	}, recs[0])
	store.AssertExpectations(t)
}

func TestGenerate_AggregatesRanksAndTruncates(t *testing.T) {
	rules := []Rule{
		strandRule("R01", 1, 90, "STEM"),
		strandRule("R02", 2, 85, "STEM"),
		strandRule("R03", 1, 70, "STEM"),
		strandRule("R04", 3, 80, "STEM"),
		strandRule("R05", 4, 60, "STEM"),
		strandRule("R06", 5, 65, "STEM"),
		strandRule("R07", 6, 95, "ABM"), // does not fire
		strandRule("R08", 7, 75, "STEM"),
		newRule("R09", 8, 99, `{"criteria": "broken"}`),
	}
	store := new(mockRuleStore)
	store.On("FetchActiveRules", mock.Anything).Return(rules, nil)

	engine := NewEngine(&Config{MaxRecommendations: 3}, store, logger.NewNoOpLogger())

	run, err := engine.Generate(context.Background(), Profile{"strand": "STEM"}, 7)
	require.NoError(t, err)

	assert.Equal(t, 9, run.RulesEvaluated)
	assert.Equal(t, 7, run.RulesFired)
	assert.Equal(t, 1, run.RulesSkipped)
	assert.Len(t, run.Firings, 7)

	require.Len(t, run.Recommendations, 3)
	// program 1 merges 90 and 70 into 80 and stays ahead of program 3 (also 80)
	// because it fired first.
	assert.Equal(t, int64(2), run.Recommendations[0].ProgramID)
	assert.Equal(t, int64(1), run.Recommendations[1].ProgramID)
	assert.Equal(t, float64(80), run.Recommendations[1].Confidence)
	assert.Equal(t, []string{"R01", "R03"}, run.Recommendations[1].RulesTriggered)
	assert.Equal(t, int64(3), run.Recommendations[2].ProgramID)
	assert.Equal(t, 3, run.Recommendations[2].Rank)
}

func TestGenerate_NoRulesIsNotAnError(t *testing.T) {
	store := new(mockRuleStore)
	store.On("FetchActiveRules", mock.Anything).Return([]Rule{}, nil)

	engine := NewEngine(nil, store, logger.NewNoOpLogger())

	recs, err := engine.GenerateRecommendations(context.Background(), Profile{}, 1)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestGenerate_StoreFailurePropagates(t *testing.T) {
	t.Run("plain error is wrapped", func(t *testing.T) {
		store := new(mockRuleStore)
		store.On("FetchActiveRules", mock.Anything).Return(nil, errors.New("connection refused"))

		engine := NewEngine(nil, store, logger.NewNoOpLogger())

		recs, err := engine.GenerateRecommendations(context.Background(), Profile{"strand": "STEM"}, 1)
		require.Error(t, err)
		assert.Nil(t, recs)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRuleStoreUnavailable))
	})

	t.Run("standard error passes through", func(t *testing.T) {
		storeErr := apperrors.NewQueryTimeoutError("fetch_active_rules")
		store := new(mockRuleStore)
		store.On("FetchActiveRules", mock.Anything).Return(nil, storeErr)

		engine := NewEngine(nil, store, logger.NewNoOpLogger())

		_, err := engine.Generate(context.Background(), Profile{}, 1)
		assert.Same(t, storeErr, err)
	})
}

func TestInfer_ConcurrentRunsAreIndependent(t *testing.T) {
	engine := NewEngine(nil, new(mockRuleStore), logger.NewNoOpLogger())
	rules := []Rule{strandRule("R1", 1, 90, "STEM"), strandRule("R2", 2, 80, "ABM")}

	done := make(chan []Recommendation, 2)
	go func() { done <- engine.Infer(rules, Profile{"strand": "STEM"}).Recommendations }()
	go func() { done <- engine.Infer(rules, Profile{"strand": "ABM"}).Recommendations }()

	seen := map[int64]bool{}
	for i := 0; i < 2; i++ {
		recs := <-done
		require.Len(t, recs, 1)
		seen[recs[0].ProgramID] = true
	}
	assert.True(t, seen[1])
	assert.True(t, seen[2])
}
