package rulestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommender-workers/internal/common/logger"
	"recommender-workers/internal/inference"
)

const catalogPath = "../../configs/rules.yaml"

func TestParseRules(t *testing.T) {
	data := []byte(`
rules:
  - rule_id: RULE100
    program_id: 4
    confidence: 88
    justification: "Physics background"
    conditions:
      operator: AND
      criteria:
        - { field: strand, operator: "==", value: STEM }
        - { field: skills.technical, operator: ">=", value: 3 }
  - rule_id: RULE101
    program_id: 2
    confidence: 78.5
    justification: "Text conditions"
    is_active: false
    conditions: '{"operator":"OR","criteria":[{"field":"strand","operator":"==","value":"GAS"}]}'
`)

	rules, err := ParseRules(data)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "RULE100", rules[0].ID)
	assert.True(t, rules[0].Active)
	assert.Equal(t, int64(4), rules[0].ProgramID)

	tree, err := inference.DecodeConditions([]byte(rules[0].Conditions))
	require.NoError(t, err)
	assert.Equal(t, inference.OperatorAnd, tree.Operator)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, float64(3), tree.Children[1].(*inference.Criterion).Value)

	assert.False(t, rules[1].Active)
	assert.Equal(t, 78.5, rules[1].Confidence)
	assert.Contains(t, rules[1].Conditions, `"operator":"OR"`)
}

func TestParseRules_JSONCatalog(t *testing.T) {
	rules, err := ParseRules([]byte(`{"rules":[{"rule_id":"R1","program_id":1,"confidence":90,"justification":"j",
		"conditions":{"criteria":[{"field":"strand","operator":"==","value":"ABM"}]}}]}`))
	require.NoError(t, err)
	require.Len(t, rules, 1)

	_, fired, err := inference.Fire(rules[0], inference.Profile{"strand": "ABM"})
	require.NoError(t, err)
	assert.True(t, fired)
}

func TestParseRules_Errors(t *testing.T) {
	_, err := ParseRules([]byte("rules:\n  - rule_id: R1\n  - rule_id: R1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rule_id")

	_, err = ParseRules([]byte("rules: [\n"))
	require.Error(t, err)
}

func TestFileStore_FiltersInactive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  - { rule_id: A, program_id: 1, confidence: 90, justification: a, conditions: { criteria: [] } }
  - { rule_id: B, program_id: 2, confidence: 80, justification: b, is_active: false, conditions: { criteria: [] } }
  - { rule_id: C, program_id: 3, confidence: 70, justification: c, conditions: { criteria: [] } }
`), 0o600))

	store, err := NewFileStore(path, logger.NewTestLogger(t))
	require.NoError(t, err)

	rules, err := store.FetchActiveRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "A", rules[0].ID)
	assert.Equal(t, "C", rules[1].ID)
	assert.Len(t, store.Rules(), 3)
	assert.Equal(t, path, store.Path())
}

func TestFileStore_MissingFile(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "missing.yaml"), logger.NewNoOpLogger())
	require.Error(t, err)
}

func TestFileStore_ShippedCatalog(t *testing.T) {
	store, err := NewFileStore(catalogPath, logger.NewNoOpLogger())
	require.NoError(t, err)

	rules, err := store.FetchActiveRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 20)
	assert.Equal(t, "RULE001", rules[0].ID)
	assert.Equal(t, "RULE020", rules[19].ID)

	for _, r := range rules {
		_, _, err := inference.Fire(r, inference.Profile{})
		assert.NoError(t, err, r.ID)
	}
}
