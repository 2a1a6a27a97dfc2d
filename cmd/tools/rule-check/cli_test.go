package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommender-workers/internal/inference"
)

const catalogPath = "../../../configs/rules.yaml"

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLint_ShippedCatalogIsClean(t *testing.T) {
	out, err := runCmd(t, "lint", "--rules", catalogPath)
	require.NoError(t, err)
	assert.Contains(t, out, "20 rules checked, 0 problem(s)")
}

func TestLintRules(t *testing.T) {
	rules := []inference.Rule{
		{ID: "OK", Conditions: `{"operator":"AND","criteria":[]}`, ProgramID: 1, Confidence: 90, Justification: "j"},
		{ID: "BADJSON", Conditions: `{"operator":`, ProgramID: 1, Confidence: 90, Justification: "j"},
		{ID: "BADSCORE", Conditions: `{"criteria":[]}`, ProgramID: 1, Confidence: 150, Justification: "j"},
		{ID: "NOPROG", Conditions: `{"criteria":[]}`, ProgramID: 99, Confidence: 90, Justification: "j"},
	}

	issues := lintRules(rules)
	require.Len(t, issues, 3)
	assert.Equal(t, "BADJSON", issues[0].RuleID)
	assert.Equal(t, "RULE_DECODE_FAILED", issues[0].Code)
	assert.Equal(t, "INVALID_RULE", issues[1].Code)
	assert.Equal(t, "UNKNOWN_PROGRAM", issues[2].Code)
}

func TestLint_ReportsProblems(t *testing.T) {
	rules := writeFile(t, "rules.yaml", `
rules:
  - rule_id: R1
    program_id: 1
    confidence: 90
    justification: j
    conditions: { criteria: [ { field: strand, operator: "==" } ] }
`)
	out, err := runCmd(t, "lint", "--rules", rules)
	require.Error(t, err)
	assert.Contains(t, out, "R1")
	assert.Contains(t, out, "1 problem(s)")
	assert.Contains(t, err.Error(), rules)
}

func TestEval(t *testing.T) {
	profile := writeFile(t, "profile.yaml", `
strand: STEM
favorite_subjects: [Mathematics]
interests: [Technology]
skills:
  analytical: 5
  technical: 4
`)

	out, err := runCmd(t, "eval", "--rules", catalogPath, "--profile", profile, "--firings")
	require.NoError(t, err)

	var res evalResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 20, res.RulesEvaluated)
	assert.Equal(t, 1, res.RulesFired)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "BSCS", res.Recommendations[0].ProgramCode)
	assert.Equal(t, 95.0, res.Recommendations[0].Confidence)
	require.Len(t, res.Firings, 1)
	assert.Equal(t, "RULE001", res.Firings[0].RuleID)
}

func TestEval_Submission(t *testing.T) {
	profile := writeFile(t, "submission.json", `{"submission":{"strand":"TVL-HE","interests":["Hospitality"]}}`)

	out, err := runCmd(t, "eval", "--rules", catalogPath, "--profile", profile)
	require.NoError(t, err)

	var res evalResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "BSHRM", res.Recommendations[0].ProgramCode)
}

func TestEval_InvalidProfile(t *testing.T) {
	profile := writeFile(t, "profile.yaml", "strand: STEM\nskills: high\n")
	_, err := runCmd(t, "eval", "--rules", catalogPath, "--profile", profile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid profile")
}

func TestEval_UnlistedStrandMatchesNothing(t *testing.T) {
	profile := writeFile(t, "profile.yaml", "strand: ASTRONAUT\nskills:\n  analytical: n/a\n")
	out, err := runCmd(t, "eval", "--rules", catalogPath, "--profile", profile)
	require.NoError(t, err)

	var res evalResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Empty(t, res.Recommendations)
}
