package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"recommender-workers/internal/common/errors"
	"recommender-workers/internal/inference"
	"recommender-workers/internal/models"
	"recommender-workers/internal/rulestore"
)

type lintIssue struct {
	RuleID  string
	Code    string
	Message string
}

func newLintCmd(root *rootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Check every rule in the catalog for decode and validation errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := rulestore.NewFileStore(root.RulesFile, root.logger())
			if err != nil {
				return err
			}
			rules := store.Rules()

			issues := lintRules(rules)
			printIssues(cmd.OutOrStdout(), len(rules), issues)
			if len(issues) > 0 {
				return fmt.Errorf("%d problem(s) found in %s", len(issues), store.Path())
			}
			return nil
		},
	}
}

// lintRules reports rules the engine would skip plus rules pointing at
// programs missing from the catalog.
func lintRules(rules []inference.Rule) []lintIssue {
	var issues []lintIssue
	for _, r := range rules {
		if _, _, err := inference.Fire(r, inference.Profile{}); err != nil {
			stdErr := errors.Normalize(err)
			issues = append(issues, lintIssue{RuleID: r.ID, Code: string(stdErr.Code), Message: stdErr.Details})
			continue
		}
		if _, ok := models.ProgramByID(r.ProgramID); !ok {
			issues = append(issues, lintIssue{
				RuleID:  r.ID,
				Code:    "UNKNOWN_PROGRAM",
				Message: fmt.Sprintf("program_id %d is not in the program catalog", r.ProgramID),
			})
		}
	}
	return issues
}

func printIssues(w io.Writer, total int, issues []lintIssue) {
	for _, is := range issues {
		fmt.Fprintf(w, "%-10s %-20s %s\n", is.RuleID, is.Code, is.Message)
	}
	fmt.Fprintf(w, "%d rules checked, %d problem(s)\n", total, len(issues))
}
