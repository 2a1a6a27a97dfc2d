package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"recommender-workers/internal/common/validation"
	"recommender-workers/internal/inference"
	"recommender-workers/internal/models"
	"recommender-workers/internal/rulestore"
)

type evalArgs struct {
	ProfileFile        string
	MaxRecommendations int
	ShowFirings        bool
}

type evalResult struct {
	RulesEvaluated  int                      `json:"rulesEvaluated"`
	RulesFired      int                      `json:"rulesFired"`
	RulesSkipped    int                      `json:"rulesSkipped"`
	Firings         []inference.FiringResult `json:"firings,omitempty"`
	Recommendations []evalRecommendation     `json:"recommendations"`
}

type evalRecommendation struct {
	inference.Recommendation
	ProgramCode string `json:"program_code,omitempty"`
}

func newEvalCmd(root *rootArgs) *cobra.Command {
	args := &evalArgs{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Run the rule catalog against a profile and print the ranked programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := readProfile(args.ProfileFile)
			if err != nil {
				return err
			}

			res, err := validation.ValidateProfile(profile)
			if err != nil {
				return err
			}
			if !res.Valid {
				return fmt.Errorf("invalid profile: %s", res.Summary())
			}

			log := root.logger()
			store, err := rulestore.NewFileStore(root.RulesFile, log)
			if err != nil {
				return err
			}

			engine := inference.NewEngine(&inference.Config{MaxRecommendations: args.MaxRecommendations}, store, log)
			run, err := engine.Generate(context.Background(), inference.Profile(profile), 0)
			if err != nil {
				return err
			}

			out := newEvalResult(run, args.ShowFirings)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&args.ProfileFile, "profile", "p", "", "Student profile document (YAML or JSON)")
	cmd.Flags().IntVarP(&args.MaxRecommendations, "max", "n", inference.DefaultMaxRecommendations, "Number of programs to return")
	cmd.Flags().BoolVar(&args.ShowFirings, "firings", false, "Include every rule that fired")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

// readProfile accepts a bare profile or a questionnaire submission under a
// "submission" key.
func readProfile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var doc struct {
		Submission *models.Submission `yaml:"submission"`
	}
	if err := yaml.Unmarshal(data, &doc); err == nil && doc.Submission != nil {
		return doc.Submission.Profile(), nil
	}

	var profile map[string]interface{}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}

func newEvalResult(run *inference.Run, withFirings bool) *evalResult {
	out := &evalResult{
		RulesEvaluated:  run.RulesEvaluated,
		RulesFired:      run.RulesFired,
		RulesSkipped:    run.RulesSkipped,
		Recommendations: make([]evalRecommendation, 0, len(run.Recommendations)),
	}
	if withFirings {
		out.Firings = run.Firings
	}
	for _, r := range run.Recommendations {
		rec := evalRecommendation{Recommendation: r}
		if p, ok := models.ProgramByID(r.ProgramID); ok {
			rec.ProgramCode = p.Code
		}
		out.Recommendations = append(out.Recommendations, rec)
	}
	return out
}
