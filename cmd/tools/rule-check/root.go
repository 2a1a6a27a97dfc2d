package main

import (
	"github.com/spf13/cobra"

	"recommender-workers/internal/common/logger"
)

const (
	cmdName = "rule-check"
	cmdDesc = `Lint recommendation rule catalogs and dry-run them against a student profile.`
)

type rootArgs struct {
	RulesFile string
	LogLevel  string
}

func (ra *rootArgs) addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&ra.RulesFile, "rules", "r", "configs/rules.yaml", "Rule catalog (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&ra.LogLevel, "log-level", "warn", "Log level, one of: debug, info, warn, error")
}

func (ra *rootArgs) logger() logger.Logger {
	return logger.NewStructured(ra.LogLevel, "console", "stderr")
}

func newRootCmd() *cobra.Command {
	args := &rootArgs{}

	cmd := &cobra.Command{
		Use:           cmdName,
		Short:         cmdDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	args.addFlags(cmd)
	cmd.AddCommand(newLintCmd(args), newEvalCmd(args))

	return cmd
}
