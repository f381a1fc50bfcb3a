package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kingrea/airul/internal/rules"
)

func newGenerateCmd(e *env) *cobra.Command {
	opts := rules.AggregateOptions{}
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Write editor context files from the configured sources",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !e.config.Project.Output.Any() {
				return e.fail(errors.New("no outputs enabled in .airul.json"))
			}
			result, err := rules.Aggregate(cmd.Context(), e.config, opts, e.reporter)
			if err != nil {
				return e.fail(err)
			}
			if !result.Generated {
				return e.fail(errors.New("no source content found, check sources in .airul.json"))
			}
			e.reporter.Info("Generated context from %d sources", len(result.Sources))
			if opts.CompileRules {
				e.reporter.Info("Compiled %d rules", result.RulesCompiled)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.CompileRules, "mdc", false, "Also compile every source into .cursor/rules")
	return cmd
}
