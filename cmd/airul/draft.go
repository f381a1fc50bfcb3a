package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/airul/internal/drafts"
	"github.com/kingrea/airul/internal/workflow"
)

type draftOptions struct {
	stage string
	clean bool
}

func newDraftCmd(e *env) *cobra.Command {
	opts := &draftOptions{}
	cmd := &cobra.Command{
		Use:   "draft [idea-file]",
		Short: "Split an idea file into numbered drafts",
		Long:  "Reads an idea file from docs/ideas/ and writes one draft per topic. With a single idea file the argument may be omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.fail(runDraft(cmd, e, opts, args))
		},
	}
	cmd.Flags().StringVarP(&opts.stage, "stage", "s", "ideas", "Draft stage to write: ideas or rules")
	cmd.Flags().BoolVar(&opts.clean, "clean", false, "Remove existing drafts at the target stage first")
	return cmd
}

func runDraft(cmd *cobra.Command, e *env, opts *draftOptions, args []string) error {
	stage, err := workflow.ParseStage(opts.stage)
	if err != nil {
		return err
	}
	if !stage.IsDraft() {
		return fmt.Errorf("--stage must be ideas or rules, got %q", opts.stage)
	}
	wf := e.config.Workflow()
	if err := wf.Initialize(); err != nil {
		return err
	}
	ideas, err := wf.List(workflow.StageIdea)
	if err != nil {
		return err
	}

	var idea string
	switch {
	case len(args) == 1:
		idea = filepath.Base(args[0])
	case len(ideas) == 1:
		idea = ideas[0]
	case len(ideas) == 0:
		return fmt.Errorf("no idea files in %s/", filepath.ToSlash(workflow.RelDir(workflow.StageIdea)))
	default:
		return fmt.Errorf("several idea files found, pick one: %s", strings.Join(ideas, ", "))
	}

	if opts.clean {
		if err := wf.Clear(stage); err != nil {
			return err
		}
	}
	promoter := drafts.New(e.projectDir, drafts.WithReporter(e.reporter))
	result, err := promoter.GenerateDrafts(cmd.Context(), drafts.GenerateRequest{IdeaFile: idea, Stage: stage})
	if errors.Is(err, drafts.ErrIdeaNotFound) {
		return unknownName("idea file", idea, ideas)
	}
	if err != nil {
		return err
	}
	if result.DraftsGenerated > 0 {
		e.reporter.Info("Next: review the drafts, then run `airul %s`", nextCommand(stage))
	}
	return nil
}

func nextCommand(stage workflow.Stage) string {
	if stage == workflow.StageIdeasDraft {
		return "approve"
	}
	return "build"
}
