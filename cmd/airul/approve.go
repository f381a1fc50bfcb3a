package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kingrea/airul/internal/drafts"
	"github.com/kingrea/airul/internal/workflow"
)

func newApproveCmd(e *env) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "approve [draft-file]",
		Short: "Promote implementation drafts to rule drafts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.fail(runApprove(cmd, e, workflow.StageIdeasDraft, keep, args))
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "Keep existing rule drafts instead of replacing them")
	return cmd
}

func newBuildCmd(e *env) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "build [draft-file]",
		Short: "Compile rule drafts into .mdc rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.fail(runApprove(cmd, e, workflow.StageRulesDraft, keep, args))
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "Keep existing rules instead of replacing them")
	return cmd
}

// runApprove promotes drafts from source one stage forward. Promoting a
// whole stage replaces what the target stage held unless keep is set.
func runApprove(cmd *cobra.Command, e *env, source workflow.Stage, keep bool, args []string) error {
	wf := e.config.Workflow()
	if err := wf.Initialize(); err != nil {
		return err
	}
	req := drafts.ApproveRequest{Source: source}
	if len(args) == 1 {
		req.DraftFile = filepath.Base(args[0])
		if !wf.Exists(source, req.DraftFile) {
			known, err := wf.List(source)
			if err != nil {
				return err
			}
			return unknownName("draft", req.DraftFile, known)
		}
	} else if !keep {
		if err := wf.Clear(source.Next()); err != nil {
			return err
		}
	}

	promoter := drafts.New(e.projectDir, drafts.WithReporter(e.reporter))
	result, err := promoter.ApproveDrafts(cmd.Context(), req)
	if err != nil {
		return err
	}
	if result.RulesGenerated == 0 {
		return fmt.Errorf("nothing to promote in %s/", filepath.ToSlash(workflow.RelDir(source)))
	}
	if source == workflow.StageIdeasDraft {
		e.reporter.Info("Next: review the rule drafts, then run `airul build`")
	}
	return nil
}
