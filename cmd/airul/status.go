package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/airul/internal/workflow"
)

func newStatusCmd(e *env) *cobra.Command {
	var tail int
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show how far the project has progressed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := e.config.Workflow().Detect()
			if err != nil {
				return e.fail(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status: %s\n", status.Label())
			fmt.Fprintf(out, "Next:   %s\n", status.NextStep())
			for _, stage := range workflow.Stages() {
				fmt.Fprintf(out, "  %-22s %3d  %s/\n", stage.FriendlyName(), status.Counts[stage], workflow.RelDir(stage))
			}
			if e.journal == nil || tail <= 0 {
				return nil
			}
			lines, total := e.journal.Tail(tail)
			if total == 0 {
				return nil
			}
			fmt.Fprintf(out, "\nJournal (%d of %d):\n", len(lines), total)
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&tail, "log", "n", 5, "Journal entries to show")
	return cmd
}
