package main

import (
	"github.com/spf13/cobra"

	"github.com/kingrea/airul/internal/tui"
)

func newStartCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Open the interactive start screen",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return e.fail(tui.Run(e.projectDir))
		},
	}
}
