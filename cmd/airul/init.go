package main

import (
	"github.com/spf13/cobra"

	"github.com/kingrea/airul/internal/config"
)

func newInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .airul.json and the lifecycle directories",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := config.InitProjectDirs(e.projectDir); err != nil {
				return e.fail(err)
			}
			written, err := config.WriteDefault(e.projectDir)
			if err != nil {
				return e.fail(err)
			}
			if written {
				e.reporter.Info("Created %s", config.FileName)
			} else {
				e.reporter.Info("%s already exists, leaving it untouched", config.FileName)
			}
			e.reporter.Info("Put idea files in docs/ideas/ and run `airul draft`")
			return nil
		},
	}
}
