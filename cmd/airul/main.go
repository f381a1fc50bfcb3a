// cmd/airul/main.go
//
// This is the entry point for the airul CLI.
// Running `airul` with no subcommand opens the interactive start screen;
// each subcommand runs one lifecycle step non-interactively:
//
//	idea -> draft -> approve -> build
//
// and `generate` aggregates the configured sources into editor context files.

package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kingrea/airul/internal/config"
	"github.com/kingrea/airul/internal/logbook"
	"github.com/kingrea/airul/internal/logging"
	"github.com/kingrea/airul/internal/progress"
	"github.com/kingrea/airul/internal/tui"
)

// env is the per-invocation state every subcommand shares.
type env struct {
	projectDir string
	config     *config.Config
	logger     *logging.Logger
	journal    *logbook.Logbook
	reporter   progress.Reporter
	runID      string
}

type rootOptions struct {
	dir     string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	e := &env{}
	root := &cobra.Command{
		Use:           "airul",
		Short:         "Turn project ideas into AI editor rules",
		Long:          "airul promotes free-form idea files through implementation drafts and rule drafts into .mdc rules, and aggregates documentation into editor context files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd, opts)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.logger.Sync()
		},
		RunE: func(*cobra.Command, []string) error {
			return tui.Run(e.projectDir)
		},
	}
	root.PersistentFlags().StringVarP(&opts.dir, "dir", "C", "", "Project directory (default: $AIRUL_PROJECT_DIR or the working directory)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log diagnostics to stderr")

	root.AddCommand(
		newStartCmd(e),
		newInitCmd(e),
		newDraftCmd(e),
		newApproveCmd(e),
		newBuildCmd(e),
		newGenerateCmd(e),
		newStatusCmd(e),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command, opts *rootOptions) error {
	dir := opts.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		dir = config.ResolveProjectDir(cwd)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	logger, err := logging.New(opts.verbose)
	if err != nil {
		return err
	}
	e.projectDir = dir
	e.config = cfg
	e.runID = uuid.NewString()
	e.logger = logger.With("run_id", e.runID, "command", cmd.Name())
	e.logger.Debug("project loaded", "dir", dir, "sources", len(cfg.Project.Sources))

	if journal, err := logbook.New(cfg.JournalPath(), logbook.WithRun(e.runID[:8])); err == nil {
		e.journal = journal
	} else {
		e.logger.Debug("journal unavailable", "error", err)
	}

	reporters := []progress.Reporter{newConsole(cmd.OutOrStdout(), cmd.ErrOrStderr())}
	if e.journal != nil {
		reporters = append(reporters, e.journal)
	}
	if opts.verbose {
		reporters = append(reporters, e.logger)
	}
	e.reporter = progress.Multi(reporters...)
	return nil
}

// fail records a command error in the journal before it is printed.
func (e *env) fail(err error) error {
	if err == nil {
		return nil
	}
	e.logger.Error("command failed", "error", err)
	if e.journal != nil {
		e.journal.Error("%v", err)
	}
	return err
}

// console prints progress for humans: info to stdout, warnings to stderr.
// It is safe for concurrent use.
type console struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

func newConsole(out, errOut io.Writer) *console {
	return &console{out: out, err: errOut}
}

func (c *console) Info(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *console) Warn(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.err, "Warning: "+format+"\n", args...)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
