// Package rules compiles drafts and documentation files into .mdc rules and
// aggregates configured sources into single-file context outputs.
package rules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kingrea/airul/internal/artifact"
	"github.com/kingrea/airul/internal/progress"
)

// maxParallelWrites bounds the goroutines a batch uses.
const maxParallelWrites = 8

// Compiler turns source files into final rules.
type Compiler struct {
	store    *artifact.Store
	reporter progress.Reporter
}

// NewCompiler builds a compiler writing through store.
func NewCompiler(store *artifact.Store, reporter progress.Reporter) *Compiler {
	return &Compiler{store: store, reporter: progress.OrNop(reporter)}
}

// RuleName returns the artifact name for a source file: its base name with
// the extension removed and any numeric prefix kept. Dot files such as
// .cursorrules have no extension and keep their whole name.
func RuleName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Build converts one source into a rule. It never fails: input that is not a
// draft becomes the rule body as-is.
func Build(path string, raw []byte) artifact.RuleArtifact {
	name := RuleName(path)
	source := artifact.ExtractRuleSource(raw)
	_, globs := InferGlobs(name, string(raw))
	return artifact.RuleArtifact{
		Name:        name,
		Description: source.Description,
		Version:     artifact.RuleVersion,
		Globs:       globs,
		Triggers:    artifact.DefaultTriggers,
		Content:     source.Content,
	}
}

// Compile writes one rule per path. Relative paths are resolved against the
// project root. Files that cannot be read or written are reported and
// skipped; the returned count covers the rules written once every write has
// finished.
func (c *Compiler) Compile(ctx context.Context, paths []string) (int, error) {
	var written atomic.Int64
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallelWrites)
	for _, path := range paths {
		path := path
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.compileFile(path); err != nil {
				c.reporter.Warn("skipping %s: %v", path, err)
				return nil
			}
			written.Add(1)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return int(written.Load()), fmt.Errorf("rules: compile: %w", err)
	}
	return int(written.Load()), nil
}

func (c *Compiler) compileFile(path string) error {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(c.store.Workflow().BaseDir(), path)
	}
	raw, err := os.ReadFile(full)
	if err != nil {
		return err
	}
	rule := Build(path, raw)
	if _, err := c.store.WriteRule(rule); err != nil {
		return err
	}
	c.reporter.Info("Created: %s", rule.FileName())
	return nil
}
