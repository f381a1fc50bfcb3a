package rules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kingrea/airul/internal/artifact"
	"github.com/kingrea/airul/internal/config"
	"github.com/kingrea/airul/internal/progress"
	"github.com/kingrea/airul/internal/workflow"
)

// DefaultSeparator joins aggregated sources when the template sets none.
const DefaultSeparator = "\n---\n"

// Output file names relative to the project root.
const (
	WindsurfFile = ".windsurfrules"
	CursorFile   = ".cursorrules"
	ClineFile    = ".clinerules"
	CopilotFile  = ".github/copilot-instructions.md"
)

const introTemplate = "This is a context for AI editor/agent about the project. " +
	"It's generated with a tool Airul (https://airul.dev) out of %d sources. " +
	"Feel free to edit .airul.json to change the sources and configure editors. " +
	"Run `airul gen` to update the context after making changes to .airul.json or the sources."

// AggregateOptions tunes an Aggregate pass.
type AggregateOptions struct {
	// CompileRules also writes one .mdc rule per resolved source.
	CompileRules bool
}

// AggregateResult lists what an Aggregate pass produced.
type AggregateResult struct {
	Generated     bool
	Sources       []string
	Outputs       []string
	RulesCompiled int
}

// Aggregate concatenates the configured sources into every enabled
// single-file output. Generated is false when no source has content.
func Aggregate(ctx context.Context, cfg *config.Config, opts AggregateOptions, reporter progress.Reporter) (AggregateResult, error) {
	reporter = progress.OrNop(reporter)
	var result AggregateResult
	if cfg == nil {
		return result, fmt.Errorf("rules: aggregate: nil config")
	}

	files, err := ResolveSources(cfg.ProjectDir, cfg.Project.Sources, reporter)
	if err != nil {
		return result, err
	}
	if len(files) == 0 {
		reporter.Warn("No source files found")
		return result, nil
	}

	template := cfg.Project.Template
	var sections []string
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		data, err := os.ReadFile(sourcePath(cfg.ProjectDir, rel))
		if err != nil {
			reporter.Warn("Error reading %s: %v", rel, err)
			continue
		}
		content := strings.TrimSpace(artifact.NormalizeNewlines(string(data)))
		if content == "" {
			reporter.Warn("Source %s is empty, skipping", rel)
			continue
		}
		sections = append(sections, fileHeader(template, rel)+"\n\n"+content)
		result.Sources = append(result.Sources, rel)
	}
	if len(sections) == 0 {
		reporter.Warn("No valid content found in source files")
		return result, nil
	}

	separator := template.Separator
	if separator == "" {
		separator = DefaultSeparator
	}
	body := fmt.Sprintf(introTemplate, len(sections)) + "\n\n" + strings.Join(sections, separator+"\n")

	for _, target := range outputTargets(cfg.Project.Output) {
		full := filepath.Join(cfg.ProjectDir, target)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return result, fmt.Errorf("rules: ensure dir for %s: %w", target, err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			return result, fmt.Errorf("rules: write %s: %w", target, err)
		}
		result.Outputs = append(result.Outputs, target)
		reporter.Info("Wrote %s", target)
	}
	result.Generated = true

	if opts.CompileRules {
		store := artifact.NewStore(cfg.Workflow())
		count, err := NewCompiler(store, reporter).Compile(ctx, compilable(result.Sources))
		result.RulesCompiled = count
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func fileHeader(template config.Template, rel string) string {
	if template.FileHeader != "" {
		return strings.ReplaceAll(template.FileHeader, "{fileName}", rel)
	}
	return "# From " + rel + ":"
}

func outputTargets(out config.Output) []string {
	var targets []string
	if out.Windsurf {
		targets = append(targets, WindsurfFile)
	}
	if out.Cursor {
		targets = append(targets, CursorFile)
	}
	if out.Cline {
		targets = append(targets, ClineFile)
	}
	if out.Copilot {
		targets = append(targets, CopilotFile)
	}
	if out.CustomPath != "" {
		targets = append(targets, filepath.ToSlash(out.CustomPath))
	}
	return targets
}

// compilable drops sources that already are compiled rules.
func compilable(sources []string) []string {
	rulesDir := filepath.ToSlash(workflow.RelDir(workflow.StageFinalRule)) + "/"
	var out []string
	for _, rel := range sources {
		if strings.HasPrefix(rel, rulesDir) && strings.HasSuffix(rel, workflow.RuleExt) {
			continue
		}
		out = append(out, rel)
	}
	return out
}
