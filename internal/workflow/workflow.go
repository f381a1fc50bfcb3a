// internal/workflow/workflow.go
//
// Defines the lifecycle directory structure.
// Every stage lives in its own directory under the project root so that
// drafts stay reviewable and git-trackable between runs.

package workflow

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Directory names relative to the project root
const (
	DocsDir       = "docs"
	IdeasDir      = "ideas"
	IdeasDraftDir = "ideas-draft"
	RulesDraftDir = "rules-draft"
	CursorDir     = ".cursor"
	RulesDir      = "rules"
)

// File extensions per stage
const (
	DraftExt = ".yaml"
	RuleExt  = ".mdc"
)

// Workflow maps lifecycle stages onto directories of one project.
type Workflow struct {
	baseDir string
}

// New creates a Workflow rooted at the project directory.
func New(baseDir string) *Workflow {
	return &Workflow{baseDir: baseDir}
}

// BaseDir returns the project root.
func (w *Workflow) BaseDir() string {
	return w.baseDir
}

// Dir returns the directory holding records of the given stage.
func (w *Workflow) Dir(stage Stage) string {
	return filepath.Join(w.baseDir, RelDir(stage))
}

// RelDir returns the stage directory relative to the project root.
func RelDir(stage Stage) string {
	switch stage {
	case StageIdea:
		return filepath.Join(DocsDir, IdeasDir)
	case StageIdeasDraft:
		return filepath.Join(DocsDir, IdeasDraftDir)
	case StageRulesDraft:
		return filepath.Join(DocsDir, RulesDraftDir)
	case StageFinalRule:
		return filepath.Join(CursorDir, RulesDir)
	default:
		return ""
	}
}

// Path joins a file name onto the stage directory.
func (w *Workflow) Path(stage Stage, name string) string {
	return filepath.Join(w.Dir(stage), name)
}

// Initialize creates every stage directory. Existing directories are kept.
func (w *Workflow) Initialize() error {
	for _, stage := range stageOrder {
		if err := os.MkdirAll(w.Dir(stage), 0o755); err != nil {
			return fmt.Errorf("workflow: ensure %s dir: %w", stage, err)
		}
	}
	return nil
}

// List returns the sorted file names stored at a stage. Draft stages only
// report .yaml files and the final stage only .mdc files; idea files may have
// any name. A missing directory yields an empty list.
func (w *Workflow) List(stage Stage) ([]string, error) {
	entries, err := os.ReadDir(w.Dir(stage))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("workflow: list %s: %w", stage, err)
	}
	ext := stageExt(stage)
	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if ext != "" && !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a named file is present at a stage.
func (w *Workflow) Exists(stage Stage, name string) bool {
	info, err := os.Stat(w.Path(stage, name))
	return err == nil && !info.IsDir()
}

// Clear removes every file stored at a stage. Idea files are author-owned
// and can never be cleared.
func (w *Workflow) Clear(stage Stage) error {
	if stage == StageIdea {
		return fmt.Errorf("workflow: refusing to clear %s", stage)
	}
	dir := w.Dir(stage)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("workflow: clear %s: %w", stage, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("workflow: clear %s: %w", stage, err)
		}
	}
	return nil
}

// Detect counts the files of every stage.
func (w *Workflow) Detect() (Status, error) {
	status := Status{Counts: map[Stage]int{}, Stage: StageIdea}
	for _, stage := range stageOrder {
		names, err := w.List(stage)
		if err != nil {
			return Status{}, err
		}
		status.Counts[stage] = len(names)
		if len(names) > 0 {
			status.Stage = stage
		}
	}
	return status, nil
}

func stageExt(stage Stage) string {
	switch stage {
	case StageIdeasDraft, StageRulesDraft:
		return DraftExt
	case StageFinalRule:
		return RuleExt
	default:
		return ""
	}
}
