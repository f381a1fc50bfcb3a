package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kingrea/airul/internal/workflow"
)

// Store manages artifact IO rooted at the workflow directory.
type Store struct {
	workflow *workflow.Workflow
	now      func() time.Time
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the clock used for last_updated stamps.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewStore builds a store for a workflow.
func NewStore(wf *workflow.Workflow, opts ...StoreOption) *Store {
	store := &Store{
		workflow: wf,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Workflow exposes the directory layout the store writes into.
func (s *Store) Workflow() *workflow.Workflow {
	return s.workflow
}

// Today returns the current date in DateLayout.
func (s *Store) Today() string {
	return s.now().Format(DateLayout)
}

// WriteDraft fills in status, version and date when unset, validates the
// record and writes it under the stage directory. An existing file with the
// same name is overwritten.
func (s *Store) WriteDraft(stage workflow.Stage, name string, record DraftRecord) (string, error) {
	if !stage.IsDraft() {
		return "", fmt.Errorf("artifact: %s is not a draft stage", stage)
	}
	if record.Status == "" {
		record.Status = StatusDraft
	}
	if record.Version == 0 {
		record.Version = 1
	}
	if record.LastUpdated == "" {
		record.LastUpdated = s.Today()
	}
	if err := record.Validate(); err != nil {
		return "", err
	}
	data, err := EncodeDraft(record)
	if err != nil {
		return "", err
	}
	path := s.workflow.Path(stage, name)
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ReadDraft loads a draft from a stage directory.
func (s *Store) ReadDraft(stage workflow.Stage, name string) (DraftRecord, error) {
	data, err := os.ReadFile(s.workflow.Path(stage, name))
	if err != nil {
		return DraftRecord{}, fmt.Errorf("artifact: read draft %s: %w", name, err)
	}
	record, err := DecodeDraft(data)
	if err != nil {
		return DraftRecord{}, fmt.Errorf("artifact: %s: %w", name, err)
	}
	record.Stage = stage
	return record, nil
}

// WriteRule renders a rule into the final rules directory.
func (s *Store) WriteRule(rule RuleArtifact) (string, error) {
	data, err := WriteFrontMatter(rule)
	if err != nil {
		return "", err
	}
	path := s.workflow.Path(workflow.StageFinalRule, rule.FileName())
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ReadRule parses a compiled rule by name.
func (s *Store) ReadRule(name string) (RuleArtifact, error) {
	data, err := os.ReadFile(s.workflow.Path(workflow.StageFinalRule, name+workflow.RuleExt))
	if err != nil {
		return RuleArtifact{}, fmt.Errorf("artifact: read rule %s: %w", name, err)
	}
	return ParseFrontMatter(data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: ensure dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", filepath.Base(path), err)
	}
	return nil
}
