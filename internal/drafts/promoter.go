// Package drafts moves content forward through the draft lifecycle: idea
// files become implementation drafts, implementation drafts become rule
// drafts and rule drafts are compiled into final rules.
package drafts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kingrea/airul/internal/artifact"
	"github.com/kingrea/airul/internal/classify"
	"github.com/kingrea/airul/internal/progress"
	"github.com/kingrea/airul/internal/rules"
	"github.com/kingrea/airul/internal/workflow"
)

// ErrIdeaNotFound is returned when the named idea file does not exist.
var ErrIdeaNotFound = errors.New("drafts: idea file not found")

// Topic used for every implementation draft promoted to a rule draft.
const (
	PromotedTitle       = "Core Features"
	PromotedDescription = "Core features and functionality"
)

// Promoter runs the promotion edges for one project.
type Promoter struct {
	workflow *workflow.Workflow
	store    *artifact.Store
	emitter  *Emitter
	compiler *rules.Compiler
	reporter progress.Reporter
}

// Option customizes a Promoter.
type Option func(*promoterConfig)

type promoterConfig struct {
	reporter progress.Reporter
	clock    func() time.Time
}

// WithReporter sets the observer progress is reported to.
func WithReporter(reporter progress.Reporter) Option {
	return func(c *promoterConfig) {
		c.reporter = reporter
	}
}

// WithClock overrides the clock used for last_updated stamps.
func WithClock(clock func() time.Time) Option {
	return func(c *promoterConfig) {
		c.clock = clock
	}
}

// New builds a promoter for the project rooted at baseDir.
func New(baseDir string, opts ...Option) *Promoter {
	cfg := promoterConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	reporter := progress.OrNop(cfg.reporter)
	wf := workflow.New(baseDir)
	store := artifact.NewStore(wf, artifact.WithClock(cfg.clock))
	return &Promoter{
		workflow: wf,
		store:    store,
		emitter:  NewEmitter(store),
		compiler: rules.NewCompiler(store, reporter),
		reporter: reporter,
	}
}

// Workflow returns the directory layout the promoter works in.
func (p *Promoter) Workflow() *workflow.Workflow {
	return p.workflow
}

// GenerateRequest selects the idea file to draft from.
type GenerateRequest struct {
	IdeaFile string
	// Stage is the draft stage to emit into; ideas-draft when empty.
	Stage workflow.Stage
}

// GenerateResult summarizes a GenerateDrafts pass.
type GenerateResult struct {
	DraftsGenerated int
	Stage           workflow.Stage
	Files           []string
	NeedsExpansion  bool
}

// GenerateDrafts reads one idea file and emits a draft per topic. A missing
// idea file is an error wrapping ErrIdeaNotFound.
func (p *Promoter) GenerateDrafts(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	stage := req.Stage
	if stage == "" {
		stage = workflow.StageIdeasDraft
	}
	if !stage.IsDraft() {
		return GenerateResult{}, fmt.Errorf("drafts: cannot generate into %s", stage)
	}
	result := GenerateResult{Stage: stage}
	if err := p.workflow.Initialize(); err != nil {
		return result, err
	}

	raw, err := os.ReadFile(p.workflow.Path(workflow.StageIdea, req.IdeaFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("%w: %s", ErrIdeaNotFound, req.IdeaFile)
		}
		return result, fmt.Errorf("drafts: read idea %s: %w", req.IdeaFile, err)
	}
	text := artifact.NormalizeNewlines(string(raw))
	if strings.TrimSpace(text) == "" {
		p.reporter.Warn("Idea file %s is empty, nothing to draft", req.IdeaFile)
		return result, nil
	}

	p.reporter.Info("Analyzing %s", req.IdeaFile)
	var units []classify.TopicUnit
	if classify.IsSimple(text) {
		units = []classify.TopicUnit{classify.SingleTopic(text)}
		result.NeedsExpansion = classify.NeedsExpansion(text)
	} else {
		analysis := classify.Classify(text)
		units = analysis.Units
		result.NeedsExpansion = analysis.NeedsExpansion
	}
	if result.NeedsExpansion {
		p.reporter.Info("Idea needs expansion, generating a structured outline")
	}

	for i, unit := range units {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		name, err := p.emitter.Emit(unit, i, req.IdeaFile, stage)
		if err != nil {
			p.reporter.Warn("%v", err)
			continue
		}
		result.Files = append(result.Files, name)
		result.DraftsGenerated++
		p.reporter.Info("Created: %s in %s/", name, filepath.ToSlash(workflow.RelDir(stage)))
	}
	p.reporter.Info("Generated %d drafts in %s/", result.DraftsGenerated, filepath.ToSlash(workflow.RelDir(stage)))
	return result, nil
}

// ApproveRequest selects the drafts to promote.
type ApproveRequest struct {
	// DraftFile limits the pass to one draft; every draft when empty.
	DraftFile string
	// Source is ideas-draft or rules-draft; rules-draft when empty.
	Source workflow.Stage
}

// ApproveResult summarizes an ApproveDrafts pass.
type ApproveResult struct {
	RulesGenerated int
	Stage          workflow.Stage
}

// ApproveDrafts promotes drafts one stage forward. A named draft that does
// not exist, or a source stage without drafts, yields a zero count and no
// error.
func (p *Promoter) ApproveDrafts(ctx context.Context, req ApproveRequest) (ApproveResult, error) {
	source := req.Source
	if source == "" {
		source = workflow.StageRulesDraft
	}
	if !source.IsDraft() {
		return ApproveResult{}, fmt.Errorf("drafts: cannot approve from %s", source)
	}
	result := ApproveResult{Stage: source.Next()}
	if err := p.workflow.Initialize(); err != nil {
		return result, err
	}

	files, err := p.sourceFiles(source, req.DraftFile)
	if err != nil || len(files) == 0 {
		return result, err
	}
	p.reporter.Info("Found %d draft files to process", len(files))

	if source == workflow.StageIdeasDraft {
		return p.promoteIdeas(ctx, files)
	}

	paths := make([]string, 0, len(files))
	for _, name := range files {
		paths = append(paths, p.workflow.Path(source, name))
	}
	count, err := p.compiler.Compile(ctx, paths)
	result.RulesGenerated = count
	if err != nil {
		return result, err
	}
	p.reporter.Info("Generated %d MDC rules", count)
	return result, nil
}

func (p *Promoter) sourceFiles(source workflow.Stage, draftFile string) ([]string, error) {
	if draftFile != "" {
		if !p.workflow.Exists(source, draftFile) {
			p.reporter.Info("File not found: %s", p.workflow.Path(source, draftFile))
			return nil, nil
		}
		return []string{draftFile}, nil
	}
	files, err := p.workflow.List(source)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		p.reporter.Info("No draft files found in %s/", filepath.ToSlash(workflow.RelDir(source)))
	}
	return files, nil
}

// promoteIdeas re-wraps each implementation draft as a Core Features rule
// draft. The output number follows the source draft's position so drafts in
// one batch never overwrite each other.
func (p *Promoter) promoteIdeas(ctx context.Context, files []string) (ApproveResult, error) {
	result := ApproveResult{Stage: workflow.StageRulesDraft}
	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		record, err := p.store.ReadDraft(workflow.StageIdeasDraft, name)
		if err != nil {
			p.reporter.Warn("skipping %s: %v", name, err)
			continue
		}
		p.reporter.Info("Processing: %s", name)
		out := FileName(i, PromotedTitle)
		_, err = p.store.WriteDraft(workflow.StageRulesDraft, out, artifact.DraftRecord{
			Title:       PromotedTitle,
			Description: PromotedDescription,
			Content:     record.Content,
		})
		if err != nil {
			p.reporter.Warn("skipping %s: %v", name, err)
			continue
		}
		p.reporter.Info("Created: %s", out)
	}
	drafts, err := p.workflow.List(workflow.StageRulesDraft)
	if err != nil {
		return result, err
	}
	result.RulesGenerated = len(drafts)
	p.reporter.Info("Created %d rule drafts", result.RulesGenerated)
	return result, nil
}
