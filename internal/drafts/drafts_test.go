package drafts

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/airul/internal/artifact"
	"github.com/kingrea/airul/internal/classify"
	"github.com/kingrea/airul/internal/progress"
	"github.com/kingrea/airul/internal/rules"
	"github.com/kingrea/airul/internal/workflow"
)

func fixedClock() time.Time {
	return time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)
}

func newPromoter(t *testing.T) (*Promoter, *progress.Recorder) {
	t.Helper()
	rec := &progress.Recorder{}
	return New(t.TempDir(), WithReporter(rec), WithClock(fixedClock)), rec
}

func writeIdea(t *testing.T, p *Promoter, name, text string) {
	t.Helper()
	require.NoError(t, p.Workflow().Initialize())
	require.NoError(t, os.WriteFile(p.Workflow().Path(workflow.StageIdea, name), []byte(text), 0o644))
}

func TestSequenceNumbersStepByHundred(t *testing.T) {
	assert.Equal(t, "100", SequenceNumber(0))
	assert.Equal(t, "200", SequenceNumber(1))
	assert.Equal(t, "1000", SequenceNumber(9))
	assert.Equal(t, "300-data-management.yaml", FileName(2, "Data Management"))
	assert.Equal(t, "100-hello-world.yaml", FileName(0, "Hello, World!"))
	assert.Equal(t, "100-draft.yaml", FileName(0, "***"))
}

func TestInferTitleAndDescription(t *testing.T) {
	assert.Equal(t, "Deployment", InferTitle("# Deployment notes\nship it", workflow.StageIdeasDraft))
	assert.Equal(t, "Deployment and runtime requirements", InferDescription("# Deployment notes\nship it", workflow.StageIdeasDraft))
	assert.Equal(t, "My heading", InferTitle("\n\n## My heading\nbody", workflow.StageIdeasDraft))
	assert.Equal(t, DefaultDescription, InferDescription("## My heading\nbody", workflow.StageIdeasDraft))

	text := "# Commands\nWe should implement a sync command."
	assert.Equal(t, "Core Components", InferTitle(text, workflow.StageRulesDraft))
	assert.Equal(t, "Core implementation requirements", InferDescription(text, workflow.StageRulesDraft))

	text = "# Storage\nIt will use a database for state."
	assert.Equal(t, "Data Management", InferTitle(text, workflow.StageRulesDraft))
	assert.Equal(t, "Database specifications", InferDescription(text, workflow.StageRulesDraft))
}

func TestAppNameAndCleanContent(t *testing.T) {
	assert.Equal(t, "todo app", AppName("todo-app.md"))
	assert.Equal(t, "my notes", AppName("my_notes.txt"))
	assert.Equal(t, "a\nb", CleanContent("  a  \n\n\t\n b\r\n"))
}

func TestGenerateDraftsMissingIdea(t *testing.T) {
	p, _ := newPromoter(t)
	_, err := p.GenerateDrafts(context.Background(), GenerateRequest{IdeaFile: "nope.md"})
	assert.ErrorIs(t, err, ErrIdeaNotFound)
	for _, stage := range workflow.Stages() {
		info, statErr := os.Stat(p.Workflow().Dir(stage))
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
	}
}

func TestGenerateDraftsTodoScenario(t *testing.T) {
	p, _ := newPromoter(t)
	writeIdea(t, p, "notes.txt", "build me a todo app with user login and a postgres database")

	result, err := p.GenerateDrafts(context.Background(), GenerateRequest{IdeaFile: "notes.txt"})
	require.NoError(t, err)
	assert.True(t, result.NeedsExpansion)
	require.Equal(t, 1, result.DraftsGenerated)
	assert.Equal(t, []string{"100-core-features.yaml"}, result.Files)

	record, err := p.store.ReadDraft(workflow.StageIdeasDraft, "100-core-features.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Core Features", record.Title)
	assert.Equal(t, "Core features and functionality for the notes application", record.Description)
	assert.Equal(t, "2025-01-02", record.LastUpdated)
	assert.Contains(t, record.Content, "- User authentication and profiles")
	assert.Contains(t, record.Content, "- SQL database for structured data")
}

func TestGenerateDraftsNumbersTopicsInOrder(t *testing.T) {
	p, _ := newPromoter(t)
	idea := strings.Join([]string{
		"# Frontend Design",
		"## Pages",
		"A dashboard and a settings page.",
		"# Deployment",
		"Runs in a container.",
		"# Maintenance",
		"Weekly dependency bumps.",
	}, "\n")
	writeIdea(t, p, "dashboard.md", idea)

	result, err := p.GenerateDrafts(context.Background(), GenerateRequest{IdeaFile: "dashboard.md"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"100-frontend-design.yaml",
		"200-deployment.yaml",
		"300-maintenance.yaml",
	}, result.Files)

	names, err := p.Workflow().List(workflow.StageIdeasDraft)
	require.NoError(t, err)
	assert.Equal(t, result.Files, names)
}

func TestGenerateDraftsIsRepeatable(t *testing.T) {
	p, _ := newPromoter(t)
	writeIdea(t, p, "idea.md", "# Storage\nWe'll use sqlite.\n# Sync\nThe daemon should sync nightly.\nThe daemon needs a lock.")

	read := func() map[string]string {
		out := map[string]string{}
		names, err := p.Workflow().List(workflow.StageIdeasDraft)
		require.NoError(t, err)
		for _, name := range names {
			data, err := os.ReadFile(p.Workflow().Path(workflow.StageIdeasDraft, name))
			require.NoError(t, err)
			out[name] = string(data)
		}
		return out
	}

	_, err := p.GenerateDrafts(context.Background(), GenerateRequest{IdeaFile: "idea.md"})
	require.NoError(t, err)
	first := read()
	require.NotEmpty(t, first)

	require.NoError(t, p.Workflow().Clear(workflow.StageIdeasDraft))
	_, err = p.GenerateDrafts(context.Background(), GenerateRequest{IdeaFile: "idea.md"})
	require.NoError(t, err)
	assert.Equal(t, first, read())
}

func TestGenerateDraftsIntoRulesStage(t *testing.T) {
	p, _ := newPromoter(t)
	writeIdea(t, p, "cli.md", "# Commands\nWe should implement a sync command.\nThe CLI should support commands for export.\n## Notes\nKeep it small.")

	result, err := p.GenerateDrafts(context.Background(), GenerateRequest{IdeaFile: "cli.md", Stage: workflow.StageRulesDraft})
	require.NoError(t, err)
	assert.Equal(t, workflow.StageRulesDraft, result.Stage)
	assert.Equal(t, []string{"100-core-components.yaml", "200-user-commands.yaml"}, result.Files)

	_, err = p.GenerateDrafts(context.Background(), GenerateRequest{IdeaFile: "cli.md", Stage: workflow.StageFinalRule})
	assert.Error(t, err)
}

func TestApproveMissingOrEmptyIsZero(t *testing.T) {
	p, rec := newPromoter(t)
	result, err := p.ApproveDrafts(context.Background(), ApproveRequest{DraftFile: "999-missing.yaml"})
	require.NoError(t, err)
	assert.Zero(t, result.RulesGenerated)

	result, err = p.ApproveDrafts(context.Background(), ApproveRequest{Source: workflow.StageIdeasDraft})
	require.NoError(t, err)
	assert.Zero(t, result.RulesGenerated)
	assert.NotEmpty(t, rec.Infos())
}

func TestApproveIdeasKeepsEveryDraft(t *testing.T) {
	p, _ := newPromoter(t)
	require.NoError(t, p.Workflow().Initialize())
	for i, content := range []string{"first topic", "second topic", "third topic"} {
		_, err := p.store.WriteDraft(workflow.StageIdeasDraft, FileName(i, content), artifact.DraftRecord{
			Title:   content,
			Content: content,
		})
		require.NoError(t, err)
	}

	result, err := p.ApproveDrafts(context.Background(), ApproveRequest{Source: workflow.StageIdeasDraft})
	require.NoError(t, err)
	assert.Equal(t, 3, result.RulesGenerated)

	names, err := p.Workflow().List(workflow.StageRulesDraft)
	require.NoError(t, err)
	assert.Equal(t, []string{"100-core-features.yaml", "200-core-features.yaml", "300-core-features.yaml"}, names)

	record, err := p.store.ReadDraft(workflow.StageRulesDraft, "200-core-features.yaml")
	require.NoError(t, err)
	assert.Equal(t, "second topic", record.Content)
	assert.Equal(t, PromotedDescription, record.Description)
}

func TestApproveIdeasSkipsUnparseableDrafts(t *testing.T) {
	p, rec := newPromoter(t)
	require.NoError(t, p.Workflow().Initialize())
	require.NoError(t, os.WriteFile(p.Workflow().Path(workflow.StageIdeasDraft, "100-bad.yaml"), []byte("- not\n- a draft\n"), 0o644))
	_, err := p.store.WriteDraft(workflow.StageIdeasDraft, "200-good.yaml", artifact.DraftRecord{Title: "Good", Content: "ok"})
	require.NoError(t, err)

	result, err := p.ApproveDrafts(context.Background(), ApproveRequest{Source: workflow.StageIdeasDraft})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RulesGenerated)
	assert.Len(t, rec.Warnings(), 1)
	assert.True(t, p.Workflow().Exists(workflow.StageRulesDraft, "200-core-features.yaml"))
}

func TestIdeasToFinalRuleUsesCoreFeatureGlobs(t *testing.T) {
	p, _ := newPromoter(t)
	require.NoError(t, p.Workflow().Initialize())
	_, err := p.store.WriteDraft(workflow.StageIdeasDraft, "100-core-features.yaml", artifact.DraftRecord{
		Title:       "Core Features",
		Description: "Core features and functionality for the notes application",
		Content:     "Keep a list of notes.\nEach note has a title.",
	})
	require.NoError(t, err)

	_, err = p.ApproveDrafts(context.Background(), ApproveRequest{Source: workflow.StageIdeasDraft})
	require.NoError(t, err)
	result, err := p.ApproveDrafts(context.Background(), ApproveRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RulesGenerated)
	assert.Equal(t, workflow.StageFinalRule, result.Stage)

	rule, err := p.store.ReadRule("100-core-features")
	require.NoError(t, err)
	assert.Equal(t, rules.GlobsFor(rules.CategoryCore), rule.Globs)
	assert.Equal(t, PromotedDescription, rule.Description)
	assert.Equal(t, "Keep a list of notes.\nEach note has a title.", rule.Content)
}

func TestEmitterRecordUsesUnitText(t *testing.T) {
	store := artifact.NewStore(workflow.New(t.TempDir()), artifact.WithClock(fixedClock))
	record := NewEmitter(store).Record(classify.TopicUnit{Heading: "# Data Management", Body: "  rows\n\n  columns  "}, "shop.md", workflow.StageIdeasDraft)
	assert.Equal(t, "Data Management", record.Title)
	assert.Equal(t, "Data storage and handling for the shop application", record.Description)
	assert.Equal(t, "# Data Management\nrows\ncolumns", record.Content)
	assert.Equal(t, workflow.StageIdeasDraft, record.Stage)
}
