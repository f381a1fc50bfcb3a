package artifact

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/airul/internal/workflow"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)
}

func TestWriteDraftFillsDefaults(t *testing.T) {
	wf := workflow.New(t.TempDir())
	store := NewStore(wf, WithClock(fixedClock))

	path, err := store.WriteDraft(workflow.StageIdeasDraft, "100-core-features.yaml", DraftRecord{
		Title:       "Core Features",
		Description: "Core features and functionality",
		Content:     "line one\nline two",
	})
	require.NoError(t, err)
	assert.Equal(t, wf.Path(workflow.StageIdeasDraft, "100-core-features.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "title: Core Features\n")
	assert.Contains(t, text, "status: draft\n")
	assert.Contains(t, text, "version: 1\n")
	assert.Regexp(t, `last_updated: "?2024-03-09"?\n`, text)
	assert.Contains(t, text, "content: |-\n  line one\n  line two\n")

	record, err := store.ReadDraft(workflow.StageIdeasDraft, "100-core-features.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Core Features", record.Title)
	assert.Equal(t, StatusDraft, record.Status)
	assert.Equal(t, 1, record.Version)
	assert.Equal(t, "2024-03-09", record.LastUpdated)
	assert.Equal(t, "line one\nline two", record.Content)
	assert.Equal(t, workflow.StageIdeasDraft, record.Stage)
}

func TestWriteDraftRejectsInvalidRecords(t *testing.T) {
	store := NewStore(workflow.New(t.TempDir()), WithClock(fixedClock))

	_, err := store.WriteDraft(workflow.StageIdeasDraft, "x.yaml", DraftRecord{Content: "no title"})
	assert.Error(t, err)

	_, err = store.WriteDraft(workflow.StageIdeasDraft, "x.yaml", DraftRecord{Title: "T", LastUpdated: "09/03/2024"})
	assert.Error(t, err)

	_, err = store.WriteDraft(workflow.StageFinalRule, "x.yaml", DraftRecord{Title: "T"})
	assert.Error(t, err)
}

func TestDecodeDraftRejectsNonMapping(t *testing.T) {
	_, err := DecodeDraft([]byte("- just\n- a list\n"))
	assert.True(t, errors.Is(err, ErrNotDraft))

	_, err = DecodeDraft([]byte("plain prose"))
	assert.True(t, errors.Is(err, ErrNotDraft))
}

func TestExtractRuleSource(t *testing.T) {
	source := ExtractRuleSource([]byte("title: A\ndescription: Database specifications\ncontent: |\n  use postgres\n"))
	assert.True(t, source.Draft)
	assert.Equal(t, "Database specifications", source.Description)
	assert.Equal(t, "use postgres\n", source.Content)

	raw := "# Notes\n\nJust some text, no yaml here."
	source = ExtractRuleSource([]byte(raw))
	assert.False(t, source.Draft)
	assert.Equal(t, FallbackDescription, source.Description)
	assert.Equal(t, raw, source.Content)

	source = ExtractRuleSource([]byte("title: only a title\n"))
	assert.Equal(t, FallbackDescription, source.Description)
	assert.Equal(t, "title: only a title\n", source.Content)
}

func TestRuleRendersExactHeader(t *testing.T) {
	data, err := WriteFrontMatter(RuleArtifact{
		Name:        "100-core-features",
		Description: "Core features\nand functionality",
		Globs:       []string{"src/**/*.{ts,tsx}", "README.md"},
		Content:     "body text",
	})
	require.NoError(t, err)
	want := strings.Join([]string{
		"---",
		"name: 100-core-features",
		"description: Core features and functionality",
		`version: "1.0"`,
		"globs: src/**/*.{ts,tsx}, README.md",
		"triggers: file_change, file_open",
		"---",
		"body text",
	}, "\n")
	assert.Equal(t, want, string(data))

	rule, err := ParseFrontMatter(data)
	require.NoError(t, err)
	assert.Equal(t, "100-core-features", rule.Name)
	assert.Equal(t, "1.0", rule.Version)
	assert.Equal(t, []string{"src/**/*.{ts,tsx}", "README.md"}, rule.Globs)
	assert.Equal(t, DefaultTriggers, rule.Triggers)
	assert.Equal(t, "body text", rule.Content)
}

func TestRuleRequiresGlobs(t *testing.T) {
	_, err := WriteFrontMatter(RuleArtifact{Name: "x"})
	assert.Error(t, err)
}

func TestParseFrontMatterErrors(t *testing.T) {
	_, err := ParseFrontMatter([]byte("no fence"))
	assert.ErrorIs(t, err, ErrMissingFrontMatter)

	_, err = ParseFrontMatter([]byte("---\nname: x\nbody without close"))
	assert.ErrorIs(t, err, ErrMalformedFrontMatter)

	rule, err := ParseFrontMatter([]byte("---\nname: empty\nglobs: a\n---"))
	require.NoError(t, err)
	assert.Equal(t, "", rule.Content)
}

func TestStoreWriteRule(t *testing.T) {
	wf := workflow.New(t.TempDir())
	store := NewStore(wf)
	path, err := store.WriteRule(RuleArtifact{Name: "200-data", Description: "d", Globs: []string{"a"}, Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, wf.Path(workflow.StageFinalRule, "200-data.mdc"), path)

	rule, err := store.ReadRule("200-data")
	require.NoError(t, err)
	assert.Equal(t, "c", rule.Content)
}
