package drafts

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kingrea/airul/internal/artifact"
	"github.com/kingrea/airul/internal/classify"
	"github.com/kingrea/airul/internal/workflow"
)

// DefaultDescription is used when no phrase in a topic is recognized.
const DefaultDescription = "Implementation details"

// phrase maps a recognized section-opening pattern to a canonical value.
type phrase struct {
	pattern *regexp.Regexp
	value   string
}

func phrases(pairs ...string) []phrase {
	out := make([]phrase, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, phrase{regexp.MustCompile(`(?i)` + pairs[i]), pairs[i+1]})
	}
	return out
}

// Tables are evaluated top to bottom; the first match wins.
var (
	ideaTitles = phrases(
		`Core Features`, "Core Features",
		`Technical Architecture`, "Technical Architecture",
		`Frontend Design`, "Frontend Design",
		`Data Management`, "Data Management",
		`Deployment`, "Deployment",
		`Development`, "Development",
		`Maintenance`, "Maintenance",
	)
	ideaDescriptions = phrases(
		`Core Features`, "Core features and functionality",
		`Technical Architecture`, "System architecture and components",
		`Frontend Design`, "User interface and experience",
		`Data Management`, "Data storage and handling",
		`Deployment`, "Deployment and runtime requirements",
		`Development`, "Development setup and procedures",
		`Maintenance`, "Maintenance and monitoring",
	)
	ruleTitles = phrases(
		`^Let'?s\s+create`, "Overview and Goals",
		`^We should implement`, "Core Components",
		`should support commands`, "User Commands",
		`needs to handle`, "Integration Features",
		`use a database`, "Data Management",
		`built using`, "Technical Stack",
	)
	ruleDescriptions = phrases(
		`should implement`, "Core implementation requirements",
		`should support`, "Supported user interactions",
		`needs to handle`, "Required integration features",
		`use a database`, "Database specifications",
		`built using`, "Technical architecture",
	)
)

// match checks the heading first and then the body against the table.
func match(table []phrase, heading, body string) (string, bool) {
	for _, candidate := range []string{heading, body} {
		if candidate == "" {
			continue
		}
		for _, p := range table {
			if p.pattern.MatchString(candidate) {
				return p.value, true
			}
		}
	}
	return "", false
}

var headingMarkup = regexp.MustCompile(`^[#*\s]+`)

// splitTopic returns the first non-blank line stripped of heading markup and
// the remaining text.
func splitTopic(text string) (string, string) {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return "", ""
	}
	heading := strings.TrimSpace(headingMarkup.ReplaceAllString(lines[0], ""))
	body := strings.TrimSpace(strings.Join(lines[1:], "\n"))
	return heading, body
}

// InferTitle derives a draft title from a topic. Recognized section phrases
// produce a canonical title; otherwise the first line is used.
func InferTitle(text string, stage workflow.Stage) string {
	heading, body := splitTopic(text)
	table := ideaTitles
	if stage == workflow.StageRulesDraft {
		table = ruleTitles
	}
	if title, ok := match(table, heading, body); ok {
		return title
	}
	if heading == "" {
		return "Untitled"
	}
	return heading
}

// InferDescription derives the short description of a topic.
func InferDescription(text string, stage workflow.Stage) string {
	heading, body := splitTopic(text)
	table := ideaDescriptions
	if stage == workflow.StageRulesDraft {
		table = ruleDescriptions
	}
	if desc, ok := match(table, heading, body); ok {
		return desc
	}
	return DefaultDescription
}

// AppName turns an idea file name into the application name used in
// descriptions.
func AppName(ideaFile string) string {
	base := filepath.Base(ideaFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.NewReplacer("-", " ", "_", " ").Replace(base)
}

// SequenceNumber returns the 100-stepped number for the topic at ordinal.
func SequenceNumber(ordinal int) string {
	return fmt.Sprintf("%03d", (ordinal+1)*100)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases title and collapses non-alphanumeric runs into hyphens.
func Slug(title string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		return "draft"
	}
	return slug
}

// FileName returns the draft file name for a topic.
func FileName(ordinal int, title string) string {
	return SequenceNumber(ordinal) + "-" + Slug(title) + workflow.DraftExt
}

// CleanContent trims every line and drops blank ones.
func CleanContent(text string) string {
	return strings.Join(nonBlankLines(text), "\n")
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(artifact.NormalizeNewlines(text), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Emitter renders topic units into draft files.
type Emitter struct {
	store *artifact.Store
}

// NewEmitter builds an emitter writing through store.
func NewEmitter(store *artifact.Store) *Emitter {
	return &Emitter{store: store}
}

// Record builds the draft for the unit without writing it.
func (e *Emitter) Record(unit classify.TopicUnit, ideaFile string, stage workflow.Stage) artifact.DraftRecord {
	text := unit.Text()
	return artifact.DraftRecord{
		Title:       InferTitle(text, stage),
		Description: fmt.Sprintf("%s for the %s application", InferDescription(text, stage), AppName(ideaFile)),
		Status:      artifact.StatusDraft,
		Version:     1,
		LastUpdated: e.store.Today(),
		Content:     CleanContent(text),
		Stage:       stage,
	}
}

// Emit writes one draft for the unit at ordinal and returns its file name.
// Sibling files are never read or removed.
func (e *Emitter) Emit(unit classify.TopicUnit, ordinal int, ideaFile string, stage workflow.Stage) (string, error) {
	record := e.Record(unit, ideaFile, stage)
	name := FileName(ordinal, record.Title)
	if _, err := e.store.WriteDraft(stage, name, record); err != nil {
		return "", fmt.Errorf("drafts: emit %s: %w", name, err)
	}
	return name, nil
}
