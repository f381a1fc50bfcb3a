// Package artifact defines the on-disk formats the lifecycle exchanges:
// YAML draft records for the two draft stages and .mdc rule files for the
// final stage.
package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/airul/internal/workflow"
)

// DateLayout is the format of DraftRecord.LastUpdated.
const DateLayout = "2006-01-02"

// ErrNotDraft indicates the bytes parsed as YAML but not as a draft mapping.
var ErrNotDraft = errors.New("artifact: not a draft record")

// DraftStatus enumerates draft review states.
type DraftStatus string

// StatusDraft is the only status the pipeline writes.
const StatusDraft DraftStatus = "draft"

// DraftRecord is one topic persisted at a draft stage.
type DraftRecord struct {
	Title       string      `yaml:"title" validate:"required"`
	Description string      `yaml:"description"`
	Status      DraftStatus `yaml:"status" validate:"required,oneof=draft"`
	Version     int         `yaml:"version" validate:"gte=1"`
	LastUpdated string      `yaml:"last_updated" validate:"required,datetime=2006-01-02"`
	Content     string      `yaml:"content"`

	// Stage is implied by the directory the record lives in and is never
	// serialized.
	Stage workflow.Stage `yaml:"-"`
}

var validate = validator.New()

// Validate checks the record fields before it is written.
func (r DraftRecord) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("artifact: invalid draft %q: %w", r.Title, err)
	}
	return nil
}

// EncodeDraft renders a record as YAML with two-space indentation.
func EncodeDraft(record DraftRecord) ([]byte, error) {
	record.Content = NormalizeNewlines(record.Content)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(record); err != nil {
		return nil, fmt.Errorf("artifact: encode draft: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("artifact: encode draft: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDraft parses a draft file. Hand-edited drafts may omit status or
// version, so only the YAML shape is checked here; call Validate for the
// full contract.
func DecodeDraft(data []byte) (DraftRecord, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return DraftRecord{}, fmt.Errorf("artifact: parse draft: %w", err)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return DraftRecord{}, ErrNotDraft
	}
	var record DraftRecord
	if err := node.Content[0].Decode(&record); err != nil {
		return DraftRecord{}, fmt.Errorf("artifact: decode draft: %w", err)
	}
	record.Content = NormalizeNewlines(record.Content)
	return record, nil
}

// RuleSource is the description and body a rule is compiled from.
type RuleSource struct {
	Description string
	Content     string
	// Draft is true when the input was a recognizable draft mapping.
	Draft bool
}

// FallbackDescription is used when a source carries no description.
const FallbackDescription = "No description provided"

// ExtractRuleSource pulls description and content out of a draft. Anything
// that is not a draft mapping falls back to the raw text and the default
// description; this never fails.
func ExtractRuleSource(raw []byte) RuleSource {
	text := string(raw)
	source := RuleSource{Description: FallbackDescription, Content: text}
	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil || fields == nil {
		return source
	}
	source.Draft = true
	if desc := scalarString(fields["description"]); desc != "" {
		source.Description = desc
	}
	if content := scalarString(fields["content"]); content != "" {
		source.Content = content
	}
	return source
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// NormalizeNewlines converts CRLF line endings to LF.
func NormalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
