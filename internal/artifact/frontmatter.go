package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a --- fence.
	ErrMissingFrontMatter = errors.New("artifact: missing frontmatter")
	// ErrMalformedFrontMatter indicates the header block could not be parsed.
	ErrMalformedFrontMatter = errors.New("artifact: malformed frontmatter")
)

// RuleVersion is stamped on every compiled rule.
const RuleVersion = "1.0"

// DefaultTriggers are attached to every compiled rule.
var DefaultTriggers = []string{"file_change", "file_open"}

// RuleArtifact is a final rule as consumed by the IDE integration.
type RuleArtifact struct {
	Name        string
	Description string
	Version     string
	Globs       []string
	Triggers    []string
	Content     string
}

// FileName returns the .mdc file name for the rule.
func (r RuleArtifact) FileName() string {
	return r.Name + ".mdc"
}

// Validate enforces the rule contract.
func (r RuleArtifact) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("artifact: rule name is required")
	}
	if len(r.Globs) == 0 {
		return fmt.Errorf("artifact: rule %s has no globs", r.Name)
	}
	return nil
}

// WriteFrontMatter renders the rule header and body. The header is the
// line-oriented key/value block the IDE reads, not general YAML: globs and
// triggers are comma-joined on one line.
func WriteFrontMatter(rule RuleArtifact) ([]byte, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	version := rule.Version
	if version == "" {
		version = RuleVersion
	}
	triggers := rule.Triggers
	if len(triggers) == 0 {
		triggers = DefaultTriggers
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	fmt.Fprintf(&buf, "name: %s\n", singleLine(rule.Name))
	fmt.Fprintf(&buf, "description: %s\n", singleLine(rule.Description))
	fmt.Fprintf(&buf, "version: %s\n", strconv.Quote(version))
	fmt.Fprintf(&buf, "globs: %s\n", strings.Join(rule.Globs, ", "))
	fmt.Fprintf(&buf, "triggers: %s\n", strings.Join(triggers, ", "))
	buf.WriteString("---\n")
	buf.WriteString(rule.Content)
	return buf.Bytes(), nil
}

// ParseFrontMatter reads a rule written by WriteFrontMatter.
func ParseFrontMatter(content []byte) (RuleArtifact, error) {
	if len(content) == 0 {
		return RuleArtifact{}, ErrMissingFrontMatter
	}
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return RuleArtifact{}, ErrMissingFrontMatter
	}
	rest := normalized[4:]
	header, body, found := bytes.Cut(rest, []byte("\n---\n"))
	if !found {
		// a rule with an empty body ends right after the closing fence
		if trimmed, ok := bytes.CutSuffix(rest, []byte("\n---")); ok {
			header, body = trimmed, nil
		} else {
			return RuleArtifact{}, ErrMalformedFrontMatter
		}
	}
	rule := RuleArtifact{Content: string(body)}
	for _, line := range strings.Split(string(header), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return RuleArtifact{}, fmt.Errorf("%w: %q", ErrMalformedFrontMatter, line)
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "name":
			rule.Name = value
		case "description":
			rule.Description = value
		case "version":
			if unquoted, err := strconv.Unquote(value); err == nil {
				value = unquoted
			}
			rule.Version = value
		case "globs":
			rule.Globs = splitList(value)
		case "triggers":
			rule.Triggers = splitList(value)
		}
	}
	if rule.Name == "" {
		return RuleArtifact{}, fmt.Errorf("%w: missing name", ErrMalformedFrontMatter)
	}
	return rule, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func singleLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
