// Package classify decides how a raw idea document is turned into topics:
// short unstructured ideas are expanded into a stack-aware scaffold and
// structured ones are split on their top-level headings.
package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	shortLimit   = 100
	complexLimit = 500
	simpleLimit  = 1000
)

// TopicUnit is one classified chunk of an idea document.
type TopicUnit struct {
	Heading string
	Body    string
}

// Text renders the unit as the document a draft is emitted from.
func (u TopicUnit) Text() string {
	switch {
	case u.Heading == "":
		return u.Body
	case u.Body == "":
		return u.Heading
	default:
		return u.Heading + "\n\n" + u.Body
	}
}

// Analysis is the result of classifying one document.
type Analysis struct {
	Units          []TopicUnit
	NeedsExpansion bool
	Complex        bool
}

// IsComplex reports whether text already carries enough structure to be
// split as-is: a fenced code block, a subsection heading, or a long
// document with any heading.
func IsComplex(text string) bool {
	return strings.Contains(text, "```") ||
		strings.Contains(text, "##") ||
		(runeLen(text) > complexLimit && strings.Contains(text, "#"))
}

// NeedsExpansion reports whether text should be replaced by a scaffold.
// Complex text never needs expansion.
func NeedsExpansion(text string) bool {
	if IsComplex(text) {
		return false
	}
	return runeLen(text) < shortLimit || mostlyLinks(text) || !strings.Contains(text, "#")
}

// IsSimple reports whether an idea is short and unstructured enough to be
// emitted as a single topic.
func IsSimple(text string) bool {
	return runeLen(text) < simpleLimit &&
		!strings.Contains(text, "```") &&
		!strings.Contains(text, "##")
}

// Classify splits text into topic units. It never fails: text without
// structure yields a single unit.
func Classify(text string) Analysis {
	analysis := Analysis{
		Complex:        IsComplex(text),
		NeedsExpansion: NeedsExpansion(text),
	}
	sections := splitSections(text)
	if len(sections) == 1 && !strings.HasPrefix(strings.TrimSpace(sections[0]), "#") {
		if analysis.NeedsExpansion {
			analysis.Units = []TopicUnit{{Body: Scaffold(text)}}
		} else {
			analysis.Units = []TopicUnit{{Body: strings.TrimSpace(text)}}
		}
		return analysis
	}
	for _, section := range sections {
		analysis.Units = append(analysis.Units, splitSection(section)...)
	}
	return analysis
}

// SingleTopic returns the one unit a simple idea is emitted as: the
// scaffold when the idea needs expansion and has no heading, the trimmed
// text otherwise.
func SingleTopic(text string) TopicUnit {
	trimmed := strings.TrimSpace(text)
	if NeedsExpansion(text) && !strings.HasPrefix(trimmed, "#") {
		return TopicUnit{Body: Scaffold(text)}
	}
	return TopicUnit{Body: trimmed}
}

// splitSections cuts text before every line that starts with exactly one
// heading marker.
func splitSections(text string) []string {
	lines := strings.Split(text, "\n")
	var sections []string
	var current []string
	for i, line := range lines {
		if i > 0 && isTopHeading(line) {
			sections = append(sections, strings.Join(current, "\n"))
			current = nil
		}
		current = append(current, line)
	}
	return append(sections, strings.Join(current, "\n"))
}

func isTopHeading(line string) bool {
	return strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "##")
}

var subtopicStart = regexp.MustCompile(`^(We should|The .* should|The .* needs|We'll use)`)

// splitSection turns one section into units. Sections with an empty body
// are dropped; bodies with several directive sentences are split so each
// unit keeps the parent heading.
func splitSection(section string) []TopicUnit {
	heading, rest, _ := strings.Cut(section, "\n")
	heading = strings.TrimSpace(heading)
	body := strings.TrimSpace(rest)
	if body == "" {
		return nil
	}
	subs := splitSubtopics(body)
	if len(subs) == 1 {
		return []TopicUnit{{Heading: heading, Body: body}}
	}
	var units []TopicUnit
	for _, sub := range subs {
		if sub = strings.TrimSpace(sub); sub != "" {
			units = append(units, TopicUnit{Heading: heading, Body: sub})
		}
	}
	return units
}

func splitSubtopics(body string) []string {
	lines := strings.Split(body, "\n")
	var subs []string
	var current []string
	for i, line := range lines {
		if i > 0 && subtopicStart.MatchString(line) {
			subs = append(subs, strings.Join(current, "\n"))
			current = nil
		}
		current = append(current, line)
	}
	return append(subs, strings.Join(current, "\n"))
}

var bareURL = regexp.MustCompile(`^(<)?https?://\S+(>)?$`)

// mostlyLinks reports whether at least half of the non-blank lines are bare
// URLs, optionally written as list items.
func mostlyLinks(text string) bool {
	var lines, links int
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines++
		line = strings.TrimSpace(strings.TrimLeft(line, "-*"))
		if bareURL.MatchString(line) {
			links++
		}
	}
	return lines > 0 && links*2 >= lines
}

func runeLen(text string) int {
	return utf8.RuneCountInString(text)
}
