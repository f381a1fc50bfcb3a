package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFencedCodeIsNeverExpanded(t *testing.T) {
	for _, text := range []string{
		"```go\nfmt.Println(1)\n```",
		"tiny\n```\nx\n```",
		strings.Repeat("long prose without headings ", 40) + "\n```\ncode\n```",
	} {
		assert.True(t, IsComplex(text), text)
		assert.False(t, NeedsExpansion(text), text)
		analysis := Classify(text)
		require.Len(t, analysis.Units, 1)
		assert.NotContains(t, analysis.Units[0].Text(), "# Technical Architecture")
	}
}

func TestShortTextExpandsToSevenSections(t *testing.T) {
	analysis := Classify("a markdown note app")
	assert.True(t, analysis.NeedsExpansion)
	require.Len(t, analysis.Units, 1)

	text := analysis.Units[0].Text()
	var headings []string
	for _, line := range strings.Split(text, "\n") {
		if isTopHeading(line) {
			headings = append(headings, strings.TrimPrefix(line, "# "))
		}
	}
	assert.Equal(t, ScaffoldSections, headings)
	assert.Contains(t, text, "## Overview\na markdown note app\n")
}

func TestTodoAppScaffold(t *testing.T) {
	idea := "build me a todo app with user login and a postgres database"
	stack := DetectStack(idea)
	assert.True(t, stack.Auth)
	assert.True(t, stack.SQL)
	assert.False(t, stack.NoSQL)

	unit := SingleTopic(idea)
	text := unit.Text()
	assert.Contains(t, text, "- User authentication and profiles\n")
	assert.Contains(t, text, "- SQL database for structured data\n")
	assert.NotContains(t, text, "- NoSQL database for flexible data")
	assert.Contains(t, text, "```sql\n-- SQL schema will go here\n```")
	assert.Contains(t, text, "```javascript\n// Node.js backend implementation will go here\n```")
	assert.Contains(t, text, "```jsx\n// React component will go here\n```")
}

func TestScaffoldFollowsDetectedStack(t *testing.T) {
	text := Scaffold("svelte frontend with a golang rest api on mongo")
	assert.Contains(t, text, "```go\n// Go API implementation will go here\n```")
	assert.Contains(t, text, "```javascript\n// NoSQL schema will go here\n```")
	assert.Contains(t, text, "```typescript\n// Svelte types will go here\n```")
	assert.Contains(t, text, "```svelte\n<!-- Svelte component will go here -->\n```")
	assert.Contains(t, text, "- RESTful API endpoints\n- Core business logic")
}

func TestDetectStackUsesWordBoundaries(t *testing.T) {
	stack := DetectStack("a forgotten category of things")
	assert.False(t, stack.Go)
	assert.False(t, stack.Auth)
	assert.Equal(t, FrontendReact, stack.PrimaryFrontend())
	assert.Equal(t, BackendNode, stack.PrimaryBackend())

	stack = DetectStack("Vue with Angular and Django or Rails")
	assert.Equal(t, FrontendAngular, stack.PrimaryFrontend())
	assert.Equal(t, BackendRuby, stack.PrimaryBackend())
}

func TestSectionsAreSplitAndSubSplit(t *testing.T) {
	text := strings.Join([]string{
		"# Commands",
		"We should implement a sync command.",
		"It runs nightly.",
		"The CLI should support a dry run.",
		"",
		"# Empty",
		"",
		"# Storage",
		"We'll use sqlite for everything.",
		"## Details",
		"Files live in one place.",
	}, "\n")

	analysis := Classify(text)
	assert.True(t, analysis.Complex)
	require.Len(t, analysis.Units, 3)

	assert.Equal(t, "# Commands", analysis.Units[0].Heading)
	assert.Equal(t, "We should implement a sync command.\nIt runs nightly.", analysis.Units[0].Body)
	assert.Equal(t, "# Commands\n\nThe CLI should support a dry run.", analysis.Units[1].Text())

	assert.Equal(t, "# Storage", analysis.Units[2].Heading)
	assert.Equal(t, "We'll use sqlite for everything.\n## Details\nFiles live in one place.", analysis.Units[2].Body)
}

func TestUnstructuredLongTextStaysVerbatim(t *testing.T) {
	text := "# only heading here\n" + strings.Repeat("plain words ", 60)
	analysis := Classify(text)
	assert.False(t, analysis.NeedsExpansion)
	require.Len(t, analysis.Units, 1)
	assert.Equal(t, "# only heading here", analysis.Units[0].Heading)
}

func TestMostlyLinksNeedsExpansion(t *testing.T) {
	links := "# Refs\n- https://example.com/a\n- https://example.com/b\n" + strings.Repeat("x", 120)
	assert.True(t, NeedsExpansion(links))

	prose := "# Refs\nsee https://example.com for more on this, and then some more words that make this a paragraph\n" +
		"another line of plain prose that is long enough to matter here"
	assert.False(t, NeedsExpansion(prose))
}

func TestIsSimple(t *testing.T) {
	assert.True(t, IsSimple("just an idea"))
	assert.False(t, IsSimple("## sub"))
	assert.False(t, IsSimple(strings.Repeat("a", 1000)))
}
