// internal/tui/workflow_view.go
//
// Rendering for the start screen: the lifecycle panel, the journal tail and
// markdown previews of idea files.

package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/airul/internal/workflow"
)

const logTailLines = 8

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	accentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
)

// View renders the current screen.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	switch a.state {
	case stateMainMenu:
		content = a.mainMenu.View()
	case stateIdeaSelect:
		content = a.ideaMenu.View()
	case statePreview:
		content = accentStyle.Render(a.previewName) + "\n" + a.preview.View()
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		a.renderStagePanel(),
		"",
		content,
	)
	sections := []string{
		headerStyle.Render("⬡ AIRUL"),
		panelStyle.Width(max(20, width-4)).Render(left),
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, footerStyle.Render(a.statusMsg))
	return strings.Join(sections, "\n")
}

// renderStagePanel shows the project state, the suggested next step and the
// file count of every stage.
func (a *App) renderStagePanel() string {
	lines := []string{
		accentStyle.Render(fmt.Sprintf("Status: %s", a.status.Label())),
		fmt.Sprintf("Next: %s", a.status.NextStep()),
	}
	var counts []string
	for _, stage := range workflow.Stages() {
		marker := " "
		if stage == a.status.Stage {
			marker = "›"
		}
		counts = append(counts, fmt.Sprintf("%s %s: %d", marker, stage.FriendlyName(), a.status.Counts[stage]))
	}
	lines = append(lines, mutedStyle.Render(strings.Join(counts, "\n")))
	if a.err != nil {
		lines = append(lines, fmt.Sprintf("⚠ %v", a.err))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logTailLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	head := accentStyle.Render(fmt.Sprintf("LOG · %s (%d entries)", fileName, total))
	body := mutedStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Render(head + "\n" + body)
}

// renderMarkdown renders text for the preview pane. GLAMOUR_STYLE picks the
// style, dark otherwise.
func renderMarkdown(text string, wordWrap int) (string, error) {
	style := strings.TrimSpace(os.Getenv("GLAMOUR_STYLE"))
	if style == "" {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(20, wordWrap)),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(text)
}
