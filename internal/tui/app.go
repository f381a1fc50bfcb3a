// internal/tui/app.go
//
// This is the interactive start screen for airul.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the project status, menus and the last action result
// 2. Update: keys pick an action, actions run as commands
// 3. View: renders the status board to a string
//
// Every action advances the lifecycle one step and reports back through an
// actionFinishedMsg, after which the stage counts are re-detected.

package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/airul/internal/config"
	"github.com/kingrea/airul/internal/drafts"
	"github.com/kingrea/airul/internal/logbook"
	"github.com/kingrea/airul/internal/progress"
	"github.com/kingrea/airul/internal/rules"
	"github.com/kingrea/airul/internal/workflow"
)

// appState represents which screen is showing
type appState int

const (
	stateMainMenu   appState = iota // Next-step menu
	stateIdeaSelect                 // Picking the idea file to draft
	statePreview                    // Rendered idea file
)

type action int

const (
	actionDraft action = iota
	actionApproveIdeas
	actionBuildRules
	actionGenerate
	actionExit
)

// Menu titles mirror workflow.Status.NextStep so the suggested step can be
// preselected.
const (
	titleDraft    = "Generate implementation drafts"
	titleApprove  = "Convert to rule drafts"
	titleBuild    = "Create final MDC rules"
	titleGenerate = "Generate context files"
	titleExit     = "Exit"
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithReporter adds an observer that receives pipeline progress next to the
// journal.
func WithReporter(reporter progress.Reporter) AppOption {
	return func(a *App) {
		a.extra = reporter
	}
}

// WithPromoterOptions forwards options to the draft promoter.
func WithPromoterOptions(opts ...drafts.Option) AppOption {
	return func(a *App) {
		a.promoterOpts = append(a.promoterOpts, opts...)
	}
}

type actionFinishedMsg struct {
	status string
	err    error
}

// menuItem implements list.Item for the main menu
type menuItem struct {
	title  string
	desc   string
	action action
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

type ideaItem struct {
	name string
}

func (i ideaItem) Title() string       { return i.name }
func (i ideaItem) Description() string { return filepath.ToSlash(filepath.Join(workflow.RelDir(workflow.StageIdea), i.name)) }
func (i ideaItem) FilterValue() string { return i.name }

// App is the start screen model.
type App struct {
	state    appState
	config   *config.Config
	workflow *workflow.Workflow
	promoter *drafts.Promoter
	logbook  *logbook.Logbook
	reporter progress.Reporter

	extra        progress.Reporter
	promoterOpts []drafts.Option

	mainMenu    list.Model
	ideaMenu    list.Model
	preview     viewport.Model
	previewName string

	status    workflow.Status
	statusMsg string
	busy      bool
	err       error

	width  int
	height int
}

// NewApp loads the project configuration and builds the start screen.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.Load(projectDir)
	if err != nil {
		return nil, err
	}
	if err := config.InitProjectDirs(projectDir); err != nil {
		return nil, err
	}
	app := &App{
		state:    stateMainMenu,
		config:   cfg,
		workflow: cfg.Workflow(),
		preview:  viewport.New(80, 20),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if lb, err := logbook.New(cfg.JournalPath()); err == nil {
		app.logbook = lb
	}
	if app.logbook != nil {
		app.reporter = progress.Multi(app.logbook, app.extra)
	} else {
		app.reporter = progress.Multi(app.extra)
	}
	app.promoter = drafts.New(projectDir, append([]drafts.Option{drafts.WithReporter(app.reporter)}, app.promoterOpts...)...)

	app.mainMenu = list.New(nil, list.NewDefaultDelegate(), 80, 20)
	app.mainMenu.Title = "airul"
	app.mainMenu.SetShowStatusBar(false)
	app.mainMenu.SetFilteringEnabled(false)
	app.mainMenu.DisableQuitKeybindings()

	app.ideaMenu = list.New(nil, list.NewDefaultDelegate(), 80, 20)
	app.ideaMenu.Title = "Select Idea"
	app.ideaMenu.SetShowStatusBar(false)
	app.ideaMenu.SetFilteringEnabled(false)
	app.ideaMenu.DisableQuitKeybindings()

	app.refreshStatus()
	app.logInfo("Session opened · %s", app.status.Label())
	return app, nil
}

// buildMainMenu lists the actions that make sense for the detected status.
func buildMainMenu(status workflow.Status) []list.Item {
	items := []list.Item{
		menuItem{title: titleDraft, desc: "Split an idea file into implementation drafts", action: actionDraft},
	}
	if status.Counts[workflow.StageIdeasDraft] > 0 {
		items = append(items, menuItem{
			title:  titleApprove,
			desc:   fmt.Sprintf("Promote %d implementation draft(s)", status.Counts[workflow.StageIdeasDraft]),
			action: actionApproveIdeas,
		})
	}
	if status.Counts[workflow.StageRulesDraft] > 0 {
		items = append(items, menuItem{
			title:  titleBuild,
			desc:   fmt.Sprintf("Compile %d rule draft(s) into .cursor/rules", status.Counts[workflow.StageRulesDraft]),
			action: actionBuildRules,
		})
	}
	items = append(items,
		menuItem{title: titleGenerate, desc: "Aggregate the sources listed in .airul.json", action: actionGenerate},
		menuItem{title: titleExit, desc: "Quit airul", action: actionExit},
	)
	return items
}

func (a *App) refreshStatus() {
	status, err := a.workflow.Detect()
	if err != nil {
		a.err = err
		return
	}
	a.status = status
	items := buildMainMenu(status)
	a.mainMenu.SetItems(items)
	next := status.NextStep()
	for idx, item := range items {
		if item.(menuItem).title == next {
			a.mainMenu.Select(idx)
			return
		}
	}
	a.mainMenu.Select(0)
}

func (a *App) refreshIdeas() int {
	names, err := a.workflow.List(workflow.StageIdea)
	if err != nil {
		a.err = err
		return 0
	}
	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = ideaItem{name: name}
	}
	a.ideaMenu.SetItems(items)
	if len(items) > 0 {
		a.ideaMenu.Select(0)
	}
	return len(items)
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(20, msg.Width-6), max(5, msg.Height-14))
		a.ideaMenu.SetSize(max(20, msg.Width-6), max(5, msg.Height-14))
		a.preview.Width = max(20, msg.Width-6)
		a.preview.Height = max(5, msg.Height-10)
		return a, nil

	case actionFinishedMsg:
		a.busy = false
		a.state = stateMainMenu
		if msg.err != nil {
			a.err = msg.err
			a.statusMsg = "Error: " + msg.err.Error()
			a.logError("%v", msg.err)
		} else {
			a.err = nil
			a.statusMsg = msg.status
		}
		a.refreshStatus()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateMainMenu {
				return a, tea.Quit
			}
		case "esc":
			if a.state != stateMainMenu {
				return a.returnToMainMenu()
			}
		case "p":
			if a.state == stateIdeaSelect {
				return a.openPreview()
			}
		case "enter":
			if a.busy {
				return a, nil
			}
			switch a.state {
			case stateMainMenu:
				return a.handleMainMenuSelection()
			case stateIdeaSelect:
				return a.handleIdeaSelection()
			}
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case stateMainMenu:
		a.mainMenu, cmd = a.mainMenu.Update(msg)
	case stateIdeaSelect:
		a.ideaMenu, cmd = a.ideaMenu.Update(msg)
	case statePreview:
		a.preview, cmd = a.preview.Update(msg)
	}
	return a, cmd
}

func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch item.action {
	case actionDraft:
		if a.refreshIdeas() == 0 {
			a.statusMsg = fmt.Sprintf("No idea files in %s/", filepath.ToSlash(workflow.RelDir(workflow.StageIdea)))
			return a, nil
		}
		a.state = stateIdeaSelect
		a.statusMsg = "enter: draft · p: preview · esc: back"
		return a, nil
	case actionApproveIdeas:
		return a.start(titleApprove, a.approveIdeas)
	case actionBuildRules:
		return a.start(titleBuild, a.buildRules)
	case actionGenerate:
		return a.start(titleGenerate, a.generateContext)
	case actionExit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleIdeaSelection() (tea.Model, tea.Cmd) {
	item, ok := a.ideaMenu.SelectedItem().(ideaItem)
	if !ok {
		return a, nil
	}
	name := item.name
	return a.start(titleDraft, func(ctx context.Context) (string, error) {
		return a.draftIdea(ctx, name)
	})
}

// start marks the app busy and runs fn as a command.
func (a *App) start(label string, fn func(context.Context) (string, error)) (tea.Model, tea.Cmd) {
	a.busy = true
	a.statusMsg = label + "..."
	a.logInfo("%s", label)
	return a, func() tea.Msg {
		status, err := fn(context.Background())
		return actionFinishedMsg{status: status, err: err}
	}
}

func (a *App) draftIdea(ctx context.Context, name string) (string, error) {
	if err := a.workflow.Clear(workflow.StageIdeasDraft); err != nil {
		return "", err
	}
	result, err := a.promoter.GenerateDrafts(ctx, drafts.GenerateRequest{IdeaFile: name})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Generated %d drafts in %s/", result.DraftsGenerated, filepath.ToSlash(workflow.RelDir(result.Stage))), nil
}

func (a *App) approveIdeas(ctx context.Context) (string, error) {
	if err := a.workflow.Clear(workflow.StageRulesDraft); err != nil {
		return "", err
	}
	result, err := a.promoter.ApproveDrafts(ctx, drafts.ApproveRequest{Source: workflow.StageIdeasDraft})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created %d rule drafts", result.RulesGenerated), nil
}

func (a *App) buildRules(ctx context.Context) (string, error) {
	if err := a.workflow.Clear(workflow.StageFinalRule); err != nil {
		return "", err
	}
	result, err := a.promoter.ApproveDrafts(ctx, drafts.ApproveRequest{Source: workflow.StageRulesDraft})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Generated %d MDC rules", result.RulesGenerated), nil
}

func (a *App) generateContext(ctx context.Context) (string, error) {
	result, err := rules.Aggregate(ctx, a.config, rules.AggregateOptions{}, a.reporter)
	if err != nil {
		return "", err
	}
	if !result.Generated {
		return "No source content found", nil
	}
	return fmt.Sprintf("Wrote %s from %d sources", strings.Join(result.Outputs, ", "), len(result.Sources)), nil
}

func (a *App) openPreview() (tea.Model, tea.Cmd) {
	item, ok := a.ideaMenu.SelectedItem().(ideaItem)
	if !ok {
		return a, nil
	}
	data, err := os.ReadFile(a.workflow.Path(workflow.StageIdea, item.name))
	if err != nil {
		a.statusMsg = "Error: " + err.Error()
		return a, nil
	}
	rendered, err := renderMarkdown(string(data), a.preview.Width)
	if err != nil {
		rendered = string(data)
	}
	a.preview.SetContent(rendered)
	a.preview.GotoTop()
	a.previewName = item.name
	a.state = statePreview
	a.statusMsg = "esc: back"
	return a, nil
}

func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	if a.state == statePreview {
		a.state = stateIdeaSelect
		a.statusMsg = "enter: draft · p: preview · esc: back"
		return a, nil
	}
	a.state = stateMainMenu
	a.statusMsg = ""
	return a, nil
}

// Status returns the last detected lifecycle status.
func (a *App) Status() workflow.Status {
	return a.status
}

// Err returns the error of the last failed action.
func (a *App) Err() error {
	return a.err
}

// Run starts the interactive program on the terminal.
func Run(projectDir string, opts ...AppOption) error {
	app, err := NewApp(projectDir, opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
