// Package tui provides the interactive terminal UI for taskkeep.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fentz26/taskkeep/internal/client"
	"github.com/fentz26/taskkeep/internal/models"
)

const (
	modeList   = "list"
	modeDetail = "detail"
)

// App is the main TUI application model.
type App struct {
	client       *client.Client
	tasks        []models.Task
	selectedIdx  int
	input        textinput.Model
	viewport     viewport.Model
	width        int
	height       int
	mode         string
	currentTask  *models.Task
	history      []models.AuditEntry
	message      string
	filterIdx    int
	loading      bool
	daemonOnline bool
	suggestions  *Suggestions
}

var filters = []string{"", string(models.TaskStatusPending), string(models.TaskStatusInProgress), string(models.TaskStatusCompleted)}
var filterNames = []string{"ALL", "PENDING", "IN PROGRESS", "DONE"}

// New creates a new TUI application.
func New(c *client.Client) *App {
	ti := textinput.New()
	ti.Placeholder = "Type: add <title> | start | done | reopen | delete | priority <p> | due <date>  (/ for help)"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 80

	return &App{
		client:      c,
		input:       ti,
		viewport:    viewport.New(80, 20),
		mode:        modeList,
		suggestions: NewSuggestions(),
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.fetchTasks(),
		a.checkDaemon(),
	)
}

func (a *App) filter() string {
	return filters[a.filterIdx]
}

// target is the task commands act on: the open task in detail mode, the
// highlighted row otherwise.
func (a *App) target() *models.Task {
	if a.mode == modeDetail {
		return a.currentTask
	}
	if len(a.tasks) == 0 || a.selectedIdx >= len(a.tasks) {
		return nil
	}
	return &a.tasks[a.selectedIdx]
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit

		case "esc":
			if a.suggestions.IsVisible() {
				a.input.SetValue("")
				a.suggestions.Update("")
				return a, nil
			}
			if a.mode == modeDetail {
				a.mode = modeList
				a.currentTask = nil
				a.history = nil
				return a, a.fetchTasks()
			}

		case "up":
			switch {
			case a.suggestions.IsVisible():
				a.suggestions.Prev()
			case a.mode == modeList && a.selectedIdx > 0:
				a.selectedIdx--
			case a.mode == modeDetail:
				a.viewport.LineUp(1)
			}
			return a, nil

		case "down":
			switch {
			case a.suggestions.IsVisible():
				a.suggestions.Next()
			case a.mode == modeList && a.selectedIdx < len(a.tasks)-1:
				a.selectedIdx++
			case a.mode == modeDetail:
				a.viewport.LineDown(1)
			}
			return a, nil

		case "tab":
			// If suggestions visible, accept selection
			if a.suggestions.IsVisible() {
				a.acceptSuggestion()
				return a, nil
			}
			if a.mode == modeList {
				a.filterIdx = (a.filterIdx + 1) % len(filters)
				a.selectedIdx = 0
				return a, a.fetchTasks()
			}
			return a, nil

		case "ctrl+r":
			if a.mode == modeDetail && a.currentTask != nil {
				return a, a.fetchTaskDetail(a.currentTask.ID)
			}
			return a, tea.Batch(a.fetchTasks(), a.checkDaemon())

		case "enter":
			if a.suggestions.IsVisible() {
				a.acceptSuggestion()
				return a, nil
			}
			line := strings.TrimSpace(a.input.Value())
			if line != "" {
				a.input.SetValue("")
				a.suggestions.Update("")
				return a, a.executeCommand(line)
			}
			if a.mode == modeList && len(a.tasks) > 0 {
				a.mode = modeDetail
				a.currentTask = nil
				a.history = nil
				a.refreshViewport()
				a.viewport.GotoTop()
				return a, a.fetchTaskDetail(a.tasks[a.selectedIdx].ID)
			}
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 4
		a.viewport.Width = msg.Width
		a.viewport.Height = max(5, msg.Height-8)
		a.refreshViewport()

	case tasksLoadedMsg:
		a.loading = false
		a.tasks = msg.tasks
		if a.selectedIdx >= len(a.tasks) {
			a.selectedIdx = max(0, len(a.tasks)-1)
		}
		a.suggestions.SetTasks(a.tasks)

	case taskDetailLoadedMsg:
		a.currentTask = msg.task
		a.history = msg.history
		a.refreshViewport()

	case daemonStatusMsg:
		a.daemonOnline = msg.online

	case commandResultMsg:
		a.message = msg.message
		if msg.deleted && a.mode == modeDetail {
			a.mode = modeList
			a.currentTask = nil
			a.history = nil
		}
		if a.mode == modeDetail && a.currentTask != nil {
			return a, tea.Batch(a.fetchTaskDetail(a.currentTask.ID), a.fetchTasks())
		}
		return a, a.fetchTasks()

	case errMsg:
		a.loading = false
		a.message = "Error: " + msg.err.Error()
	}

	// Update input
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	a.suggestions.Update(a.input.Value())

	return a, tea.Batch(cmds...)
}

// acceptSuggestion completes a command, or jumps to a referenced task.
func (a *App) acceptSuggestion() {
	selected := a.suggestions.Selected()
	if selected == nil {
		return
	}
	if selected.Type == "task" {
		for i, t := range a.tasks {
			if t.ID == selected.TaskID {
				a.selectedIdx = i
				break
			}
		}
		a.input.SetValue("")
	} else {
		a.input.SetValue(selected.Text + " ")
		a.input.CursorEnd()
	}
	a.suggestions.Update(a.input.Value())
}

func (a *App) refreshViewport() {
	if a.mode == modeDetail {
		a.viewport.SetContent(a.renderTaskDetail())
	}
}
