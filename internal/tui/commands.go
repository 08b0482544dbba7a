package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fentz26/taskkeep/internal/models"
)

type commandResultMsg struct {
	message string
	deleted bool
}

type errMsg struct {
	err error
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

type taskDetailLoadedMsg struct {
	task    *models.Task
	history []models.AuditEntry
}

type daemonStatusMsg struct {
	online bool
}

func (a *App) fetchTasks() tea.Cmd {
	a.loading = true
	filter := a.filter()
	return func() tea.Msg {
		tasks, err := a.client.ListTasks(filter, "")
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks}
	}
}

func (a *App) fetchTaskDetail(taskID string) tea.Cmd {
	return func() tea.Msg {
		task, err := a.client.GetTask(taskID)
		if err != nil {
			return errMsg{err}
		}
		history, _ := a.client.TaskHistory(taskID)
		return taskDetailLoadedMsg{task, history}
	}
}

func (a *App) checkDaemon() tea.Cmd {
	return func() tea.Msg {
		health, err := a.client.CheckHealth()
		return daemonStatusMsg{online: err == nil && health.OK}
	}
}

// executeCommand parses one line of the command bar. A leading "/" is
// optional.
func (a *App) executeCommand(input string) tea.Cmd {
	parts := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(parts) == 0 {
		return nil
	}

	cmd := parts[0]
	args := parts[1:]
	rest := strings.Join(args, " ")

	if cmd == "q" || cmd == "quit" || cmd == "exit" {
		return tea.Quit
	}

	var taskID, title string
	if t := a.target(); t != nil {
		taskID, title = t.ID, t.Title
	}

	return func() tea.Msg {
		switch cmd {
		case "add":
			if rest == "" {
				return commandResultMsg{message: "Usage: add <title>"}
			}
			task, err := a.client.CreateTask(map[string]any{"title": rest})
			if err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{message: fmt.Sprintf("✓ Created task: %s", task.Title)}

		case "start", "done", "pending":
			status := map[string]string{
				"start":   string(models.TaskStatusInProgress),
				"done":    string(models.TaskStatusCompleted),
				"pending": string(models.TaskStatusPending),
			}[cmd]
			return a.update(taskID, map[string]any{"status": status}, fmt.Sprintf("✓ %s is now %s", title, status))

		case "priority":
			if len(args) < 1 {
				return commandResultMsg{message: "Usage: priority <low|medium|high> [due-date]"}
			}
			fields := map[string]any{"priority": args[0]}
			if len(args) > 1 {
				fields["dueDate"] = args[1]
			}
			return a.update(taskID, fields, fmt.Sprintf("✓ Priority set to %s", args[0]))

		case "due":
			if len(args) < 1 {
				return commandResultMsg{message: "Usage: due <ISO 8601 date>"}
			}
			return a.update(taskID, map[string]any{"dueDate": args[0]}, "✓ Due date set")

		case "rename":
			if rest == "" {
				return commandResultMsg{message: "Usage: rename <title>"}
			}
			return a.update(taskID, map[string]any{"title": rest}, "✓ Task renamed")

		case "desc":
			return a.update(taskID, map[string]any{"description": rest}, "✓ Description updated")

		case "reopen":
			if taskID == "" {
				return commandResultMsg{message: "No task selected"}
			}
			if _, err := a.client.ReopenTask(taskID); err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{message: fmt.Sprintf("✓ Reopened %s", title)}

		case "delete":
			if taskID == "" {
				return commandResultMsg{message: "No task selected"}
			}
			if err := a.client.DeleteTask(taskID); err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{message: fmt.Sprintf("✓ Deleted %s", title), deleted: true}

		case "count":
			n, err := a.client.CountTasks()
			if err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{message: fmt.Sprintf("%d tasks stored", n)}

		default:
			return commandResultMsg{message: fmt.Sprintf("Unknown: %s (try: add, start, done, reopen, delete)", cmd)}
		}
	}
}

func (a *App) update(taskID string, fields map[string]any, ok string) tea.Msg {
	if taskID == "" {
		return commandResultMsg{message: "No task selected"}
	}
	if _, err := a.client.UpdateTask(taskID, fields); err != nil {
		return commandResultMsg{message: "Error: " + err.Error()}
	}
	return commandResultMsg{message: ok}
}
