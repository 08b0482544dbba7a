package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/taskkeep/internal/models"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#6366F1")
	successColor   = lipgloss.Color("#10B981")
	warningColor   = lipgloss.Color("#F59E0B")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	fgColor        = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	taskItemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	onlineStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	daemonStatus := onlineStyle.Render("● DAEMON")
	if !a.daemonOnline {
		daemonStatus = offlineStyle.Render("○ DAEMON")
	}
	header := titleStyle.Render("TASKKEEP") + "  " + daemonStatus
	header += "  " + lipgloss.NewStyle().Foreground(mutedColor).Render(a.client.BaseURL())

	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", a.width) + "\n")

	contentHeight := max(5, a.height-8)

	switch a.mode {
	case modeList:
		filterLabel := fmt.Sprintf(" Filter: [%s]", filterNames[a.filterIdx])
		b.WriteString(lipgloss.NewStyle().Foreground(mutedColor).Render(filterLabel) + "\n")
		b.WriteString(a.renderTaskList(contentHeight - 1))
	case modeDetail:
		b.WriteString(a.viewport.View())
	}

	// Message bar
	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	} else {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(a.input.View()))

	// Suggestions render below the input.
	if a.suggestions.IsVisible() {
		b.WriteString("\n")
		b.WriteString(a.suggestions.Render(a.width))
	}
	b.WriteString("\n")

	var status string
	switch a.mode {
	case modeList:
		status = fmt.Sprintf(" Tasks: %d | ↑↓:nav | Enter:open | Tab:filter | Ctrl+R:refresh | Ctrl+C:quit", len(a.tasks))
	default:
		status = " ↑↓:scroll | Esc:back | Ctrl+R:refresh | Ctrl+C:quit"
	}
	b.WriteString(statusBarStyle.Width(a.width).Render(status))

	return b.String()
}

func (a *App) renderTaskList(height int) string {
	if a.loading && len(a.tasks) == 0 {
		return "\n  Loading tasks...\n"
	}
	if len(a.tasks) == 0 {
		return "\n  No tasks found. Type: add <title> to create one.\n"
	}

	var lines []string
	for i, task := range a.tasks {
		if i == a.selectedIdx {
			line := selectedStyle.Render(fmt.Sprintf("▶ %s  %-6s %s  %s",
				formatStatusPlain(task.Status), task.Priority, task.Title, formatDue(task.DueDate)))
			lines = append(lines, line)
		} else {
			line := taskItemStyle.Render(fmt.Sprintf("  %s  %s  %s  %s",
				formatStatus(task.Status), formatPriority(task.Priority), task.Title, helpStyle.Render(formatDue(task.DueDate))))
			lines = append(lines, line)
		}
	}

	// Limit visible lines
	if len(lines) > height {
		start := max(0, a.selectedIdx-height/2)
		end := start + height
		if end > len(lines) {
			end = len(lines)
			start = max(0, end-height)
		}
		lines = lines[start:end]
	}

	return strings.Join(lines, "\n")
}

func (a *App) renderTaskDetail() string {
	if a.currentTask == nil {
		return "\n  Loading...\n"
	}

	var b strings.Builder
	t := a.currentTask

	b.WriteString(fmt.Sprintf("\n  %s\n", lipgloss.NewStyle().Bold(true).Render(t.Title)))
	b.WriteString(fmt.Sprintf("  ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf("  Status: %s\n", formatStatus(t.Status)))
	b.WriteString(fmt.Sprintf("  Priority: %s\n", formatPriority(t.Priority)))
	b.WriteString(fmt.Sprintf("  Due: %s\n", formatDue(t.DueDate)))
	if t.Description != "" {
		b.WriteString(fmt.Sprintf("  Description: %s\n", t.Description))
	}
	b.WriteString(fmt.Sprintf("  Created: %s  Updated: %s\n", t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339)))
	if t.Status == models.TaskStatusCompleted {
		b.WriteString("\n  " + helpStyle.Render("Locked. Type: reopen to edit this task.") + "\n")
	}

	if len(a.history) > 0 {
		b.WriteString("\n  History:\n")
		for _, e := range a.history {
			outcome := lipgloss.NewStyle().Foreground(successColor).Render(e.Outcome)
			if e.Outcome != "success" {
				outcome = lipgloss.NewStyle().Foreground(errorColor).Render(e.Outcome)
			}
			line := fmt.Sprintf("    • %s  %-12s %s", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, outcome)
			if e.Details != "" {
				line += "  " + helpStyle.Render(e.Details)
			}
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

func formatStatus(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusPending:
		return lipgloss.NewStyle().Foreground(warningColor).Render("○ PENDING")
	case models.TaskStatusInProgress:
		return lipgloss.NewStyle().Foreground(secondaryColor).Render("◑ IN PROGRESS")
	case models.TaskStatusCompleted:
		return lipgloss.NewStyle().Foreground(successColor).Render("● DONE")
	default:
		return string(status)
	}
}

func formatStatusPlain(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusPending:
		return "○"
	case models.TaskStatusInProgress:
		return "◑"
	case models.TaskStatusCompleted:
		return "●"
	default:
		return "?"
	}
}

func formatPriority(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return lipgloss.NewStyle().Foreground(errorColor).Bold(true).Render("high  ")
	case models.PriorityLow:
		return lipgloss.NewStyle().Foreground(mutedColor).Render("low   ")
	default:
		return lipgloss.NewStyle().Foreground(warningColor).Render("medium")
	}
}

func formatDue(due *time.Time) string {
	if due == nil {
		return ""
	}
	return "due " + due.Local().Format("Jan 2 15:04")
}
