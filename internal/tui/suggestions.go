package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/taskkeep/internal/models"
)

// Suggestions provides autocomplete for commands and task references.
type Suggestions struct {
	items        []SuggestionItem
	filtered     []SuggestionItem
	tasks        []SuggestionItem
	selectedIdx  int
	visible      bool
	prefix       string // "/" or "@"
	currentInput string
}

// SuggestionItem represents a single autocomplete suggestion
type SuggestionItem struct {
	Text        string
	Description string
	Type        string // "command" or "task"
	TaskID      string
}

var commandSuggestions = []SuggestionItem{
	{Text: "add", Description: "Create a new task", Type: "command"},
	{Text: "start", Description: "Mark the task in progress", Type: "command"},
	{Text: "done", Description: "Complete the task (locks it)", Type: "command"},
	{Text: "pending", Description: "Move the task back to pending", Type: "command"},
	{Text: "reopen", Description: "Reopen a completed task", Type: "command"},
	{Text: "delete", Description: "Delete the task", Type: "command"},
	{Text: "priority", Description: "Set priority: low, medium, high [due]", Type: "command"},
	{Text: "due", Description: "Set the due date (ISO 8601)", Type: "command"},
	{Text: "rename", Description: "Change the title", Type: "command"},
	{Text: "desc", Description: "Change the description", Type: "command"},
	{Text: "count", Description: "Count stored tasks", Type: "command"},
	{Text: "quit", Description: "Leave taskkeep", Type: "command"},
}

// NewSuggestions creates a new suggestions handler
func NewSuggestions() *Suggestions {
	return &Suggestions{
		items: commandSuggestions,
	}
}

// Update updates suggestions based on current input
func (s *Suggestions) Update(input string) {
	s.currentInput = input
	switch {
	case strings.HasPrefix(input, "/") && !strings.Contains(input, " "):
		s.prefix = "/"
		s.items = commandSuggestions
	case strings.HasPrefix(input, "@"):
		s.prefix = "@"
		s.items = s.tasks
	default:
		s.visible = false
		s.filtered = nil
		s.prefix = ""
		return
	}
	s.visible = true
	s.filter(strings.ToLower(strings.TrimPrefix(input, s.prefix)))
}

// SetTasks replaces the task references offered after "@".
func (s *Suggestions) SetTasks(tasks []models.Task) {
	s.tasks = make([]SuggestionItem, len(tasks))
	for i, t := range tasks {
		s.tasks[i] = SuggestionItem{
			Text:        t.Title,
			Description: string(t.Status),
			Type:        "task",
			TaskID:      t.ID,
		}
	}
	if s.prefix == "@" {
		s.Update(s.currentInput)
	}
}

func (s *Suggestions) filter(query string) {
	if query == "" {
		s.filtered = s.items
		s.selectedIdx = 0
		return
	}

	s.filtered = []SuggestionItem{}
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Text), query) {
			s.filtered = append(s.filtered, item)
		}
	}
	s.selectedIdx = 0
}

// Next moves to the next suggestion
func (s *Suggestions) Next() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx = (s.selectedIdx + 1) % len(s.filtered)
}

// Prev moves to the previous suggestion
func (s *Suggestions) Prev() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx--
	if s.selectedIdx < 0 {
		s.selectedIdx = len(s.filtered) - 1
	}
}

// Selected returns the currently selected suggestion
func (s *Suggestions) Selected() *SuggestionItem {
	if !s.visible || len(s.filtered) == 0 || s.selectedIdx >= len(s.filtered) {
		return nil
	}
	return &s.filtered[s.selectedIdx]
}

// IsVisible returns whether suggestions are currently visible
func (s *Suggestions) IsVisible() bool {
	return s.visible && len(s.filtered) > 0
}

// Render renders the suggestions dropdown
func (s *Suggestions) Render(width int) string {
	if !s.IsVisible() {
		return ""
	}

	var b strings.Builder

	suggestionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondaryColor).
		Padding(0, 1).
		Width(max(20, width-4))

	itemSelected := lipgloss.NewStyle().
		Background(primaryColor).
		Foreground(fgColor).
		Bold(true)

	itemStyle := lipgloss.NewStyle().
		Foreground(fgColor)

	descStyle := lipgloss.NewStyle().
		Foreground(mutedColor).
		Italic(true)

	header := "Commands"
	if s.prefix == "@" {
		header = "Tasks"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render(header))
	b.WriteString("\n")

	// Show max 5 suggestions
	maxVisible := 5
	for i, item := range s.filtered {
		if i >= maxVisible {
			more := len(s.filtered) - maxVisible
			b.WriteString(descStyle.Render(fmt.Sprintf("  ... and %d more", more)))
			break
		}

		var line string
		if i == s.selectedIdx {
			line = itemSelected.Render("▶ " + item.Text)
			if item.Description != "" {
				line += " " + itemSelected.Render(item.Description)
			}
		} else {
			line = itemStyle.Render("  " + item.Text)
			if item.Description != "" {
				line += " " + descStyle.Render(item.Description)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return suggestionStyle.Render(b.String())
}
