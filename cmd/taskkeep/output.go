package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fentz26/taskkeep/internal/models"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// printStructured writes v as JSON or YAML. It reports false for the table
// format so the caller can render its own view.
func printStructured(w io.Writer, format string, v any) (bool, error) {
	switch strings.ToLower(format) {
	case "", outputTable:
		return false, nil
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(v)
	default:
		return false, fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func printTaskTable(w io.Writer, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, truncate(t.Title, 40), t.Status, t.Priority, formatDue(t.DueDate))
	}
	tw.Flush()
}

func printTask(w io.Writer, t *models.Task) {
	fmt.Fprintf(w, "ID:          %s\n", t.ID)
	fmt.Fprintf(w, "Title:       %s\n", t.Title)
	fmt.Fprintf(w, "Description: %s\n", t.Description)
	fmt.Fprintf(w, "Status:      %s\n", t.Status)
	fmt.Fprintf(w, "Priority:    %s\n", t.Priority)
	fmt.Fprintf(w, "Due:         %s\n", formatDue(t.DueDate))
	fmt.Fprintf(w, "Created:     %s\n", t.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Updated:     %s\n", t.UpdatedAt.Format(time.RFC3339))
	if t.Status == models.TaskStatusCompleted {
		fmt.Fprintln(w, "Locked:      yes (reopen to edit)")
	}
}

func printUserTable(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, truncate(u.Name, 30), u.Email, u.Role)
	}
	tw.Flush()
}

func printUser(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "ID:       %s\n", u.ID)
	fmt.Fprintf(w, "Name:     %s\n", u.Name)
	fmt.Fprintf(w, "Email:    %s\n", u.Email)
	fmt.Fprintf(w, "Role:     %s\n", u.Role)
	if u.Phone != "" {
		fmt.Fprintf(w, "Phone:    %s\n", u.Phone)
	}
	if u.Address != "" {
		fmt.Fprintf(w, "Address:  %s\n", u.Address)
	}
	fmt.Fprintf(w, "Created:  %s\n", u.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Updated:  %s\n", u.UpdatedAt.Format(time.RFC3339))
}

// --- Helpers ---

func formatDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
