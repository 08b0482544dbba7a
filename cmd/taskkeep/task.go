package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, soonest due first",
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update task fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskUpdate,
}

var taskStartCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Mark a task in progress",
	Args:  cobra.ExactArgs(1),
	RunE:  setStatus("in-progress"),
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Complete a task (locks it)",
	Args:  cobra.ExactArgs(1),
	RunE:  setStatus("completed"),
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var taskReopenCmd = &cobra.Command{
	Use:   "reopen [task-id]",
	Short: "Reopen a completed task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskReopen,
}

var taskHistoryCmd = &cobra.Command{
	Use:   "history [task-id]",
	Short: "Show the decision history of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskHistory,
}

var taskCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count tasks",
	RunE:  runTaskCount,
}

var taskStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tasks grouped by status",
	RunE:  runTaskStats,
}

var (
	taskTitle    string
	taskDesc     string
	taskStatus   string
	taskPriority string
	taskDue      string
	outputFormat string
)

// taskFieldFlags maps flag names onto request fields.
var taskFieldFlags = map[string]string{
	"title":    "title",
	"desc":     "description",
	"status":   "status",
	"priority": "priority",
	"due":      "dueDate",
}

func init() {
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskUpdateCmd, taskStartCmd, taskDoneCmd,
		taskDeleteCmd, taskReopenCmd, taskHistoryCmd, taskCountCmd, taskStatsCmd)
	taskCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputTable, "Output format (table, json, yaml)")

	for _, cmd := range []*cobra.Command{taskAddCmd, taskUpdateCmd} {
		cmd.Flags().StringVar(&taskTitle, "title", "", "Task title")
		cmd.Flags().StringVar(&taskDesc, "desc", "", "Task description")
		cmd.Flags().StringVar(&taskStatus, "status", "", "Status (pending, in-progress, completed)")
		cmd.Flags().StringVar(&taskPriority, "priority", "", "Priority (low, medium, high)")
		cmd.Flags().StringVar(&taskDue, "due", "", "Due date, ISO 8601 (e.g. 2026-12-31T10:00:00Z)")
	}
	taskAddCmd.MarkFlagRequired("title")

	taskListCmd.Flags().StringVar(&taskStatus, "status", "", "Filter by status (pending, in-progress, completed)")
	taskListCmd.Flags().StringVar(&taskPriority, "priority", "", "Filter by priority (low, medium, high)")
}

// changedFields collects the task fields whose flags were set explicitly.
func changedFields(flags *pflag.FlagSet) map[string]any {
	fields := map[string]any{}
	flags.Visit(func(f *pflag.Flag) {
		if field, ok := taskFieldFlags[f.Name]; ok {
			fields[field] = f.Value.String()
		}
	})
	return fields
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	task, err := api.CreateTask(changedFields(cmd.Flags()))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := printStructured(out, outputFormat, task); done || err != nil {
		return err
	}
	fmt.Fprintf(out, "Created task: %s\n", task.ID)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	tasks, err := api.ListTasks(taskStatus, taskPriority)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := printStructured(out, outputFormat, tasks); done || err != nil {
		return err
	}
	printTaskTable(out, tasks)
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	task, err := api.GetTask(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := printStructured(out, outputFormat, task); done || err != nil {
		return err
	}
	printTask(out, task)
	return nil
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	fields := changedFields(cmd.Flags())
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update: set at least one of --title, --desc, --status, --priority, --due")
	}

	task, err := api.UpdateTask(args[0], fields)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := printStructured(out, outputFormat, task); done || err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated task %s\n", task.ID)
	return nil
}

func setStatus(status string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		task, err := api.UpdateTask(args[0], map[string]any{"status": status})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", task.ID, task.Status)
		return nil
	}
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	if err := api.DeleteTask(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
	return nil
}

func runTaskReopen(cmd *cobra.Command, args []string) error {
	task, err := api.ReopenTask(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reopened task %s (status: %s)\n", task.ID, task.Status)
	return nil
}

func runTaskHistory(cmd *cobra.Command, args []string) error {
	entries, err := api.TaskHistory(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := printStructured(out, outputFormat, entries); done || err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history found")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-12s %-9s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Outcome)
		if e.Details != "" {
			line += "  " + truncate(e.Details, 80)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runTaskCount(cmd *cobra.Command, args []string) error {
	n, err := api.CountTasks()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)
	return nil
}

func runTaskStats(cmd *cobra.Command, args []string) error {
	groups, err := api.TasksByStatus()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := printStructured(out, outputFormat, groups); done || err != nil {
		return err
	}
	for _, key := range []string{"pending", "inProgress", "completed"} {
		g := groups[key]
		fmt.Fprintf(out, "== %s (%d) ==\n", key, g.Count)
		printTaskTable(out, g.Tasks)
		fmt.Fprintln(out)
	}
	return nil
}
