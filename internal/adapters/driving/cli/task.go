package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	tasksapi "google.golang.org/api/tasks/v1"

	"github.com/dnvriend/google-gmail-tool/internal/core/ports/driving"
)

var (
	taskQueryFlag           string
	taskCompletedFlag       bool
	taskTitleFlag           string
	taskNotesFlag           string
	taskDueFlag             string
	taskExportDateFlag      string
	taskExportCompletedFlag bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage and export Google Tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks from the default task list",
	RunE:  runTaskList,
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	RunE:  runTaskCreate,
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update a task's title, notes or due date",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskUpdate,
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskSetStatus,
}

var taskUncompleteCmd = &cobra.Command{
	Use:   "uncomplete <task-id>",
	Short: "Mark a completed task as needing action again",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskSetStatus,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var taskExportCmd = &cobra.Command{
	Use:   "export-obsidian",
	Short: "Export tasks into the daily note",
	Long: `Exports tasks into the anchor date's daily note, bucketed into
Overdue, Today, Tomorrow, This Week and No Due Date sections. Rerunning
merges into an edited note; ticking a checkbox in Obsidian survives the
next export.`,
	RunE: runTaskExport,
}

func init() {
	taskListCmd.Flags().StringVarP(&taskQueryFlag, "query", "q", "", "Filter on title/notes substring")
	taskListCmd.Flags().BoolVar(&taskCompletedFlag, "all", false, "Include completed tasks")

	taskCreateCmd.Flags().StringVar(&taskTitleFlag, "title", "", "Task title (required)")
	taskCreateCmd.Flags().StringVar(&taskNotesFlag, "notes", "", "Task notes")
	taskCreateCmd.Flags().StringVar(&taskDueFlag, "due", "", "Due date (YYYY-MM-DD)")
	_ = taskCreateCmd.MarkFlagRequired("title")

	taskUpdateCmd.Flags().StringVar(&taskTitleFlag, "title", "", "New title")
	taskUpdateCmd.Flags().StringVar(&taskNotesFlag, "notes", "", "New notes")
	taskUpdateCmd.Flags().StringVar(&taskDueFlag, "due", "", "New due date (YYYY-MM-DD)")

	taskExportCmd.Flags().StringVar(&taskExportDateFlag, "date", "", "Anchor date (YYYY-MM-DD, default today)")
	taskExportCmd.Flags().BoolVar(&taskExportCompletedFlag, "completed", false, "Include completed tasks")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskCompleteCmd)
	taskCmd.AddCommand(taskUncompleteCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskExportCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskList(cmd *cobra.Command, _ []string) error {
	if taskAPI == nil {
		return errors.New("tasks client not configured; run 'auth login' first")
	}

	ctx, cancel := commandContext()
	defer cancel()

	items, err := taskAPI.Search(ctx, taskQueryFlag, taskCompletedFlag)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		cmd.Println("No tasks found.")
		return nil
	}

	for _, task := range items {
		cmd.Printf("%s %-12s %s\n", taskMark(task), formatTaskDue(task.Due), task.Title)
		cmd.Printf("    id: %s\n", task.Id)
		if task.Notes != "" {
			cmd.Printf("    %s\n", strings.ReplaceAll(task.Notes, "\n", "\n    "))
		}
	}
	cmd.Printf("\n%d task(s)\n", len(items))
	return nil
}

func runTaskCreate(cmd *cobra.Command, _ []string) error {
	if taskAPI == nil {
		return errors.New("tasks client not configured; run 'auth login' first")
	}

	due, err := parseDueFlag(taskDueFlag)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	task, err := taskAPI.Create(ctx, taskTitleFlag, taskNotesFlag, due)
	if err != nil {
		return err
	}
	cmd.Printf("Created task %s: %s\n", task.Id, task.Title)
	return nil
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	if taskAPI == nil {
		return errors.New("tasks client not configured; run 'auth login' first")
	}
	if taskTitleFlag == "" && taskNotesFlag == "" && taskDueFlag == "" {
		return errors.New("nothing to update: pass --title, --notes or --due")
	}

	due, err := parseDueFlag(taskDueFlag)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	task, err := taskAPI.Update(ctx, args[0], taskTitleFlag, taskNotesFlag, due)
	if err != nil {
		return err
	}
	cmd.Printf("Updated task %s: %s\n", task.Id, task.Title)
	return nil
}

func runTaskSetStatus(cmd *cobra.Command, args []string) error {
	if taskAPI == nil {
		return errors.New("tasks client not configured; run 'auth login' first")
	}

	ctx, cancel := commandContext()
	defer cancel()

	if cmd.Name() == "complete" {
		if err := taskAPI.Complete(ctx, args[0]); err != nil {
			return err
		}
		cmd.Printf("Completed task %s\n", args[0])
		return nil
	}
	if err := taskAPI.Uncomplete(ctx, args[0]); err != nil {
		return err
	}
	cmd.Printf("Reopened task %s\n", args[0])
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	if taskAPI == nil {
		return errors.New("tasks client not configured; run 'auth login' first")
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := taskAPI.Delete(ctx, args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted task %s\n", args[0])
	return nil
}

func runTaskExport(cmd *cobra.Command, _ []string) error {
	if exporter == nil {
		return errors.New("exporter not configured; set vault.root via 'auth configure'")
	}

	date := time.Now()
	if taskExportDateFlag != "" {
		parsed, err := time.ParseInLocation("2006-01-02", taskExportDateFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", taskExportDateFlag)
		}
		date = parsed
	}

	ctx, cancel := commandContext()
	defer cancel()

	result, err := exporter.ExportTasks(ctx, driving.ExportOptions{
		Date:             date,
		IncludeCompleted: taskExportCompletedFlag,
	})
	if err != nil {
		return err
	}
	printExportResult(cmd, result)
	return nil
}

func taskMark(task *tasksapi.Task) string {
	if task.Status == "completed" {
		return "[x]"
	}
	return "[ ]"
}

// formatTaskDue renders the API's RFC3339 due value as a plain date.
func formatTaskDue(due string) string {
	if due == "" {
		return "no due date"
	}
	t, err := time.Parse(time.RFC3339, due)
	if err != nil {
		return due
	}
	return t.UTC().Format("2006-01-02")
}

// parseDueFlag parses an optional YYYY-MM-DD due flag. Empty means no
// due date.
func parseDueFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	due, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --due %q: expected YYYY-MM-DD", value)
	}
	return due, nil
}
