package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/taskapi"
	"github.com/thenoetrevino/tablero/internal/types"
)

// UpdateCmd returns the task update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update fields of a task",
		Long: `Update one or more fields of a task. Only the flags given are sent.

Examples:
  tablero task update 42 --title="Fix login bug"
  tablero task update 42 --priority=high --due=none
  echo "Steps to reproduce" | tablero task update 42 --description=-`,
		Args: cobra.ExactArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description (use - for stdin)")
	cmd.Flags().String("status", "", "New status")
	cmd.Flags().String("section", "", "New section ID (empty string with --clear-section)")
	cmd.Flags().Bool("clear-section", false, "Remove the task from its section")
	cmd.Flags().String("priority", "", "New priority: low, medium, high")
	cmd.Flags().String("due", "", "New due date (YYYY-MM-DD, RFC3339 or none)")
	cmd.Flags().String("assignees", "", "Comma separated assignees, replaces the current list")

	cli.AddOutputFlags(cmd)
	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	c, formatter, project, err := setup(cmd)
	if err != nil {
		return err
	}
	taskID := types.TaskID(args[0])

	patch, err := buildPatch(cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	if patch.IsEmpty() {
		return formatter.Fail(&cli.UsageError{Message: "nothing to update: pass at least one field flag"})
	}

	api := c.API()
	if err := api.UpdateTask(cmd.Context(), types.ProjectID(project), taskID, patch); err != nil {
		return formatter.Fail(err)
	}

	tasks, err := api.ListTasks(cmd.Context(), types.ProjectID(project))
	if err == nil {
		for _, t := range tasks {
			if t.ID == taskID {
				return formatter.Task(t, fmt.Sprintf("Task %s updated", taskID))
			}
		}
	}
	return formatter.Success(string(taskID), fmt.Sprintf("Task %s updated", taskID), map[string]string{"id": string(taskID)})
}

func buildPatch(cmd *cobra.Command) (taskapi.TaskPatch, error) {
	var patch taskapi.TaskPatch
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		if err := models.ValidateTitle(title); err != nil {
			return patch, err
		}
		patch.Title = &title
	}
	if flags.Changed("description") {
		raw, _ := flags.GetString("description")
		description, err := cli.ReadDescription(raw, cmd.InOrStdin())
		if err != nil {
			return patch, err
		}
		patch.Description = &description
	}
	if flags.Changed("status") {
		raw, _ := flags.GetString("status")
		status := models.NormalizeStatus(raw)
		patch.Status = &status
	}
	if flags.Changed("section") || flags.Changed("clear-section") {
		raw, _ := flags.GetString("section")
		section := types.SectionID(raw)
		if clear, _ := flags.GetBool("clear-section"); clear {
			section = ""
		}
		patch.SectionID = &section
	}
	if flags.Changed("priority") {
		raw, _ := flags.GetString("priority")
		priority, err := models.ParsePriority(raw)
		if err != nil {
			return patch, err
		}
		patch.Priority = &priority
	}
	if flags.Changed("due") {
		raw, _ := flags.GetString("due")
		due, clear, err := cli.ParseDueDate(raw)
		if err != nil {
			return patch, err
		}
		patch.DueDate = due
		patch.ClearDueDate = clear
	}
	if flags.Changed("assignees") {
		raw, _ := flags.GetString("assignees")
		assignees := models.NormalizeAssignees(cli.SplitList(raw))
		patch.Assignees = &assignees
	}
	return patch, nil
}
