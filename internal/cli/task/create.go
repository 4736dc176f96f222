package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Long: `Create a new task with specified attributes.

Examples:
  # Simple task (human-readable output)
  tablero task create --title="Fix bug"

  # Quiet mode for bash capture
  TASK_ID=$(tablero task create --title="Fix bug" --quiet)

  # Full example with all options
  tablero task create \
    --title="Add authentication" \
    --description="Implement JWT auth" \
    --status=in-progress \
    --priority=high \
    --due=2026-12-01 \
    --assignees=ana,li`,
		Args: cobra.NoArgs,
		RunE: runCreate,
	}

	cmd.Flags().String("title", "", "Task title (required)")
	_ = cmd.MarkFlagRequired("title")

	cmd.Flags().String("description", "", "Task description (use - for stdin)")
	cmd.Flags().String("status", "", "Status: todo, in-progress, done or a custom status")
	cmd.Flags().String("section", "", "Section ID")
	cmd.Flags().String("priority", "", "Priority: low, medium, high")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().String("assignees", "", "Comma separated assignees")

	cli.AddOutputFlags(cmd)
	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	c, formatter, project, err := setup(cmd)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	rawDescription, _ := cmd.Flags().GetString("description")
	status, _ := cmd.Flags().GetString("status")
	section, _ := cmd.Flags().GetString("section")
	rawPriority, _ := cmd.Flags().GetString("priority")
	rawDue, _ := cmd.Flags().GetString("due")
	assignees, _ := cmd.Flags().GetString("assignees")

	description, err := cli.ReadDescription(rawDescription, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(err)
	}
	priority, err := models.ParsePriority(rawPriority)
	if err != nil {
		return formatter.Fail(err)
	}
	due, _, err := cli.ParseDueDate(rawDue)
	if err != nil {
		return formatter.Fail(err)
	}

	draft, err := models.ValidateNew(models.Task{
		ProjectID:   types.ProjectID(project),
		Title:       title,
		Description: description,
		Status:      models.Status(status),
		SectionID:   types.SectionID(section),
		Priority:    priority,
		DueDate:     due,
		Assignees:   cli.SplitList(assignees),
	}, types.ProjectID(project))
	if err != nil {
		return formatter.Fail(err)
	}

	created, err := c.API().CreateTask(cmd.Context(), draft)
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Task(created, fmt.Sprintf("Task '%s' created", created.Title))
}
