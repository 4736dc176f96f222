package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/types"
)

// DeleteCmd returns the task delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	c, formatter, project, err := setup(cmd)
	if err != nil {
		return err
	}
	taskID := types.TaskID(args[0])

	if err := c.API().DeleteTask(cmd.Context(), types.ProjectID(project), taskID); err != nil {
		return formatter.Fail(err)
	}
	return formatter.Success(string(taskID), fmt.Sprintf("Task %s deleted", taskID), map[string]string{"id": string(taskID)})
}
