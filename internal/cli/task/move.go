package task

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/services/boardsync"
	"github.com/thenoetrevino/tablero/internal/types"
)

// MoveCmd returns the task move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a task to another lane or position",
		Long: `Move a task the same way a drag on the board does. The lane and order
changes of every affected task are saved together.

Lanes are status names (todo, in-progress, done, or a custom status),
"status:<api status>" or "section:<section id>".

Examples:
  tablero task move 42 --to=done
  tablero task move 42 --to=section:backlog
  tablero task move 42 --before=17`,
		Args: cobra.ExactArgs(1),
		RunE: runMove,
	}

	cmd.Flags().String("to", "", "Destination lane (appends to the end)")
	cmd.Flags().String("before", "", "Place the task before this task, in its lane")
	cmd.MarkFlagsOneRequired("to", "before")
	cmd.MarkFlagsMutuallyExclusive("to", "before")

	cli.AddOutputFlags(cmd)
	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	c, formatter, project, err := setup(cmd)
	if err != nil {
		return err
	}
	taskID := types.TaskID(args[0])
	to, _ := cmd.Flags().GetString("to")
	before, _ := cmd.Flags().GetString("before")

	gesture := board.DropOnTask(taskID, types.TaskID(before))
	if to != "" {
		lane, err := cli.ParseLane(to)
		if err != nil {
			return formatter.Fail(err)
		}
		gesture = board.DropOnLane(taskID, lane)
	}

	ctx := cmd.Context()
	a, err := c.OpenBoard(ctx, types.ProjectID(project))
	if err != nil {
		return formatter.Fail(err)
	}
	defer func() { _ = a.Close(context.WithoutCancel(ctx)) }()

	intent, changed, err := board.Resolve(a.Board.Lanes(), gesture)
	if err != nil {
		return formatter.Fail(err)
	}
	if !changed {
		return formatter.Success(string(taskID), fmt.Sprintf("Task %s is already there", taskID), map[string]string{"id": string(taskID)})
	}

	if err := a.Board.Move(intent); err != nil {
		return formatter.Fail(err)
	}
	if err := settle(ctx, a.Board, taskID); err != nil {
		return formatter.Fail(err)
	}

	moved, _ := a.Board.Lanes().Task(taskID)
	return formatter.Task(moved, fmt.Sprintf("Task %s moved to %s", taskID, intent.ToLane))
}

// settle waits for the move to persist and returns the cause if it rolled back
func settle(ctx context.Context, ctrl *boardsync.Controller, id types.TaskID) error {
	if err := ctrl.Flush(ctx); err != nil {
		return err
	}
	for {
		select {
		case u, ok := <-ctrl.Updates():
			if !ok {
				return nil
			}
			if u.Kind == boardsync.UpdateRolledBack && u.TaskID == id {
				return u.Err
			}
		default:
			return nil
		}
	}
}
