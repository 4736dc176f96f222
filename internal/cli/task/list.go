package task

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks grouped by lane",
		Long: `List every task of a project, grouped into the same lanes the board shows.

Examples:
  tablero task list
  tablero task list --project=roadmap --json
  tablero task list --quiet | xargs -n1 tablero task delete`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	c, formatter, project, err := setup(cmd)
	if err != nil {
		return err
	}

	api := c.API()
	tasks, err := api.ListTasks(cmd.Context(), types.ProjectID(project))
	if err != nil {
		return formatter.Fail(err)
	}
	sections, err := api.ListSections(cmd.Context(), types.ProjectID(project))
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Tasks(laneListing(board.Project(tasks, sections)))
}
