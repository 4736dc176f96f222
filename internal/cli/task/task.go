package task

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/cli"
)

// TaskCmd returns the task parent command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks on the remote task API",
	}
	cmd.PersistentFlags().String("project", "", "Project ID (defaults to board.default_project or TABLERO_PROJECT)")

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

// setup resolves the shared CLI state and target project for a subcommand
func setup(cmd *cobra.Command) (*cli.CLI, *cli.OutputFormatter, string, error) {
	formatter := cli.Formatter(cmd)
	c, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return nil, formatter, "", formatter.Fail(err)
	}
	project, _ := cmd.Flags().GetString("project")
	return c, formatter, string(c.Project(project)), nil
}

// laneListing flattens a projected board for output
func laneListing(lanes board.Lanes) []cli.LaneTasks {
	out := make([]cli.LaneTasks, 0, lanes.Len())
	for _, l := range lanes.All() {
		out = append(out, cli.LaneTasks{Lane: l.Key.Wire(), Title: l.Title, Tasks: l.Tasks})
	}
	return out
}
