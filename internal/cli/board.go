package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/launcher"
	"github.com/thenoetrevino/tablero/internal/logging"
)

// BoardCmd returns the command that opens the interactive board
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board",
		Long: `Open the board for a project in the terminal. Changes apply at once and
are saved in the background; a change the API rejects is undone and reported.

When daemon.socket_path is configured the board refreshes as soon as another
client changes the project.

Examples:
  tablero board
  tablero board --project=website
  tablero board --read-only`,
		Args: cobra.NoArgs,
		RunE: runBoard,
	}

	cmd.Flags().String("project", "", "Project ID (defaults to board.default_project or TABLERO_PROJECT)")
	cmd.Flags().Bool("read-only", false, "Open the board without editing")
	return cmd
}

func runBoard(cmd *cobra.Command, args []string) error {
	c, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		return err
	}

	closer, err := logging.Init()
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	project, _ := cmd.Flags().GetString("project")
	opts := []app.Option{app.WithProject(c.Project(project))}
	if cmd.Flags().Changed("read-only") {
		readOnly, _ := cmd.Flags().GetBool("read-only")
		opts = append(opts, app.WithReadOnly(readOnly))
	}

	return launcher.Launch(cmd.Context(), c.Config, logging.Logger.With("component", "board"), opts...)
}
