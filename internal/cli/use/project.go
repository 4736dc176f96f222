package use

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/types"
)

// projectEnv is read by config when no --project flag is given
const projectEnv = "TABLERO_PROJECT"

// ProjectCmd returns the use project subcommand
func ProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [project-id]",
		Short: "Set the project for the current shell session",
		Long: `Print the shell command that selects a project. Evaluate it:

  eval $(tablero use project inbox)
  eval $(tablero use project --clear)
  tablero use project --show

The project is checked against the task API first. The --project flag on
other commands takes precedence over ` + projectEnv + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUseProject,
	}

	cmd.Flags().Bool("clear", false, "Clear the current project context")
	cmd.Flags().Bool("show", false, "Show the current project context")
	cmd.Flags().Bool("dry-run", false, "Show what would be exported without printing shell commands")

	return cmd
}

func runUseProject(cmd *cobra.Command, args []string) error {
	c, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return err
	}
	out, status := cmd.OutOrStdout(), cmd.ErrOrStderr()

	clearFlag, _ := cmd.Flags().GetBool("clear")
	showFlag, _ := cmd.Flags().GetBool("show")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if showFlag {
		project := c.Config.Board.DefaultProject
		if project == "" {
			fmt.Fprintln(out, "No project context set")
			fmt.Fprintln(out, "Use 'eval $(tablero use project <project-id>)' to set one")
			return nil
		}
		fmt.Fprintf(out, "Current project: %s\n", project)
		return nil
	}

	if clearFlag {
		if dryRun {
			fmt.Fprintf(status, "Would clear %s\n", projectEnv)
			return nil
		}
		fmt.Fprintf(out, "unset %s\n", projectEnv)
		fmt.Fprintln(status, "Cleared project context")
		return nil
	}

	if len(args) == 0 {
		return &cli.UsageError{Message: "project ID required\nUsage: eval $(tablero use project <project-id>)"}
	}
	project := types.ProjectID(strings.TrimSpace(args[0]))
	if project == "" || strings.ContainsAny(string(project), " \t'\"$`;") {
		return &cli.UsageError{Message: fmt.Sprintf("invalid project ID: %q", args[0])}
	}

	tasks, err := c.API().ListTasks(cmd.Context(), project)
	if err != nil {
		return fmt.Errorf("check project %s: %w", project, err)
	}

	if dryRun {
		fmt.Fprintf(status, "Would set %s=%s (%d tasks)\n", projectEnv, project, len(tasks))
		return nil
	}
	fmt.Fprintf(out, "export %s=%s\n", projectEnv, project)
	fmt.Fprintf(status, "Now using project %s (%d tasks)\n", project, len(tasks))
	return nil
}
