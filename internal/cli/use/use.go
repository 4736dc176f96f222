// Package use holds the commands that set per-shell context,
// e.g. tablero use project ...
package use

import (
	"github.com/spf13/cobra"
)

// UseCmd returns the use parent command
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Manage per-shell context",
		Long: `Set context for the current shell session so later commands can skip
their flags.

Examples:
  eval $(tablero use project inbox)   # Use project inbox
  eval $(tablero use project --clear) # Clear project context
  tablero use project --show          # Show current project`,
	}

	cmd.AddCommand(ProjectCmd())

	return cmd
}
