package cli

import (
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/server"
)

// TokenCmd returns the command that mints bearer tokens for `tablero serve`
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the development task API",
		Long: `Issue an HS256 bearer token signed with server.jwt_secret.

Examples:
  export TABLERO_TOKEN=$(tablero token --subject=me)
  tablero token --subject=viewer --read-only --ttl=1h`,
		Args: cobra.NoArgs,
		RunE: runToken,
	}
	cmd.Flags().String("subject", currentUsername(), "Token subject")
	cmd.Flags().Bool("read-only", false, "Omit the tasks:write scope")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func runToken(cmd *cobra.Command, args []string) error {
	c, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		return err
	}
	if c.Config.Server.JWTSecret == "" {
		return &UsageError{Message: "no jwt secret: set server.jwt_secret or TABLERO_JWT_SECRET"}
	}

	subject, _ := cmd.Flags().GetString("subject")
	readOnly, _ := cmd.Flags().GetBool("read-only")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	var scopes []string
	if !readOnly {
		scopes = []string{server.ScopeWrite}
	}
	token, err := server.IssueToken(c.Config.Server.JWTSecret, subject, scopes, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}

// currentUsername falls back to $USER, then to "tablero"
func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "tablero"
}
