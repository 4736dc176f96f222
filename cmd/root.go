package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/cli/styles"
	"github.com/thenoetrevino/tablero/internal/cli/task"
	"github.com/thenoetrevino/tablero/internal/cli/use"
	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/logging"
)

// NewRootCmd builds the tablero command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tablero",
		Short: "tablero - a terminal board for a remote task API",
		Long: `tablero shows a project's tasks as a board of lanes and keeps it in sync
with the task API: moves, edits and deletes apply at once and are saved in
the background, and failed saves are undone.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadCLI,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/tablero/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log progress to stderr")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &cli.UsageError{Message: err.Error()}
	})

	rootCmd.AddCommand(cli.BoardCmd())
	rootCmd.AddCommand(task.TaskCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.DaemonCmd())
	rootCmd.AddCommand(cli.TokenCmd())
	rootCmd.AddCommand(use.UseCmd())
	return rootCmd
}

// loadCLI loads the configuration once and hands it to every subcommand
func loadCLI(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	styles.Init(cfg.ColorScheme)
	logger := logging.Console(cmd.ErrOrStderr(), verbose)
	cmd.SetContext(cli.WithCLI(cmd.Context(), cli.NewCLI(cfg, logger)))
	return nil
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return cli.ExitSuccess
	}

	// failures reported through an OutputFormatter are already printed
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}
