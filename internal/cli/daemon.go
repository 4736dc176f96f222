package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/daemon"
)

// DaemonCmd returns the command that runs the event daemon in the foreground
func DaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the event daemon that tells open boards to refresh",
		Args:  cobra.NoArgs,
		RunE:  runDaemon,
	}
	cmd.Flags().String("socket", "", "Unix socket path (default daemon.socket_path or ~/.tablero/tablero.sock)")
	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	c, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		return err
	}

	socketPath := flagOr(cmd, "socket", c.Config.Daemon.SocketPath)
	if socketPath == "" {
		socketPath = config.DefaultSocketPath()
	}

	srv, err := daemon.NewServer(socketPath, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tablero daemon listening on %s\n", socketPath)

	err = srv.Start(cmd.Context())
	c.Logger.Info("daemon stopped", "metrics", srv.Metrics().Snapshot())
	return err
}
