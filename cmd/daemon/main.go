// Command tablerod runs the event daemon on its own, for service managers
// that should not depend on the full CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/daemon"
	"github.com/thenoetrevino/tablero/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	logger := logging.Console(os.Stderr, true)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	socketPath := cfg.Daemon.SocketPath
	if socketPath == "" {
		socketPath = config.DefaultSocketPath()
	}

	server, err := daemon.NewServer(socketPath, logger)
	if err != nil {
		logger.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	logger.Info("tablero daemon starting", "socket_path", socketPath, "pid", os.Getpid())

	if err := server.Start(ctx); err != nil {
		logger.Error("daemon error", "error", err)
		os.Exit(1)
	}

	logger.Info("tablero daemon shutting down gracefully", "metrics", server.Metrics().Snapshot())
}
