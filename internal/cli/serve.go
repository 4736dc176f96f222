package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/database"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/server"
	"github.com/thenoetrevino/tablero/internal/services/task"
)

// ServeCmd returns the command that runs the development task API
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local task API backed by SQLite",
		Long: `Run a development task API that speaks the same contract as the remote
service the board talks to. Changes are published to the event daemon when
daemon.socket_path is configured, so open boards refresh.

Examples:
  tablero serve
  tablero serve --addr=:8080 --db=/tmp/tasks.db
  TABLERO_JWT_SECRET=dev tablero serve --redis=redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default server.listen_addr)")
	cmd.Flags().String("db", "", "SQLite database path (default ~/.tablero/tasks.db)")
	cmd.Flags().String("redis", "", "Redis URL for the task list cache (default server.redis_url)")
	cmd.Flags().Bool("no-events", false, "Do not publish change events to the daemon")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg := c.Config.Server
	log := c.Logger.With("component", "serve")

	addr := flagOr(cmd, "addr", cfg.ListenAddr)
	dbPath := flagOr(cmd, "db", cfg.DatabasePath)
	redisURL := flagOr(cmd, "redis", cfg.RedisURL)
	if dbPath == "" {
		if dbPath, err = database.DefaultPath(); err != nil {
			return err
		}
	}

	db, err := database.InitDB(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	repo := database.NewRepository(db)
	defer func() { _ = repo.Close() }()

	var publisher events.Publisher
	if noEvents, _ := cmd.Flags().GetBool("no-events"); !noEvents && c.Config.Daemon.SocketPath != "" {
		client := events.NewClient(c.Config.Daemon.SocketPath,
			events.WithDebounce(c.Config.Daemon.Debounce),
			events.WithLogger(c.Logger))
		defer func() { _ = client.Close() }()
		if err := client.Connect(ctx); err != nil {
			daemonErr := events.ClassifyDaemonError(err)
			log.Warn("publishing disabled", "message", daemonErr.Message, "hint", daemonErr.Hint)
		} else {
			publisher = client
		}
	}

	svc := task.NewService(repo, publisher, c.Logger)

	if redisURL != "" {
		rc, err := openRedis(ctx, redisURL)
		if err != nil {
			log.Warn("task cache disabled", "error", err)
		} else {
			defer func() { _ = rc.Close() }()
			svc = server.NewCache(svc, rc, cfg.CacheTTL, c.Logger)
			log.Info("task cache enabled", "ttl", cfg.CacheTTL)
		}
	}

	auth := server.NewAuth(cfg.JWTSecret)
	if auth == nil {
		log.Warn("no jwt secret configured, the API accepts unauthenticated requests")
	}

	e := server.New(svc, auth, c.Logger)
	fmt.Fprintf(cmd.OutOrStdout(), "tablero task API listening on %s (db %s)\n", addr, dbPath)
	log.Info("serving", "addr", addr, "db", dbPath)
	return server.Run(ctx, e, addr)
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rc := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rc, nil
}

func flagOr(cmd *cobra.Command, name, fallback string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	return fallback
}
