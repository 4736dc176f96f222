package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/taskapi"
	"github.com/thenoetrevino/tablero/internal/types"
)

// CLI represents the CLI application context shared by every command
type CLI struct {
	Config *config.Config
	Logger *slog.Logger
}

// NewCLI wraps a loaded config. A nil logger uses slog.Default.
func NewCLI(cfg *config.Config, logger *slog.Logger) *CLI {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLI{Config: cfg, Logger: logger}
}

// API returns a task API client for the configured server
func (c *CLI) API() *taskapi.Client {
	return app.NewAPIClient(c.Config, c.Logger)
}

// Project resolves the project a command targets: the flag value when set,
// the configured default otherwise.
func (c *CLI) Project(flag string) types.ProjectID {
	if flag != "" {
		return types.ProjectID(flag)
	}
	return types.ProjectID(c.Config.Board.DefaultProject)
}

// OpenBoard builds and loads a board for project without live refresh.
// Callers must Close the returned app.
func (c *CLI) OpenBoard(ctx context.Context, project types.ProjectID, opts ...app.Option) (*app.App, error) {
	opts = append([]app.Option{
		app.WithProject(project),
		app.WithoutEvents(),
		app.WithLogger(c.Logger),
	}, opts...)
	a := app.New(c.Config, opts...)
	if err := a.Start(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	return a, nil
}

type contextKey struct{}

// WithCLI stores the CLI in ctx for subcommands
func WithCLI(ctx context.Context, c *CLI) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ErrNoCLI is returned when a command runs without the root's setup
var ErrNoCLI = errors.New("cli not initialized")

// GetCLIFromContext retrieves the CLI stored by the root command
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if ctx == nil {
		return nil, ErrNoCLI
	}
	c, ok := ctx.Value(contextKey{}).(*CLI)
	if !ok || c == nil {
		return nil, ErrNoCLI
	}
	return c, nil
}
