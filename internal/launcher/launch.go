// Package launcher wires the application container to the terminal board and
// runs it.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/tui"
	"github.com/thenoetrevino/tablero/internal/tui/components"
	"github.com/thenoetrevino/tablero/internal/tui/theme"
)

// shutdownTimeout bounds how long pending changes get to persist on exit
const shutdownTimeout = 5 * time.Second

// Launch runs the board until the user quits or ctx is cancelled. Logging
// must already point at a file; the board owns the terminal.
func Launch(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...app.Option) error {
	theme.Init(cfg.ColorScheme)
	components.InitStyles()

	notifier := tui.NewNotifier()
	opts = append([]app.Option{app.WithNotifier(notifier), app.WithLogger(logger)}, opts...)
	application := app.New(cfg, opts...)

	// a failed load is shown on the board with a retry, not returned
	if err := application.Start(ctx); err != nil {
		logger.Warn("board opened without data", "error", err)
	}

	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := application.Close(drainCtx); err != nil {
			logger.Error("error closing board", "error", err)
		}
	}()

	model := tui.New(ctx, application.Board, tui.Options{
		KeyMappings: cfg.KeyMappings,
		Notifier:    notifier,
		Connection:  application,
		Logger:      logger,
	})

	p := tea.NewProgram(model, tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil && (err == nil || errors.Is(err, tea.ErrProgramKilled)) {
		logger.Info("shutdown signal received, flushing pending changes")
		return nil
	}
	if err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
