package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/services/boardsync"
	"github.com/thenoetrevino/tablero/internal/taskapi"
	"github.com/thenoetrevino/tablero/internal/types"
)

// App holds the board's collaborators: the task API client, the sync
// controller for one project and an optional daemon client that triggers
// refreshes when another process changes the project.
type App struct {
	Config *config.Config
	Board  *boardsync.Controller

	events    events.EventClient
	logger    *slog.Logger
	connected atomic.Bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds the container from cfg. Nothing touches the network until Start.
func New(cfg *config.Config, opts ...Option) *App {
	ac := appConfig{}
	for _, opt := range opts {
		opt(&ac)
	}
	if ac.logger == nil {
		ac.logger = slog.Default()
	}

	project := types.ProjectID(cfg.Board.DefaultProject)
	if ac.project != "" {
		project = ac.project
	}
	readOnly := cfg.Board.ReadOnly
	if ac.readOnly != nil {
		readOnly = *ac.readOnly
	}

	persister := ac.persister
	if persister == nil {
		persister = NewAPIClient(cfg, ac.logger)
	}

	ec := ac.eventClient
	if ec == nil && !ac.noEvents && cfg.Daemon.SocketPath != "" {
		ec = events.NewClient(cfg.Daemon.SocketPath,
			events.WithDebounce(cfg.Daemon.Debounce),
			events.WithLogger(ac.logger),
		)
	}

	return &App{
		Config: cfg,
		Board: boardsync.New(persister, boardsync.Config{
			ProjectID:      project,
			ReadOnly:       readOnly,
			PersistTimeout: cfg.API.Timeout * 3,
			Logger:         ac.logger,
			Notifier:       ac.notifier,
		}),
		events: ec,
		logger: ac.logger,
	}
}

// NewAPIClient builds the HTTP task API client from config. An explicit
// token wins over the token file.
func NewAPIClient(cfg *config.Config, logger *slog.Logger) *taskapi.Client {
	var tokens taskapi.TokenSource
	switch {
	case cfg.API.Token != "":
		tokens = taskapi.StaticToken(cfg.API.Token)
	case cfg.API.TokenFile != "":
		tokens = taskapi.FileTokenSource{Path: cfg.API.TokenFile}
	}
	return taskapi.NewClient(cfg.API.BaseURL, tokens,
		taskapi.WithTimeout(cfg.API.Timeout),
		taskapi.WithLogger(logger),
	)
}

// Start loads the board and, if a daemon is configured, subscribes to
// changes for the project. A load failure is returned but the app stays
// usable: the board shows the error and can be retried. An unreachable
// daemon only disables live refresh.
func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	loadErr := a.Board.Load(ctx)

	if a.events != nil {
		a.connectEvents(ctx, runCtx)
	}
	return loadErr
}

func (a *App) connectEvents(ctx, runCtx context.Context) {
	if err := a.events.Connect(ctx); err != nil {
		a.logger.Warn("event daemon unavailable, live refresh disabled", "error", err)
		return
	}
	if err := a.events.Subscribe(a.Board.ProjectID()); err != nil {
		a.logger.Warn("subscribe failed", "error", err)
	}
	ch, err := a.events.Listen(runCtx)
	if err != nil {
		a.logger.Warn("listen failed", "error", err)
		return
	}
	a.connected.Store(true)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.connected.Store(false)
		a.watch(runCtx, ch)
	}()
}

// watch refreshes the board for every change event that concerns its project.
func (a *App) watch(ctx context.Context, ch <-chan events.Event) {
	for ev := range ch {
		if ev.Type != events.EventTasksChanged || !ev.Matches(a.Board.ProjectID()) {
			continue
		}
		a.logger.Debug("remote change, refreshing", "task", string(ev.TaskID))
		if err := a.Board.Refresh(ctx); err != nil && !errors.Is(err, boardsync.ErrClosed) {
			a.logger.Warn("refresh after remote change failed", "error", err)
		}
	}
}

// Connected reports whether live refresh is active.
func (a *App) Connected() bool {
	return a.connected.Load()
}

// LiveRefresh reports whether a daemon is configured at all.
func (a *App) LiveRefresh() bool {
	return a.events != nil
}

// Close waits for queued changes, then stops the event watcher and the
// controller.
func (a *App) Close(ctx context.Context) error {
	flushErr := a.Board.Flush(ctx)
	if a.cancel != nil {
		a.cancel()
	}
	var closeErr error
	if a.events != nil {
		closeErr = a.events.Close()
	}
	a.wg.Wait()
	a.Board.Close()
	return errors.Join(flushErr, closeErr)
}
