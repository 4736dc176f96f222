package app

import (
	"log/slog"

	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/services/boardsync"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	persister   boardsync.Persister
	eventClient events.EventClient
	noEvents    bool
	notifier    boardsync.Notifier
	logger      *slog.Logger
	project     types.ProjectID
	readOnly    *bool
}

// WithPersister replaces the HTTP task API client
func WithPersister(p boardsync.Persister) Option {
	return func(cfg *appConfig) {
		cfg.persister = p
	}
}

// WithEventClient sets the daemon client used for live refresh
func WithEventClient(ec events.EventClient) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithoutEvents disables the daemon connection even when a socket is configured
func WithoutEvents() Option {
	return func(cfg *appConfig) {
		cfg.noEvents = true
	}
}

// WithNotifier routes sync notifications, usually into the board UI
func WithNotifier(n boardsync.Notifier) Option {
	return func(cfg *appConfig) {
		cfg.notifier = n
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithProject overrides the configured default project
func WithProject(id types.ProjectID) Option {
	return func(cfg *appConfig) {
		cfg.project = id
	}
}

// WithReadOnly overrides the configured read-only flag
func WithReadOnly(readOnly bool) Option {
	return func(cfg *appConfig) {
		cfg.readOnly = &readOnly
	}
}
