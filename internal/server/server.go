// Package server is the development task API: the HTTP contract the board
// client talks to, backed by SQLite.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/thenoetrevino/tablero/internal/services/task"
)

// New builds the echo instance with middleware and every route registered.
func New(svc task.Service, auth *Auth, logger *slog.Logger) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(requestLogger(logger))

	Register(e, svc, auth, logger)
	return e
}

// requestLogger logs one structured line per request.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			logger.Info("http request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"duration", time.Since(start))
			return nil
		}
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
