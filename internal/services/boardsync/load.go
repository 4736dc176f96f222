package boardsync

import (
	"context"
	"errors"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/taskapi"
)

// maxLoadAttempts bounds the re-fetches of a load that raced local changes
const maxLoadAttempts = 3

// Load fetches the project's tasks and sections and re-projects the board.
// On failure the board is cleared and the error kept for LoadError so the
// view shows an error state instead of stale data. If local changes are
// still persisting when the fetch returns, the result is dropped and a
// refresh runs once they settle; if changes settled during the fetch, it is
// fetched again.
func (c *Controller) Load(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return ErrClosed
		}
		gen := c.generation()
		c.mu.Unlock()

		tasks, sections, err := c.fetch(ctx)
		retry, err := c.applyLoad(gen, attempt < maxLoadAttempts, tasks, sections, err)
		if !retry {
			return err
		}
		c.logger.Debug("board changed during load, fetching again", "attempt", attempt)
	}
}

func (c *Controller) applyLoad(gen uint64, canRetry bool, tasks []models.Task, sections []models.Section, err error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrClosed
	}

	if err != nil {
		c.lanes = board.Lanes{}
		c.loaded = false
		c.loadErr = err
		if taskapi.IsAuth(err) {
			c.loadDenied = true
		}
		c.emit(Update{Kind: UpdateLoadFailed, Err: err})
		c.logger.Error("board load failed", "error", err)
		return false, err
	}

	if len(c.queues) > 0 {
		c.refreshPending = true
		c.logger.Debug("load result dropped, changes in flight")
		return false, nil
	}
	if canRetry && c.generation() != gen {
		return true, nil
	}

	c.lanes = board.Project(tasks, sections)
	c.loaded = true
	c.loadErr = nil
	c.loadDenied = false
	clear(c.deleted)
	clear(c.touched)
	c.emit(Update{Kind: UpdateLoaded})
	c.logger.Info("board loaded", "tasks", len(tasks), "sections", len(sections))
	return false, nil
}

// generation changes whenever an operation is applied or settles. It must
// be called with c.mu held.
func (c *Controller) generation() uint64 {
	return c.seq + c.settles
}

// Refresh re-fetches the board, or defers the fetch until every queued
// persist has settled so in-flight local changes are not overwritten.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if len(c.queues) > 0 {
		c.refreshPending = true
		c.mu.Unlock()
		c.logger.Debug("refresh deferred until queues drain")
		return nil
	}
	c.mu.Unlock()
	return c.Load(ctx)
}

// deferredRefresh runs with c.refreshing set; Flush callers wait for it
func (c *Controller) deferredRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if err := c.Load(ctx); err != nil && !errors.Is(err, ErrClosed) {
		c.logger.Warn("deferred refresh failed", "error", err)
	}

	c.mu.Lock()
	c.refreshing = false
	c.releaseIfIdle()
	c.mu.Unlock()
}

func (c *Controller) fetch(ctx context.Context) ([]models.Task, []models.Section, error) {
	tasks, err := c.persister.ListTasks(ctx, c.projectID)
	if err != nil {
		return nil, nil, err
	}
	sections, err := c.persister.ListSections(ctx, c.projectID)
	if err != nil {
		return nil, nil, err
	}
	return tasks, sections, nil
}
