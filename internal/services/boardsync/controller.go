// Package boardsync keeps the local board, its persisted order and the
// remote API in agreement. Mutations apply to the local board at once and
// persist in the background, one call per mutation, serialized per task.
// A failed persist restores the lanes the mutation touched.
package boardsync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/types"
)

const (
	// DefaultPersistTimeout bounds a single persist call
	DefaultPersistTimeout = 30 * time.Second

	updateBuffer = 64
)

// Config configures a Controller
type Config struct {
	ProjectID      types.ProjectID
	ReadOnly       bool
	PersistTimeout time.Duration
	Logger         *slog.Logger
	Notifier       Notifier
}

// Controller owns the board state for one project
type Controller struct {
	persister Persister
	projectID types.ProjectID
	readOnly  bool
	timeout   time.Duration
	logger    *slog.Logger
	notifier  Notifier

	mu      sync.Mutex
	lanes   board.Lanes
	loaded  bool
	loadErr error
	closed  bool

	// writeDenied is set by a rejected persist and stays set; loadDenied
	// follows the last load
	writeDenied bool
	loadDenied  bool

	queues  map[types.TaskID]*taskQueue
	states  map[types.TaskID]State
	deleted map[types.TaskID]struct{}

	// seq numbers applied operations; touched holds each task's latest one
	seq     uint64
	settles uint64
	touched map[types.TaskID]uint64

	refreshPending bool
	refreshing     bool
	idle           chan struct{}

	updates chan Update
}

// New creates a controller. Call Load before mutating.
func New(p Persister, cfg Config) *Controller {
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = DefaultPersistTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	idle := make(chan struct{})
	close(idle)
	return &Controller{
		persister: p,
		projectID: cfg.ProjectID,
		readOnly:  cfg.ReadOnly,
		timeout:   cfg.PersistTimeout,
		logger:    cfg.Logger.With("project", string(cfg.ProjectID)),
		notifier:  cfg.Notifier,
		queues:    make(map[types.TaskID]*taskQueue),
		states:    make(map[types.TaskID]State),
		deleted:   make(map[types.TaskID]struct{}),
		touched:   make(map[types.TaskID]uint64),
		idle:      idle,
		updates:   make(chan Update, updateBuffer),
	}
}

// ProjectID returns the project this controller manages
func (c *Controller) ProjectID() types.ProjectID {
	return c.projectID
}

// Lanes returns the current board. The value is immutable and safe to keep.
func (c *Controller) Lanes() board.Lanes {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lanes
}

// State returns a task's sync state
func (c *Controller) State(id types.TaskID) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[id]
}

// PendingTasks returns the ids of tasks with unconfirmed local changes
func (c *Controller) PendingTasks() map[types.TaskID]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[types.TaskID]bool, len(c.states))
	for id, s := range c.states {
		if s.Pending() {
			out[id] = true
		}
	}
	return out
}

// LoadError returns the error of the last failed load, if the board is in
// its error state
func (c *Controller) LoadError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Loaded reports whether the board holds data from a successful load
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// MutationsDisabled reports whether mutations are refused, either because
// the board is read-only or the API rejected our credentials
func (c *Controller) MutationsDisabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readOnly || c.writeDenied || c.loadDenied
}

// ReadOnly reports whether the controller was opened read-only
func (c *Controller) ReadOnly() bool {
	return c.readOnly
}

// Busy reports whether any persist is queued or running
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queues) > 0
}

// Updates delivers change notifications. Sends never block; a slow reader
// misses intermediate updates but can always read the latest state.
func (c *Controller) Updates() <-chan Update {
	return c.updates
}

// Flush blocks until every queued persist has settled and the refresh a
// failed persist schedules has run
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the controller. Persist calls still in flight complete, but
// their settlement is ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.updates)
	select {
	case <-c.idle:
	default:
		close(c.idle)
	}
	c.queues = make(map[types.TaskID]*taskQueue)
}

// emit must be called with c.mu held
func (c *Controller) emit(u Update) {
	if c.closed {
		return
	}
	select {
	case c.updates <- u:
	default:
	}
}

// setState must be called with c.mu held
func (c *Controller) setState(id types.TaskID, s State) {
	if s == StateIdle {
		delete(c.states, id)
	} else {
		c.states[id] = s
	}
	c.emit(Update{Kind: UpdateState, TaskID: id, State: s})
}
