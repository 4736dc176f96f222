package boardsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/taskapi"
	"github.com/thenoetrevino/tablero/internal/types"
)

// taskQueue holds one task's applied-but-unsettled operations in issue
// order. ops[0] is the one persisting.
type taskQueue struct {
	ops []*op
}

// enqueue must be called with c.mu held
func (c *Controller) enqueue(o *op) {
	q, ok := c.queues[o.taskID]
	if !ok {
		select {
		case <-c.idle:
			c.idle = make(chan struct{})
		default:
		}
		q = &taskQueue{}
		c.queues[o.taskID] = q
		go c.run(o.taskID, q)
	}
	c.seq++
	o.seq = c.seq
	c.touched[o.taskID] = c.seq
	q.ops = append(q.ops, o)
	if c.states[o.taskID] != StatePersisting {
		c.setState(o.taskID, StateApplied)
	}
}

// run persists a task's queued operations one at a time until the queue is
// empty or an operation fails
func (c *Controller) run(id types.TaskID, q *taskQueue) {
	for {
		c.mu.Lock()
		if c.closed || c.queues[id] != q {
			c.mu.Unlock()
			return
		}
		if len(q.ops) == 0 {
			c.setState(id, StateIdle)
			delete(c.queues, id)
			c.releaseIfIdle()
			c.mu.Unlock()
			return
		}
		o := q.ops[0]
		c.setState(id, StatePersisting)
		c.mu.Unlock()

		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		result, err := o.persist(ctx)
		cancel()

		c.mu.Lock()
		if c.closed || c.queues[id] != q {
			c.mu.Unlock()
			return
		}
		c.settles++
		if err == nil {
			q.ops = q.ops[1:]
			c.settleSuccess(o, result)
			c.logger.Debug("persist settled", "op", o.kind.String(), "task", string(id), "duration", time.Since(start))
			c.mu.Unlock()
			continue
		}

		note := c.rollback(id, q, err)
		c.logger.Warn("persist failed, rolled back",
			"op", o.kind.String(),
			"task", string(id),
			"dropped", len(q.ops)-1,
			"duration", time.Since(start),
			"error", err)
		c.mu.Unlock()
		c.notifier.Notify(note)

		c.mu.Lock()
		c.releaseIfIdle()
		c.mu.Unlock()
		return
	}
}

// settleSuccess must be called with c.mu held
func (c *Controller) settleSuccess(o *op, created models.Task) {
	switch o.kind {
	case opCreate:
		local, _ := c.lanes.Task(o.taskID)
		stored := created.Order
		lanes, err := board.ApplyLocalRekey(c.lanes, o.taskID, created.ID)
		if err != nil {
			// the draft was wiped by a load; show the stored task anyway
			lanes = c.lanes
			local = created
		}
		created.Order = local.Order
		c.lanes = board.ApplyLocalUpsert(lanes, created)
		c.setState(o.taskID, StateSettledSuccess)
		c.emit(Update{Kind: UpdateApplied, TaskID: created.ID})
		if err == nil && local.Order != stored {
			c.enqueueOrderFix(created)
		}
		return
	case opDelete:
		c.deleted[o.taskID] = struct{}{}
	}
	c.setState(o.taskID, StateSettledSuccess)
}

// enqueueOrderFix persists the order a created task reached locally while
// its create was in flight. Sibling moves in that window renumbered it
// without telling the server. It must be called with c.mu held.
func (c *Controller) enqueueOrderFix(t models.Task) {
	key, _, ok := c.lanes.Locate(t.ID)
	if !ok {
		return
	}
	id, order := t.ID, t.Order
	c.enqueue(&op{
		kind:     opMove,
		taskID:   id,
		title:    t.Title,
		snapshot: board.TakeSnapshot(c.lanes, key),
		persist: func(ctx context.Context) (models.Task, error) {
			return models.Task{}, c.persister.UpdateTask(ctx, c.projectID, id, taskapi.TaskPatch{Order: &order})
		},
	})
	c.logger.Debug("created task reordered while pending", "task", string(id), "order", order)
}

// rollback undoes every operation of a failed queue, newest first, ending
// with the failed one. It must be called with c.mu held and returns the
// notification to deliver once the lock is released.
func (c *Controller) rollback(id types.TaskID, q *taskQueue, cause error) Notification {
	failed := q.ops[0]
	for i := len(q.ops) - 1; i >= 0; i-- {
		c.undo(q.ops[i])
	}
	delete(c.queues, id)
	c.scrubDeleted()
	// the restored lanes can still disagree with the server about siblings
	// that other operations renumbered; reload once everything settles
	c.refreshPending = true

	note := Notification{
		Level:   LevelError,
		TaskID:  id,
		Message: fmt.Sprintf("Could not %s %q: %v. Your change was undone.", failed.kind, failed.title, cause),
	}
	var authErr *taskapi.AuthError
	if errors.As(cause, &authErr) {
		c.writeDenied = true
		note.Message = fmt.Sprintf("Not authorized to change this board (%d). Editing is disabled.", authErr.Status)
	}

	c.setState(id, StateSettledFailed)
	c.emit(Update{Kind: UpdateRolledBack, TaskID: id, State: StateSettledFailed, Err: cause})
	c.setState(id, StateIdle)
	return note
}

// undo reverts one operation's local effect. Other tasks changed by later
// operations keep their current place.
func (c *Controller) undo(o *op) {
	if o.kind == opCreate {
		if lanes, err := board.ApplyLocalDelete(c.lanes, o.taskID); err == nil {
			c.lanes = lanes
		}
		return
	}
	keep := make(map[types.TaskID]struct{})
	for id, seq := range c.touched {
		if id != o.taskID && seq > o.seq {
			keep[id] = struct{}{}
		}
	}
	c.lanes = board.RestoreExcept(c.lanes, o.snapshot, keep)
}

// scrubDeleted removes tasks a restore brought back although their deletion
// already succeeded or is still queued
func (c *Controller) scrubDeleted() {
	gone := make(map[types.TaskID]struct{}, len(c.deleted))
	for id := range c.deleted {
		gone[id] = struct{}{}
	}
	for id, q := range c.queues {
		for _, o := range q.ops {
			if o.kind == opDelete {
				gone[id] = struct{}{}
			}
		}
	}
	for id := range gone {
		if lanes, err := board.ApplyLocalDelete(c.lanes, id); err == nil {
			c.lanes = lanes
		}
	}
}

// releaseIfIdle wakes Flush callers once no queue is busy and starts a
// deferred refresh. It must be called with c.mu held.
func (c *Controller) releaseIfIdle() {
	if c.closed || c.refreshing || len(c.queues) > 0 {
		return
	}
	select {
	case <-c.idle:
		return
	default:
	}
	if c.refreshPending {
		c.refreshPending = false
		c.refreshing = true
		go c.deferredRefresh()
		return
	}
	close(c.idle)
}
