package boardsync

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/taskapi"
	"github.com/thenoetrevino/tablero/internal/types"
)

type opKind int

const (
	opMove opKind = iota
	opCreate
	opUpdate
	opDelete
)

func (k opKind) String() string {
	switch k {
	case opCreate:
		return "create"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	default:
		return "move"
	}
}

// op is one applied mutation waiting for its persist call
type op struct {
	kind     opKind
	taskID   types.TaskID
	title    string
	seq      uint64
	snapshot board.Snapshot
	persist  func(ctx context.Context) (models.Task, error)
}

// Move applies a resolved move locally and queues its persist call.
// Exactly one call is issued: a single-task update when no sibling's order
// changed, a batched order save otherwise.
func (c *Controller) Move(m models.MoveIntent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(m.TaskID); err != nil {
		return err
	}
	before := c.lanes
	fromKey, _, ok := before.Locate(m.TaskID)
	if !ok {
		return fmt.Errorf("move %s: %w", m.TaskID, models.ErrTaskNotFound)
	}
	prev, _ := before.Task(m.TaskID)

	snap := board.TakeSnapshot(before, fromKey, m.ToLane)
	after, err := board.ApplyLocalMove(before, m.TaskID, m.ToLane, m.ToIndex)
	if err != nil {
		return err
	}
	moved, _ := after.Task(m.TaskID)
	changes := c.persistedChanges(board.OrderChanges(before, after, fromKey, m.ToLane))

	var persist func(ctx context.Context) (models.Task, error)
	if siblingsChanged(changes, m.TaskID) {
		persist = func(ctx context.Context) (models.Task, error) {
			return models.Task{}, c.persister.SaveOrder(ctx, changes)
		}
	} else {
		patch := movePatch(prev, moved)
		persist = func(ctx context.Context) (models.Task, error) {
			return models.Task{}, c.persister.UpdateTask(ctx, c.projectID, m.TaskID, patch)
		}
	}

	c.lanes = after
	c.emit(Update{Kind: UpdateApplied, TaskID: m.TaskID})
	c.enqueue(&op{kind: opMove, taskID: m.TaskID, title: moved.Title, snapshot: snap, persist: persist})
	c.logger.Debug("move applied",
		"task", string(m.TaskID),
		"from", fromKey.String(),
		"to", m.ToLane.String(),
		"index", moved.Order,
		"batched", siblingsChanged(changes, m.TaskID))
	return nil
}

// Create validates a draft, shows it at the end of its lane under a draft id
// and queues its creation. The returned id is the draft id; it is replaced by
// the server id once the create settles.
func (c *Controller) Create(draft models.Task) (types.TaskID, error) {
	t, err := models.ValidateNew(draft, c.projectID)
	if err != nil {
		return "", err
	}
	if t.ProjectID != c.projectID {
		return "", &models.ValidationError{Field: "project", Message: "task belongs to another project"}
	}
	if !t.ID.IsDraft() || t.ID == "" || t.ID == "0" {
		t.ID = types.TaskID(types.DraftPrefix + uuid.NewString())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(t.ID); err != nil {
		return "", err
	}
	t.Order = c.lanes.NextRank(c.lanes.LaneFor(t))
	c.lanes = board.ApplyLocalUpsert(c.lanes, t)

	submitted := t.Clone()
	c.emit(Update{Kind: UpdateApplied, TaskID: t.ID})
	c.enqueue(&op{
		kind:   opCreate,
		taskID: t.ID,
		title:  t.Title,
		persist: func(ctx context.Context) (models.Task, error) {
			return c.persister.CreateTask(ctx, submitted)
		},
	})
	c.logger.Debug("create applied", "draft", string(t.ID), "title", t.Title)
	return t.ID, nil
}

// Update applies field changes locally and queues a single-task update
func (c *Controller) Update(id types.TaskID, patch taskapi.TaskPatch) error {
	if patch.Title != nil {
		if err := models.ValidateTitle(*patch.Title); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(id); err != nil {
		return err
	}
	fromKey, _, ok := c.lanes.Locate(id)
	if !ok {
		return fmt.Errorf("update %s: %w", id, models.ErrTaskNotFound)
	}
	if patch.IsEmpty() {
		return nil
	}
	cur, _ := c.lanes.Task(id)
	next := patch.Apply(cur)
	toKey := c.lanes.LaneFor(next)

	snap := board.TakeSnapshot(c.lanes, fromKey, toKey)
	c.lanes = board.ApplyLocalUpsert(c.lanes, next)
	if fromKey != toKey {
		updated, _ := c.lanes.Task(id)
		order := updated.Order
		patch.Order = &order
	}

	c.emit(Update{Kind: UpdateApplied, TaskID: id})
	c.enqueue(&op{
		kind:     opUpdate,
		taskID:   id,
		title:    next.Title,
		snapshot: snap,
		persist: func(ctx context.Context) (models.Task, error) {
			return models.Task{}, c.persister.UpdateTask(ctx, c.projectID, id, patch)
		},
	})
	return nil
}

// Delete removes a task locally and queues its deletion
func (c *Controller) Delete(id types.TaskID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(id); err != nil {
		return err
	}
	key, _, ok := c.lanes.Locate(id)
	if !ok {
		return fmt.Errorf("delete %s: %w", id, models.ErrTaskNotFound)
	}
	cur, _ := c.lanes.Task(id)

	snap := board.TakeSnapshot(c.lanes, key)
	lanes, err := board.ApplyLocalDelete(c.lanes, id)
	if err != nil {
		return err
	}
	c.lanes = lanes

	c.emit(Update{Kind: UpdateApplied, TaskID: id})
	c.enqueue(&op{
		kind:     opDelete,
		taskID:   id,
		title:    cur.Title,
		snapshot: snap,
		persist: func(ctx context.Context) (models.Task, error) {
			return models.Task{}, c.persister.DeleteTask(ctx, c.projectID, id)
		},
	})
	return nil
}

// guard must be called with c.mu held
func (c *Controller) guard(id types.TaskID) error {
	switch {
	case c.closed:
		return ErrClosed
	case c.readOnly:
		return ErrReadOnly
	case c.writeDenied, c.loadDenied:
		return ErrMutationsDisabled
	case !c.loaded:
		return ErrNotLoaded
	}
	if c.createPending(id) {
		return ErrDraftPending
	}
	return nil
}

// persistedChanges drops drafts whose create is still pending. The server
// does not know their ids yet; the create settles with the draft's final
// order instead. It must be called with c.mu held.
func (c *Controller) persistedChanges(changes []board.OrderChange) []board.OrderChange {
	out := changes[:0:0]
	for _, ch := range changes {
		if c.createPending(ch.TaskID) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// createPending must be called with c.mu held
func (c *Controller) createPending(id types.TaskID) bool {
	if !id.IsDraft() {
		return false
	}
	_, pending := c.queues[id]
	return pending
}

func siblingsChanged(changes []board.OrderChange, moved types.TaskID) bool {
	for _, ch := range changes {
		if ch.TaskID != moved {
			return true
		}
	}
	return false
}

// movePatch carries the new order plus whichever lane fields changed
func movePatch(prev, moved models.Task) taskapi.TaskPatch {
	order := moved.Order
	patch := taskapi.TaskPatch{Order: &order}
	if moved.Status != prev.Status {
		s := moved.Status
		patch.Status = &s
	}
	if moved.SectionID != prev.SectionID {
		id := moved.SectionID
		patch.SectionID = &id
	}
	return patch
}
