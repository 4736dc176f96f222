package view

import (
	"errors"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

var (
	// ErrReadOnly is returned for any drag on a read-only board
	ErrReadOnly = errors.New("board is read-only")

	// ErrNotDragging is returned by Drop without a preceding BeginDrag
	ErrNotDragging = errors.New("no card is being dragged")
)

// DropTarget is where a dragged card was released: over a card, or over a
// lane at an optional index (Index < 0 for the lane's empty area).
type DropTarget struct {
	Lane   models.LaneKey
	TaskID types.TaskID
	Index  int
}

// OnLane targets a lane's empty area
func OnLane(key models.LaneKey) DropTarget {
	return DropTarget{Lane: key, Index: -1}
}

// OnCard targets another card
func OnCard(id types.TaskID) DropTarget {
	return DropTarget{TaskID: id, Index: -1}
}

// AtIndex targets a slot inside a lane
func AtIndex(key models.LaneKey, index int) DropTarget {
	return DropTarget{Lane: key, Index: index}
}

// Interaction tracks a drag from pick-up to drop
type Interaction struct {
	readOnly bool
	dragging types.TaskID
	active   bool
}

func NewInteraction(readOnly bool) *Interaction {
	return &Interaction{readOnly: readOnly}
}

// ReadOnly reports whether drags are refused
func (i *Interaction) ReadOnly() bool {
	return i.readOnly
}

// SetReadOnly switches the mode and cancels any drag in progress
func (i *Interaction) SetReadOnly(readOnly bool) {
	i.readOnly = readOnly
	if readOnly {
		i.Cancel()
	}
}

// BeginDrag picks up a card
func (i *Interaction) BeginDrag(id types.TaskID) error {
	if i.readOnly {
		return ErrReadOnly
	}
	i.dragging = id
	i.active = true
	return nil
}

// Dragging returns the card being dragged
func (i *Interaction) Dragging() (types.TaskID, bool) {
	return i.dragging, i.active
}

// Cancel drops the drag without a move
func (i *Interaction) Cancel() {
	i.dragging = ""
	i.active = false
}

// Drop resolves the release into a move intent and ends the drag. The
// boolean is false when the drop changes nothing.
func (i *Interaction) Drop(lanes board.Lanes, target DropTarget) (models.MoveIntent, bool, error) {
	if i.readOnly {
		i.Cancel()
		return models.MoveIntent{}, false, ErrReadOnly
	}
	id, ok := i.Dragging()
	if !ok {
		return models.MoveIntent{}, false, ErrNotDragging
	}
	i.Cancel()

	return board.Resolve(lanes, board.Gesture{
		TaskID:     id,
		OverLane:   target.Lane,
		OverTaskID: target.TaskID,
		OverIndex:  target.Index,
	})
}
