// Package view projects board state into what the UI draws: columns of
// cards for the board view and sortable rows for the list view. It reads
// lanes and never mutates them.
package view

import (
	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// BoardOptions controls the board projection
type BoardOptions struct {
	ReadOnly bool
	// HideEmptyStatusLanes drops status lanes without tasks. Section lanes
	// are always shown.
	HideEmptyStatusLanes bool
	// Pending marks tasks whose local changes are not confirmed yet
	Pending map[types.TaskID]bool
}

// Card is one task as drawn on the board, with the actions it allows
type Card struct {
	Task      models.Task
	Pending   bool
	CanDrag   bool
	CanEdit   bool
	CanDelete bool
}

// Column is one lane as drawn on the board
type Column struct {
	Key       models.LaneKey
	Title     string
	Cards     []Card
	IsSection bool
	IsCustom  bool
	CanAdd    bool
}

// Board is the projected board view
type Board struct {
	Columns  []Column
	ReadOnly bool
}

// TaskCount returns the number of cards on the board
func (b Board) TaskCount() int {
	n := 0
	for _, col := range b.Columns {
		n += len(col.Cards)
	}
	return n
}

// Find returns the column and card index of a task
func (b Board) Find(id types.TaskID) (int, int, bool) {
	for ci, col := range b.Columns {
		for ri, card := range col.Cards {
			if card.Task.ID == id {
				return ci, ri, true
			}
		}
	}
	return -1, -1, false
}

// ProjectBoard builds the board view. In read-only mode every affordance is off.
func ProjectBoard(lanes board.Lanes, opts BoardOptions) Board {
	editable := !opts.ReadOnly
	out := Board{ReadOnly: opts.ReadOnly}

	for _, lane := range lanes.All() {
		if opts.HideEmptyStatusLanes && !lane.Key.IsSection() && lane.Len() == 0 {
			continue
		}
		col := Column{
			Key:       lane.Key,
			Title:     lane.Title,
			IsSection: lane.Key.IsSection(),
			IsCustom:  !lane.Key.IsSection() && lane.Key.Status().IsCustom(),
			CanAdd:    editable,
			Cards:     make([]Card, 0, lane.Len()),
		}
		for _, t := range lane.Tasks {
			col.Cards = append(col.Cards, Card{
				Task:      t,
				Pending:   opts.Pending[t.ID],
				CanDrag:   editable && !(t.IsDraft() && opts.Pending[t.ID]),
				CanEdit:   editable,
				CanDelete: editable,
			})
		}
		out.Columns = append(out.Columns, col)
	}

	// an all-empty board still offers the canonical lanes to add into
	if len(out.Columns) == 0 && !lanes.IsEmpty() {
		for _, s := range models.CanonicalStatuses {
			out.Columns = append(out.Columns, Column{
				Key:    models.StatusLane(s),
				Title:  string(s),
				CanAdd: editable,
				Cards:  []Card{},
			})
		}
	}
	return out
}
