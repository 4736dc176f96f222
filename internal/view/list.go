package view

import (
	"cmp"
	"slices"
	"strings"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// SortField is the list column rows are sorted by
type SortField int

const (
	SortNone SortField = iota
	SortByTitle
	SortByStatus
	SortByPriority
	SortByDueDate
)

func (f SortField) String() string {
	switch f {
	case SortByTitle:
		return "title"
	case SortByStatus:
		return "status"
	case SortByPriority:
		return "priority"
	case SortByDueDate:
		return "due date"
	default:
		return "none"
	}
}

// SortOrder is the sort direction
type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

// ListOptions controls the list projection
type ListOptions struct {
	SortField SortField
	SortOrder SortOrder
	ReadOnly  bool
	Pending   map[types.TaskID]bool
}

// Row is one task in the list view
type Row struct {
	Task      models.Task
	Lane      models.LaneKey
	LaneTitle string
	Pending   bool
	CanEdit   bool
	CanDelete bool
}

// List is the projected list view
type List struct {
	Rows      []Row
	SortField SortField
	SortOrder SortOrder
	ReadOnly  bool
}

// IndexOf returns the row of a task, or -1
func (l List) IndexOf(id types.TaskID) int {
	return slices.IndexFunc(l.Rows, func(r Row) bool { return r.Task.ID == id })
}

// ProjectList flattens the board into rows. SortNone keeps board order
// (lane by lane); the other fields sort independently of lane order and
// break ties by board position.
func ProjectList(lanes board.Lanes, opts ListOptions) List {
	out := List{SortField: opts.SortField, SortOrder: opts.SortOrder, ReadOnly: opts.ReadOnly}
	laneRank := make(map[models.LaneKey]int)
	for i, lane := range lanes.All() {
		laneRank[lane.Key] = i
		for _, t := range lane.Tasks {
			out.Rows = append(out.Rows, Row{
				Task:      t,
				Lane:      lane.Key,
				LaneTitle: lane.Title,
				Pending:   opts.Pending[t.ID],
				CanEdit:   !opts.ReadOnly,
				CanDelete: !opts.ReadOnly,
			})
		}
	}
	if opts.SortField == SortNone {
		return out
	}

	slices.SortStableFunc(out.Rows, func(a, b Row) int {
		// tasks without a due date stay last in both directions
		if opts.SortField == SortByDueDate && (a.Task.DueDate == nil) != (b.Task.DueDate == nil) {
			if a.Task.DueDate == nil {
				return 1
			}
			return -1
		}
		c := compareRows(opts.SortField, a, b)
		if opts.SortOrder == SortDesc {
			c = -c
		}
		return c
	})
	return out
}

func compareRows(field SortField, a, b Row) int {
	switch field {
	case SortByTitle:
		return cmp.Compare(strings.ToLower(a.Task.Title), strings.ToLower(b.Task.Title))
	case SortByStatus:
		return compareStatus(a.Task.Status, b.Task.Status)
	case SortByPriority:
		return cmp.Compare(a.Task.Priority, b.Task.Priority)
	case SortByDueDate:
		if a.Task.DueDate == nil || b.Task.DueDate == nil {
			return 0
		}
		return a.Task.DueDate.Compare(*b.Task.DueDate)
	}
	return 0
}

// compareStatus orders canonical statuses by workflow, then custom ones by name
func compareStatus(a, b models.Status) int {
	ra, rb := statusRank(a), statusRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	return cmp.Compare(a, b)
}

func statusRank(s models.Status) int {
	if c, ok := s.Canonical(); ok {
		return slices.Index(models.CanonicalStatuses, c)
	}
	return len(models.CanonicalStatuses)
}
