package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

var (
	todo = models.StatusLane(models.StatusTodo)
	done = models.StatusLane(models.StatusDone)
)

func sampleLanes() board.Lanes {
	due := func(day int) *time.Time {
		d := time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
		return &d
	}
	return board.Project([]models.Task{
		{ID: "a", Title: "banana", Status: models.StatusTodo, Order: 0, Priority: models.PriorityLow, DueDate: due(3)},
		{ID: "b", Title: "Apple", Status: models.StatusTodo, Order: 1, Priority: models.PriorityHigh},
		{ID: "c", Title: "cherry", Status: models.StatusDone, Order: 0, Priority: models.PriorityMedium, DueDate: due(1)},
		{ID: "d", Title: "date", Status: "Blocked", Order: 0, Priority: models.PriorityHigh, DueDate: due(2)},
		{ID: "e", Title: "elder", Status: models.StatusTodo, SectionID: "s1", Priority: models.PriorityMedium},
	}, []models.Section{{ID: "s1", Name: "Sprint"}})
}

func rowIDs(l List) []types.TaskID {
	out := make([]types.TaskID, len(l.Rows))
	for i, r := range l.Rows {
		out[i] = r.Task.ID
	}
	return out
}

// ============================================================================
// Board projection
// ============================================================================

func TestProjectBoard_Affordances(t *testing.T) {
	b := ProjectBoard(sampleLanes(), BoardOptions{Pending: map[types.TaskID]bool{"a": true}})

	require.Len(t, b.Columns, 5)
	assert.Equal(t, 5, b.TaskCount())
	assert.True(t, b.Columns[0].CanAdd)
	assert.True(t, b.Columns[3].IsCustom)
	assert.True(t, b.Columns[4].IsSection)
	assert.Equal(t, "Sprint", b.Columns[4].Title)

	card := b.Columns[0].Cards[0]
	assert.True(t, card.Pending)
	assert.True(t, card.CanDrag)
	assert.True(t, card.CanEdit)
	assert.True(t, card.CanDelete)
}

func TestProjectBoard_ReadOnly(t *testing.T) {
	b := ProjectBoard(sampleLanes(), BoardOptions{ReadOnly: true})

	assert.True(t, b.ReadOnly)
	for _, col := range b.Columns {
		assert.False(t, col.CanAdd)
		for _, card := range col.Cards {
			assert.False(t, card.CanDrag)
			assert.False(t, card.CanEdit)
			assert.False(t, card.CanDelete)
		}
	}
}

func TestProjectBoard_HideEmptyStatusLanes(t *testing.T) {
	lanes := board.Project([]models.Task{{ID: "a", Status: models.StatusDone}}, []models.Section{{ID: "s", Name: "Empty section"}})

	b := ProjectBoard(lanes, BoardOptions{HideEmptyStatusLanes: true})
	require.Len(t, b.Columns, 2)
	assert.Equal(t, done, b.Columns[0].Key)
	assert.True(t, b.Columns[1].IsSection)

	empty := ProjectBoard(board.Project(nil, nil), BoardOptions{HideEmptyStatusLanes: true})
	assert.Len(t, empty.Columns, 3, "canonical lanes stay when the board is empty")
}

func TestProjectBoard_PendingDraftNotDraggable(t *testing.T) {
	lanes := board.Project([]models.Task{{ID: "draft-1", Title: "x"}}, nil)
	b := ProjectBoard(lanes, BoardOptions{Pending: map[types.TaskID]bool{"draft-1": true}})
	assert.False(t, b.Columns[0].Cards[0].CanDrag)
}

// ============================================================================
// Interaction
// ============================================================================

func TestInteraction_ReadOnlyNeverYieldsIntent(t *testing.T) {
	lanes := sampleLanes()
	in := NewInteraction(true)

	for _, task := range lanes.Tasks() {
		assert.ErrorIs(t, in.BeginDrag(task.ID), ErrReadOnly)
		_, dragging := in.Dragging()
		assert.False(t, dragging)

		for _, target := range []DropTarget{OnLane(done), OnCard("c"), AtIndex(todo, 0)} {
			intent, ok, err := in.Drop(lanes, target)
			assert.ErrorIs(t, err, ErrReadOnly)
			assert.False(t, ok)
			assert.Equal(t, models.MoveIntent{}, intent)
		}
	}
}

func TestInteraction_DragAndDrop(t *testing.T) {
	lanes := sampleLanes()
	in := NewInteraction(false)

	_, _, err := in.Drop(lanes, OnLane(done))
	assert.ErrorIs(t, err, ErrNotDragging)

	require.NoError(t, in.BeginDrag("a"))
	id, dragging := in.Dragging()
	assert.True(t, dragging)
	assert.Equal(t, types.TaskID("a"), id)

	intent, ok, err := in.Drop(lanes, OnLane(done))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, done, intent.ToLane)
	assert.Equal(t, 1, intent.ToIndex)
	assert.True(t, intent.StatusChanged)

	_, dragging = in.Dragging()
	assert.False(t, dragging, "drop ends the drag")

	require.NoError(t, in.BeginDrag("a"))
	_, ok, err = in.Drop(lanes, OnCard("b"))
	require.NoError(t, err)
	assert.False(t, ok, "dropping before the next card is a no-op")

	require.NoError(t, in.BeginDrag("a"))
	in.SetReadOnly(true)
	_, dragging = in.Dragging()
	assert.False(t, dragging)
}

// ============================================================================
// List projection
// ============================================================================

func TestProjectList_Sorting(t *testing.T) {
	lanes := sampleLanes()

	tests := []struct {
		name  string
		field SortField
		order SortOrder
		want  []types.TaskID
	}{
		{"board order", SortNone, SortAsc, []types.TaskID{"a", "b", "c", "d", "e"}},
		{"title asc", SortByTitle, SortAsc, []types.TaskID{"b", "a", "c", "d", "e"}},
		{"title desc", SortByTitle, SortDesc, []types.TaskID{"e", "d", "c", "a", "b"}},
		{"status asc", SortByStatus, SortAsc, []types.TaskID{"a", "b", "e", "c", "d"}},
		{"status desc", SortByStatus, SortDesc, []types.TaskID{"d", "c", "a", "b", "e"}},
		{"priority asc", SortByPriority, SortAsc, []types.TaskID{"a", "c", "e", "b", "d"}},
		{"due date asc", SortByDueDate, SortAsc, []types.TaskID{"c", "d", "a", "b", "e"}},
		{"due date desc keeps undated last", SortByDueDate, SortDesc, []types.TaskID{"a", "d", "c", "b", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ProjectList(lanes, ListOptions{SortField: tt.field, SortOrder: tt.order})
			assert.Equal(t, tt.want, rowIDs(l))
		})
	}
}

func TestProjectList_RowsCarryLaneAndAffordances(t *testing.T) {
	l := ProjectList(sampleLanes(), ListOptions{ReadOnly: true, Pending: map[types.TaskID]bool{"e": true}})

	i := l.IndexOf("e")
	require.GreaterOrEqual(t, i, 0)
	row := l.Rows[i]
	assert.Equal(t, "Sprint", row.LaneTitle)
	assert.True(t, row.Pending)
	assert.False(t, row.CanEdit)
	assert.False(t, row.CanDelete)
	assert.Equal(t, -1, l.IndexOf("zzz"))
}

// ============================================================================
// Selection state
// ============================================================================

func TestCycleSort(t *testing.T) {
	s := NewListState()
	var seen []string
	for range 9 {
		s.CycleSort()
		order := "asc"
		if s.SortOrder() == SortDesc {
			order = "desc"
		}
		seen = append(seen, s.SortField().String()+" "+order)
	}
	assert.Equal(t, []string{
		"title asc", "title desc",
		"status asc", "status desc",
		"priority asc", "priority desc",
		"due date asc", "due date desc",
		"none asc",
	}, seen)
}

func TestListState_Navigation(t *testing.T) {
	s := NewListState()
	assert.False(t, s.IsListView())
	s.ToggleView()
	assert.True(t, s.IsListView())

	s.MoveDown(3)
	s.MoveDown(3)
	s.MoveDown(3)
	assert.Equal(t, 2, s.SelectedRow())

	s.EnsureVisible(2)
	assert.Equal(t, 1, s.ScrollOffset())

	s.Clamp(1)
	assert.Equal(t, 0, s.SelectedRow())
	s.MoveUp()
	assert.Equal(t, 0, s.SelectedRow())
}

func TestBoardState_Navigation(t *testing.T) {
	b := ProjectBoard(sampleLanes(), BoardOptions{})
	s := NewBoardState()

	card, ok := s.Selected(b)
	require.True(t, ok)
	assert.Equal(t, types.TaskID("a"), card.Task.ID)

	s.Down(b)
	s.Down(b)
	assert.Equal(t, 1, s.Card())

	s.Right(b) // In Progress is empty
	_, ok = s.Selected(b)
	assert.False(t, ok)
	col, ok := s.SelectedColumn(b)
	require.True(t, ok)
	assert.Equal(t, "In Progress", col.Title)

	require.True(t, s.Follow(b, "d"))
	assert.Equal(t, 3, s.Column())

	assert.False(t, s.Follow(b, "ghost"))
	s.Left(b)
	assert.Equal(t, 2, s.Column())
}
