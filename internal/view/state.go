package view

import "github.com/thenoetrevino/tablero/internal/types"

// ViewMode is the current presentation of the board.
// Users toggle between the column board and the flat list.
type ViewMode int

const (
	BoardView ViewMode = iota // Default column board
	ListView                  // Sortable table
)

// ListState holds list view selection, scrolling and sort configuration.
type ListState struct {
	viewMode ViewMode

	// selectedRow is the index of the currently selected row in list view
	selectedRow int

	// scrollOffset is the vertical scroll offset for list view
	scrollOffset int

	sortField SortField
	sortOrder SortOrder
}

// NewListState creates a ListState showing the board view, unsorted.
func NewListState() *ListState {
	return &ListState{
		viewMode:  BoardView,
		sortField: SortNone,
		sortOrder: SortAsc,
	}
}

// ViewMode returns the current view mode.
func (s *ListState) ViewMode() ViewMode {
	return s.viewMode
}

// ToggleView switches between board and list views.
func (s *ListState) ToggleView() {
	if s.viewMode == BoardView {
		s.viewMode = ListView
	} else {
		s.viewMode = BoardView
	}
}

// IsListView returns true if currently in list view mode.
func (s *ListState) IsListView() bool {
	return s.viewMode == ListView
}

func (s *ListState) SelectedRow() int {
	return s.selectedRow
}

// SetSelectedRow updates the selected row index.
func (s *ListState) SetSelectedRow(row int) {
	s.selectedRow = max(row, 0)
}

func (s *ListState) ScrollOffset() int {
	return s.scrollOffset
}

// EnsureVisible adjusts the scroll offset so the selected row is inside a
// window of height rows.
func (s *ListState) EnsureVisible(height int) {
	if height <= 0 {
		return
	}
	if s.selectedRow < s.scrollOffset {
		s.scrollOffset = s.selectedRow
	}
	if s.selectedRow >= s.scrollOffset+height {
		s.scrollOffset = s.selectedRow - height + 1
	}
}

// MoveUp moves the selection up one row if possible.
func (s *ListState) MoveUp() {
	if s.selectedRow > 0 {
		s.selectedRow--
	}
}

// MoveDown moves the selection down one row if possible.
func (s *ListState) MoveDown(maxRows int) {
	if maxRows > 0 && s.selectedRow < maxRows-1 {
		s.selectedRow++
	}
}

// Clamp keeps the selection inside a list of n rows.
func (s *ListState) Clamp(n int) {
	if n <= 0 {
		s.selectedRow = 0
		s.scrollOffset = 0
		return
	}
	s.selectedRow = min(s.selectedRow, n-1)
}

// ResetSelection resets the row selection and scroll offset to zero.
func (s *ListState) ResetSelection() {
	s.selectedRow = 0
	s.scrollOffset = 0
}

func (s *ListState) SortField() SortField {
	return s.sortField
}

func (s *ListState) SortOrder() SortOrder {
	return s.sortOrder
}

// Options returns the list projection options for the current sort
func (s *ListState) Options(readOnly bool, pending map[types.TaskID]bool) ListOptions {
	return ListOptions{SortField: s.sortField, SortOrder: s.sortOrder, ReadOnly: readOnly, Pending: pending}
}

// CycleSort steps through the sort configurations:
// None -> Title asc/desc -> Status asc/desc -> Priority asc/desc -> Due date asc/desc -> None
func (s *ListState) CycleSort() {
	s.sortField, s.sortOrder = CycleSort(s.sortField, s.sortOrder)
}

// CycleSort returns the sort configuration that follows (field, order)
func CycleSort(field SortField, order SortOrder) (SortField, SortOrder) {
	if field == SortNone {
		return SortByTitle, SortAsc
	}
	if order == SortAsc {
		return field, SortDesc
	}
	switch field {
	case SortByTitle:
		return SortByStatus, SortAsc
	case SortByStatus:
		return SortByPriority, SortAsc
	case SortByPriority:
		return SortByDueDate, SortAsc
	default:
		return SortNone, SortAsc
	}
}

// BoardState tracks the selected column and card on the board view
type BoardState struct {
	column int
	card   int
}

func NewBoardState() *BoardState {
	return &BoardState{}
}

func (s *BoardState) Column() int {
	return s.column
}

func (s *BoardState) Card() int {
	return s.card
}

// Selected returns the selected card, if any
func (s *BoardState) Selected(b Board) (Card, bool) {
	s.Clamp(b)
	if s.column >= len(b.Columns) {
		return Card{}, false
	}
	cards := b.Columns[s.column].Cards
	if s.card >= len(cards) {
		return Card{}, false
	}
	return cards[s.card], true
}

// SelectedColumn returns the selected column, if any
func (s *BoardState) SelectedColumn(b Board) (Column, bool) {
	s.Clamp(b)
	if s.column >= len(b.Columns) {
		return Column{}, false
	}
	return b.Columns[s.column], true
}

// Left moves to the previous column
func (s *BoardState) Left(b Board) {
	if s.column > 0 {
		s.column--
	}
	s.Clamp(b)
}

// Right moves to the next column
func (s *BoardState) Right(b Board) {
	if s.column < len(b.Columns)-1 {
		s.column++
	}
	s.Clamp(b)
}

// Up moves to the previous card in the column
func (s *BoardState) Up() {
	if s.card > 0 {
		s.card--
	}
}

// Down moves to the next card in the column
func (s *BoardState) Down(b Board) {
	s.Clamp(b)
	if s.column < len(b.Columns) && s.card < len(b.Columns[s.column].Cards)-1 {
		s.card++
	}
}

// Follow selects a task wherever it now is. It returns false if the task is
// no longer on the board, leaving the selection clamped.
func (s *BoardState) Follow(b Board, id types.TaskID) bool {
	ci, ri, ok := b.Find(id)
	if !ok {
		s.Clamp(b)
		return false
	}
	s.column, s.card = ci, ri
	return true
}

// Clamp keeps the selection inside the board
func (s *BoardState) Clamp(b Board) {
	if len(b.Columns) == 0 {
		s.column, s.card = 0, 0
		return
	}
	s.column = max(0, min(s.column, len(b.Columns)-1))
	n := len(b.Columns[s.column].Cards)
	if n == 0 {
		s.card = 0
		return
	}
	s.card = max(0, min(s.card, n-1))
}
