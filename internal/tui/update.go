package tui

import (
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/services/boardsync"
	"github.com/thenoetrevino/tablero/internal/taskapi"
	"github.com/thenoetrevino/tablero/internal/tui/state"
	"github.com/thenoetrevino/tablero/internal/view"
)

// Update handles all messages and updates the model accordingly
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(max(m.width/2-8, 20))
		return m, nil

	case updateMsg:
		if msg.closed {
			return m, nil
		}
		m.handleBoardUpdate(msg.update)
		return m, waitForUpdate(m.board.Updates())

	case notificationMsg:
		m.notify(levelOf(msg.Level), msg.Message)
		return m, waitForNotification(m.notifier.C())

	case tickMsg:
		m.syncConnection()
		m.notes.Expire(time.Time(msg))
		return m, tick()

	case refreshedMsg:
		m.refreshing = false
		if msg.err != nil && m.board.Loaded() {
			m.notifyErr("refresh", msg.err)
		}
		m.syncReadOnly()
		m.follow()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.mode == state.AddMode || m.mode == state.EditMode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleBoardUpdate(u boardsync.Update) {
	m.syncReadOnly()

	// the carried card or the one being edited may have been replaced underneath us
	if u.Kind == boardsync.UpdateLoaded || u.Kind == boardsync.UpdateRolledBack || u.Kind == boardsync.UpdateLoadFailed {
		if id, ok := m.interaction.Dragging(); ok {
			if _, found := m.board.Lanes().Task(id); !found {
				m.interaction.Cancel()
				m.mode = state.NormalMode
			}
		}
		if m.target != "" && (m.mode == state.EditMode || m.mode == state.DeleteConfirmMode || m.mode == state.DetailMode) {
			if _, found := m.board.Lanes().Task(m.target); !found {
				m.closeModal()
			}
		}
	}
	m.follow()
}

func levelOf(l boardsync.Level) state.NotificationLevel {
	switch l {
	case boardsync.LevelWarning:
		return state.LevelWarning
	case boardsync.LevelError:
		return state.LevelError
	default:
		return state.LevelInfo
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case state.DragMode:
		return m.handleDragKey(msg)
	case state.AddMode, state.EditMode:
		return m.handleInputKey(msg)
	case state.DeleteConfirmMode:
		return m.handleConfirmKey(msg)
	case state.HelpMode, state.DetailMode:
		if key.Matches(msg, m.keys.Cancel, m.keys.ShowHelp, m.keys.ViewTask, m.keys.Quit) {
			m.closeModal()
		}
		return m, nil
	}
	return m.handleNormalKey(msg)
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.ShowHelp):
		m.mode = state.HelpMode
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, refresh(m.ctx, m.board)
	}

	// nothing else applies to a board that failed to load
	if !m.board.Loaded() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ToggleView):
		m.listState.ToggleView()
		m.follow()
	case key.Matches(msg, m.keys.CycleSort):
		if m.listState.IsListView() {
			m.listState.CycleSort()
			m.follow()
		}
	case key.Matches(msg, m.keys.PrevLane, m.keys.NextLane, m.keys.PrevTask, m.keys.NextTask):
		m.navigate(msg)
	case key.Matches(msg, m.keys.ViewTask):
		if t, ok := m.Selected(); ok {
			m.target = t.ID
			m.mode = state.DetailMode
		}
	case key.Matches(msg, m.keys.AddTask):
		return m, m.startAdd()
	case key.Matches(msg, m.keys.EditTask):
		return m, m.startEdit()
	case key.Matches(msg, m.keys.DeleteTask):
		if t, ok := m.Selected(); ok {
			m.target = t.ID
			m.mode = state.DeleteConfirmMode
		}
	case key.Matches(msg, m.keys.ToggleDone):
		m.toggleDone()
	case key.Matches(msg, m.keys.PickUp):
		m.pickUp()
	}
	return m, nil
}

func (m *Model) navigate(msg tea.KeyPressMsg) {
	if m.listState.IsListView() {
		n := len(m.listView().Rows)
		switch {
		case key.Matches(msg, m.keys.PrevTask):
			m.listState.MoveUp()
		case key.Matches(msg, m.keys.NextTask):
			m.listState.MoveDown(n)
		}
		m.listState.Clamp(n)
		m.listState.EnsureVisible(m.listHeight())
		m.remember()
		return
	}

	b := m.boardView()
	switch {
	case key.Matches(msg, m.keys.PrevLane):
		m.boardState.Left(b)
	case key.Matches(msg, m.keys.NextLane):
		m.boardState.Right(b)
	case key.Matches(msg, m.keys.PrevTask):
		m.boardState.Up()
	case key.Matches(msg, m.keys.NextTask):
		m.boardState.Down(b)
	}
	m.remember()
}

// addTargetLane is the selected column on the board, and the todo lane in the list
func (m *Model) addTargetLane() (models.LaneKey, bool) {
	if m.listState.IsListView() {
		return models.StatusLane(models.StatusTodo), true
	}
	col, ok := m.boardState.SelectedColumn(m.boardView())
	if !ok || !col.CanAdd {
		return models.LaneKey{}, false
	}
	return col.Key, true
}

func (m *Model) startAdd() tea.Cmd {
	lane, ok := m.addTargetLane()
	if !ok {
		return nil
	}
	m.addLane = lane
	m.input.Reset()
	m.mode = state.AddMode
	return m.input.Focus()
}

func (m *Model) startEdit() tea.Cmd {
	t, ok := m.Selected()
	if !ok {
		return nil
	}
	if t.IsDraft() && m.board.State(t.ID).Pending() {
		m.notify(state.LevelWarning, boardsync.ErrDraftPending.Error())
		return nil
	}
	m.target = t.ID
	m.input.SetValue(t.Title)
	m.input.CursorEnd()
	m.mode = state.EditMode
	return m.input.Focus()
}

func (m *Model) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil
	case "enter":
		m.submitInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitInput() {
	title := strings.TrimSpace(m.input.Value())
	if err := models.ValidateTitle(title); err != nil {
		// keep the dialog open so the title can be fixed
		m.notify(state.LevelWarning, validationMessage(err))
		return
	}

	mode, target := m.mode, m.target
	m.closeModal()

	switch mode {
	case state.AddMode:
		draft := models.Task{Title: title, ProjectID: m.board.ProjectID()}
		if m.addLane.IsSection() {
			draft.SectionID = m.addLane.SectionID()
			if sec, ok := m.board.Lanes().Section(draft.SectionID); ok && sec.HasDefaultStatus() {
				draft.Status = sec.DefaultStatus
			}
		} else {
			draft.Status = m.addLane.Status()
		}
		id, err := m.board.Create(draft)
		if err != nil {
			m.notifyErr("create task", err)
			return
		}
		m.selected = id
	case state.EditMode:
		if err := m.board.Update(target, taskapi.TaskPatch{Title: &title}); err != nil {
			m.notifyErr("edit task", err)
			return
		}
		m.selected = target
	}
	m.follow()
}

func (m *Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		target := m.target
		m.closeModal()
		if err := m.board.Delete(target); err != nil {
			m.notifyErr("delete task", err)
		}
		m.follow()
	case key.Matches(msg, m.keys.Deny):
		m.closeModal()
	}
	return m, nil
}

func (m *Model) toggleDone() {
	t, ok := m.Selected()
	if !ok {
		return
	}
	status := models.StatusDone
	if t.Status.IsDone() {
		status = models.StatusTodo
	}
	if err := m.board.Update(t.ID, taskapi.TaskPatch{Status: &status}); err != nil {
		m.notifyErr("update task", err)
		return
	}
	m.follow()
}

// pickUp starts a keyboard drag from the selected card. The drop cursor
// starts on the card's own slot, where dropping changes nothing.
func (m *Model) pickUp() {
	if m.listState.IsListView() {
		m.notify(state.LevelInfo, "switch to the board view to move tasks")
		return
	}
	b := m.boardView()
	card, ok := m.boardState.Selected(b)
	if !ok {
		return
	}
	if !card.CanDrag {
		m.notify(state.LevelWarning, boardsync.ErrDraftPending.Error())
		return
	}
	if err := m.interaction.BeginDrag(card.Task.ID); err != nil {
		m.notifyErr("move task", err)
		return
	}
	m.drop.Reset(m.boardState.Column(), m.boardState.Card())
	m.mode = state.DragMode
}

func (m *Model) handleDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	b := m.boardView()
	sizes := make([]int, len(b.Columns))
	for i, col := range b.Columns {
		sizes[i] = len(col.Cards)
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.interaction.Cancel()
		m.mode = state.NormalMode
	case key.Matches(msg, m.keys.PrevLane):
		m.drop.Left(sizes)
	case key.Matches(msg, m.keys.NextLane):
		m.drop.Right(sizes)
	case key.Matches(msg, m.keys.PrevTask):
		m.drop.Up()
	case key.Matches(msg, m.keys.NextTask):
		m.drop.Down(sizes)
	case key.Matches(msg, m.keys.PickUp, m.keys.ViewTask):
		m.dropCarried(b)
	case key.Matches(msg, m.keys.Quit):
		m.interaction.Cancel()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) dropCarried(b view.Board) {
	m.mode = state.NormalMode
	id, ok := m.interaction.Dragging()
	if !ok || m.drop.Column() >= len(b.Columns) {
		m.interaction.Cancel()
		return
	}
	target := view.AtIndex(b.Columns[m.drop.Column()].Key, m.drop.Slot())

	intent, changed, err := m.interaction.Drop(m.board.Lanes(), target)
	if err != nil {
		m.notifyErr("move task", err)
		return
	}
	if !changed {
		return
	}
	if err := m.board.Move(intent); err != nil {
		m.notifyErr("move task", err)
		return
	}
	m.selected = id
	m.follow()
}

func (m *Model) closeModal() {
	m.mode = state.NormalMode
	m.target = ""
	m.input.Blur()
	m.input.Reset()
}

func validationMessage(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
