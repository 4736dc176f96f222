// Package tui is the terminal board: a column view and a sortable list view
// over a boardsync.Controller, with keyboard drag and drop, inline editing
// and sync notifications.
package tui

import (
	"context"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/services/boardsync"
	"github.com/thenoetrevino/tablero/internal/tui/state"
	"github.com/thenoetrevino/tablero/internal/types"
	"github.com/thenoetrevino/tablero/internal/view"
)

// Connection reports the live refresh link, usually *app.App
type Connection interface {
	Connected() bool
	LiveRefresh() bool
}

// Options configures a Model
type Options struct {
	KeyMappings config.KeyMappings
	// Notifier must be the one the controller was built with
	Notifier   *Notifier
	Connection Connection
	Logger     *slog.Logger
	// Now is the clock, time.Now when nil
	Now func() time.Time
}

// Model represents the application state for the TUI
type Model struct {
	ctx      context.Context
	board    *boardsync.Controller
	keys     KeyMap
	notifier *Notifier
	conn     Connection
	logger   *slog.Logger
	now      func() time.Time

	mode     state.Mode
	width    int
	height   int
	readOnly bool

	boardState  *view.BoardState
	listState   *view.ListState
	interaction *view.Interaction
	drop        state.DropCursor
	notes       *state.NotificationState
	connState   *state.ConnectionState
	input       textinput.Model

	// selected is followed across board changes
	selected types.TaskID
	addLane  models.LaneKey
	target   types.TaskID

	refreshing bool
}

// New creates the board model. The controller should already be loaded;
// a failed load shows the error screen with a retry.
func New(ctx context.Context, board *boardsync.Controller, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.KeyMappings == (config.KeyMappings{}) {
		opts.KeyMappings = config.DefaultKeyMappings()
	}

	input := textinput.New()
	input.Placeholder = "Task title"
	input.CharLimit = models.MaxTitleLength

	m := &Model{
		ctx:         ctx,
		board:       board,
		keys:        NewKeyMap(opts.KeyMappings),
		notifier:    opts.Notifier,
		conn:        opts.Connection,
		logger:      opts.Logger,
		now:         opts.Now,
		boardState:  view.NewBoardState(),
		listState:   view.NewListState(),
		interaction: view.NewInteraction(board.MutationsDisabled()),
		notes:       state.NewNotificationState(state.DefaultNotificationTTL),
		connState:   state.NewConnectionState(state.Offline),
		input:       input,
	}
	m.syncReadOnly()
	m.syncConnection()
	m.follow()
	return m
}

// Init starts listening for board updates, notifications and the clock
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForUpdate(m.board.Updates()), tick()}
	if m.notifier != nil {
		cmds = append(cmds, waitForNotification(m.notifier.C()))
	}
	return tea.Batch(cmds...)
}

// Mode returns what the keyboard currently drives
func (m *Model) Mode() state.Mode {
	return m.mode
}

// Selected returns the task under the cursor, if any
func (m *Model) Selected() (models.Task, bool) {
	if m.listState.IsListView() {
		list := m.listView()
		m.listState.Clamp(len(list.Rows))
		row := m.listState.SelectedRow()
		if row >= len(list.Rows) {
			return models.Task{}, false
		}
		return list.Rows[row].Task, true
	}
	card, ok := m.boardState.Selected(m.boardView())
	return card.Task, ok
}

// Notifications returns the notifications on screen
func (m *Model) Notifications() []state.Notification {
	return m.notes.All()
}

func (m *Model) boardView() view.Board {
	return view.ProjectBoard(m.board.Lanes(), view.BoardOptions{
		ReadOnly: m.readOnly,
		Pending:  m.board.PendingTasks(),
	})
}

func (m *Model) listView() view.List {
	return view.ProjectList(m.board.Lanes(), m.listState.Options(m.readOnly, m.board.PendingTasks()))
}

// syncReadOnly picks up the controller disabling mutations after an auth failure
func (m *Model) syncReadOnly() {
	ro := m.board.MutationsDisabled()
	if ro == m.readOnly && m.interaction.ReadOnly() == ro {
		return
	}
	m.readOnly = ro
	m.keys.SetReadOnly(ro)
	m.interaction.SetReadOnly(ro)
	if ro {
		switch m.mode {
		case state.DragMode, state.AddMode, state.EditMode, state.DeleteConfirmMode:
			m.mode = state.NormalMode
			m.input.Blur()
		}
	}
}

func (m *Model) syncConnection() bool {
	status := state.Offline
	if m.conn != nil && m.conn.LiveRefresh() {
		status = state.Disconnected
		if m.conn.Connected() {
			status = state.Connected
		}
	}
	return m.connState.SetStatus(status)
}

// follow keeps the cursor on the selected task wherever it moved, or clamps
// it when the task is gone
func (m *Model) follow() {
	if m.listState.IsListView() {
		list := m.listView()
		if i := list.IndexOf(m.selected); i >= 0 {
			m.listState.SetSelectedRow(i)
		}
		m.listState.Clamp(len(list.Rows))
		m.listState.EnsureVisible(m.listHeight())
	} else {
		b := m.boardView()
		if m.selected == "" || !m.boardState.Follow(b, m.selected) {
			m.boardState.Clamp(b)
		}
	}
	m.remember()
}

// remember records the task under the cursor so follow can find it later
func (m *Model) remember() {
	if t, ok := m.Selected(); ok {
		m.selected = t.ID
	} else {
		m.selected = ""
	}
}

func (m *Model) notify(level state.NotificationLevel, msg string) {
	m.notes.Add(level, msg, m.now())
}

func (m *Model) notifyErr(action string, err error) {
	m.logger.Warn("board action failed", "action", action, "error", err)
	m.notify(state.LevelError, action+": "+err.Error())
}

func (m *Model) listHeight() int {
	return max(m.height-statusBarHeight-1, 1)
}
