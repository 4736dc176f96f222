package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/services/boardsync"
	"github.com/thenoetrevino/tablero/internal/services/task"
	"github.com/thenoetrevino/tablero/internal/testutil"
	"github.com/thenoetrevino/tablero/internal/tui/state"
)

var testNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

type harness struct {
	m        *Model
	app      *app.App
	api      *testutil.TestAPI
	notifier *Notifier
}

func setupModel(t *testing.T, readOnly bool, seed ...task.CreateTaskRequest) *harness {
	t.Helper()
	api := testutil.SetupTestAPI(t, nil, "")
	for _, req := range seed {
		if req.ProjectID == "" {
			req.ProjectID = "default"
		}
		api.SeedTask(t, req)
	}
	return openModel(t, api, readOnly)
}

func openModel(t *testing.T, api *testutil.TestAPI, readOnly bool) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURL = api.URL
	cfg.API.Timeout = 2 * time.Second
	cfg.Daemon.SocketPath = ""

	notifier := NewNotifier()
	a := app.New(cfg, app.WithNotifier(notifier), app.WithReadOnly(readOnly), app.WithoutEvents())
	_ = a.Start(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.Close(ctx)
	})

	m := New(context.Background(), a.Board, Options{
		Notifier:   notifier,
		Connection: a,
		Now:        func() time.Time { return testNow },
	})
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	return &harness{m: m, app: a, api: api, notifier: notifier}
}

func keyMsg(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.m.Update(keyMsg(k))
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.m.Update(keyMsg(string(r)))
	}
}

func (h *harness) screen() string {
	return ansi.Strip(h.m.View().Content)
}

func (h *harness) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.app.Board.Flush(ctx))
}

func (h *harness) serverTasks(t *testing.T) []models.Task {
	t.Helper()
	tasks, err := h.api.Service.ListTasks(context.Background(), "default")
	require.NoError(t, err)
	return tasks
}

func (h *harness) laneTitles(t *testing.T, status models.Status) []string {
	t.Helper()
	lane, ok := h.app.Board.Lanes().Lane(models.StatusLane(status))
	require.True(t, ok)
	var out []string
	for _, tk := range lane.Tasks {
		out = append(out, tk.Title)
	}
	return out
}

func TestView_RendersBoardAndStatusBar(t *testing.T) {
	h := setupModel(t, false,
		task.CreateTaskRequest{Title: "Write docs"},
		task.CreateTaskRequest{Title: "Ship it", Status: models.APIStatusCompleted},
	)

	out := h.screen()
	for _, want := range []string{"Todo (1)", "In Progress (0)", "Done (1)", "Write docs", "Ship it", "default", "board", "Offline"} {
		assert.Contains(t, out, want)
	}
	assert.True(t, h.m.View().AltScreen)
}

func TestView_LoadingBeforeWindowSize(t *testing.T) {
	h := setupModel(t, false)
	h.m.width = 0
	assert.Equal(t, "Loading...", h.m.View().Content)
}

func TestView_EmptyBoardShowsCanonicalLanes(t *testing.T) {
	h := setupModel(t, false)
	out := h.screen()
	assert.Contains(t, out, "Todo (0)")
	assert.Contains(t, out, "No tasks")
	_, ok := h.m.Selected()
	assert.False(t, ok)
}

func TestNavigation_FollowsSelection(t *testing.T) {
	h := setupModel(t, false,
		task.CreateTaskRequest{Title: "First"},
		task.CreateTaskRequest{Title: "Second"},
		task.CreateTaskRequest{Title: "Doing", Status: models.APIStatusInProgress},
	)

	sel, ok := h.m.Selected()
	require.True(t, ok)
	assert.Equal(t, "First", sel.Title)

	h.press("j")
	sel, _ = h.m.Selected()
	assert.Equal(t, "Second", sel.Title)

	h.press("right")
	sel, _ = h.m.Selected()
	assert.Equal(t, "Doing", sel.Title)

	h.press("h", "k")
	sel, _ = h.m.Selected()
	assert.Equal(t, "First", sel.Title)
}

func TestToggleDone_PersistsStatus(t *testing.T) {
	h := setupModel(t, false, task.CreateTaskRequest{Title: "Finish me"})

	h.press("x")
	assert.Equal(t, []string{"Finish me"}, h.laneTitles(t, models.StatusDone), "applied before the server answers")
	h.flush(t)

	tasks := h.serverTasks(t)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.StatusDone, tasks[0].Status)

	sel, ok := h.m.Selected()
	require.True(t, ok, "cursor follows the task into its new lane")
	assert.Equal(t, "Finish me", sel.Title)
	assert.Equal(t, 2, h.m.boardState.Column())

	h.press("x")
	h.flush(t)
	assert.Equal(t, models.StatusTodo, h.serverTasks(t)[0].Status)
}

func TestDrag_MovesCardToAnotherLane(t *testing.T) {
	h := setupModel(t, false,
		task.CreateTaskRequest{Title: "Carry me"},
		task.CreateTaskRequest{Title: "Stay"},
	)

	h.press("space")
	require.Equal(t, state.DragMode, h.m.Mode())
	assert.Contains(t, h.screen(), "drop here")
	assert.Contains(t, h.screen(), "moving")

	h.press("l", "space")
	assert.Equal(t, state.NormalMode, h.m.Mode())
	assert.Equal(t, []string{"Carry me"}, h.laneTitles(t, models.StatusInProgress))
	assert.Equal(t, []string{"Stay"}, h.laneTitles(t, models.StatusTodo))
	assert.Equal(t, 1, h.m.boardState.Column(), "cursor follows the dropped card")

	h.flush(t)
	for _, tk := range h.serverTasks(t) {
		if tk.Title == "Carry me" {
			assert.Equal(t, models.StatusInProgress, tk.Status)
		}
	}
}

func TestDrag_ReordersWithinLane(t *testing.T) {
	h := setupModel(t, false,
		task.CreateTaskRequest{Title: "A"},
		task.CreateTaskRequest{Title: "B"},
		task.CreateTaskRequest{Title: "C"},
	)

	// pick up A and drop it after C
	h.press("space", "j", "j", "j", "space")
	assert.Equal(t, []string{"B", "C", "A"}, h.laneTitles(t, models.StatusTodo))
	h.flush(t)

	h2 := openModel(t, h.api, false)
	assert.Equal(t, []string{"B", "C", "A"}, h2.laneTitles(t, models.StatusTodo), "order survives a reload")
}

func TestDrag_DropInPlaceChangesNothing(t *testing.T) {
	h := setupModel(t, false, task.CreateTaskRequest{Title: "A"}, task.CreateTaskRequest{Title: "B"})

	h.press("space", "space")
	assert.Equal(t, state.NormalMode, h.m.Mode())
	assert.False(t, h.app.Board.Busy())
	assert.Equal(t, []string{"A", "B"}, h.laneTitles(t, models.StatusTodo))
}

func TestDrag_EscCancels(t *testing.T) {
	h := setupModel(t, false, task.CreateTaskRequest{Title: "A"})

	h.press("space", "l", "l", "esc")
	assert.Equal(t, state.NormalMode, h.m.Mode())
	_, dragging := h.m.interaction.Dragging()
	assert.False(t, dragging)
	assert.Equal(t, []string{"A"}, h.laneTitles(t, models.StatusTodo))
}

func TestAddTask_CreatesInSelectedLane(t *testing.T) {
	h := setupModel(t, false)

	h.press("l", "a")
	require.Equal(t, state.AddMode, h.m.Mode())
	assert.Contains(t, h.screen(), "New task in In Progress")

	h.typeText("Fresh idea")
	h.press("enter")
	assert.Equal(t, state.NormalMode, h.m.Mode())
	assert.Equal(t, []string{"Fresh idea"}, h.laneTitles(t, models.StatusInProgress))

	h.flush(t)
	tasks := h.serverTasks(t)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Fresh idea", tasks[0].Title)
	assert.Equal(t, models.StatusInProgress, tasks[0].Status)
	assert.False(t, tasks[0].IsDraft())
}

func TestAddTask_BlankTitleKeepsDialogOpen(t *testing.T) {
	h := setupModel(t, false)

	h.press("a")
	h.typeText("   ")
	h.press("enter")

	assert.Equal(t, state.AddMode, h.m.Mode())
	require.NotEmpty(t, h.m.Notifications())
	assert.Equal(t, state.LevelWarning, h.m.Notifications()[0].Level)

	h.press("esc")
	assert.Equal(t, state.NormalMode, h.m.Mode())
	assert.Empty(t, h.serverTasks(t))
}

func TestEditTask_UpdatesTitle(t *testing.T) {
	h := setupModel(t, false, task.CreateTaskRequest{Title: "Draft"})

	h.press("e")
	require.Equal(t, state.EditMode, h.m.Mode())
	h.press("backspace", "backspace", "backspace", "backspace", "backspace")
	h.typeText("Final")
	h.press("enter")

	h.flush(t)
	assert.Equal(t, "Final", h.serverTasks(t)[0].Title)
}

func TestDeleteTask_RequiresConfirmation(t *testing.T) {
	h := setupModel(t, false, task.CreateTaskRequest{Title: "Doomed"})

	h.press("d")
	require.Equal(t, state.DeleteConfirmMode, h.m.Mode())
	assert.Contains(t, h.screen(), "Delete task?")

	h.press("n")
	assert.Equal(t, state.NormalMode, h.m.Mode())
	assert.Len(t, h.serverTasks(t), 1)

	h.press("d", "y")
	assert.Empty(t, h.laneTitles(t, models.StatusTodo))
	h.flush(t)
	assert.Empty(t, h.serverTasks(t))
}

func TestReadOnly_DisablesEveryMutationKey(t *testing.T) {
	h := setupModel(t, true, task.CreateTaskRequest{Title: "Look only"})

	for _, k := range []string{"a", "e", "d", "x", "space"} {
		h.press(k)
		assert.Equal(t, state.NormalMode, h.m.Mode(), "key %q", k)
	}
	assert.False(t, h.app.Board.Busy())
	assert.Equal(t, []string{"Look only"}, h.laneTitles(t, models.StatusTodo))
	assert.Contains(t, h.screen(), "read-only")

	h.press("?")
	assert.Equal(t, state.HelpMode, h.m.Mode())
	assert.Contains(t, h.screen(), "changes are disabled")
}

func TestListView_ToggleAndSort(t *testing.T) {
	h := setupModel(t, false,
		task.CreateTaskRequest{Title: "Banana"},
		task.CreateTaskRequest{Title: "Apple", Status: models.APIStatusCompleted},
	)

	h.press("v")
	assert.True(t, h.m.listState.IsListView())
	assert.Contains(t, h.screen(), "Title")

	h.press("s")
	assert.Contains(t, h.screen(), "list by title")
	h.press("k", "k")
	sel, ok := h.m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Apple", sel.Title)

	// drags only happen on the board
	h.press("space")
	assert.Equal(t, state.NormalMode, h.m.Mode())

	h.press("v")
	sel, _ = h.m.Selected()
	assert.Equal(t, "Apple", sel.Title, "selection survives the view toggle")
	assert.Equal(t, 2, h.m.boardState.Column())
}

func TestDetailView_ShowsDescription(t *testing.T) {
	h := setupModel(t, false, task.CreateTaskRequest{Title: "Read me", Description: "Some **notes**", Priority: "high"})

	h.press("enter")
	require.Equal(t, state.DetailMode, h.m.Mode())
	out := h.screen()
	assert.Contains(t, out, "Read me")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "notes")

	h.press("esc")
	assert.Equal(t, state.NormalMode, h.m.Mode())
}

func TestLoadError_ShowsRetry(t *testing.T) {
	api := testutil.SetupTestAPI(t, nil, "")
	api.Server.Close()
	h := openModel(t, api, false)

	require.Error(t, h.app.Board.LoadError())
	out := h.screen()
	assert.Contains(t, out, "Could not load the board")
	assert.Contains(t, out, "press r to retry")

	h.press("a")
	assert.Equal(t, state.NormalMode, h.m.Mode(), "mutations need a loaded board")

	_, cmd := h.m.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	assert.True(t, h.m.refreshing)
	h.m.Update(cmd())
	assert.False(t, h.m.refreshing)
	assert.Contains(t, h.screen(), "Could not load the board")
}

func TestRollback_SurfacesNotification(t *testing.T) {
	h := setupModel(t, false, task.CreateTaskRequest{Title: "Gone soon"})
	tasks := h.serverTasks(t)
	require.Len(t, tasks, 1)
	require.NoError(t, h.api.Service.DeleteTask(context.Background(), "default", tasks[0].ID))

	h.press("x")
	h.flush(t)

	var note boardsync.Notification
	select {
	case note = <-h.notifier.C():
	case <-time.After(2 * time.Second):
		t.Fatal("no notification after a failed persist")
	}
	h.m.Update(notificationMsg(note))

	notes := h.m.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, state.LevelError, notes[0].Level)
	assert.Contains(t, h.screen(), "Error")

	h.m.Update(tickMsg(testNow.Add(state.DefaultNotificationTTL + time.Second)))
	assert.Empty(t, h.m.Notifications())
}

func TestUpdates_ClosedChannelStopsListening(t *testing.T) {
	h := setupModel(t, false)
	_, cmd := h.m.Update(updateMsg{closed: true})
	assert.Nil(t, cmd)

	_, cmd = h.m.Update(updateMsg{update: boardsync.Update{Kind: boardsync.UpdateLoaded}})
	assert.NotNil(t, cmd)
}

func TestQuit(t *testing.T) {
	h := setupModel(t, false)
	_, cmd := h.m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNotifier_NeverBlocks(t *testing.T) {
	n := NewNotifier()
	for i := range notifierBuffer + 10 {
		n.Notify(boardsync.Notification{Message: fmt.Sprintf("note %d", i)})
	}
	assert.Len(t, n.C(), notifierBuffer)
}
