package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/tablero/internal/services/boardsync"
)

const (
	tickInterval   = time.Second
	refreshTimeout = 30 * time.Second
)

// updateMsg carries a controller update. closed is set once the controller
// shut its update channel.
type updateMsg struct {
	update boardsync.Update
	closed bool
}

type notificationMsg boardsync.Notification

type tickMsg time.Time

type refreshedMsg struct {
	err error
}

func waitForUpdate(ch <-chan boardsync.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		return updateMsg{update: u, closed: !ok}
	}
}

func waitForNotification(ch <-chan boardsync.Notification) tea.Cmd {
	return func() tea.Msg {
		return notificationMsg(<-ch)
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func refresh(ctx context.Context, board *boardsync.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
		defer cancel()
		return refreshedMsg{err: board.Refresh(ctx)}
	}
}
