package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/tui/components"
	"github.com/thenoetrevino/tablero/internal/tui/notifications"
	"github.com/thenoetrevino/tablero/internal/tui/state"
	"github.com/thenoetrevino/tablero/internal/tui/theme"
	"github.com/thenoetrevino/tablero/internal/view"
)

const statusBarHeight = 1

// View renders the board, the overlay for the current mode and the
// notifications as layers on one canvas
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true

	if m.width == 0 {
		v.Content = "Loading..."
		return v
	}

	layers := []*lipgloss.Layer{lipgloss.NewLayer(m.renderBase())}
	if overlay := m.renderOverlay(); overlay != "" {
		x := max((m.width-lipgloss.Width(overlay))/2, 0)
		y := max((m.height-lipgloss.Height(overlay))/2, 0)
		layers = append(layers, lipgloss.NewLayer(overlay).X(x).Y(y))
	}
	layers = append(layers, notifications.Layers(m.notes.All(), m.width, m.height-statusBarHeight)...)

	v.Content = lipgloss.NewCanvas(layers...).Render()
	return v
}

func (m *Model) renderBase() string {
	bodyHeight := max(m.height-statusBarHeight, 1)

	var body string
	switch {
	case m.board.LoadError() != nil:
		body = m.renderLoadError(bodyHeight)
	case !m.board.Loaded():
		body = components.SubtleStyle.Render("Loading board...")
	case m.listState.IsListView():
		m.listState.EnsureVisible(m.listHeight())
		body = components.RenderList(components.ListProps{
			List:     m.listView(),
			Width:    m.width,
			Height:   bodyHeight - 1,
			Selected: m.listState.SelectedRow(),
			Offset:   m.listState.ScrollOffset(),
			Now:      m.now(),
		})
	default:
		body = m.renderBoard(bodyHeight)
	}

	body = lipgloss.NewStyle().Width(m.width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

func (m *Model) renderBoard(height int) string {
	b := m.boardView()
	if len(b.Columns) == 0 {
		return m.renderEmpty(height)
	}

	colWidth := max(m.width/len(b.Columns), components.MinColumnWidth)
	visible := max(m.width/colWidth, 1)

	focus := m.boardState.Column()
	if m.mode == state.DragMode {
		focus = m.drop.Column()
	}
	start, end := components.VisibleRange(len(b.Columns), visible, focus)

	carried, _ := m.interaction.Dragging()
	cols := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		props := components.ColumnProps{
			Width:        colWidth,
			Height:       height,
			Selected:     m.mode != state.DragMode && i == m.boardState.Column(),
			SelectedCard: -1,
			DropSlot:     -1,
			Carried:      carried,
			Now:          m.now(),
		}
		if props.Selected {
			props.SelectedCard = m.boardState.Card()
		}
		if m.mode == state.DragMode && i == m.drop.Column() {
			props.DropSlot = m.drop.Slot()
		}
		cols = append(cols, components.RenderColumn(b.Columns[i], props))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Model) renderEmpty(height int) string {
	msg := "This project has no tasks yet."
	if !m.readOnly {
		msg += fmt.Sprintf(" Press %s to add one.", m.keys.AddTask.Help().Key)
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
		components.SubtleStyle.Render(msg))
}

func (m *Model) renderLoadError(height int) string {
	box := components.DeleteConfirmBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Foreground(lipgloss.Color(theme.ErrorFg)).Render("Could not load the board"),
		"",
		components.Truncate(m.board.LoadError().Error(), max(m.width-10, 20)),
		"",
		components.SubtleStyle.Render(fmt.Sprintf("press %s to retry, %s to quit",
			m.keys.Refresh.Help().Key, m.keys.Quit.Help().Key)),
	))
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderStatusBar() string {
	viewName := "board"
	if m.listState.IsListView() {
		viewName = "list"
		if f := m.listState.SortField(); f != view.SortNone {
			viewName += " by " + f.String()
		}
	}
	if m.refreshing {
		viewName += " (refreshing)"
	}
	return components.RenderStatusBar(components.StatusBarProps{
		Width:      m.width,
		Project:    string(m.board.ProjectID()),
		View:       viewName,
		Mode:       m.mode,
		ReadOnly:   m.readOnly,
		Connection: m.connState.Status(),
		Pending:    len(m.board.PendingTasks()),
	})
}

func (m *Model) renderOverlay() string {
	switch m.mode {
	case state.AddMode:
		return m.renderInput(components.CreateInputBoxStyle, "New task in "+m.laneTitle(m.addLane))
	case state.EditMode:
		return m.renderInput(components.EditInputBoxStyle, "Edit title")
	case state.DeleteConfirmMode:
		t, _ := m.board.Lanes().Task(m.target)
		return components.DeleteConfirmBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			components.TitleStyle.Render("Delete task?"),
			"",
			components.Truncate(t.Title, 50),
			"",
			components.SubtleStyle.Render("y: delete  n: cancel"),
		))
	case state.HelpMode:
		return m.renderHelp()
	case state.DetailMode:
		t, ok := m.board.Lanes().Task(m.target)
		if !ok {
			return ""
		}
		laneKey, _, _ := m.board.Lanes().Locate(t.ID)
		return components.RenderTaskView(components.TaskViewProps{
			Task:      t,
			LaneTitle: m.laneTitle(laneKey),
			Pending:   m.board.State(t.ID).Pending(),
			Width:     min(max(m.width*2/3, 40), m.width),
			Now:       m.now(),
		})
	}
	return ""
}

func (m *Model) renderInput(box lipgloss.Style, title string) string {
	return box.Render(lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render(title),
		"",
		m.input.View(),
		"",
		components.SubtleStyle.Render("enter: save  esc: cancel"),
	))
}

func (m *Model) renderHelp() string {
	var groups []string
	for _, group := range m.keys.HelpGroups() {
		var lines []string
		for _, b := range group {
			lines = append(lines, renderBinding(b))
		}
		groups = append(groups, strings.Join(lines, "\n"))
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(groups, "    ")...)
	if m.readOnly {
		content += "\n\n" + components.SubtleStyle.Render("read-only: changes are disabled")
	}
	return components.HelpBoxStyle.Render(components.TitleStyle.Render("Keys") + "\n\n" + content)
}

func renderBinding(b key.Binding) string {
	h := b.Help()
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Highlight)).Bold(true)
	if !b.Enabled() {
		style = components.SubtleStyle.Strikethrough(true)
	}
	return style.Width(8).Render(h.Key) + " " + h.Desc
}

func intersperse(items []string, sep string) []string {
	out := make([]string, 0, 2*len(items))
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}

func (m *Model) laneTitle(key models.LaneKey) string {
	if lane, ok := m.board.Lanes().Lane(key); ok {
		return lane.Title
	}
	if key.IsSection() {
		return string(key.SectionID())
	}
	return string(key.Status())
}
