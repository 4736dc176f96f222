package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/tablero/internal/tui/state"
	"github.com/thenoetrevino/tablero/internal/tui/theme"
)

// StatusBarProps is everything the status bar reports
type StatusBarProps struct {
	Width      int
	Project    string
	View       string
	Mode       state.Mode
	ReadOnly   bool
	Connection state.ConnectionStatus
	Pending    int
	// Notice is an already rendered inline notification, if any
	Notice string
}

// RenderStatusBar renders project, view and sync state on the left and the
// connection plus a help hint on the right
func RenderStatusBar(props StatusBarProps) string {
	base := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.StatusBarText)).
		Background(lipgloss.Color(theme.StatusBarBg))

	left := []string{
		base.Bold(true).Padding(0, 1).Render("tablero"),
		base.Render(props.Project),
		base.Render("· " + props.View),
	}
	if props.Mode == state.DragMode {
		left = append(left, base.Foreground(lipgloss.Color(theme.DropTarget)).Bold(true).Render("· moving"))
	}
	if props.ReadOnly {
		left = append(left, base.Foreground(lipgloss.Color(theme.WarningFg)).Render("· read-only"))
	}
	if props.Pending > 0 {
		left = append(left, base.Render(fmt.Sprintf("· %s %d saving", pendingMarker, props.Pending)))
	}
	if props.Notice != "" {
		left = append(left, props.Notice)
	}

	connColor := theme.Subtle
	switch props.Connection {
	case state.Connected:
		connColor = theme.Create
	case state.Disconnected:
		connColor = theme.Delete
	}
	right := base.Foreground(lipgloss.Color(connColor)).Render("● "+props.Connection.String()) +
		base.Padding(0, 1).Render("? help")

	leftRendered := strings.Join(left, base.Render(" "))
	gap := max(props.Width-lipgloss.Width(leftRendered)-lipgloss.Width(right), 1)
	return leftRendered + base.Render(strings.Repeat(" ", gap)) + right
}
