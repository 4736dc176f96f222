package notifications

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/tablero/internal/tui/state"
)

// Render renders a notification banner based on severity level
func Render(severity Severity, message string) string {
	style := severity.style()

	headerText := style.icon + " " + style.title
	maxWidth := max(lipgloss.Width(headerText), lipgloss.Width(message))

	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.foreground)).
		Bold(true).
		Width(maxWidth).
		Render(headerText)

	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.foreground)).
		Width(maxWidth).
		Render(message)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(style.background)).
		Background(lipgloss.Color(style.background)).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

// RenderInline renders a compact single-line notification for the status bar
func RenderInline(severity Severity, message string) string {
	style := severity.style()
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.foreground)).
		Background(lipgloss.Color(style.background)).
		Padding(0, 1).
		Render(style.icon + " " + message)
}

// FromState maps a notification level to its severity
func FromState(level state.NotificationLevel) Severity {
	switch level {
	case state.LevelWarning:
		return Warning
	case state.LevelError:
		return Error
	default:
		return Info
	}
}

// RenderFromState renders a notification banner from a state.Notification
func RenderFromState(n state.Notification) string {
	return Render(FromState(n.Level), n.Message)
}

// Layers stacks the notifications in the top-right corner of a width x height screen
func Layers(all []state.Notification, width, height int) []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	if width == 0 {
		return layers
	}

	row := 0
	for _, n := range all {
		banner := RenderFromState(n)
		h := lipgloss.Height(banner)
		if row+h >= height {
			break
		}
		col := max(0, width-lipgloss.Width(banner)-1)
		layers = append(layers, lipgloss.NewLayer(banner).X(col).Y(row))
		row += h + 1
	}
	return layers
}
