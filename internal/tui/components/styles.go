// Package components provides the board's reusable UI pieces and styles.
// Call InitStyles after theme.Init to pick up a configured color scheme.
package components

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/tablero/internal/tui/theme"
)

// These are cached to avoid recomputing on every redraw.
var (
	// ColumnStyle defines the appearance of board columns
	ColumnStyle lipgloss.Style

	// CardStyle defines the appearance of individual tasks as cards
	CardStyle lipgloss.Style

	// TitleStyle defines the appearance of titles (column names, app header)
	TitleStyle lipgloss.Style

	SubtleStyle lipgloss.Style

	// CreateInputBoxStyle defines the base style for creation dialogs (green border)
	CreateInputBoxStyle lipgloss.Style

	// EditInputBoxStyle defines the base style for edit dialogs
	EditInputBoxStyle lipgloss.Style

	// DeleteConfirmBoxStyle defines the base style for deletion confirmations (red border)
	DeleteConfirmBoxStyle lipgloss.Style

	// HelpBoxStyle defines the base style for the help overlay
	HelpBoxStyle lipgloss.Style

	// DetailBoxStyle frames the task detail overlay
	DetailBoxStyle lipgloss.Style

	// ListHeaderStyle is the list view's header row
	ListHeaderStyle lipgloss.Style
)

func init() {
	InitStyles()
}

// InitStyles rebuilds every style from the current theme colors
func InitStyles() {
	ColumnStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.LaneBorder)).
		Padding(0, 1, 1, 1)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.CardBorder)).
		Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Title))

	SubtleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle))

	CreateInputBoxStyle = modalBox(theme.Create)
	EditInputBoxStyle = modalBox(theme.Edit)
	DeleteConfirmBoxStyle = modalBox(theme.Delete)
	HelpBoxStyle = modalBox(theme.Highlight)
	DetailBoxStyle = modalBox(theme.Highlight)

	ListHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Foreground(lipgloss.Color(theme.Highlight))
}

func modalBox(border string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2)
}
