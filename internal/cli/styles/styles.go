package styles

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 72

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // field labels like "Status:"
	ValueStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style // lane headers in list output

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	DoneStyle    lipgloss.Style
	OverdueStyle lipgloss.Style
)

func init() {
	Init(config.Default().ColorScheme)
}

// Init initializes all CLI styles with the given color scheme
func Init(colors config.ColorScheme) {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Accent)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Normal))

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Foreground(lipgloss.Color(colors.Accent))

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Create))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.ErrorFg)).
		Background(lipgloss.Color(colors.ErrorBg)).
		Padding(0, 1)

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.WarningFg)).
		Background(lipgloss.Color(colors.WarningBg)).
		Padding(0, 1)

	DoneStyle = lipgloss.NewStyle().
		Strikethrough(true).
		Foreground(lipgloss.Color(colors.Done))

	OverdueStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Overdue))
}

// ColoredText renders text with a hex color
func ColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// RenderPriority renders a priority in its own color
func RenderPriority(p models.Priority) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.Color())).
		Render(p.String())
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}
