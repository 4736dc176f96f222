package components

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/tui/theme"
	"github.com/thenoetrevino/tablero/internal/view"
)

// CardProps controls how a card is drawn
type CardProps struct {
	Width    int
	Selected bool
	// Carried is set on the card being dragged
	Carried bool
	Now     time.Time
}

// RenderCard renders a single task as a card
//
//	╭──────────────────────╮
//	│ {Task Title}       ⟳ │
//	│ High · due Jan 2 · 2 │
//	╰──────────────────────╯
func RenderCard(card view.Card, props CardProps) string {
	inner := max(props.Width-columnSidePadding, 1)

	title := Truncate(card.Task.Title, inner-2)
	titleStyle := lipgloss.NewStyle().Bold(true)
	if card.Task.Status.IsDone() {
		titleStyle = titleStyle.Strikethrough(true).Foreground(lipgloss.Color(theme.Done))
	}
	line := titleStyle.Render(title)
	if card.Pending {
		gap := max(inner-lipgloss.Width(title)-1, 1)
		line += strings.Repeat(" ", gap) + SubtleStyle.Render(pendingMarker)
	}

	style := CardStyle.Width(props.Width - 2)
	switch {
	case props.Carried:
		style = style.BorderForeground(lipgloss.Color(theme.DropTarget)).
			BorderStyle(lipgloss.DoubleBorder())
	case props.Selected:
		style = style.BorderForeground(lipgloss.Color(theme.SelectedBorder)).
			Background(lipgloss.Color(theme.SelectedBg))
	}

	return style.Render(line + "\n" + cardMetadata(card.Task, props.Now))
}

// cardMetadata renders priority, due date and assignee count separated by ·
func cardMetadata(t models.Task, now time.Time) string {
	var parts []string
	if p := t.Priority.String(); p != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Priority.Color())).
			Render(p))
	}
	if t.DueDate != nil {
		parts = append(parts, RenderDue(*t.DueDate, t.Status.IsDone(), now))
	}
	if len(t.Assignees) > 0 {
		parts = append(parts, SubtleStyle.Render("@"+strings.Join(t.Assignees, ",@")))
	}
	if len(parts) == 0 {
		return SubtleStyle.Italic(true).Render("no details")
	}
	return strings.Join(parts, SubtleStyle.Render(" · "))
}

// RenderDue renders a due date, highlighted once it has passed on an open task
func RenderDue(due time.Time, done bool, now time.Time) string {
	text := "due " + due.Format("Jan 2")
	if !done && !now.IsZero() && due.Before(now) {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Overdue)).Bold(true).Render(text)
	}
	return SubtleStyle.Render(text)
}

// Truncate shortens s to at most width cells, ending with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}
