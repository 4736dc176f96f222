package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/tablero/internal/tui/theme"
	"github.com/thenoetrevino/tablero/internal/types"
	"github.com/thenoetrevino/tablero/internal/view"
)

// ColumnProps controls how a column is drawn
type ColumnProps struct {
	Width  int
	Height int
	// Selected is set on the column holding the cursor
	Selected bool
	// SelectedCard is the selected card's index, or -1
	SelectedCard int
	// DropSlot is where a carried card would land, or -1 when this column is
	// not the drop target
	DropSlot int
	Carried  types.TaskID
	Now      time.Time
}

// RenderColumn renders a lane with its title and cards
//
// Layout:
//
//	{Lane Title} ({count})
//	▲ more above
//	{Card}
//	▸ drop here
//	{Card}
//	▼ more below
func RenderColumn(col view.Column, props ColumnProps) string {
	header := fmt.Sprintf("%s (%d)", col.Title, len(col.Cards))
	if col.IsSection {
		header = "§ " + header
	}
	lines := []string{TitleStyle.Render(Truncate(header, props.Width-columnSidePadding))}

	visible := max((props.Height-columnOverhead-2*indicatorLines)/CardHeight, 1)
	focus := props.SelectedCard
	if props.DropSlot >= 0 {
		focus = props.DropSlot
	}
	start, end := VisibleRange(len(col.Cards), visible, focus)

	if start > 0 {
		lines = append(lines, SubtleStyle.Render("▲ more above"))
	} else {
		lines = append(lines, "")
	}

	if len(col.Cards) == 0 && props.DropSlot < 0 {
		lines = append(lines, SubtleStyle.Italic(true).Render("No tasks"))
	}
	for i := start; i < end; i++ {
		if i == props.DropSlot {
			lines = append(lines, dropIndicator(props.Width))
		}
		card := col.Cards[i]
		lines = append(lines, RenderCard(card, CardProps{
			Width:    props.Width - columnSidePadding,
			Selected: props.Selected && i == props.SelectedCard,
			Carried:  card.Task.ID == props.Carried,
			Now:      props.Now,
		}))
	}
	if props.DropSlot >= 0 && props.DropSlot >= end {
		lines = append(lines, dropIndicator(props.Width))
	}

	if end < len(col.Cards) {
		lines = append(lines, SubtleStyle.Render("▼ more below"))
	}

	style := ColumnStyle.Width(props.Width)
	switch {
	case props.DropSlot >= 0:
		style = style.BorderForeground(lipgloss.Color(theme.DropTarget))
	case props.Selected:
		style = style.BorderForeground(lipgloss.Color(theme.SelectedBorder))
	}
	if props.Height > 0 {
		style = style.Height(props.Height - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func dropIndicator(width int) string {
	label := dropIndicatorGlyph + " drop here"
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.DropTarget)).
		Bold(true).
		Render(Truncate(label, width-columnSidePadding))
}

// VisibleRange returns the window [start, end) of n items, at most size long,
// that keeps focus in view. A focus of -1 shows the top.
func VisibleRange(n, size, focus int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := 0
	if focus >= size {
		start = focus - size + 1
	}
	start = min(start, n-size)
	return start, start + size
}
