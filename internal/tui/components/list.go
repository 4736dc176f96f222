package components

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/tablero/internal/tui/theme"
	"github.com/thenoetrevino/tablero/internal/view"
)

// ListProps controls the list view table
type ListProps struct {
	List     view.List
	Width    int
	Height   int
	Selected int
	Offset   int
	Now      time.Time
}

type listColumn struct {
	title string
	width int
	field view.SortField
}

// RenderList renders the list view: a header row with the sort indicator
// followed by the visible window of rows
func RenderList(props ListProps) string {
	cols := listColumns(props.Width)

	var header []string
	for _, c := range cols {
		title := c.title
		if c.field != view.SortNone && c.field == props.List.SortField {
			if props.List.SortOrder == view.SortAsc {
				title += " ↑"
			} else {
				title += " ↓"
			}
		}
		header = append(header, ListHeaderStyle.Width(c.width).Render(title))
	}
	lines := []string{strings.Join(header, " ")}

	if len(props.List.Rows) == 0 {
		lines = append(lines, SubtleStyle.Italic(true).Render("No tasks"))
		return strings.Join(lines, "\n")
	}

	visible := max(props.Height-1, 1)
	end := min(props.Offset+visible, len(props.List.Rows))
	for i := props.Offset; i < end; i++ {
		lines = append(lines, renderRow(props.List.Rows[i], cols, i == props.Selected, props.Now))
	}
	return strings.Join(lines, "\n")
}

func renderRow(r view.Row, cols []listColumn, selected bool, now time.Time) string {
	title := r.Task.Title
	if r.Pending {
		title = pendingMarker + " " + title
	}

	due := ""
	if r.Task.DueDate != nil {
		due = RenderDue(*r.Task.DueDate, r.Task.Status.IsDone(), now)
	}
	cells := []string{
		Truncate(title, cols[0].width),
		Truncate(r.LaneTitle, cols[1].width),
		Truncate(string(r.Task.Status), cols[2].width),
		lipgloss.NewStyle().Foreground(lipgloss.Color(r.Task.Priority.Color())).Render(r.Task.Priority.String()),
		due,
	}

	style := lipgloss.NewStyle()
	if selected {
		style = style.Background(lipgloss.Color(theme.SelectedBg)).Bold(true)
	}
	var out []string
	for i, c := range cols {
		out = append(out, style.Width(c.width).Render(cells[i]))
	}
	return strings.Join(out, style.Render(" "))
}

// listColumns gives the title the width the fixed columns leave over
func listColumns(width int) []listColumn {
	cols := []listColumn{
		{title: "Title", field: view.SortByTitle},
		{title: "Lane", width: 16},
		{title: "Status", width: 14, field: view.SortByStatus},
		{title: "Priority", width: 10, field: view.SortByPriority},
		{title: "Due", width: 12, field: view.SortByDueDate},
	}
	fixed := len(cols) - 1
	for _, c := range cols[1:] {
		fixed += c.width
	}
	cols[0].width = max(width-fixed, 20)
	return cols
}
