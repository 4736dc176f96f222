package components

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/tui/theme"
)

// TaskViewProps holds what the detail overlay shows for one task
type TaskViewProps struct {
	Task      models.Task
	LaneTitle string
	Pending   bool
	Width     int
	Now       time.Time
}

// RenderTaskView renders the task detail overlay: fields, then the markdown
// description, then subtasks and attachments
func RenderTaskView(props TaskViewProps) string {
	t := props.Task
	inner := max(props.Width-6, 20)

	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Highlight)).Width(10)
	row := func(name, value string) string {
		return label.Render(name) + " " + value
	}

	lines := []string{TitleStyle.Render(Truncate(t.Title, inner)), ""}
	lines = append(lines, row("Lane", props.LaneTitle))
	lines = append(lines, row("Status", string(t.Status)))
	if p := t.Priority.String(); p != "" {
		lines = append(lines, row("Priority", lipgloss.NewStyle().Foreground(lipgloss.Color(t.Priority.Color())).Render(p)))
	}
	if t.DueDate != nil {
		lines = append(lines, row("Due", RenderDue(*t.DueDate, t.Status.IsDone(), props.Now)))
	}
	if len(t.Assignees) > 0 {
		lines = append(lines, row("Assignees", strings.Join(t.Assignees, ", ")))
	}
	if props.Pending {
		lines = append(lines, row("Sync", SubtleStyle.Render(pendingMarker+" saving")))
	}
	lines = append(lines, "", RenderDescription(DescriptionProps{Description: t.Description, Width: inner}))

	if len(t.Subtasks) > 0 {
		lines = append(lines, "", label.Render("Subtasks"))
		for _, st := range t.Subtasks {
			box := "[ ]"
			if st.Done {
				box = "[x]"
			}
			lines = append(lines, "  "+box+" "+Truncate(st.Title, inner-6))
		}
	}
	if len(t.Attachments) > 0 {
		lines = append(lines, "", label.Render("Files"))
		for _, a := range t.Attachments {
			lines = append(lines, "  "+Truncate(a.Name, inner-2))
		}
	}

	lines = append(lines, "", SubtleStyle.Render("esc: close"))
	return DetailBoxStyle.Width(props.Width).Render(strings.Join(lines, "\n"))
}
