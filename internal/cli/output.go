package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/thenoetrevino/tablero/internal/cli/styles"
	"github.com/thenoetrevino/tablero/internal/models"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
	Out   io.Writer
	Err   io.Writer
}

// NewFormatter returns a formatter writing to the given streams
func NewFormatter(out, errOut io.Writer, jsonMode, quiet bool) *OutputFormatter {
	return &OutputFormatter{JSON: jsonMode, Quiet: quiet, Out: out, Err: errOut}
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}

// TaskOutput is the JSON shape of a task in CLI output
type TaskOutput struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	SectionID   string     `json:"sectionId,omitempty"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Assignees   []string   `json:"assignees,omitempty"`
	Order       int        `json:"order"`
}

// NewTaskOutput converts a task for output
func NewTaskOutput(t models.Task) TaskOutput {
	return TaskOutput{
		ID:          string(t.ID),
		ProjectID:   string(t.ProjectID),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		SectionID:   string(t.SectionID),
		Priority:    t.Priority.Wire(),
		DueDate:     t.DueDate,
		Assignees:   t.Assignees,
		Order:       t.Order,
	}
}

func (f *OutputFormatter) writeJSON(v any) error {
	data, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.out(), string(data))
	return err
}

// Success outputs a successful operation result. message is the human line;
// id is what quiet mode prints.
func (f *OutputFormatter) Success(id, message string, data any) error {
	switch {
	case f.Quiet:
		if id == "" {
			return nil
		}
		_, err := fmt.Fprintln(f.out(), id)
		return err
	case f.JSON:
		return f.writeJSON(map[string]any{"success": true, "data": data})
	default:
		_, err := fmt.Fprintln(f.out(), styles.SuccessStyle.Render("✓")+" "+message)
		return err
	}
}

// Task prints a single task
func (f *OutputFormatter) Task(t models.Task, message string) error {
	if f.Quiet || f.JSON {
		return f.Success(string(t.ID), message, NewTaskOutput(t))
	}
	if message != "" {
		if err := f.Success("", message, nil); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(f.out(), styles.RenderCard(renderTaskDetail(t)))
	return err
}

// LaneTasks is one lane of a task listing
type LaneTasks struct {
	Lane  string        `json:"lane"`
	Title string        `json:"title"`
	Tasks []models.Task `json:"-"`
}

// Tasks prints tasks grouped by lane in board order
func (f *OutputFormatter) Tasks(lanes []LaneTasks) error {
	switch {
	case f.Quiet:
		for _, l := range lanes {
			for _, t := range l.Tasks {
				if _, err := fmt.Fprintln(f.out(), t.ID); err != nil {
					return err
				}
			}
		}
		return nil
	case f.JSON:
		type laneJSON struct {
			Lane  string       `json:"lane"`
			Title string       `json:"title"`
			Tasks []TaskOutput `json:"tasks"`
		}
		out := make([]laneJSON, 0, len(lanes))
		for _, l := range lanes {
			tasks := make([]TaskOutput, 0, len(l.Tasks))
			for _, t := range l.Tasks {
				tasks = append(tasks, NewTaskOutput(t))
			}
			out = append(out, laneJSON{Lane: l.Lane, Title: l.Title, Tasks: tasks})
		}
		return f.writeJSON(map[string]any{"success": true, "data": out})
	}

	var b strings.Builder
	for i, l := range lanes {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", styles.HeaderStyle.Render(l.Title), styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", len(l.Tasks))))
		for _, t := range l.Tasks {
			b.WriteString("  " + renderTaskLine(t) + "\n")
		}
	}
	_, err := fmt.Fprint(f.out(), b.String())
	return err
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return f.writeJSON(map[string]any{"success": false, "error": errData})
	}

	fmt.Fprintf(f.errOut(), "%s %s\n", styles.ErrorStyle.Render("Error"), message)
	if suggestion != "" {
		fmt.Fprintf(f.errOut(), "  %s\n", styles.SubtitleStyle.Render(suggestion))
	}
	return nil
}

// Fail reports err and returns it wrapped with its exit code
func (f *OutputFormatter) Fail(err error) error {
	_ = f.ErrorWithSuggestion(ErrorCode(err), err.Error(), suggestionFor(err))
	return &ExitError{Code: ExitCode(err), Err: err}
}

// ExitError carries the process exit code of an already reported failure
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func suggestionFor(err error) string {
	switch ExitCode(err) {
	case ExitAuth:
		return "Check TABLERO_TOKEN or api.token_file; writes need the tasks:write scope"
	case ExitUnavailable:
		return "Is the task API running? Start a local one with 'tablero serve'"
	case ExitNotFound:
		return "Use 'tablero task list' to see task ids and lanes"
	}
	return ""
}

func renderTaskLine(t models.Task) string {
	title := t.Title
	if t.Status.IsDone() {
		title = styles.DoneStyle.Render(title)
	}
	line := fmt.Sprintf("%s  %s  %s", styles.SubtitleStyle.Render(string(t.ID)), title, styles.RenderPriority(t.Priority))
	if t.DueDate != nil {
		due := t.DueDate.Format(time.DateOnly)
		if t.DueDate.Before(time.Now()) && !t.Status.IsDone() {
			due = styles.OverdueStyle.Render(due)
		}
		line += "  " + due
	}
	if len(t.Assignees) > 0 {
		line += "  " + styles.SubtitleStyle.Render("@"+strings.Join(t.Assignees, " @"))
	}
	return line
}

func renderTaskDetail(t models.Task) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(t.Title) + "\n")
	b.WriteString(styles.SubtitleStyle.Render(string(t.ID)) + "\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styles.LabelStyle.Render(label+":") + " " + styles.ValueStyle.Render(value) + "\n")
	}
	field("Project", string(t.ProjectID))
	field("Status", string(t.Status))
	field("Section", string(t.SectionID))
	field("Priority", t.Priority.String())
	if t.DueDate != nil {
		field("Due", t.DueDate.Format(time.DateOnly))
	}
	field("Assignees", strings.Join(t.Assignees, ", "))
	if t.Description != "" {
		b.WriteString("\n" + styles.ValueStyle.Render(t.Description) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
