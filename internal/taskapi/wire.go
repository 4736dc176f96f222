package taskapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// envelope is the common response body: {success, tasks|task|sections, error}
type envelope struct {
	Success  *bool         `json:"success"`
	Error    string        `json:"error"`
	Message  string        `json:"message"`
	Tasks    []wireTask    `json:"tasks"`
	Task     *wireTask     `json:"task"`
	Sections []wireSection `json:"sections"`
}

func (e envelope) failureMessage() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// wireTask accepts every field name the API has used for a task over time.
// normalizeTask collapses it into models.Task; nothing past this package
// sees the aliases.
type wireTask struct {
	ID          flexString          `json:"id"`
	LegacyID    flexString          `json:"_id"`
	ProjectID   flexString          `json:"projectId"`
	Title       string              `json:"title"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Details     string              `json:"details"`
	Status      string              `json:"status"`
	SectionID   *flexString         `json:"sectionId"`
	Column      *flexString         `json:"column"`
	Priority    string              `json:"priority"`
	Order       *flexInt            `json:"order"`
	Position    *flexInt            `json:"position"`
	Assignees   flexStrings         `json:"assignees"`
	Assignee    flexStrings         `json:"assignee"`
	DueDate     *string             `json:"dueDate"`
	DueAt       *string             `json:"dueAt"`
	Attachments []models.Attachment `json:"attachments"`
	Subtasks    []models.Subtask    `json:"subtasks"`
}

type wireSection struct {
	ID            flexString `json:"id"`
	LegacyID      flexString `json:"_id"`
	Name          string     `json:"name"`
	Title         string     `json:"title"`
	Order         *flexInt   `json:"order"`
	Position      *flexInt   `json:"position"`
	DefaultStatus string     `json:"defaultStatus"`
}

// normalizeTask maps a wire task onto the canonical record. Canonical field
// names win over legacy aliases when both are present.
func normalizeTask(w wireTask, project types.ProjectID) models.Task {
	t := models.Task{
		ID:          types.TaskID(firstNonEmpty(string(w.ID), string(w.LegacyID))),
		ProjectID:   types.ProjectID(firstNonEmpty(string(w.ProjectID), string(project))),
		Title:       firstNonEmpty(w.Title, w.Name),
		Description: firstNonEmpty(w.Description, w.Details),
		Status:      models.NormalizeStatus(string(models.UIStatus(strings.TrimSpace(w.Status)))),
		Attachments: w.Attachments,
		Subtasks:    w.Subtasks,
	}

	switch {
	case w.SectionID != nil:
		t.SectionID = types.SectionID(*w.SectionID)
	case w.Column != nil:
		t.SectionID = types.SectionID(*w.Column)
	}

	switch {
	case w.Order != nil:
		t.Order = int(*w.Order)
	case w.Position != nil:
		t.Order = int(*w.Position)
	}

	if p, err := models.ParsePriority(w.Priority); err == nil {
		t.Priority = p
	} else {
		t.Priority = models.DefaultPriority
	}

	assignees := w.Assignees
	if len(assignees) == 0 {
		assignees = w.Assignee
	}
	t.Assignees = models.NormalizeAssignees(assignees)

	switch {
	case w.DueDate != nil:
		t.DueDate = parseDate(*w.DueDate)
	case w.DueAt != nil:
		t.DueDate = parseDate(*w.DueAt)
	}
	return t
}

func normalizeSection(w wireSection) models.Section {
	s := models.Section{
		ID:   types.SectionID(firstNonEmpty(string(w.ID), string(w.LegacyID))),
		Name: firstNonEmpty(w.Name, w.Title),
	}
	switch {
	case w.Order != nil:
		s.Order = int(*w.Order)
	case w.Position != nil:
		s.Order = int(*w.Position)
	}
	if strings.TrimSpace(w.DefaultStatus) != "" {
		s.DefaultStatus = models.NormalizeStatus(string(models.UIStatus(w.DefaultStatus)))
	}
	return s
}

// encodeTask builds the create body for a task
func encodeTask(t models.Task) map[string]any {
	body := map[string]any{
		"projectId":   string(t.ProjectID),
		"title":       t.Title,
		"description": t.Description,
		"status":      models.APIStatus(t.Status),
		"priority":    t.Priority.Wire(),
		"assignees":   models.NormalizeAssignees(t.Assignees),
		"order":       t.Order,
	}
	if !t.SectionID.IsZero() {
		body["sectionId"] = string(t.SectionID)
	}
	if t.DueDate != nil {
		body["dueDate"] = t.DueDate.UTC().Format(time.RFC3339)
	}
	if len(t.Attachments) > 0 {
		body["attachments"] = t.Attachments
	}
	if len(t.Subtasks) > 0 {
		body["subtasks"] = t.Subtasks
	}
	return body
}

type wireOrder struct {
	TaskID string `json:"taskId"`
	Order  int    `json:"order"`
	Lane   string `json:"lane"`
}

func encodeOrder(changes []board.OrderChange) []wireOrder {
	out := make([]wireOrder, len(changes))
	for i, c := range changes {
		out[i] = wireOrder{TaskID: string(c.TaskID), Order: c.Order, Lane: c.Lane.Wire()}
	}
	return out
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if d, err := time.Parse(layout, raw); err == nil {
			return &d
		}
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ============================================================================
// lenient scalar decoding
// ============================================================================

// flexString decodes a JSON string or number into its text form
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*f = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(raw)
	}
	return nil
}

// flexInt decodes a JSON number or numeric string
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*f = flexInt(int(v))
	return nil
}

// flexStrings decodes either a single string or an array of strings
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*f = nil
	case strings.HasPrefix(raw, "["):
		var list []string
		if err := sonic.Unmarshal(b, &list); err != nil {
			return err
		}
		*f = list
	default:
		var s flexString
		if err := s.UnmarshalJSON(b); err != nil {
			return err
		}
		if s != "" {
			*f = flexStrings{string(s)}
		}
	}
	return nil
}
