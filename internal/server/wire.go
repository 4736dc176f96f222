package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// sonicSerializer replaces echo's encoding/json serializer.
type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i any) error {
	if err := sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(400, "invalid JSON body").SetInternal(err)
	}
	return nil
}

type taskJSON struct {
	ID          string              `json:"id"`
	ProjectID   string              `json:"projectId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	SectionID   *string             `json:"sectionId"`
	Priority    string              `json:"priority"`
	DueDate     *string             `json:"dueDate"`
	Assignees   []string            `json:"assignees"`
	Attachments []models.Attachment `json:"attachments"`
	Subtasks    []models.Subtask    `json:"subtasks"`
	Order       int                 `json:"order"`
}

type sectionJSON struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Order         int    `json:"order"`
	DefaultStatus string `json:"defaultStatus,omitempty"`
}

type createBody struct {
	ProjectID   string              `json:"projectId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	SectionID   string              `json:"sectionId"`
	Priority    string              `json:"priority"`
	DueDate     string              `json:"dueDate"`
	Assignees   []string            `json:"assignees"`
	Attachments []models.Attachment `json:"attachments"`
	Subtasks    []models.Subtask    `json:"subtasks"`
	Order       *int                `json:"order"`
}

// patchBody holds {taskId, ...changedFields}. dueDate is handled separately
// because an explicit null clears it.
type patchBody struct {
	TaskID      string    `json:"taskId"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	SectionID   *string   `json:"sectionId"`
	Priority    *string   `json:"priority"`
	Assignees   *[]string `json:"assignees"`
	Order       *int      `json:"order"`
}

type orderBody struct {
	TaskID string `json:"taskId"`
	Order  int    `json:"order"`
	Lane   string `json:"lane"`
}

type sectionBody struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Order         int    `json:"order"`
	DefaultStatus string `json:"defaultStatus"`
}

func encodeTask(t models.Task) taskJSON {
	out := taskJSON{
		ID:          string(t.ID),
		ProjectID:   string(t.ProjectID),
		Title:       t.Title,
		Description: t.Description,
		Status:      models.APIStatus(t.Status),
		Priority:    t.Priority.Wire(),
		Assignees:   t.Assignees,
		Attachments: t.Attachments,
		Subtasks:    t.Subtasks,
		Order:       t.Order,
	}
	if out.Assignees == nil {
		out.Assignees = []string{}
	}
	if !t.SectionID.IsZero() {
		s := string(t.SectionID)
		out.SectionID = &s
	}
	if t.DueDate != nil {
		d := t.DueDate.UTC().Format(time.RFC3339)
		out.DueDate = &d
	}
	return out
}

func encodeTasks(tasks []models.Task) []taskJSON {
	out := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		out[i] = encodeTask(t)
	}
	return out
}

func encodeSections(sections []models.Section) []sectionJSON {
	out := make([]sectionJSON, len(sections))
	for i, s := range sections {
		out[i] = sectionJSON{ID: string(s.ID), Name: s.Name, Order: s.Order}
		if s.HasDefaultStatus() {
			out[i].DefaultStatus = models.APIStatus(s.DefaultStatus)
		}
	}
	return out
}

func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if d, err := time.Parse(layout, raw); err == nil {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("invalid dueDate %q", raw)
}

func sectionOrEmpty(raw *string) *types.SectionID {
	if raw == nil {
		return nil
	}
	id := types.SectionID(strings.TrimSpace(*raw))
	return &id
}
