package taskapi

import (
	"time"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// TaskPatch lists the fields of a single-task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *models.Status
	SectionID    *types.SectionID
	Priority     *models.Priority
	DueDate      *time.Time
	ClearDueDate bool
	Assignees    *[]string
	Order        *int
}

// IsEmpty reports whether the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.SectionID == nil && p.Priority == nil && p.DueDate == nil &&
		!p.ClearDueDate && p.Assignees == nil && p.Order == nil
}

// Apply returns the task with the patch applied
func (p TaskPatch) Apply(t models.Task) models.Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = models.NormalizeStatus(string(*p.Status))
	}
	if p.SectionID != nil {
		out.SectionID = *p.SectionID
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.ClearDueDate {
		out.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		out.DueDate = &d
	}
	if p.Assignees != nil {
		out.Assignees = models.NormalizeAssignees(*p.Assignees)
	}
	if p.Order != nil {
		out.Order = *p.Order
	}
	return out
}

// body builds {taskId, ...changedFields}
func (p TaskPatch) body(id types.TaskID) map[string]any {
	body := map[string]any{"taskId": string(id)}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Status != nil {
		body["status"] = models.APIStatus(models.NormalizeStatus(string(*p.Status)))
	}
	if p.SectionID != nil {
		body["sectionId"] = string(*p.SectionID)
	}
	if p.Priority != nil {
		body["priority"] = p.Priority.Wire()
	}
	if p.ClearDueDate {
		body["dueDate"] = nil
	} else if p.DueDate != nil {
		body["dueDate"] = p.DueDate.UTC().Format(time.RFC3339)
	}
	if p.Assignees != nil {
		body["assignees"] = models.NormalizeAssignees(*p.Assignees)
	}
	if p.Order != nil {
		body["order"] = *p.Order
	}
	return body
}
