package models

import (
	"slices"
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

// MaxTitleLength bounds the task title
const MaxTitleLength = 255

// Attachment is an opaque file reference carried with a task
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Subtask is an opaque checklist entry carried with a task
type Subtask struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Task is the unit of work shown on the board
type Task struct {
	ID          types.TaskID
	ProjectID   types.ProjectID
	Title       string
	Description string
	Status      Status
	SectionID   types.SectionID
	Priority    Priority
	DueDate     *time.Time
	Assignees   []string
	Attachments []Attachment
	Subtasks    []Subtask
	Order       int
}

// IsDraft reports whether the task has not been persisted yet
func (t Task) IsDraft() bool {
	return t.ID.IsDraft()
}

// Clone returns a deep copy so snapshots never alias live slices
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	c.Assignees = slices.Clone(t.Assignees)
	c.Attachments = slices.Clone(t.Attachments)
	c.Subtasks = slices.Clone(t.Subtasks)
	return c
}

// Lane returns the lane the task belongs to given the known sections.
// A section id that is not in the set falls back to the status lane.
func (t Task) Lane(known map[types.SectionID]Section) LaneKey {
	if !t.SectionID.IsZero() {
		if _, ok := known[t.SectionID]; ok {
			return SectionLane(t.SectionID)
		}
	}
	return StatusLane(t.Status)
}

// NormalizeAssignees sorts and de-duplicates assignees, dropping blanks
func NormalizeAssignees(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if a != "" {
			out = append(out, a)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
