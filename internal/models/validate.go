package models

import (
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/tablero/internal/types"
)

// ValidateNew checks a task before it is submitted for creation and returns
// the task with its defaults filled in. It performs no I/O.
func ValidateNew(task Task, defaultProject types.ProjectID) (Task, error) {
	out := task.Clone()
	out.Title = strings.TrimSpace(out.Title)

	if strings.TrimSpace(string(out.ProjectID)) == "" {
		if strings.TrimSpace(string(defaultProject)) == "" {
			return Task{}, &ValidationError{Field: "project", Message: "no project selected"}
		}
		out.ProjectID = defaultProject
	}
	if err := ValidateTitle(out.Title); err != nil {
		return Task{}, err
	}

	out.Status = NormalizeStatus(string(out.Status))
	if out.Priority == 0 {
		out.Priority = DefaultPriority
	}
	out.Assignees = NormalizeAssignees(out.Assignees)
	return out, nil
}

// ValidateTitle checks a title is present and within MaxTitleLength runes
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: "title must be at most 255 characters"}
	}
	return nil
}
