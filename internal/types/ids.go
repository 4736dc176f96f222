package types

import "strings"

// ID types give semantic meaning to the opaque string identifiers the task API hands out.
// They are strings because the remote API owns id generation and never promises integers.

// ProjectID identifies a project on the remote API
type ProjectID string

// SectionID identifies a user-defined section (custom column) inside a project
type SectionID string

// TaskID identifies a task. Drafts carry a client-side id until the server assigns one.
type TaskID string

// DraftPrefix marks ids minted locally for tasks the server has not stored yet
const DraftPrefix = "draft-"

// IsDraft reports whether the id denotes a task that has not been persisted.
// The empty id, the literal "0" and any draft-prefixed id all qualify.
func (id TaskID) IsDraft() bool {
	s := strings.TrimSpace(string(id))
	return s == "" || s == "0" || strings.HasPrefix(s, DraftPrefix)
}

func (id TaskID) String() string {
	return string(id)
}

func (id SectionID) String() string {
	return string(id)
}

func (id ProjectID) String() string {
	return string(id)
}

// IsZero reports whether no section is set
func (id SectionID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}
