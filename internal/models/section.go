package models

import "github.com/thenoetrevino/tablero/internal/types"

// Section is a user-defined column inside a project
type Section struct {
	ID    types.SectionID
	Name  string
	Order int
	// DefaultStatus, when set, is applied to tasks dropped into the section
	DefaultStatus Status
}

// HasDefaultStatus reports whether dropping into the section changes status
func (s Section) HasDefaultStatus() bool {
	return s.DefaultStatus != ""
}
