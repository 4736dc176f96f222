package models

import "github.com/thenoetrevino/tablero/internal/types"

// MoveIntent is the resolved destination of a drag. It carries the lane
// field changes so the persist layer knows what to send.
type MoveIntent struct {
	TaskID    types.TaskID
	FromLane  LaneKey
	ToLane    LaneKey
	FromIndex int
	ToIndex   int

	Status         Status
	SectionID      types.SectionID
	StatusChanged  bool
	SectionChanged bool
}

// SameLane reports whether the move reorders within one lane
func (m MoveIntent) SameLane() bool {
	return m.FromLane == m.ToLane
}
