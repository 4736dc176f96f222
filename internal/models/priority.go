package models

import (
	"fmt"
	"strings"
)

// Priority represents a task priority level
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// DefaultPriority is assigned to tasks created without one
const DefaultPriority = PriorityMedium

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return ""
	}
}

// Wire returns the lowercase form used on the API
func (p Priority) Wire() string {
	return strings.ToLower(p.String())
}

// Color is the hex color used when rendering the priority
func (p Priority) Color() string {
	switch p {
	case PriorityLow:
		return "#22C55E"
	case PriorityHigh:
		return "#EF4444"
	default:
		return "#EAB308"
	}
}

// ParsePriority accepts the display or wire form, case-insensitively.
// Empty input yields DefaultPriority.
func ParsePriority(raw string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultPriority, nil
	case "low":
		return PriorityLow, nil
	case "medium", "med", "normal":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return 0, fmt.Errorf("%w: unknown priority %q", ErrValidation, raw)
}
