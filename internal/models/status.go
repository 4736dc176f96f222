package models

import "strings"

// Status is the UI-facing workflow state of a task. The three canonical values
// map onto the remote API vocabulary; anything else is an organization-defined
// custom status and is carried through untouched.
type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// API vocabulary for the canonical statuses
const (
	APIStatusPending    = "pending"
	APIStatusInProgress = "in-progress"
	APIStatusCompleted  = "completed"
)

// CanonicalStatuses lists the canonical statuses in board order
var CanonicalStatuses = []Status{StatusTodo, StatusInProgress, StatusDone}

var statusSynonyms = map[string]Status{
	"pending":     StatusTodo,
	"todo":        StatusTodo,
	"to do":       StatusTodo,
	"to-do":       StatusTodo,
	"open":        StatusTodo,
	"in-progress": StatusInProgress,
	"in progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"doing":       StatusInProgress,
	"completed":   StatusDone,
	"complete":    StatusDone,
	"done":        StatusDone,
	"closed":      StatusDone,
}

// NormalizeStatus folds free-form status text into a Status.
// Known synonyms collapse to a canonical status, empty input becomes Todo,
// and any other value is kept verbatim (trimmed) as a custom status.
func NormalizeStatus(raw string) Status {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StatusTodo
	}
	if s, ok := statusSynonyms[strings.ToLower(trimmed)]; ok {
		return s
	}
	return Status(trimmed)
}

// Canonical returns the canonical status this value denotes, if any
func (s Status) Canonical() (Status, bool) {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return s, true
	}
	c, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(string(s)))]
	return c, ok
}

// IsCustom reports whether the status is outside the canonical set
func (s Status) IsCustom() bool {
	_, ok := s.Canonical()
	return !ok
}

func (s Status) IsDone() bool {
	c, ok := s.Canonical()
	return ok && c == StatusDone
}

func (s Status) String() string {
	return string(s)
}

// APIStatus maps a UI status to the API vocabulary. Non-canonical values pass through.
func APIStatus(s Status) string {
	switch s {
	case StatusTodo:
		return APIStatusPending
	case StatusInProgress:
		return APIStatusInProgress
	case StatusDone:
		return APIStatusCompleted
	default:
		return string(s)
	}
}

// UIStatus maps an API status to the UI vocabulary. Unknown values pass through.
func UIStatus(api string) Status {
	switch api {
	case APIStatusPending:
		return StatusTodo
	case APIStatusInProgress:
		return StatusInProgress
	case APIStatusCompleted:
		return StatusDone
	default:
		return Status(api)
	}
}
