package boardsync

import (
	"context"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/taskapi"
	"github.com/thenoetrevino/tablero/internal/types"
)

// State is where a task sits in the optimistic update cycle
type State int

const (
	StateIdle State = iota
	StateApplied
	StatePersisting
	StateSettledSuccess
	StateSettledFailed
)

func (s State) String() string {
	switch s {
	case StateApplied:
		return "applied"
	case StatePersisting:
		return "persisting"
	case StateSettledSuccess:
		return "settled"
	case StateSettledFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Pending reports whether the task has local changes the server has not confirmed
func (s State) Pending() bool {
	return s == StateApplied || s == StatePersisting
}

// UpdateKind classifies a change notification
type UpdateKind int

const (
	UpdateApplied UpdateKind = iota
	UpdateState
	UpdateRolledBack
	UpdateLoaded
	UpdateLoadFailed
)

// Update tells the UI the board changed. It carries no lanes: readers call
// Controller.Lanes for the current value.
type Update struct {
	Kind   UpdateKind
	TaskID types.TaskID
	State  State
	Err    error
}

// Level is a notification severity
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Notification is a user-facing message about a sync outcome
type Notification struct {
	Level   Level
	Message string
	TaskID  types.TaskID
}

// Notifier surfaces sync outcomes to the user
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

// Persister is the remote side of the board. *taskapi.Client implements it.
type Persister interface {
	ListTasks(ctx context.Context, projectID types.ProjectID) ([]models.Task, error)
	ListSections(ctx context.Context, projectID types.ProjectID) ([]models.Section, error)
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, projectID types.ProjectID, taskID types.TaskID, patch taskapi.TaskPatch) error
	SaveOrder(ctx context.Context, changes []board.OrderChange) error
	DeleteTask(ctx context.Context, projectID types.ProjectID, taskID types.TaskID) error
}

var _ Persister = (*taskapi.Client)(nil)
