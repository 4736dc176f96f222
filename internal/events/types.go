package events

import (
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

// ProtocolVersion is bumped when Message changes incompatibly.
const ProtocolVersion = 1

// EventType indicates what kind of change occurred
type EventType string

const (
	EventTasksChanged EventType = "tasks_changed"
	EventPing         EventType = "ping"
	EventPong         EventType = "pong"
)

// Message types on the wire.
const (
	MsgEvent     = "event"
	MsgSubscribe = "subscribe"
	MsgPing      = "ping"
	MsgPong      = "pong"
)

// Event tells subscribers that the tasks of a project changed and should be reloaded.
type Event struct {
	Type       EventType       `json:"type"`
	ProjectID  types.ProjectID `json:"project_id,omitempty"` // empty = every project
	TaskID     types.TaskID    `json:"task_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	SequenceID int64           `json:"sequence_id,omitempty"`
}

// Matches reports whether a subscriber of project should see e.
func (e Event) Matches(project types.ProjectID) bool {
	return e.ProjectID == "" || project == "" || e.ProjectID == project
}

// SubscribeMessage is sent by clients to narrow the events they receive.
type SubscribeMessage struct {
	ProjectID types.ProjectID `json:"project_id,omitempty"` // empty = all projects
}

// Message wraps events and control messages for wire protocol
type Message struct {
	Version   int               `json:"version,omitempty"`
	Type      string            `json:"type"`
	Event     *Event            `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
}

// TasksChanged builds the event published after a task mutation.
func TasksChanged(project types.ProjectID, task types.TaskID) Event {
	return Event{
		Type:      EventTasksChanged,
		ProjectID: project,
		TaskID:    task,
		Timestamp: time.Now(),
	}
}
