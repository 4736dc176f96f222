package events

import (
	"context"

	"github.com/thenoetrevino/tablero/internal/types"
)

// Publisher is the side of the daemon connection used by the task service.
type Publisher interface {
	SendEvent(event Event) error
}

// EventClient is the full daemon connection used by board clients.
type EventClient interface {
	Publisher

	// Connect establishes a connection to the daemon socket
	Connect(ctx context.Context) error

	// Listen starts listening for events from the daemon
	Listen(ctx context.Context) (<-chan Event, error)

	// Subscribe changes the subscription to a specific project
	Subscribe(projectID types.ProjectID) error

	Close() error
}

var _ EventClient = (*Client)(nil)
