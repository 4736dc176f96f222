package boardsync

import "errors"

// Controller errors
var (
	// ErrDraftPending refuses mutations on a task whose creation has not settled
	ErrDraftPending = errors.New("task is still being created")

	// ErrMutationsDisabled is returned after the API rejected our credentials
	ErrMutationsDisabled = errors.New("board is read-only: not authorized to make changes")

	// ErrReadOnly is returned when the controller was opened read-only
	ErrReadOnly = errors.New("board is read-only")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("board controller is closed")

	// ErrNotLoaded is returned when mutating before a successful load
	ErrNotLoaded = errors.New("board has not been loaded")
)
