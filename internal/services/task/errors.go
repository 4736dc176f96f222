package task

import "errors"

// Validation errors
var (
	ErrEmptyTitle       = errors.New("task title cannot be empty")
	ErrTitleTooLong     = errors.New("task title cannot exceed 255 characters")
	ErrInvalidTaskID    = errors.New("invalid task ID")
	ErrInvalidProjectID = errors.New("invalid project ID")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidPosition  = errors.New("invalid position: must be >= 0")
	ErrInvalidLane      = errors.New("invalid lane")
	ErrUnknownSection   = errors.New("section does not belong to the project")
	ErrEmptyBatch       = errors.New("order batch is empty")
)

// Business logic errors
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectMismatch = errors.New("task belongs to another project")
)

var validationErrors = []error{
	ErrEmptyTitle, ErrTitleTooLong, ErrInvalidTaskID, ErrInvalidProjectID,
	ErrInvalidPriority, ErrInvalidPosition, ErrInvalidLane, ErrUnknownSection, ErrEmptyBatch,
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
