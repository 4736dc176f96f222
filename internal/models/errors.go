package models

import (
	"errors"
	"fmt"
)

// Domain errors shared by the board store, resolver and sync controller
var (
	// ErrValidation is wrapped by every ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrTaskNotFound indicates the task is not present on the board
	ErrTaskNotFound = errors.New("task not found")

	// ErrLaneNotFound indicates the lane key does not name a lane on the board
	ErrLaneNotFound = errors.New("lane not found")

	// ErrImmutableID indicates an attempt to rekey a persisted task
	ErrImmutableID = errors.New("persisted task id is immutable")
)

// ValidationError reports a pre-submit check failure. It is never sent to the API.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
