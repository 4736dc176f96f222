package cli

import (
	"errors"
	"net/http"

	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/services/boardsync"
	"github.com/thenoetrevino/tablero/internal/taskapi"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneral indicates a general error occurred.
	// Use for: network errors, server errors, unexpected failures.
	ExitGeneral = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: missing required flags or arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: unknown task id, unknown lane, unknown project.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: an API response that could not be decoded.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: empty titles, invalid priorities, malformed lanes or dates.
	ExitValidation = 5

	// ExitAuth indicates the API rejected the credentials.
	ExitAuth = 6

	// ExitUnavailable indicates the daemon or API could not be reached.
	ExitUnavailable = 7
)

// UsageError marks a command line mistake
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// ExitCode maps an error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	if taskapi.IsAuth(err) || errors.Is(err, boardsync.ErrMutationsDisabled) {
		return ExitAuth
	}
	if errors.Is(err, models.ErrValidation) || errors.Is(err, boardsync.ErrReadOnly) {
		return ExitValidation
	}
	if errors.Is(err, models.ErrTaskNotFound) || errors.Is(err, models.ErrLaneNotFound) {
		return ExitNotFound
	}
	if errors.Is(err, taskapi.ErrDecode) {
		return ExitDataErr
	}

	var daemonErr *events.DaemonError
	if errors.As(err, &daemonErr) {
		return ExitUnavailable
	}

	switch httpStatus(err) {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ExitValidation
	case http.StatusNotFound:
		return ExitNotFound
	case 0:
		if isTransport(err) {
			return ExitUnavailable
		}
	}
	return ExitGeneral
}

// ErrorCode is the machine-readable code printed in JSON error output
func ErrorCode(err error) string {
	switch ExitCode(err) {
	case ExitUsage:
		return "USAGE_ERROR"
	case ExitNotFound:
		return "NOT_FOUND"
	case ExitDataErr:
		return "DATA_ERROR"
	case ExitValidation:
		return "VALIDATION_ERROR"
	case ExitAuth:
		return "AUTH_ERROR"
	case ExitUnavailable:
		return "UNAVAILABLE"
	default:
		return "ERROR"
	}
}

func httpStatus(err error) int {
	var syncErr *taskapi.SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Status
	}
	var loadErr *taskapi.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Status
	}
	return 0
}

// isTransport reports whether err is a request that never got a response
func isTransport(err error) bool {
	var syncErr *taskapi.SyncError
	var loadErr *taskapi.LoadError
	return errors.As(err, &syncErr) || errors.As(err, &loadErr)
}
