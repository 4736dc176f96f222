package cli

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/services/boardsync"
	"github.com/thenoetrevino/tablero/internal/taskapi"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"nil", nil, ExitSuccess, "ERROR"},
		{"reported failure keeps its code", &ExitError{Code: ExitNotFound, Err: errors.New("gone")}, ExitNotFound, "NOT_FOUND"},
		{"usage", &UsageError{Message: "bad flag"}, ExitUsage, "USAGE_ERROR"},
		{"auth", &taskapi.AuthError{Status: http.StatusUnauthorized}, ExitAuth, "AUTH_ERROR"},
		{"mutations disabled", boardsync.ErrMutationsDisabled, ExitAuth, "AUTH_ERROR"},
		{"validation", fmt.Errorf("%w: title is required", models.ErrValidation), ExitValidation, "VALIDATION_ERROR"},
		{"read-only", boardsync.ErrReadOnly, ExitValidation, "VALIDATION_ERROR"},
		{"task not found", fmt.Errorf("update: %w", models.ErrTaskNotFound), ExitNotFound, "NOT_FOUND"},
		{"lane not found", models.ErrLaneNotFound, ExitNotFound, "NOT_FOUND"},
		{"decode", fmt.Errorf("load: %w", taskapi.ErrDecode), ExitDataErr, "DATA_ERROR"},
		{"daemon", &events.DaemonError{Code: events.ErrSocketNotFound, Message: "no socket"}, ExitUnavailable, "UNAVAILABLE"},
		{"sync 400", &taskapi.SyncError{Op: "update", Status: http.StatusBadRequest, Err: errors.New("bad")}, ExitValidation, "VALIDATION_ERROR"},
		{"sync 404", &taskapi.SyncError{Op: "update", Status: http.StatusNotFound, Err: errors.New("missing")}, ExitNotFound, "NOT_FOUND"},
		{"sync 500", &taskapi.SyncError{Op: "update", Status: http.StatusInternalServerError, Err: errors.New("boom")}, ExitGeneral, "ERROR"},
		{"transport", &taskapi.LoadError{Op: "tasks", Err: errors.New("connection refused")}, ExitUnavailable, "UNAVAILABLE"},
		{"plain", errors.New("something"), ExitGeneral, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
			if tt.err != nil {
				assert.Equal(t, tt.code, ErrorCode(tt.err))
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("%w: empty", models.ErrValidation)
	err := &ExitError{Code: ExitValidation, Err: inner}

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, inner.Error(), err.Error())
}
