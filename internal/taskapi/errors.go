package taskapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnsuccessful marks a 2xx response whose body carried success=false
	ErrUnsuccessful = errors.New("server reported failure")

	// ErrDecode marks a 2xx response whose body was not a valid envelope
	ErrDecode = errors.New("malformed response")
)

// AuthError is returned for 401 and 403 responses. The board stops issuing
// mutations once it sees one.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("not authorized (%d)", e.Status)
	}
	return fmt.Sprintf("not authorized (%d): %s", e.Status, e.Message)
}

// Forbidden reports whether the token was valid but lacked permission
func (e *AuthError) Forbidden() bool {
	return e.Status == http.StatusForbidden
}

// SyncError is a failed persist call that was not an auth failure
type SyncError struct {
	Op     string
	Status int
	Err    error
}

func (e *SyncError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s failed (%d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// LoadError is a failed fetch of board data
type LoadError struct {
	Op     string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s failed (%d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether err is, or wraps, an AuthError
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
