package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the repository gateway.
var (
	ErrConnectivity = errors.New("connectivity error")
	ErrNotFound     = errors.New("not found")
	ErrUnexpected   = errors.New("unexpected error")
)

var (
	ErrIssueAlreadyClosed = errors.New("issue is already closed")
	ErrInvalidState       = errors.New("invalid issue state")
)

// APIError is a classified failure of a remote repository call.
// errors.Is matches both Kind and the underlying cause.
type APIError struct {
	Kind error
	Err  error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *APIError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
