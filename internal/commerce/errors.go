package commerce

import (
	"errors"
	"fmt"
)

var (
	// ErrNoToken is returned before any network I/O when an authenticated
	// call is attempted without a stored token.
	ErrNoToken = errors.New("not logged in")

	// ErrUnauthorized means the API answered 401; the session has already
	// been cleared and the current operation is terminal.
	ErrUnauthorized = errors.New("session expired or unauthorized")
)

// APIError is a non-2xx business response, carrying the server-provided
// message when the body had one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("commerce api: status %d", e.Status)
}

// UserMessage is what a notice should show: the server's message when
// present, otherwise the given fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
