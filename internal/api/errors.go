package api

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired is returned for HTTP 401. It is suppressed from
	// user-facing alerts; the session-expiry listener reacts to it instead.
	ErrSessionExpired = errors.New("api: session expired")

	// ErrNotFound is returned for HTTP 404.
	ErrNotFound = errors.New("api: not found")
)

// StatusError is any other non-2xx response. Callers surface it as a
// generic alert; the status and message are for logs.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: unexpected status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}
