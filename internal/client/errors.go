package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound marks an expected absence (HTTP 404), e.g. no location saved yet.
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized marks a rejected or missing token (HTTP 401/403).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNetwork wraps transport failures where no response was received.
	ErrNetwork = errors.New("network error")
	// ErrMalformed marks a 2xx response whose body could not be decoded.
	ErrMalformed = errors.New("malformed response")
)

// StatusError is a non-2xx response or a {"success": false} envelope.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Code)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return nil
	}
}

// Message extracts the backend-provided message from err, or "" if none.
func Message(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
