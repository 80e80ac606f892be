package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable means the request never produced a backend response
	// (connection refused, timeout, DNS failure).
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized corresponds to a 401 response.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound corresponds to a 404 response. The household service uses
	// it to tell "no household yet" apart from a failed fetch.
	ErrNotFound = errors.New("not found")
)

// Error is a non-2xx backend response. Detail carries the human-readable
// message from the response body when one was supplied.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d %s", e.Status, http.StatusText(e.Status))
}

// Unwrap maps well-known statuses to sentinel errors so callers can use
// errors.Is without inspecting status codes.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}
