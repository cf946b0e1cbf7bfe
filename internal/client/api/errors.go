package api

import (
	"errors"
	"fmt"
)

// ErrUnavailable indicates a connectivity/transport failure: the request
// never produced a response from the backend. Match with errors.Is.
var ErrUnavailable = errors.New("server unavailable")

// Error is a structured error body returned by the backend
// ({"code": ..., "message": ...}) together with the HTTP status.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (status %d)", e.Status)
}
