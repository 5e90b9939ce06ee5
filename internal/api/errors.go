package api

import (
	"errors"
	"fmt"
)

// ErrAuthRequired indicates an operation that needs a session was attempted
// without one. Callers prompt for login; nothing about this is fatal.
var ErrAuthRequired = errors.New("authentication required")

// ErrAuthForbidden indicates a valid session without the admin role tried an
// admin-only operation. Callers point at the public view instead.
var ErrAuthForbidden = errors.New("admin role required")

// RemoteUnavailableError reports a read that failed against every endpoint it
// was given (network failure or non-2xx on both primary and fallback).
type RemoteUnavailableError struct {
	// Endpoint is the last endpoint tried.
	Endpoint string

	// Status is the last HTTP status received, 0 when the failure was at
	// the network layer.
	Status int

	// Err is the underlying transport error, if any.
	Err error
}

func (e *RemoteUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote unavailable: %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("remote unavailable: %s returned status %d", e.Endpoint, e.Status)
}

func (e *RemoteUnavailableError) Unwrap() error { return e.Err }

// RemoteRejectedError reports a mutation the server refused. Local state must
// be left unchanged when this is returned.
type RemoteRejectedError struct {
	Endpoint string
	Status   int
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("remote rejected: %s returned status %d", e.Endpoint, e.Status)
}
