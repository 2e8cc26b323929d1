package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a send is attempted while a reply is in
	// flight.
	ErrBusy = errors.New("a reply is already being generated")

	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrUnknownMessage is returned for a message id not in the session.
	ErrUnknownMessage = errors.New("unknown message")

	// ErrNoPayload is returned when selecting a view on a message without
	// structured content.
	ErrNoPayload = errors.New("message has no study content")
)

// PersistenceError reports a Session Store failure.
type PersistenceError struct {
	Op        string
	SessionID string
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (session %s): %v", e.Op, e.SessionID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
