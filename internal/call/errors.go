package call

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when an action is attempted while the
	// session is in the wrong state or busy. The session is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrCollaboratorFailure is returned when beginning or ending the call
	// failed. The session has already reverted to its prior stable state.
	ErrCollaboratorFailure = errors.New("call transport failed")

	// ErrNotRecording is returned for transcript, metric and recommendation
	// updates that arrive outside Recording.
	ErrNotRecording = fmt.Errorf("%w: not recording", ErrInvalidTransition)

	errNoTransport = errors.New("no call transport configured")
)

func invalid(op, reason string) error {
	return fmt.Errorf("%s: %w: %s", op, ErrInvalidTransition, reason)
}

func collaborator(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrCollaboratorFailure, err)
}
