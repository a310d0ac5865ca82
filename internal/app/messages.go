package app

import (
	"github.com/jwulff/coach/internal/daemon"
)

// DaemonConnectedMsg is sent when both daemon connections are established.
type DaemonConnectedMsg struct {
	Client   Conn // for commands (begin, end, status)
	EvClient Conn // for event subscription
}

// DaemonConnectErrorMsg is sent when the daemon connection fails.
type DaemonConnectErrorMsg struct {
	Err error
}

// DaemonEventMsg wraps a streamed event from the daemon. Conn is the
// connection it was read from.
type DaemonEventMsg struct {
	Event daemon.Event
	Conn  Conn
}

// DaemonEventErrorMsg is sent when a daemon connection fails. Errors from a
// connection that has already been replaced are dropped.
type DaemonEventErrorMsg struct {
	Err  error
	Conn Conn
}

// StatusResponseMsg carries the response to a status command.
type StatusResponseMsg struct {
	Response daemon.Response
}

// CallStartedMsg reports the outcome of a begin request.
type CallStartedMsg struct {
	Err error
}

// CallEndedMsg reports the outcome of an end request.
type CallEndedMsg struct {
	Err error
}

// CallSavedMsg reports whether a finished call reached the history store.
type CallSavedMsg struct {
	ID  string
	Err error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}

// ReconnectTickMsg triggers a reconnection attempt.
type ReconnectTickMsg struct{}
