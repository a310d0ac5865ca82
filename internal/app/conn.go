package app

import (
	"context"
	"sync"

	"github.com/jwulff/coach/internal/call"
	"github.com/jwulff/coach/internal/daemon"
)

// Conn is one connection to the call daemon, either the local socket or the
// websocket relay.
type Conn interface {
	daemon.Commander
	daemon.EventReader
}

// Dialer opens a new connection. The model dials twice: one connection for
// commands and one for the event subscription.
type Dialer func(ctx context.Context) (Conn, error)

// link is the session's transport. The command connection behind it is
// swapped on every reconnect.
type link struct {
	mu       sync.Mutex
	conn     daemon.Commander
	operator string
}

var _ call.Transport = (*link)(nil)

func (l *link) set(c daemon.Commander) {
	l.mu.Lock()
	l.conn = c
	l.mu.Unlock()
}

func (l *link) transport() daemon.Transport {
	l.mu.Lock()
	defer l.mu.Unlock()
	return daemon.Transport{Commander: l.conn, Operator: l.operator}
}

func (l *link) BeginCall(ctx context.Context, product, focus string) error {
	return l.transport().BeginCall(ctx, product, focus)
}

func (l *link) EndCall(ctx context.Context) error {
	return l.transport().EndCall(ctx)
}
