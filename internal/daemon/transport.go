package daemon

import (
	"context"
	"fmt"
)

// Commander sends one command and waits for its response. Both the socket
// Client and the websocket relay client satisfy it.
type Commander interface {
	SendCommand(ctx context.Context, cmd Command) (Response, error)
}

// EventReader yields streamed events until the connection fails.
type EventReader interface {
	ReadEvent() (Event, error)
	Close() error
}

// Transport adapts a Commander to call.Transport.
type Transport struct {
	Commander Commander
	Operator  string
}

// BeginCall asks the daemon to start a call.
func (t Transport) BeginCall(ctx context.Context, product, focus string) error {
	_, err := t.send(ctx, Command{
		Cmd:      CmdBegin,
		Product:  product,
		Focus:    focus,
		Operator: t.Operator,
	})
	return err
}

// EndCall asks the daemon to terminate the current call.
func (t Transport) EndCall(ctx context.Context) error {
	_, err := t.send(ctx, Command{Cmd: CmdEnd})
	return err
}

func (t Transport) send(ctx context.Context, cmd Command) (Response, error) {
	if t.Commander == nil {
		return Response{}, fmt.Errorf("%s: not connected", cmd.Cmd)
	}
	resp, err := t.Commander.SendCommand(ctx, cmd)
	if err != nil {
		return Response{}, err
	}
	if !resp.OK {
		msg := resp.Error
		if msg == "" {
			msg = "rejected"
		}
		return resp, fmt.Errorf("%s: %s", cmd.Cmd, msg)
	}
	return resp, nil
}

// Subscribe sends a subscribe command on a connection that will then be used
// only for ReadEvent.
func Subscribe(ctx context.Context, c Commander, events ...string) error {
	resp, err := c.SendCommand(ctx, Command{Cmd: CmdSubscribe, Events: events})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("subscribe: %s", resp.Error)
	}
	return nil
}
