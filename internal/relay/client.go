// Package relay speaks the daemon protocol to a remote call relay over a
// websocket, for setups where the call daemon runs on another machine.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jwulff/coach/internal/daemon"
)

const defaultConnectTimeout = 10 * time.Second

// Client is one websocket connection to the relay. Like daemon.Client, use one
// connection for commands and a second one for the event stream.
type Client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	broken bool
}

// Dial connects to the relay at url (ws:// or wss://). An operator name is
// sent as a header so the relay can attribute the connection.
func Dial(ctx context.Context, url, operator string) (*Client, error) {
	headers := make(http.Header)
	if operator != "" {
		headers.Set("X-Coach-Operator", operator)
	}

	dialCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, defaultConnectTimeout)
		defer cancel()
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, url, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("connect to relay (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("connect to relay: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Close sends a close frame and shuts down the connection.
func (c *Client) Close() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}

// SendCommand writes cmd and reads one response frame. A websocket cannot
// read again after a failed read, so any failure, including one caused by
// ctx, leaves the client broken and later calls return daemon.ErrBroken.
func (c *Client) SendCommand(ctx context.Context, cmd daemon.Command) (daemon.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return daemon.Response{}, daemon.ErrBroken
	}

	stop := c.bind(ctx)
	defer stop()

	if err := c.conn.WriteJSON(cmd); err != nil {
		c.broken = true
		return daemon.Response{}, fmt.Errorf("write command: %w (%w)", contextErr(ctx, err), daemon.ErrBroken)
	}
	var resp daemon.Response
	if err := c.conn.ReadJSON(&resp); err != nil {
		c.broken = true
		return daemon.Response{}, fmt.Errorf("read response: %w (%w)", contextErr(ctx, err), daemon.ErrBroken)
	}
	return resp, nil
}

// ReadEvent blocks until the next event frame arrives.
func (c *Client) ReadEvent() (daemon.Event, error) {
	var ev daemon.Event
	if err := c.conn.ReadJSON(&ev); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return daemon.Event{}, fmt.Errorf("connection closed")
		}
		return daemon.Event{}, fmt.Errorf("read event: %w", err)
	}
	return ev, nil
}

func (c *Client) bind(ctx context.Context) func() {
	if dl, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(dl)
		_ = c.conn.SetReadDeadline(dl)
	}
	reset := func() {
		_ = c.conn.SetWriteDeadline(time.Time{})
		_ = c.conn.SetReadDeadline(time.Time{})
	}
	if ctx.Done() == nil {
		return reset
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			_ = c.conn.UnderlyingConn().SetDeadline(time.Now())
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-stopped
		reset()
	}
}

func contextErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	var ne net.Error
	if _, ok := ctx.Deadline(); ok && errors.As(err, &ne) && ne.Timeout() {
		return context.DeadlineExceeded
	}
	return err
}

var _ daemon.Commander = (*Client)(nil)
var _ daemon.EventReader = (*Client)(nil)
