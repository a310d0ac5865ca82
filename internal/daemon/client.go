package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SocketPath returns the default daemon socket path.
func SocketPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "coach", "coach.sock")
}

// ErrBroken is returned once a connection's stream position is lost, for
// example after a write was cut short. Close it and dial again.
var ErrBroken = errors.New("connection broken")

const maxLineSize = 1024 * 1024

// Client communicates with coach-daemon over a Unix socket.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	partial []byte // unterminated line left by an interrupted read
	pending int    // responses still owed for interrupted commands
	broken  bool
}

// Connect dials the daemon Unix socket.
func Connect(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}

	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Close shuts down the connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// SendCommand sends a command and reads one response line. A deadline or
// cancellation on ctx interrupts the exchange. If the command was already
// written, its late response is skipped by the next SendCommand.
func (c *Client) SendCommand(ctx context.Context, cmd Command) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return Response{}, ErrBroken
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return Response{}, fmt.Errorf("marshal command: %w", err)
	}
	data = append(data, '\n')

	stop := c.bind(ctx)
	defer stop()

	for c.pending > 0 {
		if _, err := c.readLine(); err != nil {
			return Response{}, c.readFailed(ctx, "skip stale response", err)
		}
		c.pending--
	}

	if n, err := c.conn.Write(data); err != nil {
		if n > 0 || !interrupted(ctx, err) {
			c.broken = true
			return Response{}, fmt.Errorf("write command: %w (%w)", contextErr(ctx, err), ErrBroken)
		}
		return Response{}, fmt.Errorf("write command: %w", contextErr(ctx, err))
	}

	line, err := c.readLine()
	if err != nil {
		if interrupted(ctx, err) {
			c.pending++
		}
		return Response{}, c.readFailed(ctx, "read response", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return Response{}, fmt.Errorf("unmarshal response: %w", err)
	}

	return resp, nil
}

// ReadEvent reads the next NDJSON event line. Blocks until data arrives.
// After subscribing, use this in a loop to receive events.
func (c *Client) ReadEvent() (Event, error) {
	line, err := c.readLine()
	if err != nil {
		return Event{}, fmt.Errorf("read event: %w", err)
	}

	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}

	return ev, nil
}

// readLine returns the next complete line. Bytes read before an error are
// kept so a timed-out read can be resumed.
func (c *Client) readLine() ([]byte, error) {
	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		c.partial = append(c.partial, line...)
		if len(c.partial) > maxLineSize {
			c.broken = true
			return nil, fmt.Errorf("line exceeds %d bytes: %w", maxLineSize, ErrBroken)
		}
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("connection closed")
		}
		return nil, err
	}
	if len(c.partial) > 0 {
		line = append(c.partial, line...)
		c.partial = nil
	}
	return line, nil
}

// readFailed wraps a failed read. A read cut short by ctx leaves the
// client usable; any other failure breaks it.
func (c *Client) readFailed(ctx context.Context, op string, err error) error {
	if interrupted(ctx, err) {
		return fmt.Errorf("%s: %w", op, contextErr(ctx, err))
	}
	c.broken = true
	if errors.Is(err, ErrBroken) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w (%w)", op, err, ErrBroken)
}

// interrupted reports whether ctx, rather than the connection, ended an
// exchange.
func interrupted(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	_, ok := ctx.Deadline()
	return ok && errors.Is(err, os.ErrDeadlineExceeded)
}

// bind maps ctx onto connection deadlines for the duration of one exchange.
func (c *Client) bind(ctx context.Context) func() {
	if dl, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(dl)
	}
	if ctx.Done() == nil {
		return func() { c.conn.SetDeadline(time.Time{}) }
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			c.conn.SetDeadline(time.Now())
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-stopped
		c.conn.SetDeadline(time.Time{})
	}
}

// contextErr prefers the context's error when it caused err.
func contextErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if _, ok := ctx.Deadline(); ok && errors.Is(err, os.ErrDeadlineExceeded) {
		return context.DeadlineExceeded
	}
	return err
}
