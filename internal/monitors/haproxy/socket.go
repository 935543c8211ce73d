package haproxy

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultTimeout bounds connecting to the socket and the whole exchange
	// after that.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxResponseBytes caps how much of a single response is read.
	DefaultMaxResponseBytes = 16 << 20
)

// SocketClient sends single commands to a HAProxy admin socket.  HAProxy
// closes the connection after answering a non-interactive command, so every
// command gets its own connection.
type SocketClient struct {
	Timeout          time.Duration
	MaxResponseBytes int64
}

// Send writes command to the unix socket at socketPath and returns everything
// HAProxy wrote back before closing the connection.
func (c *SocketClient) Send(ctx context.Context, socketPath, command string) ([]byte, error) {
	body, err := c.exchange(ctx, socketPath, command)
	if err != nil {
		return nil, &TransportError{Socket: socketPath, Command: command, Err: err}
	}
	return body, nil
}

func (c *SocketClient) exchange(ctx context.Context, socketPath, command string) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	limit := c.MaxResponseBytes
	if limit <= 0 {
		limit = DefaultMaxResponseBytes
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect")
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, errors.Wrap(err, "cannot set deadline")
	}

	line := command + "\n"
	n, err := io.WriteString(conn, line)
	if err != nil {
		return nil, errors.Wrap(err, "cannot send command")
	}
	if n != len(line) {
		return nil, errors.Errorf("short write: %d of %d bytes", n, len(line))
	}

	// Read one byte past the limit so an oversized response is detected
	// instead of silently truncated.
	body, err := io.ReadAll(io.LimitReader(conn, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "cannot read response")
	}
	if int64(len(body)) > limit {
		return nil, errors.Errorf("response exceeds %d bytes", limit)
	}
	return body, nil
}
