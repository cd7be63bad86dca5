// ABOUTME: Stream-variant RAC client implementation
// ABOUTME: One fresh connection per operation, cursor-tracked fetches
package rac

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/rac-protocol/rac-go/internal/transport"
	"github.com/rac-protocol/rac-go/pkg/protocol"
)

const (
	// sizeBufLen bounds the ASCII decimal size response.
	sizeBufLen = 1024
	// statusBufLen bounds the status reply of a send exchange.
	statusBufLen = 16
	// registerBufLen bounds the status reply of a registration.
	registerBufLen = 2
)

// Client is a RAC client over the stream transport. It is not safe
// for concurrent use; serialize access externally or give each
// conversation its own Client.
type Client struct {
	cursor      int
	address     string
	credentials protocol.Credentials
	useTLS      bool
}

// New creates a stream-transport client for the given server address
// (host:port) and identity.
func New(address string, credentials protocol.Credentials, useTLS bool) *Client {
	return &Client{
		address:     address,
		credentials: credentials,
		useTLS:      useTLS,
	}
}

// UpdateCredentials replaces the client's identity.
func (c *Client) UpdateCredentials(credentials protocol.Credentials) {
	c.credentials = credentials
}

// UpdateTLS enables or disables TLS for future connections.
func (c *Client) UpdateTLS(useTLS bool) {
	c.useTLS = useTLS
}

// UpdateAddress points the client at a different server.
func (c *Client) UpdateAddress(address string) {
	c.address = address
}

// dial opens the per-operation connection.
func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	conn, err := transport.Dial(ctx, c.address, c.useTLS)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	return conn, nil
}

// TestConnection verifies that the server is reachable.
func (c *Client) TestConnection(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Register creates a new RACv2 user with the configured credentials.
// It fails with protocol.ErrNoPassword, without touching the network,
// when no password is configured.
func (c *Client) Register(ctx context.Context) error {
	if !c.credentials.Authenticated() {
		return protocol.ErrNoPassword
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	req := protocol.RegisterRequest(c.credentials.Username, c.credentials.PasswordValue())
	if _, err := conn.Write(req.Encode()); err != nil {
		return fmt.Errorf("failed to write registration: %w", err)
	}

	status, err := readSome(conn, registerBufLen)
	if err != nil {
		return fmt.Errorf("failed to read registration status: %w", err)
	}
	return protocol.DecodeRegisterStatus(status)
}

// FetchSize asks the server for the total message-log size and
// records it as the new cursor.
func (c *Client) FetchSize(ctx context.Context) (int, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	size, err := c.readSize(conn)
	if err != nil {
		return 0, err
	}

	c.cursor = size
	return size, nil
}

// FetchAll retrieves the full message log. The size query and the
// bulk transfer must happen on the same connection, so the size is
// re-read here instead of reusing the stored cursor.
func (c *Client) FetchAll(ctx context.Context) ([]string, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	size, err := c.readSize(conn)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Write(protocol.FetchAllRequest().Encode()); err != nil {
		return nil, fmt.Errorf("failed to write fetch request: %w", err)
	}

	blob := make([]byte, size)
	if _, err := io.ReadFull(conn, blob); err != nil {
		return nil, fmt.Errorf("failed to read message log: %w", err)
	}

	c.cursor = size
	return protocol.SplitMessages(blob), nil
}

// FetchDelta retrieves only the messages appended since the last
// fetch. The new total is learned on the same connection that carries
// the delta transfer; the cursor advances only after the delta has
// been read completely.
func (c *Client) FetchDelta(ctx context.Context) ([]string, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	newTotal, err := c.readSize(conn)
	if err != nil {
		return nil, err
	}
	if newTotal < c.cursor {
		// The server log shrank underneath us. Surface it instead of
		// computing a negative delta length.
		return nil, protocol.ErrSizeRegression
	}

	req := protocol.FetchDeltaRequest(c.cursor)
	if _, err := conn.Write(req.Encode()); err != nil {
		return nil, fmt.Errorf("failed to write delta request: %w", err)
	}

	blob := make([]byte, newTotal-c.cursor)
	if _, err := io.ReadFull(conn, blob); err != nil {
		return nil, fmt.Errorf("failed to read message delta: %w", err)
	}

	c.cursor = newTotal
	return protocol.SplitMessages(blob), nil
}

// Send delivers a message, substituting the {username} placeholder
// with the client's username first.
func (c *Client) Send(ctx context.Context, message string) error {
	return c.SendRaw(ctx, strings.ReplaceAll(message, "{username}", c.credentials.Username))
}

// SendRaw delivers a message exactly as given. With a password
// configured the authenticated opcode is used and the status reply is
// decoded; without one the message goes out anonymously and no reply
// is expected.
func (c *Client) SendRaw(ctx context.Context, message string) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if !c.credentials.Authenticated() {
		req := protocol.SendAnonymousRequest(message)
		if _, err := conn.Write(req.Encode()); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
		return nil
	}

	req := protocol.SendAuthenticatedRequest(
		c.credentials.Username,
		c.credentials.PasswordValue(),
		message,
	)
	if _, err := conn.Write(req.Encode()); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	status, err := readSome(conn, statusBufLen)
	if err != nil {
		return fmt.Errorf("failed to read send status: %w", err)
	}
	return protocol.DecodeSendStatus(status)
}

// Reset returns the client to its default state: cursor zeroed,
// address and identity cleared.
func (c *Client) Reset() {
	c.cursor = 0
	c.address = ""
	c.credentials = protocol.Credentials{}
}

// Cursor returns the byte count of the message log already fetched.
// It advances after successful FetchSize, FetchAll, and FetchDelta
// calls.
func (c *Client) Cursor() int {
	return c.cursor
}

// TLS reports whether connections are TLS-wrapped.
func (c *Client) TLS() bool {
	return c.useTLS
}

// Address returns the server address.
func (c *Client) Address() string {
	return c.address
}

// Username returns the client's username.
func (c *Client) Username() string {
	return c.credentials.Username
}

// readSize performs the size exchange on an already-open connection.
// A zero-length read here means the server closed the connection
// without answering, which is a hard failure on size and fetch paths.
func (c *Client) readSize(conn net.Conn) (int, error) {
	if _, err := conn.Write(protocol.FetchSizeRequest().Encode()); err != nil {
		return 0, fmt.Errorf("failed to write size request: %w", err)
	}

	buf, err := readSome(conn, sizeBufLen)
	if err != nil {
		return 0, fmt.Errorf("failed to read size response: %w", err)
	}
	if len(buf) == 0 {
		return 0, protocol.ErrServerClosed
	}
	return protocol.ParseSize(buf)
}

// readSome reads whatever the server answers with, up to max bytes.
// A clean close before any data comes back as an empty buffer, which
// the status-decoding paths treat as success-with-no-reply.
func readSome(conn net.Conn, max int) ([]byte, error) {
	buf := make([]byte, max)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}
