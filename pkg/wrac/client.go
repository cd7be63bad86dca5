// ABOUTME: Message-variant WRAC client implementation
// ABOUTME: Persistent WebSocket lifecycle with prepare/reset and cursor logic
package wrac

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rac-protocol/rac-go/internal/transport"
	"github.com/rac-protocol/rac-go/pkg/protocol"
)

// Client is a RAC client over the WebSocket transport. It holds at
// most one live connection and is not safe for concurrent use.
type Client struct {
	cursor      int
	address     string
	credentials protocol.Credentials
	useTLS      bool
	conn        *websocket.Conn
}

// New creates a WebSocket-transport client. The address may be a full
// ws:// or wss:// URL or a bare host:port, in which case the scheme
// follows useTLS. Call Prepare before any other operation.
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

// Prepare establishes the persistent connection. An existing live
// connection is closed first so the session never holds two.
func (c *Client) Prepare(ctx context.Context) error {
	conn, err := transport.DialWS(ctx, c.address, c.useTLS)
	if err != nil {
		return err
	}
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	return nil
}

// Connected reports whether Prepare has established a connection.
func (c *Client) Connected() bool {
	return c.conn != nil
}

// TestConnection verifies that the server is reachable. It uses a
// throwaway connection and leaves the persistent one untouched.
func (c *Client) TestConnection(ctx context.Context) error {
	conn, err := transport.DialWS(ctx, c.address, c.useTLS)
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
	if err := c.checkConnection(); err != nil {
		return err
	}

	req := protocol.RegisterRequest(c.credentials.Username, c.credentials.PasswordValue())
	if err := c.write(ctx, req.Encode()); err != nil {
		return fmt.Errorf("failed to send registration: %w", err)
	}

	status, err := c.readReply(ctx)
	if err != nil {
		return fmt.Errorf("failed to read registration status: %w", err)
	}
	return protocol.DecodeRegisterStatus(status)
}

// FetchSize asks the server for the total message-log size and
// records it as the new cursor.
func (c *Client) FetchSize(ctx context.Context) (int, error) {
	if err := c.checkConnection(); err != nil {
		return 0, err
	}

	size, err := c.readSize(ctx)
	if err != nil {
		return 0, err
	}

	c.cursor = size
	return size, nil
}

// FetchAll retrieves the full message log over the persistent
// connection. The size exchange runs first so the cursor lands on the
// server's current total.
func (c *Client) FetchAll(ctx context.Context) ([]string, error) {
	if err := c.checkConnection(); err != nil {
		return nil, err
	}

	size, err := c.readSize(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.write(ctx, protocol.FetchAllRequest().Encode()); err != nil {
		return nil, fmt.Errorf("failed to send fetch request: %w", err)
	}

	blob, err := c.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read message log: %w", err)
	}

	c.cursor = size
	return protocol.SplitMessages(blob), nil
}

// FetchDelta retrieves only the messages appended since the last
// fetch. The size exchange runs first; when the log has not grown the
// delta exchange is skipped entirely and an empty result is returned.
func (c *Client) FetchDelta(ctx context.Context) ([]string, error) {
	if err := c.checkConnection(); err != nil {
		return nil, err
	}

	oldTotal := c.cursor
	newTotal, err := c.readSize(ctx)
	if err != nil {
		return nil, err
	}
	if newTotal < oldTotal {
		return nil, protocol.ErrSizeRegression
	}
	if newTotal == oldTotal {
		return nil, nil
	}

	req := protocol.FetchDeltaRequest(oldTotal)
	if err := c.write(ctx, req.Encode()); err != nil {
		return nil, fmt.Errorf("failed to send delta request: %w", err)
	}

	blob, err := c.read(ctx)
	if err != nil {
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
	if err := c.checkConnection(); err != nil {
		return err
	}

	if !c.credentials.Authenticated() {
		req := protocol.SendAnonymousRequest(message)
		if err := c.write(ctx, req.Encode()); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
		return nil
	}

	req := protocol.SendAuthenticatedRequest(
		c.credentials.Username,
		c.credentials.PasswordValue(),
		message,
	)
	if err := c.write(ctx, req.Encode()); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	status, err := c.readReply(ctx)
	if err != nil {
		return fmt.Errorf("failed to read send status: %w", err)
	}
	return protocol.DecodeSendStatus(status)
}

// Reset returns the client to its default state and closes the live
// connection if one is held.
func (c *Client) Reset() {
	c.cursor = 0
	c.address = ""
	c.credentials = protocol.Credentials{}
	c.useTLS = false
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Cursor returns the byte count of the message log already fetched.
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

// checkConnection guards operations that need the persistent
// connection from running before Prepare.
func (c *Client) checkConnection() error {
	if c.conn == nil {
		return protocol.ErrNotConnected
	}
	return nil
}

// readSize performs the size exchange on the live connection without
// touching the cursor; callers decide when the cursor moves.
func (c *Client) readSize(ctx context.Context) (int, error) {
	if err := c.write(ctx, protocol.FetchSizeRequest().Encode()); err != nil {
		return 0, fmt.Errorf("failed to send size request: %w", err)
	}

	payload, err := c.read(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read size response: %w", err)
	}
	if len(payload) == 0 {
		return 0, protocol.ErrServerClosed
	}
	return protocol.ParseSize(payload)
}

// write sends one binary frame on the live connection.
func (c *Client) write(ctx context.Context, frame []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetWriteDeadline(deadline)
	} else {
		c.conn.SetWriteDeadline(time.Time{})
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// read receives one frame from the live connection. Text and binary
// frames both carry protocol payloads; anything else reads as empty.
// A close from the server surfaces as protocol.ErrServerClosed so the
// size and fetch paths fail hard.
func (c *Client) read(ctx context.Context) ([]byte, error) {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetReadDeadline(deadline)
	} else {
		c.conn.SetReadDeadline(time.Time{})
	}

	msgType, data, err := c.conn.ReadMessage()
	if err != nil {
		if isClosed(err) {
			return nil, protocol.ErrServerClosed
		}
		return nil, err
	}

	switch msgType {
	case websocket.TextMessage, websocket.BinaryMessage:
		return data, nil
	default:
		return nil, nil
	}
}

// readReply receives the status frame of a send or register
// exchange. Servers are allowed to simply close the channel after
// accepting the request, which decodes as success-with-no-reply.
func (c *Client) readReply(ctx context.Context) ([]byte, error) {
	payload, err := c.read(ctx)
	if errors.Is(err, protocol.ErrServerClosed) {
		return nil, nil
	}
	return payload, err
}

// isClosed reports whether a read error means the peer went away
// rather than a transport fault.
func isClosed(err error) bool {
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
