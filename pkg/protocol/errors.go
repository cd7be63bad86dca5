// ABOUTME: Error taxonomy for RAC client operations
// ABOUTME: Sentinel errors plus typed errors that carry diagnostics
package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPassword is returned when an operation needs credentials
	// but the session has no password configured.
	ErrNoPassword = errors.New("no password configured")
	// ErrUsernameTaken is returned when registration fails because
	// the username already exists on the server.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrUserDoesNotExist is returned when an authenticated send
	// names a user the server does not know.
	ErrUserDoesNotExist = errors.New("user does not exist on the server")
	// ErrIncorrectPassword is returned when the server rejects the
	// session's password.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrServerClosed is returned when the server closes the channel
	// before answering a size or fetch request.
	ErrServerClosed = errors.New("server closed the connection")
	// ErrNotConnected is returned by WRAC operations invoked before
	// Prepare has established the persistent connection.
	ErrNotConnected = errors.New("not connected")
	// ErrSizeRegression is returned when the server reports a total
	// log size smaller than the stored cursor, which would make the
	// delta byte count negative.
	ErrSizeRegression = errors.New("server reported a smaller log than already fetched")
)

// ParseError reports a malformed size response.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse messages size from %q", e.Input)
}

// UnexpectedResponseError carries the raw bytes of a response the
// client could not map to a known status.
type UnexpectedResponseError struct {
	Raw []byte
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response from the server: % x", e.Raw)
}
