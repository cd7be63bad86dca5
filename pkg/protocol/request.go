// ABOUTME: RAC request frame construction
// ABOUTME: Defines the tagged request type and its wire encoding
package protocol

import (
	"fmt"
	"strconv"
)

// Protocol opcodes. The same byte value can mean different things
// depending on the direction of the exchange: 0x01 fetches the full
// message log in a read exchange but sends an anonymous message in a
// write exchange, and 0x02 fetches a delta in a read exchange but
// sends an authenticated message in a write exchange. Requests are
// therefore built from the tagged Request type below, never from a
// bare opcode constant.
const (
	OpGetSize  byte = 0x00
	OpGetAll   byte = 0x01
	OpGetDelta byte = 0x02
	OpRegister byte = 0x03

	OpSendAnon byte = OpGetAll
	OpSendAuth byte = OpGetDelta
)

// requestKind discriminates the operation a Request encodes.
type requestKind int

const (
	kindFetchSize requestKind = iota
	kindFetchAll
	kindFetchDelta
	kindSendAnonymous
	kindSendAuthenticated
	kindRegister
)

// Request is an operation-tagged protocol request. Construct one with
// the FetchSizeRequest, FetchAllRequest, FetchDeltaRequest,
// SendAnonymousRequest, SendAuthenticatedRequest, or RegisterRequest
// helpers and serialize it with Encode.
type Request struct {
	kind     requestKind
	cursor   int
	username string
	password string
	message  string
}

// FetchSizeRequest asks the server for the total message-log size.
func FetchSizeRequest() Request {
	return Request{kind: kindFetchSize}
}

// FetchAllRequest asks the server for the full message log.
func FetchAllRequest() Request {
	return Request{kind: kindFetchAll}
}

// FetchDeltaRequest asks the server for the log bytes past cursor.
func FetchDeltaRequest(cursor int) Request {
	return Request{kind: kindFetchDelta, cursor: cursor}
}

// SendAnonymousRequest sends a message without authentication.
func SendAnonymousRequest(message string) Request {
	return Request{kind: kindSendAnonymous, message: message}
}

// SendAuthenticatedRequest sends a message with RACv2 credentials.
func SendAuthenticatedRequest(username, password, message string) Request {
	return Request{
		kind:     kindSendAuthenticated,
		username: username,
		password: password,
		message:  message,
	}
}

// RegisterRequest registers a new RACv2 user.
func RegisterRequest(username, password string) Request {
	return Request{kind: kindRegister, username: username, password: password}
}

// Encode serializes the request into a wire frame: one opcode byte
// followed by the opcode-specific payload.
func (r Request) Encode() []byte {
	switch r.kind {
	case kindFetchSize:
		return []byte{OpGetSize}
	case kindFetchAll:
		return []byte{OpGetAll}
	case kindFetchDelta:
		return append([]byte{OpGetDelta}, strconv.Itoa(r.cursor)...)
	case kindSendAnonymous:
		return append([]byte{OpSendAnon}, r.message...)
	case kindSendAuthenticated:
		payload := fmt.Sprintf("%s\n%s\n%s", r.username, r.password, r.message)
		return append([]byte{OpSendAuth}, payload...)
	case kindRegister:
		payload := fmt.Sprintf("%s\n%s", r.username, r.password)
		return append([]byte{OpRegister}, payload...)
	}
	return nil
}
