// ABOUTME: RAC wire protocol package
// ABOUTME: Defines the opcode grammar shared by the RAC and WRAC clients
// Package protocol implements the RAC wire grammar.
//
// A request frame is a single opcode byte followed by an
// opcode-specific payload. Numeric fields travel as ASCII decimal
// text; multi-field payloads are newline-separated in the fixed order
// username, password, message. Responses are a bare status byte, an
// ASCII decimal size, or a newline-delimited message blob that may be
// padded with null bytes.
//
// Both the stream client (pkg/rac) and the WebSocket client
// (pkg/wrac) build their frames and decode their responses through
// this package.
package protocol
