// ABOUTME: RAC stream client package
// ABOUTME: Talks the opcode grammar over fresh TCP or TLS connections
// Package rac implements the stream-transport RAC client.
//
// Every operation opens a fresh connection, performs one exchange
// (size-then-bulk for the fetch operations), and drops the
// connection. The client keeps a byte-count cursor of the message log
// already retrieved so polls only pull newly-arrived messages.
//
// Example:
//
//	client := rac.New("127.0.0.1:42666", protocol.Credentials{Username: "alice"}, false)
//	messages, err := client.FetchAll(ctx)
package rac
