// ABOUTME: WRAC WebSocket client package
// ABOUTME: Talks the opcode grammar over a persistent WebSocket connection
// Package wrac implements the WebSocket-transport RAC client.
//
// Unlike pkg/rac, the WRAC client keeps one persistent connection:
// Prepare establishes it, every operation reuses it, and Reset tears
// it down. Frames are whole binary WebSocket messages carrying the
// same opcode grammar as the stream transport.
//
// Example:
//
//	client := wrac.New("127.0.0.1:52666", protocol.Credentials{Username: "alice"}, false)
//	if err := client.Prepare(ctx); err != nil {
//		return err
//	}
//	messages, err := client.FetchAll(ctx)
package wrac
