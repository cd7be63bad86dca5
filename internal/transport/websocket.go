// ABOUTME: WebSocket transport provider for the WRAC protocol
// ABOUTME: Normalizes addresses into ws/wss URLs and performs the handshake
package transport

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
)

// BuildURL turns a user-supplied address into a WebSocket URL. A full
// ws:// or wss:// URL passes through unchanged; a bare host:port gets
// a scheme from useTLS and a root path.
func BuildURL(address string, useTLS bool) string {
	if strings.HasPrefix(address, "ws://") || strings.HasPrefix(address, "wss://") {
		return address
	}
	scheme := "ws"
	if useTLS {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s/", scheme, address)
}

// DialWS establishes a persistent WebSocket connection to address.
func DialWS(ctx context.Context, address string, useTLS bool) (*websocket.Conn, error) {
	url := BuildURL(address, useTLS)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial of %s failed: %w", url, err)
	}

	return conn, nil
}
