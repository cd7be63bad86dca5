// ABOUTME: Stream transport provider for the RAC protocol
// ABOUTME: Opens plain TCP or TLS-wrapped connections to a server address
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
)

// Dial opens a duplex byte stream to address. With useTLS the TCP
// connection is wrapped in a TLS client handshake using the host
// portion of address as the server name. TLS setup failures are
// reported separately from plain connection failures.
func Dial(ctx context.Context, address string, useTLS bool) (net.Conn, error) {
	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	if !useTLS {
		return conn, nil
	}

	tlsConn := tls.Client(conn, &tls.Config{ServerName: ServerName(address)})
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("TLS handshake with %s failed: %w", address, err)
	}

	return tlsConn, nil
}

// ServerName extracts the TLS server name from an address: the text
// before the first ':', falling back to localhost when empty.
func ServerName(address string) string {
	host, _, _ := strings.Cut(address, ":")
	if host == "" {
		return "localhost"
	}
	return host
}
