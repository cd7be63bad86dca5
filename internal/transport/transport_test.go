// ABOUTME: Tests for the RAC transport providers
// ABOUTME: Covers URL building, server-name extraction, and plain dialing
package transport

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestBuildURLFromHostPort(t *testing.T) {
	url := BuildURL("chat.example.org:52666", false)
	if url != "ws://chat.example.org:52666/" {
		t.Errorf("expected ws URL with root path, got %s", url)
	}
}

func TestBuildURLWithTLS(t *testing.T) {
	url := BuildURL("chat.example.org:52666", true)
	if url != "wss://chat.example.org:52666/" {
		t.Errorf("expected wss URL, got %s", url)
	}
}

func TestBuildURLPassthrough(t *testing.T) {
	for _, addr := range []string{
		"ws://chat.example.org:52666/rac",
		"wss://chat.example.org/",
	} {
		if url := BuildURL(addr, true); url != addr {
			t.Errorf("expected %s unchanged, got %s", addr, url)
		}
	}
}

func TestServerName(t *testing.T) {
	if name := ServerName("chat.example.org:42666"); name != "chat.example.org" {
		t.Errorf("expected host portion, got %s", name)
	}
	if name := ServerName("chat.example.org"); name != "chat.example.org" {
		t.Errorf("expected bare host unchanged, got %s", name)
	}
	if name := ServerName(":42666"); name != "localhost" {
		t.Errorf("expected localhost fallback, got %s", name)
	}
}

func TestDialPlain(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start listener: %v", err)
	}
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := Dial(ctx, listener.Addr().String(), false)
	if err != nil {
		t.Fatalf("expected dial to succeed: %v", err)
	}
	conn.Close()
}

func TestDialConnectionRefused(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := Dial(ctx, "127.0.0.1:1", false); err == nil {
		t.Error("expected dial of closed port to fail")
	}
}
