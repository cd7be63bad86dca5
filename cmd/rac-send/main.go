// ABOUTME: One-shot RAC command-line tool
// ABOUTME: Registers a user or sends a single message and exits
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rac-protocol/rac-go/pkg/protocol"
	"github.com/rac-protocol/rac-go/pkg/rac"
	"github.com/rac-protocol/rac-go/pkg/wrac"
)

var (
	serverAddr = flag.String("server", "localhost:42666", "Server address")
	username   = flag.String("user", "", "Username")
	passwd     = flag.String("password", "", "Password for RACv2 authenticated mode")
	useTLS     = flag.Bool("tls", false, "Use TLS for the connection")
	useWS      = flag.Bool("websocket", false, "Use the WRAC WebSocket transport")
	register   = flag.Bool("register", false, "Register the user instead of sending a message")
	timeout    = flag.Duration("timeout", 10*time.Second, "Operation timeout")
)

func main() {
	flag.Parse()

	creds := protocol.Credentials{Username: *username}
	if *passwd != "" {
		creds.Password = passwd
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var err error
	if *useWS {
		err = runWRAC(ctx, creds)
	} else {
		err = runRAC(ctx, creds)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runRAC(ctx context.Context, creds protocol.Credentials) error {
	client := rac.New(*serverAddr, creds, *useTLS)

	if *register {
		if err := client.Register(ctx); err != nil {
			return err
		}
		fmt.Printf("Registered %s on %s\n", *username, *serverAddr)
		return nil
	}

	return sendMessage(ctx, client)
}

func runWRAC(ctx context.Context, creds protocol.Credentials) error {
	client := wrac.New(*serverAddr, creds, *useTLS)
	if err := client.Prepare(ctx); err != nil {
		return err
	}
	defer client.Reset()

	if *register {
		if err := client.Register(ctx); err != nil {
			return err
		}
		fmt.Printf("Registered %s on %s\n", *username, *serverAddr)
		return nil
	}

	return sendMessage(ctx, client)
}

// sender covers both transport bindings for the send path.
type sender interface {
	Send(ctx context.Context, message string) error
}

func sendMessage(ctx context.Context, client sender) error {
	message := flag.Arg(0)
	if message == "" {
		fmt.Fprintln(os.Stderr, "usage: rac-send [flags] <message>")
		os.Exit(2)
	}

	if err := client.Send(ctx, message); err != nil {
		return err
	}
	fmt.Println("Sent.")
	return nil
}
