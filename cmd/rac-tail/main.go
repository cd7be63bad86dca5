// ABOUTME: Follows a RAC server's message log on stdout
// ABOUTME: Prints the backlog, then polls for deltas until interrupted
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rac-protocol/rac-go/pkg/protocol"
	"github.com/rac-protocol/rac-go/pkg/rac"
)

var (
	serverAddr = flag.String("server", "localhost:42666", "Server address")
	useTLS     = flag.Bool("tls", false, "Use TLS for the connection")
	pollMs     = flag.Int("poll-ms", 2000, "Poll interval in milliseconds")
	skipLog    = flag.Bool("new-only", false, "Skip the backlog, print only new messages")
)

func main() {
	flag.Parse()

	client := rac.New(*serverAddr, protocol.Credentials{Username: "tail"}, *useTLS)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if *skipLog {
		// Just move the cursor to the end of the log.
		if _, err := client.FetchSize(ctx); err != nil {
			log.Fatalf("Failed to fetch log size: %v", err)
		}
	} else {
		backlog, err := client.FetchAll(ctx)
		if err != nil {
			log.Fatalf("Failed to fetch backlog: %v", err)
		}
		for _, line := range backlog {
			fmt.Println(line)
		}
	}

	ticker := time.NewTicker(time.Duration(*pollMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			messages, err := client.FetchDelta(ctx)
			if err != nil {
				log.Printf("Poll error: %v", err)
				continue
			}
			for _, line := range messages {
				fmt.Println(line)
			}

		case <-ctx.Done():
			return
		}
	}
}
