// ABOUTME: Main chat application orchestration
// ABOUTME: Coordinates engine, discovery, polling, and the TUI
package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/rac-protocol/rac-go/internal/discovery"
	"github.com/rac-protocol/rac-go/internal/ui"
	"github.com/rac-protocol/rac-go/pkg/protocol"
	"github.com/rac-protocol/rac-go/pkg/rac"
	"github.com/rac-protocol/rac-go/pkg/wrac"
)

// Engine is the protocol capability the chat app consumes. Both the
// stream client (pkg/rac) and the WebSocket client (pkg/wrac)
// satisfy it.
type Engine interface {
	TestConnection(ctx context.Context) error
	Register(ctx context.Context) error
	FetchAll(ctx context.Context) ([]string, error)
	FetchDelta(ctx context.Context) ([]string, error)
	Send(ctx context.Context, message string) error
	Reset()
	Cursor() int
	Address() string
	Username() string
}

// preparer is the optional persistent-connection lifecycle the WRAC
// engine adds on top of Engine.
type preparer interface {
	Prepare(ctx context.Context) error
}

// Config holds chat application configuration
type Config struct {
	ServerAddr   string
	Username     string
	Password     *string
	UseTLS       bool
	UseWebSocket bool
	PollInterval time.Duration
	UseTUI       bool
}

// Chat represents the main chat application
type Chat struct {
	config Config

	// mu serializes engine operations and reassignment. The engines
	// allow at most one operation in flight per session; the poll,
	// send, and discovery goroutines all go through this lock.
	mu     sync.Mutex
	engine Engine

	discovery *discovery.Manager
	controls  *ui.Controls
	tuiProg   *tea.Program
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a new chat application. An empty username gets a
// generated guest identity.
func New(config Config) *Chat {
	ctx, cancel := context.WithCancel(context.Background())

	if config.Username == "" {
		config.Username = "guest-" + uuid.New().String()[:8]
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 2 * time.Second
	}

	c := &Chat{
		config:   config,
		controls: ui.NewControls(),
		ctx:      ctx,
		cancel:   cancel,
	}
	c.engine = c.newEngine(config.ServerAddr)
	return c
}

// newEngine picks the transport binding for the configured mode.
func (c *Chat) newEngine(addr string) Engine {
	creds := protocol.Credentials{
		Username: c.config.Username,
		Password: c.config.Password,
	}
	if c.config.UseWebSocket {
		return wrac.New(addr, creds, c.config.UseTLS)
	}
	return rac.New(addr, creds, c.config.UseTLS)
}

// Start starts the chat application and blocks until it stops.
func (c *Chat) Start() error {
	if c.config.UseTUI {
		tuiProg, err := ui.Run(c.controls)
		if err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}
		c.tuiProg = tuiProg

		go func() {
			defer c.cancel()
			if _, err := c.tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()
	}

	go c.handleSends()
	go c.handleQuit()

	if c.config.ServerAddr == "" {
		c.discovery = discovery.NewManager()
		c.discovery.Browse()
		go c.handleDiscovery()
	} else {
		if err := c.connect(c.config.ServerAddr); err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
	}

	<-c.ctx.Done()
	return nil
}

// Stop shuts the application down and releases the engine.
func (c *Chat) Stop() {
	c.cancel()
	if c.discovery != nil {
		c.discovery.Stop()
	}
	c.mu.Lock()
	c.engine.Reset()
	c.mu.Unlock()
}

// handleDiscovery waits for a server to appear on the local network.
func (c *Chat) handleDiscovery() {
	for {
		select {
		case server := <-c.discovery.Servers():
			addr := fmt.Sprintf("%s:%d", server.Host, server.Port)
			log.Printf("Attempting connection to %s", addr)

			if err := c.connect(addr); err != nil {
				log.Printf("Connection failed: %v", err)
				continue
			}
			return

		case <-c.ctx.Done():
			return
		}
	}
}

// connect verifies the server, loads the backlog, and starts polling.
// The lock covers engine replacement through the backlog fetch, so
// in-flight sends from a previous engine cannot interleave with the
// handshake.
func (c *Chat) connect(addr string) error {
	c.mu.Lock()
	c.engine = c.newEngine(addr)

	var err error
	if p, ok := c.engine.(preparer); ok {
		err = p.Prepare(c.ctx)
	} else {
		err = c.engine.TestConnection(c.ctx)
	}
	if err != nil {
		c.mu.Unlock()
		return err
	}

	backlog, err := c.engine.FetchAll(c.ctx)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to fetch backlog: %w", err)
	}

	log.Printf("Connected to server: %s", addr)
	c.pushStatus(true, "")
	c.pushMessages(backlog)

	go c.pollLoop()
	return nil
}

// fetchDelta runs a delta fetch under the session lock.
func (c *Chat) fetchDelta() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.FetchDelta(c.ctx)
}

// send delivers one formatted line under the session lock.
func (c *Chat) send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Send(c.ctx, c.outgoing(text))
}

// engineAddress reads the current engine's address under the session
// lock.
func (c *Chat) engineAddress() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Address()
}

// pollLoop fetches message deltas on a ticker.
func (c *Chat) pollLoop() {
	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			messages, err := c.fetchDelta()
			if err != nil {
				log.Printf("Poll error: %v", err)
				c.pushStatus(true, err.Error())
				continue
			}
			if len(messages) > 0 {
				c.pushMessages(messages)
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleSends delivers composed messages to the server.
func (c *Chat) handleSends() {
	for {
		select {
		case text := <-c.controls.Sends:
			if err := c.send(text); err != nil {
				log.Printf("Send error: %v", err)
				c.pushStatus(true, err.Error())
				continue
			}

			// Pull the echo promptly instead of waiting a poll tick.
			if messages, err := c.fetchDelta(); err == nil {
				c.pushMessages(messages)
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// outgoing formats a composed line for the wire. Authenticated
// servers attribute messages themselves; anonymous sends carry the
// conventional <username> prefix.
func (c *Chat) outgoing(text string) string {
	if c.config.Password != nil {
		return text
	}
	return fmt.Sprintf("<{username}> %s", text)
}

// handleQuit reacts to the TUI quit key.
func (c *Chat) handleQuit() {
	select {
	case <-c.controls.Quit:
		c.cancel()
	case <-c.ctx.Done():
	}
}

// pushStatus updates the TUI header.
func (c *Chat) pushStatus(connected bool, errText string) {
	transport := "RAC"
	if c.config.UseWebSocket {
		transport = "WRAC"
	}

	if c.tuiProg == nil {
		return
	}
	c.tuiProg.Send(ui.StatusMsg{
		Connected:  &connected,
		ServerAddr: c.engineAddress(),
		Transport:  transport,
		Username:   c.config.Username,
		Err:        errText,
	})
}

// pushMessages appends fetched lines to the TUI, or logs them in
// no-TUI mode.
func (c *Chat) pushMessages(lines []string) {
	if len(lines) == 0 {
		return
	}
	if c.tuiProg == nil {
		for _, line := range lines {
			log.Printf("%s", line)
		}
		return
	}
	c.tuiProg.Send(ui.MessagesMsg{Lines: lines})
}
