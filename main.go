// ABOUTME: Entry point for the RAC chat client
// ABOUTME: Parses flags and config, sets up logging, and starts the app
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/rac-protocol/rac-go/internal/app"
	"github.com/rac-protocol/rac-go/internal/version"
)

var (
	serverAddr = flag.String("server", "", "Server address (host:port or ws:// URL; empty triggers mDNS discovery)")
	username   = flag.String("user", "", "Username (default: generated guest identity)")
	passwd     = flag.String("password", "", "Password for RACv2 authenticated mode")
	useTLS     = flag.Bool("tls", false, "Use TLS for the connection")
	useWS      = flag.Bool("websocket", false, "Use the WRAC WebSocket transport")
	pollMs     = flag.Int("poll-ms", 2000, "Message poll interval in milliseconds")
	configPath = flag.String("config", "", "Optional YAML config file")
	logFile    = flag.String("log-file", "rac-chat.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		multiWriter := io.MultiWriter(os.Stdout, f)
		log.SetOutput(multiWriter)
	}

	config := app.Config{
		ServerAddr:   *serverAddr,
		Username:     *username,
		UseTLS:       *useTLS,
		UseWebSocket: *useWS,
		PollInterval: time.Duration(*pollMs) * time.Millisecond,
		UseTUI:       useTUI,
	}
	if *passwd != "" {
		config.Password = passwd
	}

	if *configPath != "" {
		if err := loadConfig(*configPath, &config); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	chat := app.New(config)

	// Shut down cleanly on interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		chat.Stop()
	}()

	if err := chat.Start(); err != nil {
		log.Fatalf("Chat error: %v", err)
	}

	fmt.Println("Goodbye.")
}

// loadConfig overlays a YAML config file onto flag-provided settings.
// Flags act as defaults; the file wins where it sets a value.
func loadConfig(path string, config *app.Config) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if v.IsSet("server") {
		config.ServerAddr = v.GetString("server")
	}
	if v.IsSet("username") {
		config.Username = v.GetString("username")
	}
	if v.IsSet("password") {
		pw := v.GetString("password")
		config.Password = &pw
	}
	if v.IsSet("tls") {
		config.UseTLS = v.GetBool("tls")
	}
	if v.IsSet("websocket") {
		config.UseWebSocket = v.GetBool("websocket")
	}
	if v.IsSet("poll_interval") {
		config.PollInterval = v.GetDuration("poll_interval")
	}

	return nil
}
