// ABOUTME: Bubbletea model for the chat TUI
// ABOUTME: Defines application state, input handling, and rendering
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// maxHistory bounds the scrollback kept in memory.
const maxHistory = 500

// Model represents the TUI state
type Model struct {
	// Connection
	connected  bool
	serverAddr string
	transport  string
	username   string

	// Chat
	messages []string
	input    string
	lastErr  string

	// Controls
	controls *Controls

	// Dimensions
	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	case MessagesMsg:
		m.appendMessages(msg.Lines)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderMessages()
	s += m.renderInput()
	s += m.renderHelp()

	return s
}

// renderHeader renders connection status
func (m Model) renderHeader() string {
	connStatus := "Disconnected"
	if m.connected {
		connStatus = fmt.Sprintf("Connected to %s (%s)", m.serverAddr, m.transport)
	}

	return fmt.Sprintf(`┌─ RAC Chat ───────────────────────────────────────────┐
│ Status: %-45s │
│ User:   %-45s │
├──────────────────────────────────────────────────────┤
`, truncate(connStatus, 45), truncate(m.username, 45))
}

// renderMessages renders the visible tail of the chat log
func (m Model) renderMessages() string {
	visible := m.height - 8
	if visible < 1 {
		visible = 10
	}

	start := 0
	if len(m.messages) > visible {
		start = len(m.messages) - visible
	}

	s := ""
	for _, line := range m.messages[start:] {
		s += fmt.Sprintf("│ %-52s │\n", truncate(line, 52))
	}
	for i := len(m.messages) - start; i < visible; i++ {
		s += "│                                                      │\n"
	}

	return s
}

// renderInput renders the compose line and any pending error
func (m Model) renderInput() string {
	s := "├──────────────────────────────────────────────────────┤\n"
	s += fmt.Sprintf("│ > %-50s │\n", truncate(m.input, 50))
	if m.lastErr != "" {
		s += fmt.Sprintf("│ ! %-50s │\n", truncate(m.lastErr, 50))
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ enter:Send  esc:Clear  ctrl+c:Quit                  │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.controls != nil {
			select {
			case m.controls.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case tea.KeyEsc:
		m.input = ""
		m.lastErr = ""
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input)
		if text != "" && m.controls != nil {
			select {
			case m.controls.Sends <- text:
			default:
			}
		}
		m.input = ""
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Connected != nil {
		m.connected = *msg.Connected
	}
	if msg.ServerAddr != "" {
		m.serverAddr = msg.ServerAddr
	}
	if msg.Transport != "" {
		m.transport = msg.Transport
	}
	if msg.Username != "" {
		m.username = msg.Username
	}
	m.lastErr = msg.Err
}

// appendMessages adds fetched chat lines to the scrollback
func (m *Model) appendMessages(lines []string) {
	m.messages = append(m.messages, lines...)
	if len(m.messages) > maxHistory {
		m.messages = m.messages[len(m.messages)-maxHistory:]
	}
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Connected  *bool
	ServerAddr string
	Transport  string
	Username   string
	Err        string
}

// MessagesMsg delivers newly fetched chat lines
type MessagesMsg struct {
	Lines []string
}

// truncate shortens a string to fit a column without splitting a
// multibyte rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
