// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the chat UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Controls holds channels for chat input communication
type Controls struct {
	Sends chan string
	Quit  chan struct{}
}

// NewControls creates a new chat control handler
func NewControls() *Controls {
	return &Controls{
		Sends: make(chan string, 10),
		Quit:  make(chan struct{}, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls) Model {
	return Model{
		controls: controls,
	}
}

// Run starts the TUI
func Run(controls *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controls), tea.WithAltScreen())
	return p, nil
}
