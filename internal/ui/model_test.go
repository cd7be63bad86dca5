// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, message handling, and input editing
package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewModel(t *testing.T) {
	model := NewModel(nil)

	if model.connected {
		t.Error("expected connected to be false initially")
	}

	if len(model.messages) != 0 {
		t.Error("expected empty scrollback initially")
	}

	if model.input != "" {
		t.Error("expected empty input initially")
	}
}

func TestStatusMsgConnected(t *testing.T) {
	model := NewModel(nil)

	connected := true
	msg := StatusMsg{
		Connected:  &connected,
		ServerAddr: "chat.example.org:42666",
		Transport:  "RAC",
		Username:   "alice",
	}

	model.applyStatus(msg)

	if !model.connected {
		t.Error("expected connected to be true after status update")
	}

	if model.serverAddr != "chat.example.org:42666" {
		t.Errorf("expected server addr preserved, got '%s'", model.serverAddr)
	}

	if model.username != "alice" {
		t.Errorf("expected username 'alice', got '%s'", model.username)
	}
}

func TestStatusMsgDisconnected(t *testing.T) {
	model := NewModel(nil)

	connected := true
	model.applyStatus(StatusMsg{Connected: &connected})

	disconnected := false
	model.applyStatus(StatusMsg{Connected: &disconnected})

	if model.connected {
		t.Error("expected connected to be false after disconnect")
	}
}

func TestStatusMsgError(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{Err: "incorrect password"})
	if model.lastErr != "incorrect password" {
		t.Errorf("expected error retained, got '%s'", model.lastErr)
	}

	// A later status without an error clears it.
	model.applyStatus(StatusMsg{})
	if model.lastErr != "" {
		t.Errorf("expected error cleared, got '%s'", model.lastErr)
	}
}

func TestAppendMessages(t *testing.T) {
	model := NewModel(nil)

	model.appendMessages([]string{"<alice> hi", "<bob> hello"})

	if len(model.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(model.messages))
	}

	if model.messages[0] != "<alice> hi" {
		t.Errorf("unexpected first message: %s", model.messages[0])
	}
}

func TestAppendMessagesBoundsHistory(t *testing.T) {
	model := NewModel(nil)

	lines := make([]string, maxHistory+50)
	for i := range lines {
		lines[i] = "line"
	}
	model.appendMessages(lines)

	if len(model.messages) != maxHistory {
		t.Errorf("expected scrollback capped at %d, got %d", maxHistory, len(model.messages))
	}
}

func TestEnterSendsInput(t *testing.T) {
	controls := NewControls()
	model := NewModel(controls)

	typed, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello")})
	model = typed.(Model)

	sent, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = sent.(Model)

	select {
	case text := <-controls.Sends:
		if text != "hello" {
			t.Errorf("expected 'hello' on send channel, got '%s'", text)
		}
	default:
		t.Fatal("expected a message on the send channel")
	}

	if model.input != "" {
		t.Errorf("expected input cleared after send, got '%s'", model.input)
	}
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	controls := NewControls()
	model := NewModel(controls)

	sent, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_ = sent

	select {
	case text := <-controls.Sends:
		t.Errorf("expected nothing sent for blank input, got '%s'", text)
	default:
	}
}

func TestBackspaceEditsInput(t *testing.T) {
	model := NewModel(nil)

	typed, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hiya")})
	model = typed.(Model)

	erased, _ := model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	model = erased.(Model)

	if model.input != "hiy" {
		t.Errorf("expected 'hiy' after backspace, got '%s'", model.input)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected passthrough, got '%s'", got)
	}

	if got := truncate("a very long chat line", 10); got != "a very ..." {
		t.Errorf("expected truncation with ellipsis, got '%s'", got)
	}
}

func TestTruncateMultibyte(t *testing.T) {
	// Cutting on byte offsets would split the third rune here.
	if got := truncate("привет мир", 5); got != "пр..." {
		t.Errorf("expected rune-level truncation, got '%s'", got)
	}

	if got := truncate("日本語", 3); got != "日本語" {
		t.Errorf("expected three-rune string untouched at max 3, got '%s'", got)
	}

	if got := truncate("日本語です", 2); got != "日本" {
		t.Errorf("expected hard rune cut below ellipsis width, got '%s'", got)
	}
}
