// ABOUTME: RAC response decoding helpers
// ABOUTME: Null stripping, size parsing, message splitting, status mapping
package protocol

import (
	"bytes"
	"strconv"
	"strings"
)

// StripNulls removes null padding bytes from a response buffer. Some
// deployments pad frames with 0x00, so every read path that expects
// text must strip them before UTF-8 decoding or integer parsing.
func StripNulls(buf []byte) []byte {
	if !bytes.ContainsRune(buf, 0) {
		return buf
	}
	out := make([]byte, 0, len(buf))
	for _, b := range buf {
		if b != 0 {
			out = append(out, b)
		}
	}
	return out
}

// ParseSize decodes a message-log size response: null-stripped,
// whitespace-trimmed ASCII decimal.
func ParseSize(buf []byte) (int, error) {
	text := strings.TrimSpace(string(StripNulls(buf)))
	size, err := strconv.Atoi(text)
	if err != nil {
		return 0, &ParseError{Input: text}
	}
	if size < 0 {
		return 0, &ParseError{Input: text}
	}
	return size, nil
}

// SplitMessages splits a message-log blob into individual messages.
// Null padding is stripped first and empty lines are discarded.
func SplitMessages(buf []byte) []string {
	lines := strings.Split(string(StripNulls(buf)), "\n")
	messages := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			messages = append(messages, line)
		}
	}
	return messages
}

// Status bytes returned on write and registration exchanges.
const (
	statusTakenOrUnknown byte = 0x01
	statusWrongPassword  byte = 0x02
)

// DecodeSendStatus maps the status reply of an authenticated send.
// An empty reply means the server accepted the message and closed the
// channel without answering.
func DecodeSendStatus(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	switch buf[0] {
	case statusTakenOrUnknown:
		return ErrUserDoesNotExist
	case statusWrongPassword:
		return ErrIncorrectPassword
	default:
		return &UnexpectedResponseError{Raw: buf}
	}
}

// DecodeRegisterStatus maps the status reply of a registration.
func DecodeRegisterStatus(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	switch buf[0] {
	case statusTakenOrUnknown:
		return ErrUsernameTaken
	default:
		return &UnexpectedResponseError{Raw: buf}
	}
}
