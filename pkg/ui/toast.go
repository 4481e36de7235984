package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastLevel selects toast styling.
type toastLevel int

const (
	toastInfo toastLevel = iota
	toastError
)

// toast is a transient user-visible notification.
type toast struct {
	level   toastLevel
	title   string
	message string
}

// toastExpiredMsg clears the current toast after its display time.
type toastExpiredMsg struct{ seq int }

const toastDuration = 4 * time.Second

// toastState holds the currently displayed toast, if any. seq invalidates
// stale expiry messages after a newer toast replaced the old one.
type toastState struct {
	current *toast
	seq     int
}

// show replaces the current toast and returns the expiry command.
func (t *toastState) show(level toastLevel, title, message string) tea.Cmd {
	t.current = &toast{level: level, title: title, message: message}
	t.seq++
	seq := t.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// expire clears the toast if the expiry matches the one that scheduled it.
func (t *toastState) expire(msg toastExpiredMsg) {
	if msg.seq == t.seq {
		t.current = nil
	}
}

// view renders the toast, or an empty string when none is showing.
func (t *toastState) view() string {
	if t.current == nil {
		return ""
	}
	body := t.current.title
	if t.current.message != "" {
		body += ": " + t.current.message
	}
	if t.current.level == toastError {
		return toastErrorStyle.Render(body)
	}
	return toastInfoStyle.Render(body)
}
