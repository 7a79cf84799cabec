// Package notify carries transient, dismissable messages to the user.
package notify

import (
	"errors"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Level is the kind of notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows a short message to the user. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// MessageFrom returns the user-facing message carried by err (usually the
// backend's "message" field), or fallback when there is none.
func MessageFrom(err error, fallback string) string {
	var m interface{ UserMessage() string }
	if errors.As(err, &m) {
		if msg := m.UserMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}

// Console prints notifications as colored lines.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	successColor.Fprintln(c.out, "✔ "+msg)
}

func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	errorColor.Fprintln(c.out, "✖ "+msg)
}

// Notification is a single recorded message.
type Notification struct {
	Level   Level
	Message string
}

// Recorder keeps every notification in memory. It is used by tests and by
// callers that want to render notifications themselves.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }

func (r *Recorder) Error(msg string) { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Level: level, Message: msg})
}

// All returns a copy of the recorded notifications in order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}
