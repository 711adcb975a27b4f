// Package notify shows short, non-blocking user notifications.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Notifier shows transient success and error notifications.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Console writes notifications as single styled lines.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole returns a Console writing to out, or stderr when out is nil.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stderr
	}
	return &Console{out: out}
}

func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, successStyle.Render("✓ "+msg))
}

func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, errorStyle.Render("✗ "+msg))
}

// Kind tells success and error notifications apart.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// Notification is one queued message.
type Notification struct {
	Kind    Kind
	Message string
}

// Func adapts a function to Notifier.
type Func func(Notification)

func (f Func) Success(msg string) { f(Notification{Kind: KindSuccess, Message: msg}) }
func (f Func) Error(msg string)   { f(Notification{Kind: KindError, Message: msg}) }

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})
