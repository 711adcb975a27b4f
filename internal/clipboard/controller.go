// Package clipboard copies credential fields to the system clipboard and
// tracks which field currently shows as copied.
package clipboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"

	"github.com/gauchoracing/aamctl/internal/notify"
)

// RevertDelay is how long a field shows as copied.
const RevertDelay = 2000 * time.Millisecond

// WriteFunc writes text to the clipboard.
type WriteFunc func(text string) error

// Controller tracks the copied field. At most one field is active; a new
// successful copy replaces the previous one and cancels its reversion.
type Controller struct {
	clock    Clock
	write    WriteFunc
	notifier notify.Notifier
	onChange func(active string)

	mu     sync.Mutex
	active string
	timer  Timer
	gen    uint64
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(c Clock) Option { return func(ctl *Controller) { ctl.clock = c } }

func WithWriter(w WriteFunc) Option { return func(ctl *Controller) { ctl.write = w } }

func WithNotifier(n notify.Notifier) Option { return func(ctl *Controller) { ctl.notifier = n } }

// WithOnChange registers a callback run after every change of the active
// field, outside the controller's lock.
func WithOnChange(f func(active string)) Option {
	return func(ctl *Controller) { ctl.onChange = f }
}

func New(opts ...Option) *Controller {
	c := &Controller{
		clock:    realClock{},
		write:    clipboard.WriteAll,
		notifier: notify.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Active returns the key of the field currently shown as copied, or "".
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Copy writes value to the clipboard and marks fieldKey as copied for
// RevertDelay. On failure the active field is left unchanged.
func (c *Controller) Copy(value, fieldKey string) {
	if err := c.write(value); err != nil {
		log.Debug("Clipboard write failed", "field", fieldKey, "error", err)
		c.notifier.Error("Failed to copy to clipboard")
		return
	}

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.active = fieldKey
	c.timer = c.clock.AfterFunc(RevertDelay, func() { c.revert(fieldKey, gen) })
	c.mu.Unlock()

	c.changed(fieldKey)
	c.notifier.Success(fmt.Sprintf("%s copied to clipboard!", fieldKey))
}

// revert clears the active field if it is still the one copy gen set.
func (c *Controller) revert(fieldKey string, gen uint64) {
	c.mu.Lock()
	if c.gen != gen || c.active != fieldKey {
		c.mu.Unlock()
		return
	}
	c.active = ""
	c.timer = nil
	c.mu.Unlock()

	c.changed("")
}

// Close cancels a pending reversion.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) changed(active string) {
	if c.onChange != nil {
		c.onChange(active)
	}
}
