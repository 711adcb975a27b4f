package clipboard

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauchoracing/aamctl/internal/notify"
)

// fakeClock fires callbacks only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d, firing due timers in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at < c.timers[j].at })
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= target {
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		c.mu.Lock()
		c.now = t.at
		t.fired = true
		c.mu.Unlock()
		t.f()
	}

	c.mu.Lock()
	c.now = target
	c.mu.Unlock()
}

type recorder struct {
	written []string
	notes   []notify.Notification
	changes []string
}

func newController(t *testing.T, writeErr error) (*Controller, *fakeClock, *recorder) {
	t.Helper()
	clk := &fakeClock{}
	rec := &recorder{}
	c := New(
		WithClock(clk),
		WithWriter(func(s string) error {
			if writeErr != nil {
				return writeErr
			}
			rec.written = append(rec.written, s)
			return nil
		}),
		WithNotifier(notify.Func(func(n notify.Notification) { rec.notes = append(rec.notes, n) })),
		WithOnChange(func(active string) { rec.changes = append(rec.changes, active) }),
	)
	return c, clk, rec
}

func TestCopyRevertsAfterDelay(t *testing.T) {
	c, clk, rec := newController(t, nil)

	c.Copy("wJalrXUtnFEMI", "Secret Access Key")
	assert.Equal(t, "Secret Access Key", c.Active())
	assert.Equal(t, []string{"wJalrXUtnFEMI"}, rec.written)
	require.Len(t, rec.notes, 1)
	assert.Equal(t, notify.Notification{Kind: notify.KindSuccess, Message: "Secret Access Key copied to clipboard!"}, rec.notes[0])

	clk.Advance(1999 * time.Millisecond)
	assert.Equal(t, "Secret Access Key", c.Active())

	clk.Advance(time.Millisecond)
	assert.Empty(t, c.Active())
	assert.Equal(t, []string{"Secret Access Key", ""}, rec.changes)
}

func TestSecondCopySupersedesFirst(t *testing.T) {
	c, clk, rec := newController(t, nil)

	c.Copy("AKIA", "Access Key ID")
	clk.Advance(1500 * time.Millisecond)

	c.Copy("token", "Session Token")
	assert.Equal(t, "Session Token", c.Active())

	// The first copy's 2000 ms mark passes without effect.
	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, "Session Token", c.Active())

	clk.Advance(1499 * time.Millisecond)
	assert.Equal(t, "Session Token", c.Active())

	// The second copy reverts at its own 2000 ms mark.
	clk.Advance(time.Millisecond)
	assert.Empty(t, c.Active())
	assert.Equal(t, []string{"Access Key ID", "Session Token", ""}, rec.changes)
}

func TestRecopySameFieldRestartsTimer(t *testing.T) {
	c, clk, _ := newController(t, nil)

	c.Copy("AKIA", "Access Key ID")
	clk.Advance(1000 * time.Millisecond)
	c.Copy("AKIA", "Access Key ID")

	clk.Advance(1000 * time.Millisecond)
	assert.Equal(t, "Access Key ID", c.Active(), "stale timer must not clear a fresh copy")

	clk.Advance(1000 * time.Millisecond)
	assert.Empty(t, c.Active())
}

func TestPreviousTimerIsStopped(t *testing.T) {
	c, clk, _ := newController(t, nil)

	c.Copy("a", "A")
	c.Copy("b", "B")

	require.Len(t, clk.timers, 2)
	assert.True(t, clk.timers[0].stopped)
	assert.False(t, clk.timers[1].stopped)
}

func TestCopyFailureKeepsActiveField(t *testing.T) {
	c, _, rec := newController(t, errors.New("no clipboard utility"))

	c.Copy("AKIA", "Access Key ID")
	assert.Empty(t, c.Active())
	require.Len(t, rec.notes, 1)
	assert.Equal(t, notify.Notification{Kind: notify.KindError, Message: "Failed to copy to clipboard"}, rec.notes[0])
	assert.Empty(t, rec.changes)
}

func TestCopyFailureDoesNotClearPreviousField(t *testing.T) {
	clk := &fakeClock{}
	fail := false
	c := New(WithClock(clk), WithWriter(func(string) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	}))

	c.Copy("a", "A")
	fail = true
	c.Copy("b", "B")
	assert.Equal(t, "A", c.Active())
}

func TestClose(t *testing.T) {
	c, clk, _ := newController(t, nil)

	c.Copy("a", "A")
	c.Close()
	clk.Advance(RevertDelay)
	assert.Equal(t, "A", c.Active(), "closed controller schedules nothing")
}
