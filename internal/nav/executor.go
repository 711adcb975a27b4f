package nav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/browser"
)

// ErrNoLoginFlow is returned when a login intent reaches an executor that has
// no login flow configured.
var ErrNoLoginFlow = errors.New("no login flow configured")

// Executor carries out navigation intents.
type Executor interface {
	Navigate(ctx context.Context, intent Intent) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, intent Intent) error

func (f ExecutorFunc) Navigate(ctx context.Context, intent Intent) error { return f(ctx, intent) }

// LoginFunc runs the login entry point and resumes returnRoute afterwards.
type LoginFunc func(ctx context.Context, returnRoute string) error

// OpenURLFunc opens an external URL.
type OpenURLFunc func(url string) error

// Browser is the default Executor: external URLs open in the system browser
// and login intents run the local login flow.
type Browser struct {
	Login LoginFunc
	// Open defaults to browser.OpenURL.
	Open OpenURLFunc
	// PrintOnly prints external URLs instead of opening them.
	PrintOnly bool
	// Out receives printed URLs. Defaults to os.Stderr.
	Out io.Writer
}

func (b *Browser) out() io.Writer {
	if b.Out != nil {
		return b.Out
	}
	return os.Stderr
}

func (b *Browser) Navigate(ctx context.Context, intent Intent) error {
	switch intent.Kind {
	case KindNone:
		return nil
	case KindLogin:
		if b.Login == nil {
			return ErrNoLoginFlow
		}
		log.Debug("Redirecting to login", "route", intent.ReturnRoute)
		return b.Login(ctx, intent.ReturnRoute)
	case KindExternal:
		if b.PrintOnly {
			fmt.Fprintln(b.out(), intent.URL)
			return nil
		}
		open := b.Open
		if open == nil {
			open = browser.OpenURL
		}
		log.Debug("Opening external URL in browser")
		if err := open(intent.URL); err != nil {
			// Show URL on error so the user can open it manually.
			fmt.Fprintf(b.out(), "Failed to open browser: %v\nPlease open this URL manually:\n%s\n", err, intent.URL)
			return fmt.Errorf("failed to open browser: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown navigation kind %d", intent.Kind)
	}
}
