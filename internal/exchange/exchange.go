// Package exchange trades the held identity token for a short-lived IAM
// credential set and decides the console hand-off.
package exchange

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/gauchoracing/aamctl/internal"
	"github.com/gauchoracing/aamctl/internal/backend"
	"github.com/gauchoracing/aamctl/internal/nav"
)

var (
	// ErrInFlight is returned when an exchange is already running.
	ErrInFlight = errors.New("credential exchange already in flight")
	// ErrDiscarded is returned when the caller's context ended before the
	// response arrived. No state is committed.
	ErrDiscarded = errors.New("credential exchange discarded")
)

// State is the view state driven by the exchange.
type State struct {
	Loading     bool
	Error       string
	Credentials *backend.IamCredentialSet
}

// Ready reports whether credentials are available to display.
func (s State) Ready() bool {
	return !s.Loading && s.Error == "" && s.Credentials != nil
}

// Result is the raw outcome of one exchange attempt.
type Result struct {
	NoToken     bool
	Credentials *backend.IamCredentialSet
	Err         error
}

// Decide maps an exchange result to the view state and the navigation that
// must follow. It has no side effects.
func Decide(r Result) (State, nav.Intent) {
	switch {
	case r.NoToken:
		return State{Loading: true}, nav.Login("")
	case r.Err != nil:
		return State{Error: backend.ErrorMessage(r.Err)}, nav.None()
	case r.Credentials == nil:
		return State{Error: "The server returned no credentials."}, nav.None()
	case r.Credentials.LoginURL == "":
		return State{Credentials: r.Credentials}, nav.None()
	default:
		return State{Credentials: r.Credentials}, nav.External(r.Credentials.LoginURL)
	}
}

// Exchanger issues the credential exchange request.
type Exchanger interface {
	IAMLogin(ctx context.Context, token string) (*backend.IamCredentialSet, error)
}

// Client runs credential exchanges for one view. At most one exchange is in
// flight at a time.
type Client struct {
	session   *internal.Session
	exchanger Exchanger

	mu       sync.Mutex
	inFlight bool
	state    State
}

func NewClient(session *internal.Session, exchanger Exchanger) *Client {
	return &Client{
		session:   session,
		exchanger: exchanger,
		state:     State{Loading: true},
	}
}

// State returns the last committed state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FetchCredentials exchanges the session's identity token for credentials.
// It must only run after the auth gate let the caller through. Without a
// token the session is logged out and a login intent returned; no request is
// made.
func (c *Client) FetchCredentials(ctx context.Context) (State, nav.Intent, error) {
	c.mu.Lock()
	if c.inFlight {
		st := c.state
		c.mu.Unlock()
		return st, nav.None(), ErrInFlight
	}
	c.inFlight = true
	c.state = State{Loading: true}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	result := c.exchange(ctx)
	if ctx.Err() != nil {
		log.Debug("Dropping credential exchange result", "reason", ctx.Err())
		return c.State(), nav.None(), ErrDiscarded
	}

	st, intent := Decide(result)
	c.mu.Lock()
	c.state = st
	c.mu.Unlock()
	return st, intent, nil
}

func (c *Client) exchange(ctx context.Context) Result {
	token, ok, err := c.session.Token()
	if err != nil {
		log.Warn("Failed to read identity token", "error", err)
	}
	if !ok {
		if err := c.session.Invalidate(); err != nil {
			log.Warn("Logout failed", "error", err)
		}
		return Result{NoToken: true}
	}

	creds, err := c.exchanger.IAMLogin(ctx, token)
	if err != nil {
		log.Debug("Credential exchange failed", "error", err)
		return Result{Err: err}
	}
	log.Info("Received IAM credentials", "role", creds.AssumedRoleArn, "expires", creds.Expiration)
	return Result{Credentials: creds}
}
