package auth

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/gauchoracing/aamctl/internal"
	"github.com/gauchoracing/aamctl/internal/backend"
)

// UserFetcher resolves the user an identity token belongs to.
type UserFetcher interface {
	CurrentUser(ctx context.Context, token string) (*backend.User, error)
}

// BackendChecker checks the session's identity token against the backend's
// current-user endpoint and records the user on success.
type BackendChecker struct {
	Session *internal.Session
	Users   UserFetcher
}

func (c *BackendChecker) Check(ctx context.Context) Status {
	token, ok, err := c.Session.Token()
	if err != nil {
		log.Warn("Failed to read identity token", "error", err)
		return StatusNoToken
	}
	if !ok {
		return StatusNoToken
	}

	user, err := c.Users.CurrentUser(ctx, token)
	if err != nil {
		var httpErr *backend.HTTPError
		if errors.As(err, &httpErr) {
			log.Debug("Identity token rejected", "status", httpErr.StatusCode)
			return StatusRejected
		}
		log.Warn("Validity check failed", "error", err)
		return StatusUnreachable
	}

	c.Session.SetUser(user)
	log.Debug("Authenticated", "user", user.ID)
	return StatusValid
}
