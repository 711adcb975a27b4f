package internal

import (
	"fmt"
	"sync"

	"github.com/gauchoracing/aamctl/internal/backend"
)

// DefaultTokenKey is the storage key of the identity token.
const DefaultTokenKey = "sentinel_id_token"

// Session is the client session for one program run. It is created at
// start-up, handed to every component that needs the identity token or the
// current user, and invalidated on logout.
type Session struct {
	store Store
	key   string

	mu   sync.RWMutex
	user *backend.User
}

// NewSession returns a session reading the identity token from store under key.
func NewSession(store Store, key string) *Session {
	if key == "" {
		key = DefaultTokenKey
	}
	return &Session{store: store, key: key}
}

// Token returns the identity token. ok is false when none is stored.
func (s *Session) Token() (token string, ok bool, err error) {
	token, ok, err = s.store.Get(s.key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read identity token: %w", err)
	}
	if token == "" {
		return "", false, nil
	}
	return token, ok, nil
}

// SetToken stores a new identity token and forgets the cached user.
func (s *Session) SetToken(token string) error {
	if err := s.store.Set(s.key, token); err != nil {
		return fmt.Errorf("failed to store identity token: %w", err)
	}
	s.SetUser(nil)
	return nil
}

// User returns the user confirmed by the last successful validity check.
func (s *Session) User() *backend.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) SetUser(u *backend.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// Invalidate logs the session out: the stored token and the user are cleared.
func (s *Session) Invalidate() error {
	s.SetUser(nil)
	if err := s.store.Delete(s.key); err != nil {
		return fmt.Errorf("failed to clear identity token: %w", err)
	}
	return nil
}
