package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauchoracing/aamctl/internal"
	"github.com/gauchoracing/aamctl/internal/backend"
)

type fakeUsers struct {
	calls int
	user  *backend.User
	err   error
}

func (f *fakeUsers) CurrentUser(_ context.Context, token string) (*backend.User, error) {
	f.calls++
	return f.user, f.err
}

func newSession(t *testing.T, token string) *internal.Session {
	t.Helper()
	s := internal.NewSession(internal.NewMemoryStore(), internal.DefaultTokenKey)
	if token != "" {
		require.NoError(t, s.SetToken(token))
	}
	return s
}

func TestBackendCheckerNoToken(t *testing.T) {
	users := &fakeUsers{}
	c := &BackendChecker{Session: newSession(t, ""), Users: users}

	assert.Equal(t, StatusNoToken, c.Check(context.Background()))
	assert.Zero(t, users.calls, "no request without a token")
}

func TestBackendCheckerValid(t *testing.T) {
	sess := newSession(t, "tok")
	users := &fakeUsers{user: &backend.User{ID: "7"}}
	c := &BackendChecker{Session: sess, Users: users}

	assert.Equal(t, StatusValid, c.Check(context.Background()))
	require.NotNil(t, sess.User())
	assert.Equal(t, "7", sess.User().ID)
}

func TestBackendCheckerRejected(t *testing.T) {
	sess := newSession(t, "tok")
	c := &BackendChecker{Session: sess, Users: &fakeUsers{err: &backend.HTTPError{StatusCode: http.StatusUnauthorized}}}

	assert.Equal(t, StatusRejected, c.Check(context.Background()))
	assert.Nil(t, sess.User())
}

func TestBackendCheckerUnreachable(t *testing.T) {
	c := &BackendChecker{Session: newSession(t, "tok"), Users: &fakeUsers{err: errors.New("dial tcp: connection refused")}}
	assert.Equal(t, StatusUnreachable, c.Check(context.Background()))
}
